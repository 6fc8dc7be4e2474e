package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
)

// BuildStackgresPostgresql composes the stackgres-postgresql ServiceSpec,
// grounded on
// original_source/deployers/services/infra_services/5.0_stackgres_postgresql.py:
// the stackgres-operator release in the global-postgresql namespace, the
// shared PostgreSQL instance every other service's PostgresGlobal topology
// addresses via the constant fastbi-global-psql host (internal/values).
func BuildStackgresPostgresql(req BuildRequest) (orchestrator.ServiceSpec, error) {
	outputPath := req.renderPath("values.yaml")
	step := &release.Step{
		Name: "stackgres-postgresql",
		Chart: release.ChartRef{
			RepoName: "stackgres-charts",
			RepoURL:  "https://stackgres.io/downloads/stackgres-k8s/stackgres/helm/",
			Name:     "stackgres-operator",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   outputPath,
		WaitForHelm:  true,
		Timeout:      release.LightHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=stackgres-operator",
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("values.yaml.tmpl"), OutputPath: outputPath},
		},
		PostApplyManifests: []string{req.templatePath("global-postgres-cluster.yaml")},
	}

	return orchestrator.ServiceSpec{
		Name:                  "stackgres-postgresql",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               "stackgres-operator",
	}, nil
}
