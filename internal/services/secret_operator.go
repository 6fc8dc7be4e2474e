package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
)

// BuildSecretOperator composes the secret-operator ServiceSpec, grounded on
// original_source/deployers/services/infra_services/1.0_secret_operator.py:
// an external-secrets operator release (local_vault method) or an Infisical
// secrets-operator release (external_infisical method), both in the
// "vault" namespace.
func BuildSecretOperator(req BuildRequest) (orchestrator.ServiceSpec, error) {
	var chart release.ChartRef
	switch req.Flags.Method {
	case "external_infisical":
		chart = release.ChartRef{
			RepoName: "infisical",
			RepoURL:  "https://dl.cloudsmith.io/public/infisical/helm-charts/helm/charts/",
			Name:     "secrets-operator",
			Version:  req.Flags.ChartVersion,
		}
	default:
		chart = release.ChartRef{
			RepoName: "external-secrets",
			RepoURL:  "https://charts.external-secrets.io",
			Name:     "external-secrets",
			Version:  req.Flags.ChartVersion,
		}
	}

	outputPath := req.renderPath("values.yaml")
	step := &release.Step{
		Name:        "secret-operator",
		Chart:       chart,
		Namespace:   req.Flags.Namespace,
		ValuesPath:  outputPath,
		WaitForHelm: true,
		Timeout:     release.LightHelmTimeout,
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("values.yaml.tmpl"), OutputPath: outputPath},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "secret-operator",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               chart.Name,
	}, nil
}
