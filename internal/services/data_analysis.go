package services

import (
	"github.com/fastbi/platform-deployer/internal/apperrors"
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/values"
)

// biChart resolves the Helm chart reference for a bi_system name, grounded
// on
// original_source/deployers/services/data_services/8.0_data_analysis.py's
// per-bi_system chart table. Each system maps to a chart of its own name in
// its own repo; an empty bi_system selects superset.
func biChart(biSystem, version string) (release.ChartRef, string, error) {
	switch biSystem {
	case "superset", "":
		return release.ChartRef{RepoName: "superset", RepoURL: "https://apache.github.io/superset", Name: "superset", Version: version}, "superset", nil
	case "lightdash":
		return release.ChartRef{RepoName: "lightdash", RepoURL: "https://lightdash.github.io/helm-charts", Name: "lightdash", Version: version}, "lightdash", nil
	case "metabase":
		return release.ChartRef{RepoName: "metabase", RepoURL: "https://pmint93.github.io/helm-charts", Name: "metabase", Version: version}, "metabase", nil
	case "looker":
		return release.ChartRef{RepoName: "looker", RepoURL: "https://looker.github.io/helm-charts", Name: "looker", Version: version}, "looker", nil
	default:
		return release.ChartRef{}, "", apperrors.New(apperrors.KindInputValidation, "unsupported bi_system: %s", biSystem)
	}
}

// BuildDataAnalysis composes the data-analysis ServiceSpec, grounded on
// original_source/deployers/services/data_services/8.0_data_analysis.py: a
// bi_system-selected BI chart, fronted by a local bitnami/postgresql
// release (a classic Helm repo chart here, not the OCI chart the other
// services use — the source installs the BI-dedicated database this way),
// plus a kube-core/raw extras release.
func BuildDataAnalysis(req BuildRequest) (orchestrator.ServiceSpec, error) {
	chart, appName, err := biChart(req.BISystem, req.Flags.ChartVersion)
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}

	dbPassword, err := fetchSecret(req, "password", "/data-analysis/database-secrets")
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}
	dsn := values.PostgresDSN(values.PostgresLocal, appName+"-postgresql", req.Flags.Namespace, appName, appName, dbPassword)

	postgresOutput := req.renderPath("postgresql-values.yaml")
	mainOutput := req.renderPath("values.yaml")
	extraOutput := req.renderPath("extras.yaml")

	postgresStep := &release.Step{
		Name: "data-analysis-postgresql",
		Chart: release.ChartRef{
			RepoName: "bitnami",
			RepoURL:  "https://charts.bitnami.com/bitnami",
			Name:     "postgresql",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   postgresOutput,
		WaitForHelm:  true,
		Timeout:      release.LightHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=postgresql",
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("postgresql-values.yaml.tmpl"), OutputPath: postgresOutput},
		},
	}
	mainStep := &release.Step{
		Name:         "data-analysis",
		Chart:        chart,
		Namespace:    req.Flags.Namespace,
		ValuesPath:   mainOutput,
		WaitForHelm:  true,
		Timeout:      release.HeavyHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=" + appName,
		WaitTimeout:  release.DefaultPodWaitTimeout,
		Templates: []release.TemplateSpec{
			{
				TemplatePath: req.templatePath("values.yaml.tmpl"),
				OutputPath:   mainOutput,
				Vars:         map[string]string{"DatabaseURL": dsn, "AppVersion": req.AppVersion},
			},
		},
	}
	extraStep := &release.Step{
		Name: "data-analysis-extras",
		Chart: release.ChartRef{
			RepoName: "kube-core",
			RepoURL:  "https://kube-core.github.io/helm-charts",
			Name:     "raw",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:  req.Flags.Namespace,
		ValuesPath: extraOutput,
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("extras.yaml.tmpl"), OutputPath: extraOutput},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "data-analysis",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{postgresStep, mainStep, extraStep},
		PrimaryStepIndex:      1,
		AppName:               appName,
	}, nil
}
