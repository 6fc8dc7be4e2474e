package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/values"
)

// BuildDataReplication composes the data-replication ServiceSpec, grounded
// on
// original_source/deployers/services/data_services/4.0_data_replication.py:
// an oauth2-proxy release fronting an airbyte/airbyte release, both in the
// data-replication namespace, with the database connection string always
// addressing the shared global PostgreSQL instance (spec.md §8, scenario 3:
// BigQuery destination, global Postgres).
func BuildDataReplication(req BuildRequest) (orchestrator.ServiceSpec, error) {
	dbPassword, err := fetchSecret(req, "password", "/data-replication/database-secrets")
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}

	dsn := values.PostgresDSN(values.PostgresGlobal, "", "", "airbyte", "airbyte", dbPassword)
	callbackURL := "https://airbyte." + req.Identity.RootDomain() + "/oauth2/callback"

	oauthOutput := req.renderPath("oauth-values.yaml")
	mainOutput := req.renderPath("values.yaml")

	oauthStep := &release.Step{
		Name: "data-replication-oauth",
		Chart: release.ChartRef{
			RepoName: "oauth2-proxy",
			RepoURL:  "https://oauth2-proxy.github.io/manifests",
			Name:     "oauth2-proxy",
			Version:  req.OAuthChartVersion,
		},
		Namespace:   req.Flags.Namespace,
		ValuesPath:  oauthOutput,
		WaitForHelm: true,
		Timeout:     release.LightHelmTimeout,
		Templates: []release.TemplateSpec{
			{
				TemplatePath: req.templatePath("oauth-values.yaml.tmpl"),
				OutputPath:   oauthOutput,
				Vars:         map[string]string{"CallbackURL": callbackURL},
			},
		},
	}

	mainStep := &release.Step{
		Name: "data-replication",
		Chart: release.ChartRef{
			RepoName: "airbyte",
			RepoURL:  "https://airbytehq.github.io/helm-charts",
			Name:     "airbyte",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   mainOutput,
		WaitForHelm:  true,
		Timeout:      release.HeavyHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=airbyte",
		WaitTimeout:  release.DefaultPodWaitTimeout,
		Templates: []release.TemplateSpec{
			{
				TemplatePath: req.templatePath("values.yaml.tmpl"),
				OutputPath:   mainOutput,
				Vars: map[string]string{
					"DatabaseURL":      dsn,
					"GCPProjectRegion": req.Identity.Region,
					"DestinationType":  req.DataReplicationDefaultDestinationType,
				},
			},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "data-replication",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{oauthStep, mainStep},
		PrimaryStepIndex:      1,
		AppName:               "airbyte",
	}, nil
}
