package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/values"
)

// BuildDataModeling composes the data-modeling ServiceSpec, grounded on
// original_source/deployers/services/data_services/6.0_data_modeling.py: a
// jupyterhub/jupyterhub release, preceded by a local bitnami/postgresql OCI
// release. The PostgreSQL release is always installed and the DSN always
// addresses it; the shared global instance is not used.
func BuildDataModeling(req BuildRequest) (orchestrator.ServiceSpec, error) {
	secrets, err := fetchSecrets(req,
		secretRequest{Key: "clientID", Name: "ClientID", Path: "/idp-sso/sso-clients-secrets/data-modeling"},
		secretRequest{Key: "clientSecret", Name: "ClientSecret", Path: "/idp-sso/sso-clients-secrets/data-modeling"},
		secretRequest{Key: "dbPassword", Name: "password", Path: "/data-modeling/database-secrets"},
	)
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}
	clientID, clientSecret, dbPassword := secrets["clientID"], secrets["clientSecret"], secrets["dbPassword"]

	dsn := values.PostgresDSN(values.PostgresLocal, "jupyterhub-postgresql", req.Flags.Namespace, "jupyterhub", "jupyterhub", dbPassword)
	redirectURL := "https://ide." + req.Identity.RootDomain() + "/hub/oauth_callback"

	postgresOutput := req.renderPath("postgresql-values.yaml")
	mainOutput := req.renderPath("values.yaml")

	postgresStep := &release.Step{
		Name: "data-modeling-postgresql",
		Chart: release.ChartRef{
			RepoName: "bitnami",
			OCIURL:   "oci://registry-1.docker.io/bitnamicharts/postgresql",
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
		Name: "data-modeling",
		Chart: release.ChartRef{
			RepoName: "jupyterhub",
			RepoURL:  "https://jupyterhub.github.io/helm-chart/",
			Name:     "jupyterhub",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:   req.Flags.Namespace,
		ValuesPath:  mainOutput,
		WaitForHelm: true,
		Timeout:     release.LightHelmTimeout,
		Templates: []release.TemplateSpec{
			{
				TemplatePath: req.templatePath("values.yaml.tmpl"),
				OutputPath:   mainOutput,
				Vars: map[string]string{
					"DatabaseURL":       dsn,
					"OAuthClientID":     clientID,
					"OAuthClientSecret": clientSecret,
					"OAuthRedirectURL":  redirectURL,
				},
			},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "data-modeling",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{postgresStep, mainStep},
		PrimaryStepIndex:      1,
		AppName:               "jupyterhub",
	}, nil
}
