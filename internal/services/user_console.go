package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/values"
)

// BuildUserConsole composes the user-console ServiceSpec, grounded on
// original_source/deployers/services/data_services/10.0_user_console.py: a
// kube-core/raw release rendering the console's own deployment manifests
// (it has no chart of its own upstream, unlike every other service),
// fronted by a local PostgreSQL instance, and given the console-specific
// pass-through flags (bi_system, the replication default destination type,
// and the operator email) as render variables. The user_console
// OAuth client is the catalog's one bare-root entry (internal/realm) — this
// Builder fetches its credentials directly, the same way every other
// SSO-client service does.
func BuildUserConsole(req BuildRequest) (orchestrator.ServiceSpec, error) {
	secrets, err := fetchSecrets(req,
		secretRequest{Key: "clientID", Name: "ClientID", Path: "/idp-sso/sso-clients-secrets/user-console"},
		secretRequest{Key: "clientSecret", Name: "ClientSecret", Path: "/idp-sso/sso-clients-secrets/user-console"},
		secretRequest{Key: "dbPassword", Name: "password", Path: "/user-console/database-secrets"},
	)
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}
	clientID, clientSecret, dbPassword := secrets["clientID"], secrets["clientSecret"], secrets["dbPassword"]

	dsn := values.PostgresDSN(values.PostgresLocal, "user-console-postgresql", req.Flags.Namespace, "console", "console", dbPassword)
	rootURL := "https://" + req.Identity.RootDomain()

	postgresOutput := req.renderPath("postgresql-values.yaml")
	mainOutput := req.renderPath("values.yaml")

	postgresStep := &release.Step{
		Name: "user-console-postgresql",
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
		Name: "user-console",
		Chart: release.ChartRef{
			RepoName: "kube-core",
			RepoURL:  "https://kube-core.github.io/helm-charts",
			Name:     "raw",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   mainOutput,
		WaitForHelm:  true,
		Timeout:      release.LightHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=user-console",
		WaitTimeout:  release.DefaultPodWaitTimeout,
		Templates: []release.TemplateSpec{
			{
				TemplatePath: req.templatePath("values.yaml.tmpl"),
				OutputPath:   mainOutput,
				Vars: map[string]string{
					"DatabaseURL":                dsn,
					"OAuthClientID":              clientID,
					"OAuthClientSecret":          clientSecret,
					"RootURL":                    rootURL,
					"BISystem":                   req.BISystem,
					"DataReplicationDestination": req.DataReplicationDefaultDestinationType,
					"UserEmail":                  req.UserEmail,
				},
			},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "user-console",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{postgresStep, mainStep},
		PrimaryStepIndex:      1,
		AppName:               "raw",
	}, nil
}
