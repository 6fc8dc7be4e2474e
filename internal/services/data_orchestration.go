package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
)

// BuildDataOrchestration composes the data-orchestration ServiceSpec,
// grounded on
// original_source/deployers/services/data_services/5.0_data_orchestration.py:
// an apache-airflow/airflow release plus a kube-core/raw extras release
// (dbt-server supporting resources), both in the data-orchestration
// namespace. The airflow OAuth client's own credentials are fetched
// directly from the vault rather than through the Realm Builder, since
// this service is an SSO client, not the SSO server.
func BuildDataOrchestration(req BuildRequest) (orchestrator.ServiceSpec, error) {
	secrets, err := fetchSecrets(req,
		secretRequest{Key: "clientID", Name: "ClientID", Path: "/idp-sso/sso-clients-secrets/data-orchestration"},
		secretRequest{Key: "clientSecret", Name: "ClientSecret", Path: "/idp-sso/sso-clients-secrets/data-orchestration"},
	)
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}
	clientID, clientSecret := secrets["clientID"], secrets["clientSecret"]

	mainOutput := req.renderPath("values.yaml")
	extraOutput := req.renderPath("extras.yaml")
	redirectURL := "https://airflow." + req.Identity.RootDomain() + "/oauth-authorized/FastBI-SSO"

	mainStep := &release.Step{
		Name: "data-orchestration",
		Chart: release.ChartRef{
			RepoName: "apache-airflow",
			RepoURL:  "https://airflow.apache.org",
			Name:     "airflow",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   mainOutput,
		WaitForHelm:  true,
		Timeout:      release.HeavyHelmTimeout,
		WaitSelector: "component=webserver",
		WaitTimeout:  release.DefaultPodWaitTimeout,
		Templates: []release.TemplateSpec{
			{
				TemplatePath: req.templatePath("values.yaml.tmpl"),
				OutputPath:   mainOutput,
				Vars: map[string]string{
					"OAuthClientID":     clientID,
					"OAuthClientSecret": clientSecret,
					"OAuthRedirectURL":  redirectURL,
				},
			},
		},
	}
	extraStep := &release.Step{
		Name: "data-orchestration-extras",
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
		Name:                  "data-orchestration",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{mainStep, extraStep},
		PrimaryStepIndex:      0,
		AppName:               "airflow",
	}, nil
}
