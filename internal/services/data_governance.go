package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/values"
)

// BuildDataGovernance composes the data-governance ServiceSpec, grounded on
// original_source/deployers/services/data_services/9.0_data_governance.py:
// six ordered releases (ECK operator, the Elasticsearch cluster the
// operator then reconciles, a local bitnami PostgreSQL instance,
// datahub-prerequisites, the datahub main chart, and a kube-core/raw extras
// chart). The PostgreSQL release is always installed and the main chart's
// DSN always addresses it; the shared global instance is not used.
func BuildDataGovernance(req BuildRequest) (orchestrator.ServiceSpec, error) {
	secrets, err := fetchSecrets(req,
		secretRequest{Key: "clientID", Name: "ClientID", Path: "/idp-sso/sso-clients-secrets/data-governance"},
		secretRequest{Key: "clientSecret", Name: "ClientSecret", Path: "/idp-sso/sso-clients-secrets/data-governance"},
		secretRequest{Key: "dbPassword", Name: "password", Path: "/data-governance/database-secrets"},
	)
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}
	clientID, clientSecret, dbPassword := secrets["clientID"], secrets["clientSecret"], secrets["dbPassword"]

	dsn := values.PostgresDSN(values.PostgresLocal, "datahub-postgresql", req.Flags.Namespace, "datahub", "datahub", dbPassword)
	redirectURL := "https://datahub." + req.Identity.RootDomain() + "/callback/oidc"

	operatorOutput := req.renderPath("eck-operator-values.yaml")
	esOutput := req.renderPath("elasticsearch-values.yaml")
	postgresOutput := req.renderPath("postgresql-values.yaml")
	prereqOutput := req.renderPath("prerequisites-values.yaml")
	mainOutput := req.renderPath("values.yaml")
	extraOutput := req.renderPath("extras.yaml")

	operatorStep := &release.Step{
		Name: "data-governance-eck-operator",
		Chart: release.ChartRef{
			RepoName: "elastic",
			RepoURL:  "https://helm.elastic.co",
			Name:     "eck-operator",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   operatorOutput,
		WaitForHelm:  true,
		Timeout:      release.LightHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=elastic-operator",
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("eck-operator-values.yaml.tmpl"), OutputPath: operatorOutput},
		},
	}
	esStep := &release.Step{
		Name: "data-governance-elasticsearch",
		Chart: release.ChartRef{
			RepoName: "elastic",
			RepoURL:  "https://helm.elastic.co",
			Name:     "eck-elasticsearch",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:   req.Flags.Namespace,
		ValuesPath:  esOutput,
		WaitForHelm: true,
		Timeout:     release.HeavyHelmTimeout,
		WaitTimeout: release.DefaultPodWaitTimeout,
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("elasticsearch-values.yaml.tmpl"), OutputPath: esOutput},
		},
	}
	postgresStep := &release.Step{
		Name: "data-governance-postgresql",
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
	prereqStep := &release.Step{
		Name: "data-governance-prerequisites",
		Chart: release.ChartRef{
			RepoName: "datahub",
			RepoURL:  "https://helm.datahubproject.io/",
			Name:     "datahub-prerequisites",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:   req.Flags.Namespace,
		ValuesPath:  prereqOutput,
		WaitForHelm: true,
		Timeout:     release.HeavyHelmTimeout,
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("prerequisites-values.yaml.tmpl"), OutputPath: prereqOutput},
		},
	}
	mainStep := &release.Step{
		Name: "data-governance",
		Chart: release.ChartRef{
			RepoName: "datahub",
			RepoURL:  "https://helm.datahubproject.io/",
			Name:     "datahub",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   mainOutput,
		WaitForHelm:  true,
		Timeout:      release.HeavyHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=datahub-frontend",
		WaitTimeout:  release.DefaultPodWaitTimeout,
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
	extraStep := &release.Step{
		Name: "data-governance-extras",
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
		Name:                  "data-governance",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{operatorStep, esStep, postgresStep, prereqStep, mainStep, extraStep},
		PrimaryStepIndex:      4,
		AppName:               "datahub",
	}, nil
}
