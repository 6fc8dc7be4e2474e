package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/realm"
	"github.com/fastbi/platform-deployer/internal/release"
)

// BuildIdpSSOManager composes the idp-sso-manager ServiceSpec, grounded on
// original_source/deployers/services/infra_services/9.0_idp_sso_manager.py:
// a single bitnami Keycloak OCI release (oci_url present, so helm
// repo add/update is skipped per spec.md §3). The step renders the realm
// document from internal/realm.Build's variables alongside its values file
// (spec.md §4.7, §8 scenario 4); the realm file is not kubectl-applied.
func BuildIdpSSOManager(req BuildRequest) (orchestrator.ServiceSpec, error) {
	realmVars, err := realm.Build(req.Ctx, req.Resolver, req.Identity.RootDomain())
	if err != nil {
		return orchestrator.ServiceSpec{}, err
	}

	valuesOutput := req.renderPath("values.yaml")
	realmOutput := req.renderPath(req.Identity.Customer + "_realm.json")

	step := &release.Step{
		Name: "idp-sso-manager",
		Chart: release.ChartRef{
			RepoName: "bitnami",
			OCIURL:   "oci://registry-1.docker.io/bitnamicharts/keycloak",
			Name:     "keycloak",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:          req.Flags.Namespace,
		ValuesPath:         valuesOutput,
		WaitForHelm:        true,
		Timeout:            release.LightHelmTimeout,
		PreCreateNamespace: true,
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("values.yaml.tmpl"), OutputPath: valuesOutput},
			{TemplatePath: req.templatePath("realm_teamplate.json"), OutputPath: realmOutput, Vars: realmVars},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "idp-sso-manager",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               "keycloak",
	}, nil
}
