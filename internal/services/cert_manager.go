package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
)

// BuildCertManager composes the cert-manager ServiceSpec, grounded on
// original_source/deployers/services/infra_services/2.0_cert_manager.py:
// a single jetstack/cert-manager release whose values carry the GCP
// service-account used for DNS-01 ACME challenges (spec.md §8, scenario 1).
func BuildCertManager(req BuildRequest) (orchestrator.ServiceSpec, error) {
	serviceAccount := req.Identity.ServiceAccount("cert-manager")

	outputPath := req.renderPath("values.yaml")
	step := &release.Step{
		Name: "cert-manager",
		Chart: release.ChartRef{
			RepoName: "jetstack",
			RepoURL:  "https://charts.jetstack.io",
			Name:     "cert-manager",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:   req.Flags.Namespace,
		ValuesPath:  outputPath,
		WaitForHelm: true,
		Timeout:     release.LightHelmTimeout,
		Templates: []release.TemplateSpec{
			{
				TemplatePath: req.templatePath("values.yaml.tmpl"),
				OutputPath:   outputPath,
				Vars: map[string]string{
					"CertManagerK8sSA": serviceAccount,
					"UserEmail":        req.UserEmail,
					"ProjectID":        req.Identity.ProjectID,
				},
			},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "cert-manager",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               "cert-manager",
	}, nil
}
