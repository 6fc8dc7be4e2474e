package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/values"
)

// BuildTraefikLB composes the traefik-lb ServiceSpec, grounded on
// original_source/deployers/services/infra_services/4.0_traefik_lb.py: a
// traefik/traefik release in the traefik-ingress namespace, with an IP
// allowlist and static external IP injected into the LoadBalancer service
// (spec.md §8, scenario 2).
func BuildTraefikLB(req BuildRequest) (orchestrator.ServiceSpec, error) {
	outputPath := req.renderPath("values.yaml")
	step := &release.Step{
		Name: "traefik-ingress",
		Chart: release.ChartRef{
			RepoName: "traefik",
			RepoURL:  "https://helm.traefik.io/traefik",
			Name:     "traefik",
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
					"LoadBalancerSourceRanges": values.JoinAllowlist(req.WhitelistedEnvironmentIPs),
					"LoadBalancerIP":           req.ExternalIP,
				},
			},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "traefik-lb",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               "traefik",
	}, nil
}
