package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/values"
)

// BuildServicesMonitoring composes the services-monitoring ServiceSpec,
// grounded on
// original_source/deployers/services/infra_services/7.0_services_monitoring.py:
// a grafana/grafana release in the monitoring namespace, with the
// monitoring base URL (https://monitoring.<root_domain>) injected as
// MonitoringURL.
func BuildServicesMonitoring(req BuildRequest) (orchestrator.ServiceSpec, error) {
	outputPath := req.renderPath("values.yaml")
	urls := values.RootDomainURLs(req.Identity.RootDomain(), "monitoring")

	step := &release.Step{
		Name: "services-monitoring",
		Chart: release.ChartRef{
			RepoName: "grafana",
			RepoURL:  "https://grafana.github.io/helm-charts",
			Name:     "grafana",
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
					"MonitoringURL": urls["monitoring"],
				},
			},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "services-monitoring",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               "grafana",
	}, nil
}
