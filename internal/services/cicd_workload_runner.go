package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
)

// BuildCICDWorkloadRunner composes the cicd-workload-runner ServiceSpec,
// grounded on
// original_source/deployers/services/data_services/1.0_cicd_workload_runner.py:
// a gitlab/gitlab-runner release plus a kube-core/raw extras release for
// supporting RBAC/CRDs, both in the cicd-workload-trigger namespace. The
// argo_workflows OAuth client built by the SSO service's Realm Builder is
// this service's redirect target, not something it renders itself.
func BuildCICDWorkloadRunner(req BuildRequest) (orchestrator.ServiceSpec, error) {
	runnerOutput := req.renderPath("values.yaml")
	extraOutput := req.renderPath("extras.yaml")

	runnerStep := &release.Step{
		Name: "cicd-workload-runner",
		Chart: release.ChartRef{
			RepoName: "gitlab",
			RepoURL:  "https://charts.gitlab.io/",
			Name:     "gitlab-runner",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:   req.Flags.Namespace,
		ValuesPath:  runnerOutput,
		WaitForHelm: true,
		Timeout:     release.LightHelmTimeout,
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("values.yaml.tmpl"), OutputPath: runnerOutput},
		},
	}
	extraStep := &release.Step{
		Name: "cicd-workload-runner-extras",
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
		Name:                  "cicd-workload-runner",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{runnerStep, extraStep},
		PrimaryStepIndex:      0,
		AppName:               "gitlab-runner",
	}, nil
}
