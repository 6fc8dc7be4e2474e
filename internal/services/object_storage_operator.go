package services

import (
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/release"
)

// BuildObjectStorageOperator composes the object-storage-operator
// ServiceSpec, grounded on
// original_source/deployers/services/data_services/2.0_object_storage_operator.py:
// the minio/operator release followed by the minio/tenant release, both in
// the minio namespace (the operator must be Ready before the tenant CR is
// reconciled, hence the ordered two-step pipeline).
func BuildObjectStorageOperator(req BuildRequest) (orchestrator.ServiceSpec, error) {
	operatorOutput := req.renderPath("operator-values.yaml")
	tenantOutput := req.renderPath("tenant-values.yaml")

	operatorStep := &release.Step{
		Name: "object-storage-operator",
		Chart: release.ChartRef{
			RepoName: "minio",
			RepoURL:  "https://operator.min.io/",
			Name:     "operator",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:    req.Flags.Namespace,
		ValuesPath:   operatorOutput,
		WaitForHelm:  true,
		Timeout:      release.LightHelmTimeout,
		WaitSelector: "app.kubernetes.io/name=operator",
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("operator-values.yaml.tmpl"), OutputPath: operatorOutput},
		},
	}
	tenantStep := &release.Step{
		Name: "object-storage-tenant",
		Chart: release.ChartRef{
			RepoName: "minio",
			RepoURL:  "https://operator.min.io/",
			Name:     "tenant",
			Version:  req.Flags.ChartVersion,
		},
		Namespace:   req.Flags.Namespace,
		ValuesPath:  tenantOutput,
		WaitForHelm: true,
		Timeout:     release.LightHelmTimeout,
		Templates: []release.TemplateSpec{
			{TemplatePath: req.templatePath("tenant-values.yaml.tmpl"), OutputPath: tenantOutput},
		},
	}

	return orchestrator.ServiceSpec{
		Name:                  "object-storage-operator",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{operatorStep, tenantStep},
		PrimaryStepIndex:      1,
		AppName:               "tenant",
	}, nil
}
