package release

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	execpkg "github.com/fastbi/platform-deployer/internal/exec"
	"github.com/fastbi/platform-deployer/internal/logging"
	"github.com/fastbi/platform-deployer/internal/render"
)

func newDryRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{
		Executor:       execpkg.New(logging.New(false), true, "helm", "kubectl"),
		Renderer:       render.New(),
		Logger:         logging.New(false),
		KubeConfigPath: "/tmp/kubeconfig.yaml",
	}
}

func writeTemplate(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "values.yaml.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_HappyPathReachesDone(t *testing.T) {
	dir := t.TempDir()
	tmplPath := writeTemplate(t, dir, "domain: {{ .Domain }}\n")
	outputPath := filepath.Join(dir, "values.yaml")

	step := &Step{
		Name: "cert-manager",
		Chart: ChartRef{
			RepoName: "jetstack",
			RepoURL:  "https://charts.jetstack.io",
			Name:     "cert-manager",
			Version:  "v1.13.0",
		},
		Namespace:  "cert-manager",
		ValuesPath: outputPath,
		Templates: []TemplateSpec{
			{TemplatePath: tmplPath, OutputPath: outputPath, Vars: map[string]string{"Domain": "example.com"}},
		},
		WaitForHelm:  true,
		Timeout:      LightHelmTimeout,
		WaitSelector: "app=cert-manager",
	}

	r := newDryRunner(t)
	err := r.Run(context.Background(), step)
	require.NoError(t, err)
	require.Equal(t, StateDone, step.State)

	rendered, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Contains(t, string(rendered), "domain: example.com")
}

func TestRun_OCIChartSkipsRepoAdd(t *testing.T) {
	dir := t.TempDir()
	tmplPath := writeTemplate(t, dir, "{}\n")
	outputPath := filepath.Join(dir, "values.yaml")

	step := &Step{
		Name: "keycloak",
		Chart: ChartRef{
			OCIURL: "oci://registry-1.docker.io/bitnamicharts/keycloak",
			Name:   "keycloak",
		},
		Namespace:  "idp-sso",
		ValuesPath: outputPath,
		Templates: []TemplateSpec{
			{TemplatePath: tmplPath, OutputPath: outputPath},
		},
		Timeout: HeavyHelmTimeout,
	}

	r := newDryRunner(t)
	err := r.Run(context.Background(), step)
	require.NoError(t, err)
	require.Equal(t, StateDone, step.State)
}

func TestRun_MissingValuesFileFailsBeforeUpgrade(t *testing.T) {
	dir := t.TempDir()
	tmplPath := writeTemplate(t, dir, "{}\n")
	renderedOutput := filepath.Join(dir, "rendered.yaml")

	step := &Step{
		Name:       "stackgres",
		Chart:      ChartRef{RepoName: "stackgres", RepoURL: "https://stackgres.io/helm", Name: "stackgres-cluster"},
		Namespace:  "global-postgresql",
		ValuesPath: filepath.Join(dir, "never-written.yaml"),
		Templates: []TemplateSpec{
			{TemplatePath: tmplPath, OutputPath: renderedOutput},
		},
	}

	r := newDryRunner(t)
	err := r.Run(context.Background(), step)
	require.Error(t, err)
	require.Equal(t, StateFailed, step.State)
}

func TestRun_TemplateRenderFailureIsTerminal(t *testing.T) {
	step := &Step{
		Name:       "traefik-lb",
		Chart:      ChartRef{RepoName: "traefik", RepoURL: "https://helm.traefik.io/traefik", Name: "traefik"},
		Namespace:  "traefik",
		ValuesPath: "/tmp/does-not-matter.yaml",
		Templates: []TemplateSpec{
			{TemplatePath: "/no/such/template.tmpl", OutputPath: "/tmp/out.yaml"},
		},
	}

	r := newDryRunner(t)
	err := r.Run(context.Background(), step)
	require.Error(t, err)
	require.Equal(t, StateFailed, step.State)
}

func TestRun_PreCreateNamespaceRunsBeforeUpgrade(t *testing.T) {
	dir := t.TempDir()
	tmplPath := writeTemplate(t, dir, "{}\n")
	outputPath := filepath.Join(dir, "values.yaml")

	step := &Step{
		Name: "idp-sso-manager",
		Chart: ChartRef{
			OCIURL: "oci://registry-1.docker.io/bitnamicharts/keycloak",
			Name:   "keycloak",
		},
		Namespace:          "idp-sso",
		ValuesPath:         outputPath,
		PreCreateNamespace: true,
		Templates: []TemplateSpec{
			{TemplatePath: tmplPath, OutputPath: outputPath},
		},
	}

	r := newDryRunner(t)
	err := r.Run(context.Background(), step)
	require.NoError(t, err)
	require.Equal(t, StateDone, step.State)
}

func TestRun_NoWaitSelectorSkipsWaitingState(t *testing.T) {
	dir := t.TempDir()
	tmplPath := writeTemplate(t, dir, "{}\n")
	outputPath := filepath.Join(dir, "values.yaml")

	step := &Step{
		Name:       "services-monitoring",
		Chart:      ChartRef{RepoName: "prometheus-community", RepoURL: "https://prometheus-community.github.io/helm-charts", Name: "kube-prometheus-stack"},
		Namespace:  "monitoring",
		ValuesPath: outputPath,
		Templates: []TemplateSpec{
			{TemplatePath: tmplPath, OutputPath: outputPath},
		},
	}

	r := newDryRunner(t)
	err := r.Run(context.Background(), step)
	require.NoError(t, err)
	require.Equal(t, StateDone, step.State)
}
