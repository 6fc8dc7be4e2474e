package exec

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastbi/platform-deployer/internal/logging"
)

func TestRun_DryRunSkipsExecution(t *testing.T) {
	e := New(logging.New(false), true, "helm", "kubectl")
	result, err := e.Run(context.Background(), "helm", "upgrade", "-i", "whatever")
	require.NoError(t, err)
	require.Equal(t, "", result.Stdout)
}

func TestRun_NonZeroExitIsExternalProcessError(t *testing.T) {
	e := New(logging.New(false), false, "/bin/false", "kubectl")
	_, err := e.Run(context.Background(), "/bin/false")
	require.Error(t, err)
}

func TestRun_SuccessCapturesStdout(t *testing.T) {
	e := New(logging.New(false), false, "/bin/echo", "kubectl")
	result, err := e.Run(context.Background(), "/bin/echo", "hello")
	require.NoError(t, err)
	require.Contains(t, result.Stdout, "hello")
}

func TestUpgrade_ArgvHasAtMostOneWaitAndTimeout(t *testing.T) {
	// Exercise the argv-shape invariant from spec.md §8 by capturing the
	// command through dry-run, which logs the fully assembled command.
	var logs bytes.Buffer
	e := New(slog.New(slog.NewTextHandler(&logs, nil)), true, "helm", "kubectl")
	err := e.Upgrade(context.Background(), UpgradeOptions{
		ReleaseName:    "cert-manager",
		Chart:          "jetstack/cert-manager",
		Version:        "v1.13.0",
		Namespace:      "cert-manager",
		ValuesPath:     "/tmp/values.yaml",
		KubeConfigPath: "/tmp/kubeconfig.yaml",
		Wait:           true,
		Timeout:        "30m",
	})
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(logs.String(), "--wait"))
	require.Equal(t, 1, strings.Count(logs.String(), "--timeout"))
}

func TestDeployedAppVersion_UnparseableOutput(t *testing.T) {
	e := New(logging.New(false), false, "echo", "kubectl")
	// "echo" with the ls args will print the args themselves, not JSON, so
	// JSON parsing fails and we expect the parse-failure sentinel.
	version := e.DeployedAppVersion(context.Background(), "release", "ns", "/tmp/kubeconfig.yaml")
	require.Equal(t, "Error parsing version", version)
}

func TestCreateNamespace_DryRunSkipsExecution(t *testing.T) {
	e := New(logging.New(false), true, "helm", "kubectl")
	err := e.CreateNamespace(context.Background(), "idp-sso", "/tmp/kubeconfig.yaml")
	require.NoError(t, err)
}

func TestChartRefString(t *testing.T) {
	require.Equal(t, "oci://registry-1.docker.io/bitnamicharts/keycloak", ChartRefString("bitnami", "oci://registry-1.docker.io/bitnamicharts/keycloak", "keycloak"))
	require.Equal(t, "jetstack/cert-manager", ChartRefString("jetstack", "", "cert-manager"))
}
