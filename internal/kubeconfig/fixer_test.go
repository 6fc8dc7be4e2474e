package kubeconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeFixer(pluginPath string) *Fixer {
	return &Fixer{
		LookPath: func(file string) (string, error) { return pluginPath, nil },
		RunHelp: func(ctx context.Context, path string) (string, int, error) {
			return "Usage of gke-gcloud-auth-plugin", 0, nil
		},
	}
}

// writeFakePlugin puts an executable stand-in for the plugin in dir, since
// FindPlugin only accepts a path that exists and has its executable bit set.
func writeFakePlugin(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "gke-gcloud-auth-plugin")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

const yamlKubeconfig = `
apiVersion: v1
kind: Config
users:
  - name: gke-cluster
    user:
      exec:
        apiVersion: client.authentication.k8s.io/v1beta1
        command: gke-gcloud-auth-plugin
`

const jsonKubeconfig = `{
  "apiVersion": "v1",
  "kind": "Config",
  "users": [
    {"name": "gke-cluster", "user": {"exec": {"command": "gke-gcloud-auth-plugin"}}}
  ]
}`

func TestFix_YAMLKubeconfigGetsPatchedAndStaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kubeconfig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlKubeconfig), 0o600))

	pluginPath := writeFakePlugin(t, dir)
	f := fakeFixer(pluginPath)
	changed, err := f.Fix(context.Background(), path)
	require.NoError(t, err)
	require.True(t, changed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), pluginPath)
}

func TestFix_JSONKubeconfigGetsPatchedAndStaysJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kubeconfig.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonKubeconfig), 0o600))

	pluginPath := writeFakePlugin(t, dir)
	f := fakeFixer(pluginPath)
	changed, err := f.Fix(context.Background(), path)
	require.NoError(t, err)
	require.True(t, changed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "\"command\": \""+pluginPath+"\"")
}

func TestFix_AlreadyPatchedIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kubeconfig.yaml")
	patched := `
users:
  - name: gke-cluster
    user:
      exec:
        command: /opt/homebrew/bin/gke-gcloud-auth-plugin
`
	require.NoError(t, os.WriteFile(path, []byte(patched), 0o600))

	f := fakeFixer("/opt/homebrew/bin/gke-gcloud-auth-plugin")
	changed, err := f.Fix(context.Background(), path)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestFix_PluginNotFoundReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kubeconfig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlKubeconfig), 0o600))

	f := &Fixer{
		LookPath: func(file string) (string, error) { return "", os.ErrNotExist },
		RunHelp:  func(ctx context.Context, path string) (string, int, error) { return "", 1, nil },
	}
	_, err := f.Fix(context.Background(), path)
	require.Error(t, err)
}
