// Package kubeconfig implements the Kubeconfig Fixer (spec.md §2): patching
// a kubeconfig's "gke-gcloud-auth-plugin" exec command to the plugin's full
// resolved path, since bare command names fail once GOOGLE_APPLICATION_CREDENTIALS
// or a restricted PATH is in play.
package kubeconfig

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fastbi/platform-deployer/internal/apperrors"
)

const pluginName = "gke-gcloud-auth-plugin"

// candidatePaths returns the well-known install locations for
// gke-gcloud-auth-plugin on the current platform, in priority order,
// followed by a bare PATH lookup and the current directory (grounded on
// original_source/utils/kubeconfig_fixer.py's per-platform path table).
func candidatePaths() []string {
	switch runtime.GOOS {
	case "darwin":
		paths := []string{
			"/opt/homebrew/Caskroom/google-cloud-sdk/latest/google-cloud-sdk/bin/gke-gcloud-auth-plugin",
			"/opt/homebrew/share/google-cloud-sdk/bin/gke-gcloud-auth-plugin",
			"/usr/local/Caskroom/google-cloud-sdk/latest/google-cloud-sdk/bin/gke-gcloud-auth-plugin",
			"/opt/homebrew/bin/gke-gcloud-auth-plugin",
			"/usr/local/bin/gke-gcloud-auth-plugin",
		}
		if runtime.GOARCH != "arm64" {
			paths = append(paths, "/usr/local/Caskroom/google-cloud-sdk/latest/google-cloud-sdk/bin/gke-gcloud-auth-plugin")
		}
		return append(paths, "gke-gcloud-auth-plugin", "./gke-gcloud-auth-plugin")
	case "linux":
		return []string{
			"/usr/bin/gke-gcloud-auth-plugin",
			"/usr/local/bin/gke-gcloud-auth-plugin",
			"/snap/bin/gke-gcloud-auth-plugin",
			"/opt/google-cloud-sdk/bin/gke-gcloud-auth-plugin",
			"/usr/lib/google-cloud-sdk/bin/gke-gcloud-auth-plugin",
			"/mnt/c/Program Files (x86)/Google/Cloud SDK/google-cloud-sdk/bin/gke-gcloud-auth-plugin",
			"/mnt/c/Program Files/Google/Cloud SDK/google-cloud-sdk/bin/gke-gcloud-auth-plugin",
			"gke-gcloud-auth-plugin",
			"./gke-gcloud-auth-plugin",
		}
	case "windows":
		return []string{
			`C:\Program Files (x86)\Google\Cloud SDK\google-cloud-sdk\bin\gke-gcloud-auth-plugin.exe`,
			`C:\Program Files\Google\Cloud SDK\google-cloud-sdk\bin\gke-gcloud-auth-plugin.exe`,
			"gke-gcloud-auth-plugin",
			"./gke-gcloud-auth-plugin",
		}
	default:
		return []string{"gke-gcloud-auth-plugin", "./gke-gcloud-auth-plugin"}
	}
}

// Fixer finds and applies the gke-gcloud-auth-plugin path.
type Fixer struct {
	// LookPath is overridable in tests; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
	// RunHelp is overridable in tests; defaults to invoking "<path> --help"
	// and returning its combined stdout+stderr and exit code.
	RunHelp func(ctx context.Context, path string) (output string, exitCode int, err error)
}

// New builds a Fixer wired to the real filesystem and subprocess execution.
func New() *Fixer {
	return &Fixer{
		LookPath: exec.LookPath,
		RunHelp:  runHelp,
	}
}

func runHelp(ctx context.Context, path string) (string, int, error) {
	cmd := exec.CommandContext(ctx, path, "--help")
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		return string(out), -1, err
	}
	return string(out), exitCode, nil
}

// FindPlugin locates the gke-gcloud-auth-plugin executable, or returns "" if
// none of the known locations, PATH, or the working directory has it.
func (f *Fixer) FindPlugin(ctx context.Context) string {
	for _, path := range candidatePaths() {
		if f.isValidPlugin(ctx, path) {
			return path
		}
	}
	if resolved, err := f.LookPath(pluginName); err == nil && f.isValidPlugin(ctx, resolved) {
		return resolved
	}
	return ""
}

func (f *Fixer) isValidPlugin(ctx context.Context, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return false
	}

	output, exitCode, err := f.RunHelp(ctx, path)
	if err != nil {
		return strings.Contains(path, pluginName)
	}
	return (exitCode == 0 || exitCode == 2) &&
		(strings.Contains(output, pluginName) || strings.Contains(output, "Usage of"))
}

// Fix reads the kubeconfig at path, and if its first user's exec command is
// the bare "gke-gcloud-auth-plugin" name, rewrites it to pluginPath and
// writes the file back in whichever format (YAML or JSON) it was read as.
// Returns true if a rewrite happened.
func (f *Fixer) Fix(ctx context.Context, path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, apperrors.Wrapf(apperrors.KindPreconditionMissing, err, "kubeconfig not found: %s", path)
	}

	doc, asYAML, err := parseKubeconfig(content)
	if err != nil {
		return false, apperrors.Wrapf(apperrors.KindConfigurationDrift, err, "could not parse kubeconfig %s as YAML or JSON", path)
	}

	changed, err := patchExecCommand(doc, f, ctx)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	encoded, err := encodeKubeconfig(doc, asYAML)
	if err != nil {
		return false, apperrors.Wrapf(apperrors.KindConfigurationDrift, err, "encoding fixed kubeconfig")
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return false, apperrors.Wrapf(apperrors.KindConfigurationDrift, err, "writing fixed kubeconfig %s", path)
	}
	return true, nil
}

func patchExecCommand(doc map[string]any, f *Fixer, ctx context.Context) (bool, error) {
	users, ok := doc["users"].([]any)
	if !ok || len(users) == 0 {
		return false, nil
	}
	user, ok := users[0].(map[string]any)
	if !ok {
		return false, nil
	}
	userInner, ok := user["user"].(map[string]any)
	if !ok {
		return false, nil
	}
	execCfg, ok := userInner["exec"].(map[string]any)
	if !ok {
		return false, nil
	}
	command, _ := execCfg["command"].(string)
	if command != pluginName {
		return false, nil
	}

	pluginPath := f.FindPlugin(ctx)
	if pluginPath == "" {
		return false, apperrors.New(apperrors.KindPreconditionMissing, "could not find %s on this system", pluginName)
	}
	execCfg["command"] = pluginPath
	return true, nil
}
