package exec

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"

	"github.com/fastbi/platform-deployer/internal/apperrors"
	"github.com/fastbi/platform-deployer/internal/logging"
)

// Apply runs "kubectl apply -f <manifest> -n <ns> --kubeconfig <kc>" for a
// single post-apply manifest (spec.md §4.5 post_applying state).
func (e *Executor) Apply(ctx context.Context, manifestPath, namespace, kubeConfigPath string) error {
	args := []string{"apply", "-f", manifestPath, "--kubeconfig", kubeConfigPath}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	_, err := e.KubectlCmd(ctx, args...)
	return err
}

// WaitReady runs "kubectl wait --for=condition=ready pod -l <selector> -n
// <ns> --timeout=<d> --kubeconfig <kc>". Only called when a selector is
// configured (spec.md §4.5 waiting state). Failure is returned as a
// KindReadiness error, matching the Readiness Waiter's propagation contract
// (spec.md §4.6).
func (e *Executor) WaitReady(ctx context.Context, selector, namespace, timeout, kubeConfigPath string) error {
	_, err := e.KubectlCmd(ctx, "wait", "--for=condition=ready", "pod",
		"-l", selector, "-n", namespace, "--timeout="+timeout, "--kubeconfig", kubeConfigPath)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindReadiness, err, "pods matching %q in namespace %s were not ready within %s", selector, namespace, timeout)
	}
	return nil
}

// CreateNamespace is the one deliberately shelled-in command pipeline in
// this module (spec.md §4.1/§4.5): an idempotent two-step
// "kubectl create namespace X --dry-run=client -o yaml | kubectl apply -f -",
// modeled as two *exec.Cmd processes joined by an in-process pipe rather
// than a shell string, so no shell quoting hazard is introduced.
func (e *Executor) CreateNamespace(ctx context.Context, namespace, kubeConfigPath string) error {
	createArgv := []string{e.Kubectl, "create", "namespace", namespace, "--dry-run=client", "-o", "yaml", "--kubeconfig", kubeConfigPath}
	applyArgv := []string{e.Kubectl, "apply", "-f", "-", "--kubeconfig", kubeConfigPath}

	if e.DryRun {
		e.Logger.Info("dry-run: would execute piped command",
			slog.String(logging.KeyCommand, logging.RedactedArgv(createArgv)+" | "+logging.RedactedArgv(applyArgv)))
		return nil
	}

	createCmd := exec.CommandContext(ctx, createArgv[0], createArgv[1:]...)
	applyCmd := exec.CommandContext(ctx, applyArgv[0], applyArgv[1:]...)

	var manifest, createStderr, applyStderr bytes.Buffer
	createCmd.Stdout = &manifest
	createCmd.Stderr = &createStderr

	if err := createCmd.Run(); err != nil {
		return apperrors.New(apperrors.KindExternalProcess, "command %q failed: %s", logging.RedactedArgv(createArgv), createStderr.String())
	}

	applyCmd.Stdin = bytes.NewReader(manifest.Bytes())
	applyCmd.Stderr = &applyStderr

	if err := applyCmd.Run(); err != nil {
		return apperrors.New(apperrors.KindExternalProcess, "command %q failed: %s", logging.RedactedArgv(applyArgv), applyStderr.String())
	}
	return nil
}
