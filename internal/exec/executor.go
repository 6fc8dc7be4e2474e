// Package exec implements the Executor (spec.md §4.1): running helm and
// kubectl as external processes with captured streams and structured errors,
// honoring a dry-run switch. Commands are always argument arrays, never
// shell-joined, except the one explicit shelled pipeline documented on
// CreateNamespace. Grounded on the subprocess-wrapping pattern in
// other_examples' helm3 data source and helm-helm's own plugin subprocess
// runtime.
package exec

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"

	"github.com/fastbi/platform-deployer/internal/apperrors"
	"github.com/fastbi/platform-deployer/internal/logging"
)

// Result captures everything the caller needs from a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs helm/kubectl commands. A single Executor is shared by every
// Release Step in a service's pipeline.
type Executor struct {
	Logger  *slog.Logger
	DryRun  bool
	HelmBin string
	Kubectl string
}

// New builds an Executor. helmBin/kubectlBin default to "helm"/"kubectl" on
// PATH when empty.
func New(logger *slog.Logger, dryRun bool, helmBin, kubectlBin string) *Executor {
	if helmBin == "" {
		helmBin = "helm"
	}
	if kubectlBin == "" {
		kubectlBin = "kubectl"
	}
	return &Executor{Logger: logger, DryRun: dryRun, HelmBin: helmBin, Kubectl: kubectlBin}
}

// secretFlags lists the argv flag names whose following value must never
// appear in logs.
var secretFlags = []string{"--client-secret", "--clientSecret", "--token", "--password"}

// Run executes bin with args, capturing stdout/stderr. A non-zero exit is
// returned as an *apperrors.Error of Kind KindExternalProcess carrying the
// full command string and stderr. When DryRun is set, Run only logs the
// intended command and returns an empty, successful Result.
func (e *Executor) Run(ctx context.Context, bin string, args ...string) (*Result, error) {
	argv := append([]string{bin}, args...)
	display := logging.RedactedArgv(argv, secretFlags...)

	if e.DryRun {
		e.Logger.Info("dry-run: would execute command", slog.String(logging.KeyCommand, display))
		return &Result{}, nil
	}

	e.Logger.Debug("executing command", slog.String(logging.KeyCommand, display))

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}

	result := &Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode}

	if err != nil {
		e.Logger.Error("command failed", slog.String(logging.KeyCommand, display), slog.Int("exit_code", exitCode))
		return result, apperrors.New(apperrors.KindExternalProcess, "command %q failed (exit %d): %s", display, exitCode, result.Stderr)
	}
	return result, nil
}

// Helm runs the helm binary with args.
func (e *Executor) Helm(ctx context.Context, args ...string) (*Result, error) {
	return e.Run(ctx, e.HelmBin, args...)
}

// KubectlCmd runs the kubectl binary with args.
func (e *Executor) KubectlCmd(ctx context.Context, args ...string) (*Result, error) {
	return e.Run(ctx, e.Kubectl, args...)
}
