package release

import (
	"context"
	"log/slog"
	"os"

	"github.com/fastbi/platform-deployer/internal/apperrors"
	execpkg "github.com/fastbi/platform-deployer/internal/exec"
	"github.com/fastbi/platform-deployer/internal/logging"
	"github.com/fastbi/platform-deployer/internal/render"
)

// Runner drives a single Release Step through its state machine
// (spec.md §4.5): pending → rendering → applying_repo → upgrading →
// [waiting] → [post_applying] → done, with any failure terminal at "failed".
type Runner struct {
	Executor *execpkg.Executor
	Renderer *render.Renderer
	Logger   *slog.Logger

	KubeConfigPath string
}

// Run executes one Release Step end to end.
func (r *Runner) Run(ctx context.Context, step *Step) error {
	logger := logging.WithService(r.Logger, step.Name)
	step.State = StateRendering

	for _, t := range step.Templates {
		if err := r.Renderer.Render(t.TemplatePath, t.OutputPath, t.Vars, t.Strict); err != nil {
			step.State = StateFailed
			logger.Error("rendering failed", logging.Step(step.Name), logging.Err(err))
			return err
		}
	}

	// Invariant (spec.md §8): values_path must exist and be non-empty
	// before the step invokes helm upgrade.
	if err := r.validateValuesPath(step.ValuesPath); err != nil {
		step.State = StateFailed
		return err
	}

	step.State = StateApplyingRepo
	if step.PreCreateNamespace {
		// The SSO release's namespace must already exist before its
		// helm upgrade runs so the realm secret material can be applied
		// into it; every other service instead relies on helm's own
		// --create-namespace (spec.md §4.5 tie-break).
		if err := r.Executor.CreateNamespace(ctx, step.Namespace, r.KubeConfigPath); err != nil {
			step.State = StateFailed
			logger.Error("namespace pre-create failed", logging.Step(step.Name), logging.Err(err))
			return err
		}
	}
	if step.Chart.OCIURL == "" && step.Chart.RepoURL != "" {
		if err := r.Executor.RepoAddUpdate(ctx, step.Chart.RepoName, step.Chart.RepoURL); err != nil {
			step.State = StateFailed
			logger.Error("helm repo add/update failed", logging.Step(step.Name), logging.Err(err))
			return err
		}
	}

	step.State = StateUpgrading
	timeout := ""
	if step.Timeout > 0 {
		timeout = step.Timeout.String()
	}
	err := r.Executor.Upgrade(ctx, execpkg.UpgradeOptions{
		ReleaseName:    step.Name,
		Chart:          execpkg.ChartRefString(step.Chart.RepoName, step.Chart.OCIURL, step.Chart.Name),
		Version:        step.Chart.Version,
		Namespace:      step.Namespace,
		ValuesPath:     step.ValuesPath,
		KubeConfigPath: r.KubeConfigPath,
		Wait:           step.WaitForHelm,
		Timeout:        timeout,
	})
	if err != nil {
		step.State = StateFailed
		logger.Error("helm upgrade failed", logging.Step(step.Name), logging.Release(step.Name), logging.Err(err))
		return err
	}

	if step.WaitSelector != "" {
		step.State = StateWaiting
		waitNamespace := step.WaitLabelNamespace
		if waitNamespace == "" {
			waitNamespace = step.Namespace
		}
		waitTimeout := step.WaitTimeout
		if waitTimeout == 0 {
			waitTimeout = DefaultPodWaitTimeout
		}
		if err := r.Executor.WaitReady(ctx, step.WaitSelector, waitNamespace, waitTimeout.String(), r.KubeConfigPath); err != nil {
			step.State = StateFailed
			logger.Error("readiness wait failed", logging.Step(step.Name), logging.Err(err))
			return err
		}
	}

	if len(step.PostApplyManifests) > 0 {
		step.State = StatePostApplying
		for _, manifest := range step.PostApplyManifests {
			if err := r.Executor.Apply(ctx, manifest, step.Namespace, r.KubeConfigPath); err != nil {
				step.State = StateFailed
				logger.Error("post-apply manifest failed", logging.Step(step.Name), slog.String("manifest", manifest), logging.Err(err))
				return err
			}
		}
	}

	step.State = StateDone
	logger.Info("release step completed", logging.Step(step.Name), logging.Status(logging.StatusSuccess))
	return nil
}

func (r *Runner) validateValuesPath(path string) error {
	if path == "" {
		return apperrors.New(apperrors.KindPreconditionMissing, "values_path must be set before upgrading")
	}
	info, err := os.Stat(path)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindPreconditionMissing, err, "values file not found: %s", path)
	}
	if info.Size() == 0 {
		return apperrors.New(apperrors.KindPreconditionMissing, "values file is empty: %s", path)
	}
	return nil
}

// DeployedAppVersion queries helm for the deployed app_version of step's
// release (spec.md §4.5).
func (r *Runner) DeployedAppVersion(ctx context.Context, step *Step) string {
	return r.Executor.DeployedAppVersion(ctx, step.Name, step.Namespace, r.KubeConfigPath)
}
