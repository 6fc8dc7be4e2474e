// Package orchestrator implements the Service Orchestrator (spec.md §4.5):
// driving a service's ordered Release Steps through their state machine,
// querying the deployed app version, and appending one Deployment Record
// per successful service run.
package orchestrator

import (
	"context"
	"log/slog"

	execpkg "github.com/fastbi/platform-deployer/internal/exec"
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/logging"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/render"
	"github.com/fastbi/platform-deployer/internal/tenant"
)

// ServiceSpec declaratively describes one service's deployment (spec.md §9
// design note: "services as data", one ServiceSpec shape driven by
// per-service configuration values rather than a Go type per service).
type ServiceSpec struct {
	// Name identifies the service for logging. The Deployment Record's
	// deployment_name is always the primary step's release name, not Name.
	Name string
	// DeploymentEnvironment classifies the service for the journal.
	DeploymentEnvironment journal.DeploymentEnvironment
	// Steps is the ordered list of Release Steps this service runs.
	// Multi-release services (e.g. Data Governance: operator, ES,
	// prerequisites, main, extras) list every sub-release here.
	Steps []*release.Step
	// PrimaryStepIndex selects which Steps entry is the journal's primary
	// release (spec.md §9: "deployment_name in the journal is the
	// service's primary release").
	PrimaryStepIndex int
	// AppName is the Deployment Record's app_name.
	AppName string
}

// Orchestrator drives ServiceSpecs to completion.
type Orchestrator struct {
	Runner  *release.Runner
	Journal journal.Journal
	Logger  *slog.Logger

	// Now returns the current date as "YYYY-MM-DD" for the journal's
	// deploy_date field. Set from New's now argument, with no default; the
	// CLI passes a UTC time.Now formatter and tests pass a fixed date.
	Now func() string
}

// New builds an Orchestrator from its collaborators.
func New(executor *execpkg.Executor, renderer *render.Renderer, j journal.Journal, logger *slog.Logger, kubeConfigPath string, now func() string) *Orchestrator {
	return &Orchestrator{
		Runner: &release.Runner{
			Executor:       executor,
			Renderer:       renderer,
			Logger:         logger,
			KubeConfigPath: kubeConfigPath,
		},
		Journal: j,
		Logger:  logger,
		Now:     now,
	}
}

// Run executes every Release Step in spec in order, aborting on the first
// failure (spec.md §4.5: "no compensating action is taken"), then appends
// exactly one Deployment Record for the service (spec.md §3: "Deployment
// Records are appended exactly once per successful release").
func (o *Orchestrator) Run(ctx context.Context, id *tenant.Identity, spec ServiceSpec, chartVersion, vaultSlug string) error {
	logger := logging.WithService(logging.WithCustomer(o.Logger, id.Customer), spec.Name)
	logger.Info("starting service deployment")

	for _, step := range spec.Steps {
		if err := o.Runner.Run(ctx, step); err != nil {
			logger.Error("service deployment failed", logging.Step(step.Name), logging.Err(err))
			return err
		}
	}

	primary := spec.Steps[spec.PrimaryStepIndex]
	appVersion := o.Runner.DeployedAppVersion(ctx, primary)

	record := journal.Record{
		Customer:              id.Customer,
		CustomerMainDomain:    id.RootDomain(),
		CustomerVaultSlug:     vaultSlug,
		DeploymentEnvironment: spec.DeploymentEnvironment,
		DeploymentName:        primary.Name,
		ChartName:             primary.Chart.Name,
		ChartVersion:          chartVersion,
		AppName:               spec.AppName,
		AppVersion:            o.aggregateAppVersion(ctx, spec, appVersion),
		DeployDate:            o.Now(),
	}

	if err := o.Journal.Append(record); err != nil {
		logger.Error("failed to record deployment metadata", logging.Err(err))
		return err
	}

	logger.Info("service deployment completed", logging.Status(logging.StatusSuccess))
	return nil
}

// aggregateAppVersion returns a single scalar app_version for single-release
// services, or a map of release name to app_version for multi-release
// services (spec.md §3: "app_version may be a scalar or a map").
func (o *Orchestrator) aggregateAppVersion(ctx context.Context, spec ServiceSpec, primaryVersion string) any {
	if len(spec.Steps) == 1 {
		return primaryVersion
	}
	versions := make(map[string]string, len(spec.Steps))
	for i, step := range spec.Steps {
		if i == spec.PrimaryStepIndex {
			versions[step.Name] = primaryVersion
			continue
		}
		versions[step.Name] = o.Runner.DeployedAppVersion(ctx, step)
	}
	return versions
}
