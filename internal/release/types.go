// Package release implements the Release Step (spec.md §3/§4.5): the atomic
// unit of the Deployment Engine, and its state machine.
package release

import "time"

// ChartRef identifies a Helm chart (spec.md §3). OCIURL present means
// "helm repo add/update" is skipped entirely.
type ChartRef struct {
	RepoName string
	RepoURL  string
	OCIURL   string
	Name     string
	Version  string
}

// State is a Release Step's position in its state machine (spec.md §4.5).
type State string

const (
	StatePending      State = "pending"
	StateRendering    State = "rendering"
	StateApplyingRepo State = "applying_repo"
	StateUpgrading    State = "upgrading"
	StateWaiting      State = "waiting"
	StatePostApplying State = "post_applying"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// TemplateSpec pairs a template file with the output values path it renders
// to and the variables it is rendered against.
type TemplateSpec struct {
	TemplatePath string
	OutputPath   string
	Vars         map[string]string
	Strict       bool
}

// Step is a single Release Step: one Helm release plus its templates and
// any post-apply manifests (spec.md §3).
type Step struct {
	Name               string
	Chart              ChartRef
	Namespace          string
	ValuesPath         string
	Templates          []TemplateSpec
	WaitForHelm        bool
	Timeout            time.Duration
	WaitSelector       string
	WaitLabelNamespace string
	WaitTimeout        time.Duration
	PostApplyManifests []string

	// PreCreateNamespace requests the idempotent
	// "kubectl create namespace --dry-run=client -o yaml | kubectl apply -f -"
	// pipeline (internal/exec.Executor.CreateNamespace) before the step's
	// repo-add/upgrade phases, instead of relying on helm's own
	// --create-namespace. Only the SSO service's release sets this
	// (spec.md §4.5 tie-break).
	PreCreateNamespace bool

	State State
}

// DefaultPodWaitTimeout is the default readiness-wait budget (spec.md §4.6).
const DefaultPodWaitTimeout = 300 * time.Second

// HeavyHelmTimeout is the Helm-call timeout used by orchestration,
// replication, and analysis services (spec.md §4.6/§6).
const HeavyHelmTimeout = 30 * time.Minute

// LightHelmTimeout is the default Helm-call timeout for other services.
const LightHelmTimeout = 5 * time.Minute
