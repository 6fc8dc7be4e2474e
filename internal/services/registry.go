// Package services holds one declarative variable-enumeration function per
// fast-bi service (spec.md §4.4/§9 design note: "services as data" — a
// single ServiceSpec shape driven by per-service configuration values
// rather than one Go type per service). Each function composes an
// orchestrator.ServiceSpec from a tenant identity, resolved secrets, and
// service-specific flags, grounded on the matching
// original_source/deployers/services/*.py file.
package services

import "github.com/fastbi/platform-deployer/internal/orchestrator"

// Builder produces a ServiceSpec ready to run. It only names the template
// and output paths; the values files are rendered later, when
// release.Runner runs each step.
type Builder func(req BuildRequest) (orchestrator.ServiceSpec, error)

// registry maps a CLI subcommand name to the Builder that composes its
// ServiceSpec, letting package cmd's "all" subcommand and per-service
// subcommands share one lookup instead of a long switch statement.
var registry = map[string]Builder{
	"secret-operator":         BuildSecretOperator,
	"cert-manager":            BuildCertManager,
	"traefik-lb":              BuildTraefikLB,
	"stackgres-postgresql":    BuildStackgresPostgresql,
	"services-monitoring":     BuildServicesMonitoring,
	"idp-sso-manager":         BuildIdpSSOManager,
	"cicd-workload-runner":    BuildCICDWorkloadRunner,
	"object-storage-operator": BuildObjectStorageOperator,
	"data-replication":        BuildDataReplication,
	"data-orchestration":      BuildDataOrchestration,
	"data-modeling":           BuildDataModeling,
	"data-analysis":           BuildDataAnalysis,
	"data-governance":         BuildDataGovernance,
	"user-console":            BuildUserConsole,
}

// Names returns every registered service name, in a stable order matching
// spec.md §2's leaves-first dependency ordering (infra first, then data).
func Names() []string {
	return []string{
		"secret-operator", "cert-manager", "traefik-lb", "stackgres-postgresql",
		"services-monitoring", "idp-sso-manager",
		"cicd-workload-runner", "object-storage-operator", "data-replication",
		"data-orchestration", "data-modeling", "data-analysis", "data-governance",
		"user-console",
	}
}

// Lookup returns the Builder registered for name, or nil if unknown.
func Lookup(name string) Builder {
	return registry[name]
}
