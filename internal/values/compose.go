// Package values hosts the Value Builder helpers shared across every
// per-service variable enumeration in internal/services (spec.md §4.4):
// GCP service-account passthrough, PostgreSQL DSN composition, and
// root-domain-derived URLs. Per-service variable maps live next to the
// service that owns them; only the cross-service composition rules live
// here.
package values

import "fmt"

// PostgresTopology selects how a service reaches its PostgreSQL instance.
type PostgresTopology string

const (
	// PostgresLocal addresses a PostgreSQL instance running in the
	// service's own namespace.
	PostgresLocal PostgresTopology = "local"
	// PostgresGlobal addresses the shared fastbi-global-psql instance
	// exposed by stackgres-postgresql in the global-postgresql namespace.
	PostgresGlobal PostgresTopology = "global"
)

// globalPostgresHost is the in-cluster DNS name of the shared PostgreSQL
// service stood up by the stackgres-postgresql service (spec.md §4.4).
const globalPostgresHost = "fastbi-global-psql.global-postgresql.svc.cluster.local"

// globalPostgresPort is the shared PostgreSQL instance's service port.
const globalPostgresPort = 5432

// PostgresDSN builds a "postgresql://" connection string for a service,
// switching host based on topology: a locally-namespaced instance is
// addressed by its in-namespace service name, the shared instance always by
// the constant global host (spec.md §4.4).
func PostgresDSN(topology PostgresTopology, localServiceName, namespace, database, user, password string) string {
	host := localServiceName + "." + namespace + ".svc.cluster.local"
	port := 5432
	if topology == PostgresGlobal {
		host = globalPostgresHost
		port = globalPostgresPort
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s", user, password, host, port, database)
}

// RootDomainURLs composes the small family of URLs every SSO-integrated
// service derives from the tenant's root domain (spec.md §3/§4.4):
// "https://<prefix>.<root_domain>" for every non-empty prefix, and the bare
// "https://<root_domain>" for an empty prefix. Results are keyed by prefix.
func RootDomainURLs(rootDomain string, prefixes ...string) map[string]string {
	urls := make(map[string]string, len(prefixes))
	for _, prefix := range prefixes {
		if prefix == "" {
			urls[prefix] = "https://" + rootDomain
			continue
		}
		urls[prefix] = fmt.Sprintf("https://%s.%s", prefix, rootDomain)
	}
	return urls
}

// ServiceAccountOrEmpty returns serviceAccount unchanged. The empty result
// on non-GCP clouds comes from tenant.Identity.ServiceAccount, whose value
// is the argument here; this function applies no rule of its own, and no
// internal/services file calls it.
func ServiceAccountOrEmpty(serviceAccount string) string {
	return serviceAccount
}

// JoinAllowlist formats a list of CIDR blocks as the single newline-joined
// string the Template Renderer's map[string]string contract requires
// (internal/render.Renderer.Render pre-formats composite values before the
// call, per its doc comment).
func JoinAllowlist(cidrs []string) string {
	out := ""
	for i, c := range cidrs {
		if i > 0 {
			out += "\n"
		}
		out += c
	}
	return out
}
