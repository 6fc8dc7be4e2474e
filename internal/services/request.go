package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fastbi/platform-deployer/internal/config"
	"github.com/fastbi/platform-deployer/internal/secretstore"
	"github.com/fastbi/platform-deployer/internal/tenant"
)

// BuildRequest carries everything a service's Builder needs to compose its
// ServiceSpec: the tenant identity, common + service-specific flags, and a
// resolver already authenticated by the caller (spec.md §4.2: a remote
// token is acquired once per orchestrator run, before any service-specific
// secret fan-out begins).
type BuildRequest struct {
	Ctx      context.Context
	Identity *tenant.Identity
	Flags    *config.CommonFlags
	Resolver secretstore.Resolver

	// TemplateDir is the root directory service value templates are read
	// from, conventionally "templates/<service-name>/...".
	TemplateDir string
	// RenderDir is the directory rendered values files are written to,
	// conventionally "/tmp/fastbi-deploy/<customer>/<service-name>/...".
	RenderDir string

	// Service-specific flags (spec.md §6), left zero-valued by services
	// that don't use them.
	AppVersion                            string
	OAuthChartVersion                     string
	BISystem                              string
	DataReplicationDefaultDestinationType string
	UserEmail                             string
	WhitelistedEnvironmentIPs             []string
	ExternalIP                            string
}

func (r BuildRequest) templatePath(name string) string {
	return r.TemplateDir + "/" + name
}

func (r BuildRequest) renderPath(name string) string {
	return r.RenderDir + "/" + name
}

// fetchSecret is a small convenience wrapper used by Builders that need a
// single secret, to fetch one (name, path) pair and propagate a SecretResolution error unchanged
// (spec.md §4.4: "absent secret => abort that service with a structured
// error naming the secret").
func fetchSecret(r BuildRequest, name, path string) (string, error) {
	return r.Resolver.Get(r.Ctx, name, path, secretstore.GetOptions{})
}

// secretRequest names one (name, path) lookup and the key its value is
// returned under.
type secretRequest struct {
	Key, Name, Path string
}

// fetchSecrets resolves every secretRequest concurrently via errgroup,
// exploiting the Resolver's statelessness (spec.md §4.2: "safe to call in
// parallel"). The first lookup to fail aborts the remaining in-flight
// lookups and its error is returned unchanged, same as a single fetchSecret
// call would.
func fetchSecrets(r BuildRequest, reqs ...secretRequest) (map[string]string, error) {
	values := make([]string, len(reqs))
	g, ctx := errgroup.WithContext(r.Ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			v, err := r.Resolver.Get(ctx, req.Name, req.Path, secretstore.GetOptions{})
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(reqs))
	for i, req := range reqs {
		out[req.Key] = values[i]
	}
	return out, nil
}
