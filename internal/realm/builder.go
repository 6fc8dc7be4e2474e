// Package realm implements the Realm Builder (spec.md §2/§4.7): the SSO
// service's enumeration of every tenant OAuth client, with client
// credentials pulled from the Secret Resolver and redirect/sign-out URLs
// derived from the tenant's root domain.
package realm

import (
	"context"
	"fmt"

	"github.com/fastbi/platform-deployer/internal/secretstore"
)

// Client is one entry in the OAuth Client Catalog.
type Client struct {
	// Logical is the catalog name as referenced by the secret path.
	Logical string
	// TemplateVar is the variable-name prefix used when composing the
	// Value Document (differs from Logical for data_cicd_workflows, which
	// templates render under the name argo_workflows, and for
	// data_governance, which renders under the name datahub).
	TemplateVar string
	// DomainPrefix is the subdomain this client's UI is served from, or
	// empty for the bare-root client (user_console) and the client with
	// no redirect URL at all (bi).
	DomainPrefix string
	RedirectPath string
	SignoutPath  string
}

// catalog is the eleven-entry OAuth Client Catalog, recovered verbatim from
// the IdP SSO manager's client configuration table. TemplateVar differs from
// Logical for data_cicd_workflows (→ argo_workflows, per the original
// template_var_mappings table) and for data_governance (→ datahub, per
// spec.md §8 scenario 4's literal datahub_redirect_url expectation).
var catalog = []Client{
	{Logical: "data_cicd_workflows", TemplateVar: "argo_workflows", DomainPrefix: "workflows", RedirectPath: "/oauth2/callback"},
	{Logical: "data_replication", TemplateVar: "data_replication", DomainPrefix: "airbyte", RedirectPath: "/oauth2/callback"},
	{Logical: "data_orchestration", TemplateVar: "data_orchestration", DomainPrefix: "airflow", RedirectPath: "/oauth-authorized/FastBI-SSO"},
	{Logical: "bi", TemplateVar: "bi"},
	{Logical: "data_catalog", TemplateVar: "data_catalog", DomainPrefix: "dc-auth", RedirectPath: "/oauth2/callback", SignoutPath: "/oauth2/sign_out"},
	{Logical: "data_quality", TemplateVar: "data_quality", DomainPrefix: "dq-auth", RedirectPath: "/oauth2/callback", SignoutPath: "/oauth2/sign_out"},
	{Logical: "data_governance", TemplateVar: "datahub", DomainPrefix: "datahub", RedirectPath: "/callback/oidc"},
	{Logical: "data_modeling", TemplateVar: "data_modeling", DomainPrefix: "ide", RedirectPath: "/hub/oauth_callback"},
	{Logical: "platform_monitoring", TemplateVar: "platform_monitoring", DomainPrefix: "monitoring", RedirectPath: "/login/generic_oauth"},
	{Logical: "platform_object_storage", TemplateVar: "platform_object_storage", DomainPrefix: "minio", RedirectPath: "/oauth_callback"},
	{Logical: "user_console", TemplateVar: "user_console", RedirectPath: "/oidc/callback"},
}

// secretPath returns the kebab-case secret path segment for a client, which
// keeps the dash form even where the template variable name uses
// underscores (e.g. data_cicd_workflows's secrets still live under
// data-cicd-workflows).
func secretPath(logical string) string {
	out := make([]byte, len(logical))
	for i := 0; i < len(logical); i++ {
		if logical[i] == '_' {
			out[i] = '-'
		} else {
			out[i] = logical[i]
		}
	}
	return string(out)
}

// Build fetches every catalog client's credentials and composes the flat
// variable map the Realm Template renders against: "<var>_client_id",
// "<var>_client_secret", and, where the client has a domain,
// "<var>_redirect_url" / "<var>_signout_redirect_url" (or, for the bare-root
// user_console client, "<var>_redirect_url" / "<var>_root_url").
func Build(ctx context.Context, resolver secretstore.Resolver, rootDomain string) (map[string]string, error) {
	vars := make(map[string]string, len(catalog)*3)

	for _, c := range catalog {
		path := fmt.Sprintf("/idp-sso/sso-clients-secrets/%s/", secretPath(c.Logical))

		clientID, err := resolver.Get(ctx, "ClientID", path, secretstore.GetOptions{})
		if err != nil {
			return nil, err
		}
		clientSecret, err := resolver.Get(ctx, "ClientSecret", path, secretstore.GetOptions{})
		if err != nil {
			return nil, err
		}

		vars[c.TemplateVar+"_client_id"] = clientID
		vars[c.TemplateVar+"_client_secret"] = clientSecret

		switch {
		case c.DomainPrefix != "":
			vars[c.TemplateVar+"_redirect_url"] = fmt.Sprintf("https://%s.%s%s", c.DomainPrefix, rootDomain, c.RedirectPath)
			if c.SignoutPath != "" {
				vars[c.TemplateVar+"_signout_redirect_url"] = fmt.Sprintf("https://%s.%s%s", c.DomainPrefix, rootDomain, c.SignoutPath)
			}
		case c.Logical == "user_console":
			vars[c.TemplateVar+"_redirect_url"] = fmt.Sprintf("https://%s%s", rootDomain, c.RedirectPath)
			vars[c.TemplateVar+"_root_url"] = "https://" + rootDomain
		}
	}

	return vars, nil
}

// Catalog returns a copy of the OAuth Client Catalog, for callers (such as
// tests) that need to enumerate it without triggering secret fetches.
func Catalog() []Client {
	out := make([]Client, len(catalog))
	copy(out, catalog)
	return out
}
