// Package secretstore implements the Secret Resolver (spec.md §4.2): a
// uniform get-secret(name, path) operation over two backends, a remote
// token-authenticated HTTP service and a local decrypted JSON tree. Neither
// backend keeps per-call state, so both are safe to call concurrently.
package secretstore

import (
	"context"

	"github.com/fastbi/platform-deployer/internal/apperrors"
)

// GetOptions carries the optional parameters of a secret lookup. Zero values
// match the defaults in spec.md §4.2.
type GetOptions struct {
	Environment    string // default "prod"
	Version        string
	Type           string // default "shared"
	IncludeImports bool
}

// Resolver is the capability set implemented by both backends (spec.md §9:
// "polymorphic secret backend maps to a capability set, no inheritance").
type Resolver interface {
	// Authenticate performs backend login, if the backend needs one. Local
	// backends are a no-op. Safe to call once per orchestrator run.
	Authenticate(ctx context.Context) error

	// Get resolves the secret named name at the given slash-delimited path.
	// Returns a *apperrors.Error with Kind KindSecretResolution when the
	// secret is semantically absent, distinguishing that from network/IO
	// failures which carry their own underlying cause.
	Get(ctx context.Context, name, path string, opts GetOptions) (string, error)
}

func withDefaults(opts GetOptions) GetOptions {
	if opts.Environment == "" {
		opts.Environment = "prod"
	}
	if opts.Type == "" {
		opts.Type = "shared"
	}
	return opts
}

// secretNotFound builds the SecretResolution error for a missing leaf,
// matching the message shape from spec.md §8: "Secret X not found at path P".
func secretNotFound(name, path string) error {
	return apperrors.New(apperrors.KindSecretResolution, "Secret %s not found at path %s", name, path)
}

// pathSegmentNotFound builds the SecretResolution error for a missing
// intermediate path segment, naming the offending segment per spec.md §8.
func pathSegmentNotFound(segment, path string) error {
	return apperrors.New(apperrors.KindSecretResolution, "path segment %q not found in secret path %s", segment, path)
}
