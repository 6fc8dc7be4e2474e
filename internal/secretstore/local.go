package secretstore

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/fastbi/platform-deployer/internal/apperrors"
)

// LocalConfig configures the Local secret backend (spec.md §3): a decrypted
// JSON tree on disk, conventionally produced by the operator's own
// encrypt/decrypt tooling (out of scope — see spec.md §1).
type LocalConfig struct {
	FilePath string
}

// NewLocalConfig validates that the vault file exists at construction time,
// per spec.md §3 ("a Local backend requires the file to exist at
// construction").
func NewLocalConfig(filePath string) (*LocalConfig, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, apperrors.Wrapf(apperrors.KindPreconditionMissing, err, "local vault file not found: %s", filePath)
	}
	return &LocalConfig{FilePath: filePath}, nil
}

// LocalResolver reads secrets from a nested JSON mapping on disk.
type LocalResolver struct {
	cfg *LocalConfig
}

// NewLocalResolver builds a Resolver backed by the given local vault file.
func NewLocalResolver(cfg *LocalConfig) *LocalResolver {
	return &LocalResolver{cfg: cfg}
}

var _ Resolver = (*LocalResolver)(nil)

// Authenticate is a no-op for the local backend.
func (r *LocalResolver) Authenticate(ctx context.Context) error { return nil }

// Get descends the JSON tree by slash-split path segments, then indexes name
// at the leaf (spec.md §8 invariant).
func (r *LocalResolver) Get(ctx context.Context, name, path string, _ GetOptions) (string, error) {
	raw, err := os.ReadFile(r.cfg.FilePath)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindSecretResolution, err, "reading local vault file %s", r.cfg.FilePath)
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", apperrors.Wrapf(apperrors.KindSecretResolution, err, "parsing local vault file %s", r.cfg.FilePath)
	}

	current := any(tree)
	for _, segment := range splitPath(path) {
		m, ok := current.(map[string]any)
		if !ok {
			return "", pathSegmentNotFound(segment, path)
		}
		next, ok := m[segment]
		if !ok {
			return "", pathSegmentNotFound(segment, path)
		}
		current = next
	}

	leaf, ok := current.(map[string]any)
	if !ok {
		return "", secretNotFound(name, path)
	}
	value, ok := leaf[name]
	if !ok {
		return "", secretNotFound(name, path)
	}
	str, ok := value.(string)
	if !ok {
		return "", apperrors.New(apperrors.KindSecretResolution, "secret %s at path %s is not a string", name, path)
	}
	return str, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
