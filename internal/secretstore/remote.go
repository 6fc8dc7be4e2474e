package secretstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fastbi/platform-deployer/internal/apperrors"
)

// RemoteConfig configures the Remote secret backend (spec.md §3): a
// token-authenticated HTTP service (Infisical-compatible wire contract).
type RemoteConfig struct {
	Host         string
	ProjectID    string // workspaceId in the remote API
	ClientID     string
	ClientSecret string
	Environment  string // default "prod"
}

// NewRemoteConfig validates that the full credential tuple is present, per
// spec.md §3 ("a Remote backend requires the full credential tuple").
func NewRemoteConfig(host, projectID, clientID, clientSecret string) (*RemoteConfig, error) {
	if host == "" || projectID == "" || clientID == "" || clientSecret == "" {
		return nil, apperrors.New(apperrors.KindInputValidation,
			"external_infisical method requires host, vault_project_id, client_id and client_secret")
	}
	return &RemoteConfig{
		Host:         strings.TrimRight(host, "/"),
		ProjectID:    projectID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Environment:  "prod",
	}, nil
}

// RemoteResolver resolves secrets against the token-authenticated remote
// vault service described in spec.md §6.
type RemoteResolver struct {
	cfg        *RemoteConfig
	httpClient *http.Client
	retryable  *retryablehttp.Client

	mu    sync.Mutex
	token string
}

// NewRemoteResolver builds a Resolver backed by the remote vault service.
// GET lookups are retried a bounded number of times via retryablehttp since
// they are pure reads (spec.md §9 open question); the POST login is not.
func NewRemoteResolver(cfg *RemoteConfig) *RemoteResolver {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	return &RemoteResolver{
		cfg:        cfg,
		httpClient: cleanhttp.DefaultPooledClient(),
		retryable:  rc,
	}
}

var _ Resolver = (*RemoteResolver)(nil)

type authResponse struct {
	AccessToken string `json:"accessToken"`
}

// Authenticate logs in once per orchestrator run via
// POST <host>/api/v1/auth/universal-auth/login and caches the bearer token
// for the lifetime of the resolver; it is never refreshed (spec.md §4.2).
func (r *RemoteResolver) Authenticate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.token != "" {
		return nil
	}

	form := url.Values{
		"clientId":     {r.cfg.ClientID},
		"clientSecret": {r.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.cfg.Host+"/api/v1/auth/universal-auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.Wrapf(apperrors.KindSecretResolution, err, "building vault auth request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindSecretResolution, err, "authenticating with vault at %s", r.cfg.Host)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return apperrors.New(apperrors.KindSecretResolution, "vault authentication rejected (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed authResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apperrors.Wrapf(apperrors.KindSecretResolution, err, "parsing vault auth response")
	}
	if parsed.AccessToken == "" {
		return apperrors.New(apperrors.KindSecretResolution, "vault auth response did not contain an access token")
	}
	r.token = parsed.AccessToken
	return nil
}

type secretEnvelope struct {
	Secret struct {
		SecretValue string `json:"secretValue"`
	} `json:"secret"`
}

// Get performs GET <host>/api/v3/secrets/raw/<name> with the cached bearer
// token and the query parameters described in spec.md §6.
func (r *RemoteResolver) Get(ctx context.Context, name, path string, opts GetOptions) (string, error) {
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()
	if token == "" {
		return "", apperrors.New(apperrors.KindSecretResolution, "remote resolver used before Authenticate")
	}

	opts = withDefaults(opts)
	if opts.Environment == "" {
		opts.Environment = r.cfg.Environment
	}

	q := url.Values{}
	q.Set("workspaceId", r.cfg.ProjectID)
	q.Set("environment", opts.Environment)
	q.Set("secretPath", path)
	if opts.Version != "" {
		q.Set("version", opts.Version)
	}
	q.Set("type", opts.Type)
	q.Set("include_imports", fmt.Sprintf("%t", opts.IncludeImports))

	reqURL := fmt.Sprintf("%s/api/v3/secrets/raw/%s?%s", r.cfg.Host, name, q.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindSecretResolution, err, "building request for secret %s", name)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.retryable.Do(req)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindSecretResolution, err, "fetching secret %s at path %s", name, path)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return "", secretNotFound(name, path)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.KindSecretResolution, "vault returned status %d for secret %s at %s: %s", resp.StatusCode, name, path, string(body))
	}

	var parsed secretEnvelope
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperrors.Wrapf(apperrors.KindSecretResolution, err, "parsing secret response for %s", name)
	}
	if parsed.Secret.SecretValue == "" {
		return "", secretNotFound(name, path)
	}
	return parsed.Secret.SecretValue, nil
}
