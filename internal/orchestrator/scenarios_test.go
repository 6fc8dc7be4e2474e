package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastbi/platform-deployer/internal/apperrors"
	execpkg "github.com/fastbi/platform-deployer/internal/exec"
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/logging"
	"github.com/fastbi/platform-deployer/internal/release"
	"github.com/fastbi/platform-deployer/internal/render"
	"github.com/fastbi/platform-deployer/internal/secretstore"
	"github.com/fastbi/platform-deployer/internal/tenant"
	"github.com/fastbi/platform-deployer/internal/values"
)

func fixedNow() string { return "2026-07-31" }

func newTestOrchestrator(t *testing.T, j journal.Journal) *Orchestrator {
	t.Helper()
	logger := logging.New(false)
	return New(
		execpkg.New(logger, true, "helm", "kubectl"),
		render.New(),
		j,
		logger,
		"/tmp/kubeconfig.yaml",
		fixedNow,
	)
}

// Scenario 1: cert-manager on GCP (spec.md §8, scenario 1).
func TestScenario_CertManagerOnGCP(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "values.yaml.tmpl")
	require.NoError(t, os.WriteFile(tmplPath, []byte("cert_manager_k8s_sa: {{ .ServiceAccount }}\n"), 0o644))
	outputPath := filepath.Join(dir, "values.yaml")

	id, err := tenant.New("acme", "fast.bi", tenant.CloudGCP, "fast-bi-acme", "", "", "", "cert-manager", nil)
	require.NoError(t, err)

	serviceAccount := id.ServiceAccount("cert-manager")
	require.Equal(t, "cert-manager-k8s-sa@fast-bi-acme.iam.gserviceaccount.com", serviceAccount)

	step := &release.Step{
		Name:       "cert-manager",
		Chart:      release.ChartRef{RepoName: "jetstack", RepoURL: "https://charts.jetstack.io", Name: "cert-manager", Version: "v1.13.0"},
		Namespace:  "cert-manager",
		ValuesPath: outputPath,
		Templates: []release.TemplateSpec{
			{TemplatePath: tmplPath, OutputPath: outputPath, Vars: map[string]string{"ServiceAccount": serviceAccount}},
		},
	}

	var j inMemoryJournal
	o := newTestOrchestrator(t, &j)
	err = o.Run(context.Background(), id, ServiceSpec{
		Name:                  "cert-manager",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               "cert-manager",
	}, "v1.13.0", "acme")
	require.NoError(t, err)

	rendered, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Contains(t, string(rendered), "cert_manager_k8s_sa: cert-manager-k8s-sa@fast-bi-acme.iam.gserviceaccount.com")

	require.Len(t, j.records, 1)
	require.Equal(t, journal.EnvInfrastructure, j.records[0].DeploymentEnvironment)
	require.Equal(t, "acme.fast.bi", j.records[0].CustomerMainDomain)
}

// Scenario 2: Traefik with IP allowlist (spec.md §8, scenario 2).
func TestScenario_TraefikWithIPAllowlist(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "values.yaml.tmpl")
	require.NoError(t, os.WriteFile(tmplPath, []byte(
		"loadBalancerSourceRanges: {{ .Allowlist }}\nloadBalancerIP: {{ .ExternalIP }}\n"), 0o644))
	outputPath := filepath.Join(dir, "values.yaml")

	allowlist := values.JoinAllowlist([]string{"1.2.3.4/32", "5.6.7.0/24"})

	step := &release.Step{
		Name:       "traefik-ingress",
		Chart:      release.ChartRef{RepoName: "traefik", RepoURL: "https://helm.traefik.io/traefik", Name: "traefik", Version: "v26.0.0"},
		Namespace:  "traefik-ingress",
		ValuesPath: outputPath,
		Templates: []release.TemplateSpec{
			{TemplatePath: tmplPath, OutputPath: outputPath, Vars: map[string]string{
				"Allowlist":  allowlist,
				"ExternalIP": "34.0.0.1",
			}},
		},
	}

	id, err := tenant.New("acme", "fast.bi", tenant.CloudGCP, "fast-bi-acme", "", "", "", "traefik-ingress", nil)
	require.NoError(t, err)

	var j inMemoryJournal
	o := newTestOrchestrator(t, &j)
	err = o.Run(context.Background(), id, ServiceSpec{
		Name:                  "traefik-lb",
		DeploymentEnvironment: journal.EnvInfrastructure,
		Steps:                 []*release.Step{step},
		AppName:               "traefik",
	}, "v26.0.0", "acme")
	require.NoError(t, err)

	rendered, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Contains(t, string(rendered), "1.2.3.4/32")
	require.Contains(t, string(rendered), "5.6.7.0/24")
	require.Contains(t, string(rendered), "loadBalancerIP: 34.0.0.1")
}

// Scenario 3: Data Replication with external Postgres and BigQuery (spec.md
// §8, scenario 3), covering the two-release shape and the global-Postgres
// DSN topology.
func TestScenario_DataReplicationTwoReleasesGlobalPostgres(t *testing.T) {
	dir := t.TempDir()
	oauthTmpl := filepath.Join(dir, "oauth.yaml.tmpl")
	mainTmpl := filepath.Join(dir, "main.yaml.tmpl")
	require.NoError(t, os.WriteFile(oauthTmpl, []byte("oauth_callback_url: {{ .CallbackURL }}\n"), 0o644))
	require.NoError(t, os.WriteFile(mainTmpl, []byte("db_url: {{ .DBURL }}\ngcp_project_region: {{ .Region }}\n"), 0o644))

	oauthOutput := filepath.Join(dir, "oauth.yaml")
	mainOutput := filepath.Join(dir, "main.yaml")

	id, err := tenant.New("acme", "fast.bi", tenant.CloudGCP, "fast-bi-acme", "europe-west1", "", "", "data-replication", nil)
	require.NoError(t, err)

	dsn := values.PostgresDSN(values.PostgresGlobal, "ignored", "ignored", "airbyte", "airbyte", "s3cr3t")
	require.Contains(t, dsn, "fastbi-global-psql.global-postgresql.svc.cluster.local:5432")

	oauthStep := &release.Step{
		Name:       "data-replication-oauth",
		Chart:      release.ChartRef{RepoName: "oauth2-proxy", RepoURL: "https://oauth2-proxy.github.io/manifests", Name: "oauth2-proxy", Version: "v7.6.0"},
		Namespace:  "data-replication",
		ValuesPath: oauthOutput,
		Templates: []release.TemplateSpec{
			{TemplatePath: oauthTmpl, OutputPath: oauthOutput, Vars: map[string]string{
				"CallbackURL": "https://airbyte." + id.RootDomain() + "/oauth2/callback",
			}},
		},
	}
	mainStep := &release.Step{
		Name:       "data-replication",
		Chart:      release.ChartRef{RepoName: "airbyte", RepoURL: "https://airbytehq.github.io/helm-charts", Name: "airbyte", Version: "v0.50.0"},
		Namespace:  "data-replication",
		ValuesPath: mainOutput,
		Templates: []release.TemplateSpec{
			{TemplatePath: mainTmpl, OutputPath: mainOutput, Vars: map[string]string{
				"DBURL":  dsn,
				"Region": id.Region,
			}},
		},
		Timeout: release.HeavyHelmTimeout,
	}

	var j inMemoryJournal
	o := newTestOrchestrator(t, &j)
	err = o.Run(context.Background(), id, ServiceSpec{
		Name:                  "data-replication",
		DeploymentEnvironment: journal.EnvDataServices,
		Steps:                 []*release.Step{oauthStep, mainStep},
		PrimaryStepIndex:      1,
		AppName:               "airbyte",
	}, "v0.50.0", "acme")
	require.NoError(t, err)

	oauthRendered, err := os.ReadFile(oauthOutput)
	require.NoError(t, err)
	require.Contains(t, string(oauthRendered), "https://airbyte.acme.fast.bi/oauth2/callback")

	mainRendered, err := os.ReadFile(mainOutput)
	require.NoError(t, err)
	require.Contains(t, string(mainRendered), "fastbi-global-psql.global-postgresql.svc.cluster.local:5432")
	require.Contains(t, string(mainRendered), "gcp_project_region: europe-west1")

	require.Len(t, j.records, 1)
	require.Equal(t, "data-replication", j.records[0].DeploymentName)
	appVersions, ok := j.records[0].AppVersion.(map[string]string)
	require.True(t, ok)
	require.Contains(t, appVersions, "data-replication-oauth")
	require.Contains(t, appVersions, "data-replication")
}

// Scenario 6: missing secret aborts the service before any release is
// installed (spec.md §8, scenario 6).
func TestScenario_MissingSecretAbortsBeforeRelease(t *testing.T) {
	dir := t.TempDir()
	vaultPath := filepath.Join(dir, "acme_customer_vault_structure.json")
	require.NoError(t, os.WriteFile(vaultPath, []byte(`{"idp-sso": {}}`), 0o644))

	cfg, err := secretstore.NewLocalConfig(vaultPath)
	require.NoError(t, err)
	resolver := secretstore.NewLocalResolver(cfg)

	_, err = resolver.Get(context.Background(), "username", "/idp-sso/database-secrets", secretstore.GetOptions{})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.KindSecretResolution))

	var j inMemoryJournal
	require.Empty(t, j.records)
}

type inMemoryJournal struct {
	records []journal.Record
}

func (j *inMemoryJournal) Append(record journal.Record) error {
	j.records = append(j.records, record)
	return nil
}
