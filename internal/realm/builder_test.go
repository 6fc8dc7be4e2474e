package realm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastbi/platform-deployer/internal/secretstore"
)

type fakeResolver struct{}

func (fakeResolver) Authenticate(ctx context.Context) error { return nil }

func (fakeResolver) Get(ctx context.Context, name, path string, opts secretstore.GetOptions) (string, error) {
	if name == "ClientID" {
		return "id-" + path, nil
	}
	return "secret-" + path, nil
}

func TestBuild_ArgoWorkflowsRenameIsPreserved(t *testing.T) {
	vars, err := Build(context.Background(), fakeResolver{}, "acme.fast.bi")
	require.NoError(t, err)

	require.Contains(t, vars, "argo_workflows_client_id")
	require.NotContains(t, vars, "data_cicd_workflows_client_id")
	require.Equal(t, "https://workflows.acme.fast.bi/oauth2/callback", vars["argo_workflows_redirect_url"])
}

func TestBuild_UserConsoleGetsBareRootURLs(t *testing.T) {
	vars, err := Build(context.Background(), fakeResolver{}, "acme.fast.bi")
	require.NoError(t, err)

	require.Equal(t, "https://acme.fast.bi/oidc/callback", vars["user_console_redirect_url"])
	require.Equal(t, "https://acme.fast.bi", vars["user_console_root_url"])
}

func TestBuild_BiClientHasNoURLs(t *testing.T) {
	vars, err := Build(context.Background(), fakeResolver{}, "acme.fast.bi")
	require.NoError(t, err)

	require.Contains(t, vars, "bi_client_id")
	require.NotContains(t, vars, "bi_redirect_url")
}

func TestBuild_SignoutURLOnlyForCatalogAndQuality(t *testing.T) {
	vars, err := Build(context.Background(), fakeResolver{}, "acme.fast.bi")
	require.NoError(t, err)

	require.Equal(t, "https://dc-auth.acme.fast.bi/oauth2/sign_out", vars["data_catalog_signout_redirect_url"])
	require.NotContains(t, vars, "data_orchestration_signout_redirect_url")
}

func TestCatalog_HasElevenEntries(t *testing.T) {
	require.Len(t, Catalog(), 11)
}

func TestSecretPath_KeepsDashFormForUnderscoreLogicalNames(t *testing.T) {
	require.Equal(t, "data-cicd-workflows", secretPath("data_cicd_workflows"))
}

func TestBuild_DataGovernanceRedirectURL(t *testing.T) {
	// spec.md §8 scenario 4: datahub_redirect_url=https://datahub.acme.fast.bi/callback/oidc
	vars, err := Build(context.Background(), fakeResolver{}, "acme.fast.bi")
	require.NoError(t, err)

	require.Equal(t, "https://datahub.acme.fast.bi/callback/oidc", vars["datahub_redirect_url"])
	require.NotContains(t, vars, "data_governance_redirect_url")
}
