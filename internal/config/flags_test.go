package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindCommon_DefaultsAndOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "cert-manager", Run: func(*cobra.Command, []string) {}}
	f := &CommonFlags{}
	BindCommon(cmd.Flags(), f, "cert-manager")

	cmd.SetArgs([]string{"--customer=acme", "--chart_version=v1.13.0"})
	require.NoError(t, cmd.Execute())

	require.Equal(t, "acme", f.Customer)
	require.Equal(t, "v1.13.0", f.ChartVersion)
	require.Equal(t, "cert-manager", f.Namespace)
	require.Equal(t, "gcp", f.CloudProvider)
	require.Equal(t, MethodLocalVault, f.Method)
}

func TestBuildIdentity_PropagatesFlags(t *testing.T) {
	f := &CommonFlags{Customer: "acme", DomainName: "fast.bi", CloudProvider: "gcp", ProjectID: "fast-bi-acme", Namespace: "cert-manager"}
	id, err := f.BuildIdentity(nil)
	require.NoError(t, err)
	require.Equal(t, "acme.fast.bi", id.RootDomain())
}

func TestBuildResolver_LocalVaultRequiresFile(t *testing.T) {
	f := &CommonFlags{Customer: "acme", Method: MethodLocalVault}
	_, err := f.BuildResolver()
	require.Error(t, err)
}

func TestBuildResolver_ExternalInfisicalRequiresCredentials(t *testing.T) {
	f := &CommonFlags{Customer: "acme", Method: MethodExternalInfisical}
	_, err := f.BuildResolver()
	require.Error(t, err)
}

func TestBuildResolver_UnsupportedMethod(t *testing.T) {
	f := &CommonFlags{Customer: "acme", Method: "bogus"}
	_, err := f.BuildResolver()
	require.Error(t, err)
}

func TestBuildResolver_LocalVaultSucceedsWhenFileExists(t *testing.T) {
	// BuildResolver hardcodes /tmp/<customer>_customer_vault_structure.json
	// per spec.md §6, so this test exercises that exact path.
	path := filepath.Join(os.TempDir(), "flags-test-customer_customer_vault_structure.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	t.Cleanup(func() { os.Remove(path) })

	f := &CommonFlags{Customer: "flags-test-customer", Method: MethodLocalVault}
	resolver, err := f.BuildResolver()
	require.NoError(t, err)
	require.NotNil(t, resolver)
}
