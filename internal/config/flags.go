// Package config centralizes the CLI flag surface shared across every
// per-service subcommand (spec.md §6), matching the teacher's cmd/ layout
// of one small file per concern rather than each subcommand redeclaring the
// same pflag calls.
package config

import (
	"github.com/Masterminds/semver/v3"
	"github.com/spf13/pflag"

	"github.com/fastbi/platform-deployer/internal/apperrors"
	"github.com/fastbi/platform-deployer/internal/secretstore"
	"github.com/fastbi/platform-deployer/internal/tenant"
)

// VaultMethod selects the Secret Backend Configuration variant.
type VaultMethod string

const (
	MethodLocalVault        VaultMethod = "local_vault"
	MethodExternalInfisical VaultMethod = "external_infisical"
)

// CommonFlags holds every flag shared by all service subcommands (spec.md
// §6): tenant identity, chart version, and vault credentials.
type CommonFlags struct {
	Customer       string
	ChartVersion   string
	CloudProvider  string
	DomainName     string
	Namespace      string
	ProjectID      string
	ClusterName    string
	KubeConfigPath string
	MetadataFile   string
	SkipMetadata   bool
	Debug          bool
	DryRun         bool

	Method                VaultMethod
	ExternalInfisicalHost string
	Slug                  string
	VaultProjectID        string
	ClientID              string
	ClientSecret          string

	Region string
}

// BindCommon registers every common flag on flags, with defaultNamespace
// filled in as that subcommand's service-specific namespace default
// (spec.md §6: "--namespace (service-specific default)"). Takes the
// *pflag.FlagSet directly rather than a *cobra.Command, matching the
// BindFlags(*pflag.FlagSet) convention shared by sibling flag groups.
func BindCommon(flags *pflag.FlagSet, f *CommonFlags, defaultNamespace string) {
	flags.StringVar(&f.Customer, "customer", "", "customer identifier, [a-z0-9-]+ (required)")
	flags.StringVar(&f.ChartVersion, "chart_version", "", "Helm chart version to install")
	flags.StringVar(&f.CloudProvider, "cloud_provider", "gcp", "cloud provider: gcp, aws, azure, self-managed")
	flags.StringVar(&f.DomainName, "domain_name", "fast.bi", "root domain the tenant is served under")
	flags.StringVar(&f.Namespace, "namespace", defaultNamespace, "Kubernetes namespace for this service")
	flags.StringVar(&f.ProjectID, "project_id", "", "cloud project id (GCP only; defaults to fast-bi-<customer>)")
	flags.StringVar(&f.ClusterName, "cluster_name", "", "cluster name (defaults to fast-bi-<customer>-platform)")
	flags.StringVar(&f.KubeConfigPath, "kube_config_path", "", "kubeconfig path (defaults to /tmp/<cluster_name>-kubeconfig.yaml)")
	flags.StringVar(&f.MetadataFile, "metadata_file", "deployment_metadata.json", "path to the metadata journal file")
	flags.BoolVar(&f.SkipMetadata, "skip_metadata", false, "skip appending a deployment record")
	flags.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&f.DryRun, "dry_run", false, "log intended helm/kubectl commands without executing them")

	flags.StringVar((*string)(&f.Method), "method", string(MethodLocalVault), "secret backend: local_vault, external_infisical")
	flags.StringVar(&f.ExternalInfisicalHost, "external_infisical_host", "", "remote secret service host (method=external_infisical)")
	flags.StringVar(&f.Slug, "slug", "", "vault project slug")
	flags.StringVar(&f.VaultProjectID, "vault_project_id", "", "remote vault workspace id (method=external_infisical)")
	flags.StringVar(&f.ClientID, "client_id", "", "remote vault universal-auth client id (method=external_infisical)")
	flags.StringVar(&f.ClientSecret, "client_secret", "", "remote vault universal-auth client secret (method=external_infisical)")

	flags.StringVar(&f.Region, "region", "europe-central2", "cloud region, used for region-scoped resources (e.g. BigQuery)")
}

// BuildIdentity constructs the Tenant Identity from the parsed flags
// (spec.md §3), emitting a warning through warnf when project_id had to be
// defaulted on GCP.
func (f *CommonFlags) BuildIdentity(warnf func(format string, args ...any)) (*tenant.Identity, error) {
	return tenant.New(
		f.Customer, f.DomainName, tenant.CloudProvider(f.CloudProvider),
		f.ProjectID, f.Region, f.ClusterName, f.KubeConfigPath, f.Namespace,
		warnf,
	)
}

// BuildResolver constructs the Secret Resolver named by Method (spec.md
// §3/§6). local_vault reads /tmp/<customer>_customer_vault_structure.json;
// external_infisical requires the full credential tuple.
func (f *CommonFlags) BuildResolver() (secretstore.Resolver, error) {
	switch f.Method {
	case MethodLocalVault:
		path := "/tmp/" + f.Customer + "_customer_vault_structure.json"
		cfg, err := secretstore.NewLocalConfig(path)
		if err != nil {
			return nil, err
		}
		return secretstore.NewLocalResolver(cfg), nil
	case MethodExternalInfisical:
		cfg, err := secretstore.NewRemoteConfig(f.ExternalInfisicalHost, f.VaultProjectID, f.ClientID, f.ClientSecret)
		if err != nil {
			return nil, err
		}
		return secretstore.NewRemoteResolver(cfg), nil
	default:
		return nil, apperrors.New(apperrors.KindInputValidation, "unsupported --method %q: must be local_vault or external_infisical", f.Method)
	}
}

// ValidateChartVersion rejects a --chart_version that isn't a parseable
// semantic version, catching a mistyped flag before any secret is fetched
// or any Helm command is built. An empty version (letting Helm resolve the
// chart's latest) is left untouched.
func (f *CommonFlags) ValidateChartVersion() error {
	if f.ChartVersion == "" {
		return nil
	}
	if _, err := semver.NewVersion(f.ChartVersion); err != nil {
		return apperrors.New(apperrors.KindInputValidation, "chart_version %q is not a valid semantic version", f.ChartVersion)
	}
	return nil
}
