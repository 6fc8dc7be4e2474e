package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastbi/platform-deployer/internal/config"
	execpkg "github.com/fastbi/platform-deployer/internal/exec"
	"github.com/fastbi/platform-deployer/internal/journal"
	"github.com/fastbi/platform-deployer/internal/logging"
	"github.com/fastbi/platform-deployer/internal/orchestrator"
	"github.com/fastbi/platform-deployer/internal/render"
	"github.com/fastbi/platform-deployer/internal/secretstore"
	"github.com/fastbi/platform-deployer/internal/services"
	"github.com/fastbi/platform-deployer/internal/tenant"
)

// serviceNamespaceDefaults gives each service subcommand's --namespace
// default (spec.md §6: "--namespace (service-specific default)"), grounded
// on the namespace each original_source deployer passes to its own Helm
// releases.
var serviceNamespaceDefaults = map[string]string{
	"secret-operator":         "vault",
	"cert-manager":            "cert-manager",
	"traefik-lb":              "traefik-ingress",
	"stackgres-postgresql":    "global-postgresql",
	"services-monitoring":     "monitoring",
	"idp-sso-manager":         "idp-sso",
	"cicd-workload-runner":    "cicd-workload-trigger",
	"object-storage-operator": "minio",
	"data-replication":        "data-replication",
	"data-orchestration":      "data-orchestration",
	"data-modeling":           "data-modeling",
	"data-analysis":           "data-analysis",
	"data-governance":         "data-governance",
	"user-console":            "user-console",
}

// serviceCommandNames lists every registered service subcommand, in the
// leaves-first dependency order from spec.md §2.
func serviceCommandNames() []string {
	return services.Names()
}

// serviceExtras mirrors the service-specific flags of spec.md §6 that sit
// alongside config.CommonFlags: each is only bound to a cobra.Command when
// that service actually reads it (internal/services.BuildRequest).
type serviceExtras struct {
	AppVersion                             string
	OAuthChartVersion                      string
	BISystem                               string
	DataReplicationDefaultDestinationType  string
	UserEmail                              string
	WhitelistedEnvironmentIPs              []string
	ExternalIP                             string
}

// bindExtras registers name's service-specific flags onto cmd, writing into
// extra.
func bindExtras(cmd *cobra.Command, name string, extra *serviceExtras) {
	switch name {
	case "cert-manager":
		cmd.Flags().StringVar(&extra.UserEmail, "user_email", "", "operator email used for ACME/DNS-01 registration")
	case "traefik-lb":
		cmd.Flags().StringSliceVar(&extra.WhitelistedEnvironmentIPs, "whitelisted_environment_ips", nil, "CIDR blocks allowed through the ingress load balancer")
		cmd.Flags().StringVar(&extra.ExternalIP, "external_ip", "", "static IP address to request for the ingress load balancer")
	case "data-replication":
		cmd.Flags().StringVar(&extra.OAuthChartVersion, "oauth_chart_version", "", "chart version for this service's oauth2-proxy release")
		cmd.Flags().StringVar(&extra.DataReplicationDefaultDestinationType, "data_replication_default_destination_type", "bigquery", "default replication destination: bigquery, snowflake, redshift, fabric")
	case "data-analysis":
		cmd.Flags().StringVar(&extra.BISystem, "bi_system", "superset", "BI system: superset, lightdash, metabase, looker")
		cmd.Flags().StringVar(&extra.AppVersion, "app_version", "", "application version image tag for this service")
	case "user-console":
		cmd.Flags().StringVar(&extra.BISystem, "bi_system", "superset", "BI system: superset, lightdash, metabase, looker")
		cmd.Flags().StringVar(&extra.DataReplicationDefaultDestinationType, "data_replication_default_destination_type", "bigquery", "default replication destination: bigquery, snowflake, redshift, fabric")
		cmd.Flags().StringVar(&extra.UserEmail, "user_email", "", "operator email the console surfaces for support contact")
	}
}

// newServiceCmd builds the Cobra subcommand for one fast-bi service,
// binding its common and service-specific flags and running the full
// per-service pipeline described in spec.md §2 on Execute.
func newServiceCmd(name string) *cobra.Command {
	flags := &config.CommonFlags{}
	extra := &serviceExtras{}

	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Deploy or upgrade the %s service", name),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.New(flags.Debug)

			identity, resolver, orch, err := prepareRun(ctx, logger, flags)
			if err != nil {
				return err
			}

			spec, err := buildServiceSpec(ctx, name, identity, flags, resolver, extra)
			if err != nil {
				return err
			}

			return orch.Run(ctx, identity, spec, flags.ChartVersion, flags.Slug)
		},
	}

	config.BindCommon(cmd.Flags(), flags, serviceNamespaceDefaults[name])
	bindExtras(cmd, name, extra)

	return cmd
}

// prepareRun runs the ambient pre-flight shared by every service subcommand
// (spec.md §2): validate flags, build the Tenant Identity, construct and
// authenticate the Secret Resolver, and wire up the orchestrator's
// collaborators.
func prepareRun(ctx context.Context, logger *slog.Logger, flags *config.CommonFlags) (*tenant.Identity, secretstore.Resolver, *orchestrator.Orchestrator, error) {
	if err := flags.ValidateChartVersion(); err != nil {
		return nil, nil, nil, err
	}

	identity, err := flags.BuildIdentity(func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	})
	if err != nil {
		return nil, nil, nil, err
	}

	resolver, err := flags.BuildResolver()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := resolver.Authenticate(ctx); err != nil {
		return nil, nil, nil, err
	}

	j, err := buildJournal(flags)
	if err != nil {
		return nil, nil, nil, err
	}

	executor := execpkg.New(logger, flags.DryRun, "", "")
	renderer := render.New()
	orch := orchestrator.New(executor, renderer, j, logger, identity.KubeConfigPath, nowDate)

	return identity, resolver, orch, nil
}

// buildServiceSpec composes the BuildRequest for one service and calls its
// registered Builder.
func buildServiceSpec(ctx context.Context, name string, identity *tenant.Identity, flags *config.CommonFlags, resolver secretstore.Resolver, extra *serviceExtras) (orchestrator.ServiceSpec, error) {
	builder := services.Lookup(name)
	if builder == nil {
		return orchestrator.ServiceSpec{}, fmt.Errorf("no service registered with name %q", name)
	}

	req := services.BuildRequest{
		Ctx:         ctx,
		Identity:    identity,
		Flags:       flags,
		Resolver:    resolver,
		TemplateDir: "templates/" + name,
		RenderDir:   "/tmp/fastbi-deploy/" + flags.Customer + "/" + name,

		AppVersion:                            extra.AppVersion,
		OAuthChartVersion:                     extra.OAuthChartVersion,
		BISystem:                              extra.BISystem,
		DataReplicationDefaultDestinationType:  extra.DataReplicationDefaultDestinationType,
		UserEmail:                              extra.UserEmail,
		WhitelistedEnvironmentIPs:              extra.WhitelistedEnvironmentIPs,
		ExternalIP:                             extra.ExternalIP,
	}

	return builder(req)
}

// buildJournal returns the Metadata Journal named by flags, or the
// null-object Journal when --skip_metadata is set (spec.md §4.8).
func buildJournal(flags *config.CommonFlags) (journal.Journal, error) {
	if flags.SkipMetadata {
		return journal.Null{}, nil
	}
	return journal.New(flags.MetadataFile)
}

// nowDate returns today's date as "YYYY-MM-DD" in UTC, for a Deployment
// Record's deploy_date field (spec.md §3).
func nowDate() string {
	return time.Now().UTC().Format("2006-01-02")
}
