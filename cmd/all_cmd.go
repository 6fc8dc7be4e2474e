package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastbi/platform-deployer/internal/config"
	"github.com/fastbi/platform-deployer/internal/logging"
)

// newAllCmd builds the "all" subcommand: a full platform bring-up that
// fans every registered service out in the leaves-first dependency order
// from spec.md §2, reusing one Tenant Identity, one authenticated Secret
// Resolver, and one Orchestrator across all of them (spec.md §4.2: "a
// remote authentication token is acquired once per orchestrator run").
//
// Every service-specific flag from every individual subcommand is also
// registered here, since "all" must be able to supply whichever of them
// the services it runs along the way require.
func newAllCmd() *cobra.Command {
	flags := &config.CommonFlags{}
	extra := &serviceExtras{}

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Deploy or upgrade every fast-bi service for a full platform bring-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.New(flags.Debug)

			identity, resolver, orch, err := prepareRun(ctx, logger, flags)
			if err != nil {
				return err
			}

			for _, name := range serviceCommandNames() {
				perService := *flags
				if cmd.Flags().Changed("namespace") {
					// Operator pinned one namespace for every service; honor it.
				} else {
					perService.Namespace = serviceNamespaceDefaults[name]
				}

				spec, err := buildServiceSpec(ctx, name, identity, &perService, resolver, extra)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if err := orch.Run(ctx, identity, spec, perService.ChartVersion, perService.Slug); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		},
	}

	config.BindCommon(cmd.Flags(), flags, "")
	bindAllExtras(cmd, extra)

	return cmd
}

// bindAllExtras registers every service-specific flag exactly once (several
// services share a flag name, e.g. bi_system, so this can't just call
// bindExtras once per service name the way each individual subcommand does).
func bindAllExtras(cmd *cobra.Command, extra *serviceExtras) {
	cmd.Flags().StringVar(&extra.UserEmail, "user_email", "", "operator email used for ACME/DNS-01 registration and console contact")
	cmd.Flags().StringSliceVar(&extra.WhitelistedEnvironmentIPs, "whitelisted_environment_ips", nil, "CIDR blocks allowed through the ingress load balancer")
	cmd.Flags().StringVar(&extra.ExternalIP, "external_ip", "", "static IP address to request for the ingress load balancer")
	cmd.Flags().StringVar(&extra.OAuthChartVersion, "oauth_chart_version", "", "chart version for data-replication's oauth2-proxy release")
	cmd.Flags().StringVar(&extra.DataReplicationDefaultDestinationType, "data_replication_default_destination_type", "bigquery", "default replication destination: bigquery, snowflake, redshift, fabric")
	cmd.Flags().StringVar(&extra.BISystem, "bi_system", "superset", "BI system: superset, lightdash, metabase, looker")
	cmd.Flags().StringVar(&extra.AppVersion, "app_version", "", "application version image tag for data-analysis")
}
