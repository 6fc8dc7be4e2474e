package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the fastbi-deploy application.
var rootCmd = &cobra.Command{
	Use:   "fastbi-deploy",
	Short: "Deploys and upgrades fast.bi platform services onto a customer's Kubernetes cluster",
	Long: `fastbi-deploy renders Helm values from a customer's Tenant Identity and
resolved secrets, then installs or upgrades that service's Helm release(s)
on the target cluster. Each service (cert-manager, traefik-lb,
stackgres-postgresql, data-orchestration, ...) is its own subcommand so an
operator can deploy or re-run one service at a time; "all" fans every
service out for a full platform bring-up.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() int {
	rootCmd.SetVersionTemplate(`{{printf "fastbi-deploy version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newKubeconfigFixCmd())
	for _, name := range serviceCommandNames() {
		rootCmd.AddCommand(newServiceCmd(name))
	}
	rootCmd.AddCommand(newAllCmd())
}
