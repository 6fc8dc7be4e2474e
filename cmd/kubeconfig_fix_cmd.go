package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastbi/platform-deployer/internal/kubeconfig"
)

// newKubeconfigFixCmd builds the "kubeconfig-fix" subcommand, a standalone
// entry point for the Kubeconfig Fixer (spec.md §4.9/§2): run once against a
// freshly provisioned cluster's kubeconfig before any service subcommand, so
// every later "--kube_config_path" invocation finds a concrete exec path
// rather than a bare "gke-gcloud-auth-plugin" command name.
func newKubeconfigFixCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "kubeconfig-fix",
		Short: "Patch a kubeconfig's gke-gcloud-auth-plugin exec command to its resolved path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--kube_config_path is required")
			}
			fixer := kubeconfig.New()
			changed, err := fixer.Fix(cmd.Context(), path)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "patched %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already uses a resolved exec command, no change made\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "kube_config_path", "", "kubeconfig file to patch (required)")
	return cmd
}
