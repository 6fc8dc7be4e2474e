// Package cmd provides the command-line interface for fastbi-deploy.
//
// Every fast-bi service is its own subcommand, sharing one set of common
// flags (spec.md §6: customer identity, cloud target, chart version, vault
// credentials) bound by internal/config. A service subcommand composes a
// Tenant Identity and Secret Resolver, asks internal/services for that
// service's declarative ServiceSpec, and hands it to the Service
// Orchestrator to run to completion. The "all" subcommand fans every
// service out in the leaves-first dependency order from spec.md §2.
//
//	fastbi-deploy cert-manager --customer=acme --cloud_provider=gcp ...
//	fastbi-deploy all --customer=acme --cloud_provider=gcp ...
//	fastbi-deploy kubeconfig-fix --kube_config_path=/tmp/acme-kubeconfig.yaml
//	fastbi-deploy version
package cmd
