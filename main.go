// Command fastbi-deploy renders Helm values from a customer's Tenant
// Identity and resolved secrets, then installs or upgrades a fast-bi
// service's Helm release(s) on the target Kubernetes cluster (spec.md §1).
package main

import (
	"os"

	"github.com/fastbi/platform-deployer/cmd"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.SetVersion(version)
	os.Exit(cmd.Execute())
}
