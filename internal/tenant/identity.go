// Package tenant models the Tenant Identity data structure (spec.md §3):
// the immutable set of facts about a customer's deployment target that every
// other component composes against.
package tenant

import (
	"fmt"
	"strings"

	"github.com/fastbi/platform-deployer/internal/apperrors"
)

// CloudProvider enumerates the supported deployment targets.
type CloudProvider string

const (
	CloudGCP         CloudProvider = "gcp"
	CloudAWS         CloudProvider = "aws"
	CloudAzure       CloudProvider = "azure"
	CloudSelfManaged CloudProvider = "self-managed"
)

// Valid reports whether c is one of the supported providers.
func (c CloudProvider) Valid() bool {
	switch c {
	case CloudGCP, CloudAWS, CloudAzure, CloudSelfManaged:
		return true
	}
	return false
}

// Identity is the immutable identity of one customer's deployment, built
// once per orchestrator run and never mutated afterward.
type Identity struct {
	Customer       string
	Domain         string
	CloudProvider  CloudProvider
	ProjectID      string
	Region         string
	ClusterName    string
	KubeConfigPath string
	Namespace      string
}

// validCustomer checks the CLI contract's [a-z0-9-]+ rule without pulling
// in the regexp package for a single character class.
func validCustomer(customer string) bool {
	if customer == "" {
		return false
	}
	for _, r := range customer {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

// New constructs an Identity, applying the defaulting rules from spec.md §3:
//   - cluster_name defaults to fast-bi-<customer>-platform
//   - kubeconfig_path defaults to /tmp/<cluster_name>-kubeconfig.yaml
//   - project_id defaults to fast-bi-<customer> for GCP, stays empty otherwise
//
// warnf, if non-nil, is called with a formatted warning when project_id had
// to be defaulted on GCP (spec.md §8 boundary behavior).
func New(customer, domain string, cloud CloudProvider, projectID, region, clusterName, kubeConfigPath, namespace string, warnf func(format string, args ...any)) (*Identity, error) {
	if !validCustomer(customer) {
		return nil, apperrors.New(apperrors.KindInputValidation, "customer %q must match [a-z0-9-]+", customer)
	}
	if !cloud.Valid() {
		return nil, apperrors.New(apperrors.KindInputValidation, "unsupported cloud provider: %s", cloud)
	}

	id := &Identity{
		Customer:      customer,
		Domain:        domain,
		CloudProvider: cloud,
		Region:        region,
		Namespace:     namespace,
	}

	if clusterName != "" {
		id.ClusterName = clusterName
	} else {
		id.ClusterName = fmt.Sprintf("fast-bi-%s-platform", customer)
	}

	if kubeConfigPath != "" {
		id.KubeConfigPath = kubeConfigPath
	} else {
		id.KubeConfigPath = fmt.Sprintf("/tmp/%s-kubeconfig.yaml", id.ClusterName)
	}

	if cloud == CloudGCP {
		trimmed := strings.TrimSpace(projectID)
		if trimmed != "" {
			id.ProjectID = trimmed
		} else {
			id.ProjectID = fmt.Sprintf("fast-bi-%s", customer)
			if warnf != nil {
				warnf("no project_id provided, defaulting to %s", id.ProjectID)
			}
		}
	}

	return id, nil
}

// RootDomain is customer_root_domain = customer + "." + domain.
func (id *Identity) RootDomain() string {
	return id.Customer + "." + id.Domain
}

// ServiceAccount returns the GCP service-account identity for a logical
// service prefix, or empty when the tenant is not on GCP (spec.md §4.4).
func (id *Identity) ServiceAccount(logicalPrefix string) string {
	if id.CloudProvider != CloudGCP || id.ProjectID == "" {
		return ""
	}
	return fmt.Sprintf("%s-k8s-sa@%s.iam.gserviceaccount.com", logicalPrefix, id.ProjectID)
}
