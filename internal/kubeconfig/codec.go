package kubeconfig

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// parseKubeconfig tries YAML first, then JSON, matching
// original_source/utils/kubeconfig_fixer.py's read order, grounded on
// gopkg.in/yaml.v3 (other_examples/34310fd7_FairForge-vaultaire__internal-k8s-helm.go.go
// uses the same library for chart/values YAML). Since JSON is also valid
// YAML, asYAML is false whenever content is valid JSON, so a JSON file is
// written back as JSON.
func parseKubeconfig(content []byte) (doc map[string]any, asYAML bool, err error) {
	var yamlDoc map[string]any
	if yamlErr := yaml.Unmarshal(content, &yamlDoc); yamlErr == nil && yamlDoc != nil {
		return normalizeYAML(yamlDoc), !json.Valid(content), nil
	}

	var jsonDoc map[string]any
	if jsonErr := json.Unmarshal(content, &jsonDoc); jsonErr == nil {
		return jsonDoc, false, nil
	}

	// Neither parse succeeded; surface the YAML error since it was tried
	// first and is the more common kubeconfig format.
	return nil, false, yaml.Unmarshal(content, &yamlDoc)
}

// normalizeYAML converts yaml.v3's map[string]interface{} + []interface{}
// decode shape (which already matches JSON's) and, for nested maps whose
// keys aren't already strings, leaves them as-is — kubeconfig documents
// only ever use string keys, so no further conversion is needed.
func normalizeYAML(doc map[string]any) map[string]any {
	return doc
}

func encodeKubeconfig(doc map[string]any, asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
