package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileJournal_AppendCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deployment_metadata.json")

	j, err := New(path)
	require.NoError(t, err)

	require.NoError(t, j.Append(Record{
		Customer:              "acme",
		CustomerMainDomain:    "acme.fast.bi",
		DeploymentEnvironment: EnvInfrastructure,
		DeploymentName:        "cert-manager",
		ChartName:             "cert-manager",
		ChartVersion:          "v1.13.0",
		AppName:               "cert-manager",
		AppVersion:            "v1.13.0",
		DeployDate:            "2026-07-31",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	require.Equal(t, "cert-manager", records[0].DeploymentName)
}

func TestFileJournal_AppendTwiceIncrementsByOne(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deployment_metadata.json")
	j, err := New(path)
	require.NoError(t, err)

	rec := Record{Customer: "acme", DeploymentName: "traefik-lb"}
	require.NoError(t, j.Append(rec))
	require.NoError(t, j.Append(rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
}

func TestFileJournal_AppendWithMapAppVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deployment_metadata.json")
	j, err := New(path)
	require.NoError(t, err)

	require.NoError(t, j.Append(Record{
		Customer:       "acme",
		DeploymentName: "data-governance",
		AppVersion: map[string]string{
			"datahub-operator": "v0.3.1",
			"elasticsearch":    "8.11.0",
		},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "datahub-operator")
}

func TestNullJournal_AppendIsNoop(t *testing.T) {
	var j Journal = Null{}
	require.NoError(t, j.Append(Record{Customer: "acme"}))
}
