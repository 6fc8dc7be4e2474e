// Package journal implements the Metadata Journal (spec.md §4.8): an
// append-only record of what was deployed where, atomically rewritten on
// every append.
package journal

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fastbi/platform-deployer/internal/apperrors"
)

// DeploymentEnvironment classifies a Deployment Record's origin (spec.md §3).
type DeploymentEnvironment string

const (
	EnvInfrastructure         DeploymentEnvironment = "infrastructure"
	EnvInfrastructureServices DeploymentEnvironment = "infrastructure-services"
	EnvDataServices           DeploymentEnvironment = "data-services"
)

// Record is one Deployment Record (spec.md §3). AppVersion may be a scalar
// string or a map of sub-release name to version, for services that
// aggregate multiple Helm releases under one journal entry (e.g. Data
// Governance's operator/ES/prerequisites/main/extras releases).
type Record struct {
	Customer              string                `json:"customer"`
	CustomerMainDomain    string                `json:"customer_main_domain"`
	CustomerVaultSlug     string                `json:"customer_vault_slug"`
	DeploymentEnvironment DeploymentEnvironment `json:"deployment_environment"`
	DeploymentName        string                `json:"deployment_name"`
	ChartName             string                `json:"chart_name"`
	ChartVersion          string                `json:"chart_version"`
	AppName               string                `json:"app_name"`
	AppVersion            any                   `json:"app_version"`
	DeployDate            string                `json:"deploy_date"`
}

// Journal appends Deployment Records to a file-backed JSON array.
type Journal interface {
	Append(record Record) error
}

// FileJournal is the default Journal: a JSON array file, read before every
// append and rewritten atomically (temp file + os.Rename), matching the
// Template Renderer's write discipline.
type FileJournal struct {
	Path string
}

// New constructs a FileJournal rooted at path, creating path's parent
// directory as needed (spec.md §4.8: "parent directory created as needed").
func New(path string) (*FileJournal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrapf(apperrors.KindJournal, err, "creating metadata directory %s", dir)
	}
	return &FileJournal{Path: path}, nil
}

// Append reads the existing records (if the file exists), appends record,
// and atomically rewrites the file.
func (j *FileJournal) Append(record Record) error {
	records, err := j.read()
	if err != nil {
		return err
	}
	records = append(records, record)

	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.Wrapf(apperrors.KindJournal, err, "encoding metadata records")
	}

	dir := filepath.Dir(j.Path)
	tmp, err := os.CreateTemp(dir, ".journal-*.tmp")
	if err != nil {
		return apperrors.Wrapf(apperrors.KindJournal, err, "creating temp metadata file in %s", dir)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return apperrors.Wrapf(apperrors.KindJournal, err, "writing metadata records")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrapf(apperrors.KindJournal, err, "closing temp metadata file")
	}
	if err := os.Rename(tmpPath, j.Path); err != nil {
		return apperrors.Wrapf(apperrors.KindJournal, err, "renaming metadata file to %s", j.Path)
	}
	return nil
}

func (j *FileJournal) read() ([]Record, error) {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.Wrapf(apperrors.KindJournal, err, "reading metadata file %s", j.Path)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.Wrapf(apperrors.KindJournal, err, "parsing metadata file %s", j.Path)
	}
	return records, nil
}

// Null is the opt-out Journal used when --skip_metadata is set (spec.md
// §4.8: "A null-object journal is available for opt-out").
type Null struct{}

// Append is a no-op.
func (Null) Append(Record) error { return nil }

var (
	_ Journal = (*FileJournal)(nil)
	_ Journal = Null{}
)
