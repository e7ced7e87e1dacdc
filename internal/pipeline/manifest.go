package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voltcurve/evsessions/internal/domain"
)

// Manifest describes one normalized dataset file. It is written next to the
// formatted CSV after every successful load so downstream consumers can tell
// what they are reading and when it was produced.
type Manifest struct {
	DatasetID string    `yaml:"dataset_id"`
	Source    string    `yaml:"source"`
	Rows      int       `yaml:"rows"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

func manifestPath(dir, datasetID string) string {
	return filepath.Join(dir, strings.ToLower(datasetID)+".manifest.yaml")
}

func writeManifest(dir, datasetID, source string, rows int) error {
	m := Manifest{
		DatasetID: datasetID,
		Source:    source,
		Rows:      rows,
		FetchedAt: domain.Now().UTC(),
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(manifestPath(dir, datasetID), data, 0o644)
}

// ReadManifest loads the manifest for datasetID from dir.
func ReadManifest(dir, datasetID string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath(dir, datasetID))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
