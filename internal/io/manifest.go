package io

import (
	"encoding/json"
	"os"
	"path"
	"time"

	"github.com/ecopia-map/shapecloud/internal/data"
)

const ManifestFileName = "manifest.json"

// Describes an exported dataset folder tree
type Manifest struct {
	DatasetID      string            `json:"dataset_id"`
	CreatedAt      time.Time         `json:"created_at"`
	Classes        []string          `json:"classes"`
	Samples        int               `json:"samples"`
	PointsPerCloud int               `json:"points_per_cloud"`
	SamplesByClass map[string]int    `json:"samples_by_class"`
	Files          []ManifestEntry   `json:"files"`
	Params         map[string]string `json:"params,omitempty"`
}

type ManifestEntry struct {
	SampleID int    `json:"sample_id"`
	Class    string `json:"class"`
	Label    int    `json:"label"`
	Path     string `json:"path"`
}

// Builds the manifest of a dataset, file paths are relative to the export folder
func NewManifest(ds *data.Dataset, params map[string]string) *Manifest {
	m := &Manifest{
		DatasetID:      ds.ID,
		CreatedAt:      time.Now().UTC(),
		Classes:        append([]string(nil), ds.Classes...),
		Samples:        ds.Len(),
		PointsPerCloud: ds.PointsPerCloud(),
		SamplesByClass: make(map[string]int),
		Files:          make([]ManifestEntry, 0, ds.Len()),
		Params:         params,
	}

	for i := range ds.Clouds {
		class := ds.ClassName(i)
		m.SamplesByClass[class]++
		m.Files = append(m.Files, ManifestEntry{
			SampleID: i,
			Class:    class,
			Label:    ds.Labels[i],
			Path:     path.Join(class, SampleFileName(i)),
		})
	}
	return m
}

func WriteManifest(folder string, m *Manifest) error {
	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(folder, ManifestFileName), content, 0644)
}

func ReadManifest(folder string) (*Manifest, error) {
	content, err := os.ReadFile(path.Join(folder, ManifestFileName))
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := json.Unmarshal(content, m); err != nil {
		return nil, err
	}
	return m, nil
}
