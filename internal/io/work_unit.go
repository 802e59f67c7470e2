package io

import (
	"github.com/ecopia-map/shapecloud/internal/data"
)

// Contains the minimal data needed to write the PLY file of a single sample
type WorkUnit struct {
	DatasetID string
	SampleID  int
	Class     string
	Cloud     data.Cloud
	BasePath  string
}
