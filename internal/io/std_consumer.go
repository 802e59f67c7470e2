package io

import (
	"fmt"
	"path"
	"sync"

	"github.com/golang/glog"

	"github.com/ecopia-map/shapecloud/tools"
)

type StandardConsumer struct {
	format PlyFormat
}

func NewStandardConsumer(format PlyFormat) *StandardConsumer {
	return &StandardConsumer{
		format: format,
	}
}

// Name of the PLY file of a sample inside its class folder
func SampleFileName(sampleID int) string {
	return fmt.Sprintf("sample-%06d.ply", sampleID)
}

// Continually consumes WorkUnits submitted to a work channel producing the corresponding PLY files.
// Continues working until the work channel is closed or an error is raised. In this last case
// submits the error to an error channel before quitting.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	for work := range workchan {
		if err := c.doWork(work); err != nil {
			errchan <- err
			glog.Errorf("exception in consumer, sample %d: %v", work.SampleID, err)
			// keep draining so that the producer is never blocked
			for range workchan {
			}
			return
		}
	}
}

// Takes a WorkUnit and writes the corresponding PLY file
func (c *StandardConsumer) doWork(workUnit *WorkUnit) error {
	if err := tools.CreateDirectoryIfDoesNotExist(workUnit.BasePath); err != nil {
		return err
	}

	r, g, b := ClassColor(workUnit.Class)
	verts := make([]Vertex, len(workUnit.Cloud))
	for i, p := range workUnit.Cloud {
		verts[i] = Vertex{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z), R: r, G: g, B: b}
	}

	comments := []string{
		"dataset " + workUnit.DatasetID,
		"class " + workUnit.Class,
		fmt.Sprintf("sample %d", workUnit.SampleID),
	}
	return WritePlyFile(path.Join(workUnit.BasePath, SampleFileName(workUnit.SampleID)), c.format, comments, verts)
}
