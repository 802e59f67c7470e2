package io

import (
	"path"
	"sync"

	"github.com/ecopia-map/shapecloud/internal/data"
)

type StandardProducer struct {
	basePath string
}

func NewStandardProducer(basepath string, subfolder string) *StandardProducer {
	return &StandardProducer{
		basePath: path.Join(basepath, subfolder),
	}
}

// Submits one WorkUnit per dataset sample to the provided work channel, each sample going to the
// folder of its class. Closes the channel when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, ds *data.Dataset) {
	defer wg.Done()
	defer close(work)

	for i, cloud := range ds.Clouds {
		class := ds.ClassName(i)
		work <- &WorkUnit{
			DatasetID: ds.ID,
			SampleID:  i,
			Class:     class,
			Cloud:     cloud,
			BasePath:  path.Join(p.basePath, class),
		}
	}
}
