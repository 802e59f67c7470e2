package io

import (
	"sync"

	"github.com/ecopia-map/shapecloud/internal/data"
)

type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup, ds *data.Dataset)
}

type Consumer interface {
	Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup)
}
