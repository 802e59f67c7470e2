package algorithm_manager

import (
	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/ml"
	"github.com/ecopia-map/shapecloud/internal/random"
)

type AlgorithmManager interface {
	GetRandomSource() random.Source
	GetRegistry() *dataset.Registry
	GetDatasetBuilder() *dataset.Builder
	GetRuntime() (ml.Runtime, error)
}
