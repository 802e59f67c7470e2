package std_algorithm_manager

import (
	"github.com/golang/glog"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/ml"
	"github.com/ecopia-map/shapecloud/internal/random"
	"github.com/ecopia-map/shapecloud/internal/shapes"
	"github.com/ecopia-map/shapecloud/pkg/algorithm_manager"
)

// Every algorithm handed out shares a single random source so that a seeded run is reproducible
type StandardAlgorithmManager struct {
	options  *cloudgen.Options
	src      random.Source
	registry *dataset.Registry
	builder  *dataset.Builder
}

func NewAlgorithmManager(opts *cloudgen.Options) algorithm_manager.AlgorithmManager {
	opts = opts.Copy()
	src := random.NewSource(opts.Seed)

	registry := dataset.NewRegistry()
	if len(opts.Classes) > 0 {
		accepted := registry.SetActive(canonicalClassNames(opts.Classes))
		if registry.Generation() == 0 {
			glog.Warningf("none of the requested classes %v is known, keeping %v", opts.Classes, accepted)
		}
	}

	bounds := opts.RatioBounds
	if !bounds.Valid() {
		bounds = dataset.DefaultRatioBounds
	}

	return &StandardAlgorithmManager{
		options:  opts,
		src:      src,
		registry: registry,
		builder:  dataset.NewBuilder(src, registry, bounds),
	}
}

func (m *StandardAlgorithmManager) GetRandomSource() random.Source {
	return m.src
}

func (m *StandardAlgorithmManager) GetRegistry() *dataset.Registry {
	return m.registry
}

func (m *StandardAlgorithmManager) GetDatasetBuilder() *dataset.Builder {
	return m.builder
}

func (m *StandardAlgorithmManager) GetRuntime() (ml.Runtime, error) {
	name := ml.SoftmaxRuntimeName
	if m.options.TrainOptions != nil && m.options.TrainOptions.Runtime != "" {
		name = m.options.TrainOptions.Runtime
	}
	return ml.NewRuntime(name, m.src)
}

// Maps class names to the registry spelling, unknown names are passed through for the registry to drop
func canonicalClassNames(classes []string) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		if shape, known := shapes.Parse(c); known {
			out[i] = shape.String()
		} else {
			out[i] = c
		}
	}
	return out
}
