package std_algorithm_manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/shapecloud/internal/cloudgen"
	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/ml"
)

func TestNewAlgorithmManager(t *testing.T) {
	opts := &cloudgen.Options{
		Classes:     []string{"cone", "hexagon", "cone", "box"},
		Seed:        5,
		RatioBounds: dataset.RatioBounds{Min: 1, Max: 6},
	}
	m := NewAlgorithmManager(opts)
	opts.Classes[0] = "pyramid"

	assert.Equal(t, []string{"cone", "box"}, m.GetRegistry().Active())
	assert.Equal(t, uint64(1), m.GetRegistry().Generation())
	assert.Same(t, m.GetRegistry(), m.GetDatasetBuilder().Registry())
	assert.Equal(t, dataset.RatioBounds{Min: 1, Max: 6}, m.GetDatasetBuilder().RatioBounds())

	runtime, err := m.GetRuntime()
	require.NoError(t, err)
	assert.Equal(t, ml.SoftmaxRuntimeName, runtime.Name())
}

func TestClassNamesAreCaseInsensitive(t *testing.T) {
	m := NewAlgorithmManager(&cloudgen.Options{Classes: []string{"Box", " CONE", "box", "hexagon"}})
	assert.Equal(t, []string{"box", "cone"}, m.GetRegistry().Active())

	ds, err := m.GetDatasetBuilder().Build(dataset.Params{SamplesPerClass: 1, PointsPerCloud: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"box", "cone"}, ds.Classes)
}

func TestNewAlgorithmManagerFallbacks(t *testing.T) {
	m := NewAlgorithmManager(&cloudgen.Options{
		Classes:      []string{"hexagon"},
		TrainOptions: &cloudgen.TrainOptions{Runtime: "tensorflow"},
	})

	assert.Equal(t, dataset.DefaultActiveClasses, m.GetRegistry().Active())
	assert.Equal(t, dataset.DefaultRatioBounds, m.GetDatasetBuilder().RatioBounds())

	_, err := m.GetRuntime()
	assert.ErrorIs(t, err, ml.ErrUnknownRuntime)
}

func TestSeededManagersAreReproducible(t *testing.T) {
	params := dataset.Params{SamplesPerClass: 1, PointsPerCloud: 8, NoiseStd: 0.1}
	a, err := NewAlgorithmManager(&cloudgen.Options{Seed: 3}).GetDatasetBuilder().Build(params)
	require.NoError(t, err)
	b, err := NewAlgorithmManager(&cloudgen.Options{Seed: 3}).GetDatasetBuilder().Build(params)
	require.NoError(t, err)
	assert.Equal(t, a.Clouds, b.Clouds)
}
