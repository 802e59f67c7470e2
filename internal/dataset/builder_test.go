package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/random"
)

type BuilderSuite struct {
	suite.Suite
	registry *Registry
	builder  *Builder
}

func (s *BuilderSuite) SetupTest() {
	s.registry = NewRegistry()
	s.builder = NewBuilder(random.NewSource(1234), s.registry, DefaultRatioBounds)
}

func baseParams() Params {
	return Params{
		SamplesPerClass: 3,
		PointsPerCloud:  64,
		NoiseStd:        0.02,
		Jitter:          0.01,
		RatioMin:        3,
		RatioMax:        5,
	}
}

// every point of a box surface sits on an extreme of the cloud bounds along some axis
func onBoundsFace(c data.Cloud) bool {
	box := c.Bounds()
	const eps = 1e-9
	for _, p := range c {
		if math.Abs(p.X-box.Xmin) > eps && math.Abs(p.X-box.Xmax) > eps &&
			math.Abs(p.Y-box.Ymin) > eps && math.Abs(p.Y-box.Ymax) > eps &&
			math.Abs(p.Z-box.Zmin) > eps && math.Abs(p.Z-box.Zmax) > eps {
			return false
		}
	}
	return true
}

func (s *BuilderSuite) TestBoxEndToEnd() {
	s.registry.SetActive([]string{"box"})
	ds, err := s.builder.Build(Params{
		SamplesPerClass: 2,
		PointsPerCloud:  50,
		RatioMin:        3,
		RatioMax:        3,
	})
	require.NoError(s.T(), err)

	require.Equal(s.T(), 2, ds.Len())
	require.Equal(s.T(), []int{0, 0}, ds.Labels)
	require.Equal(s.T(), []string{"box"}, ds.Classes)
	for _, cloud := range ds.Clouds {
		require.Len(s.T(), cloud, 50)

		box := cloud.Bounds()
		require.LessOrEqual(s.T(), box.Width(), 2+1e-9)
		require.LessOrEqual(s.T(), box.Length(), 2+1e-9)
		require.LessOrEqual(s.T(), box.Height(), 6+1e-9)
		require.Greater(s.T(), box.Height(), 2.0, "a ratio of 3 gives a box three times taller than wide")
		require.True(s.T(), onBoundsFace(cloud))
	}
}

func (s *BuilderSuite) TestLabelsAndCounts() {
	s.registry.SetActive([]string{"cone", "pyramid", "ellipsoid", "paraboloid"})
	params := baseParams()
	params.Fill = true
	params.CropShareMin = 0.2
	params.CropShareMax = 0.6

	ds, err := s.builder.Build(params)
	require.NoError(s.T(), err)
	require.Equal(s.T(), params.SamplesPerClass*4, ds.Len())
	require.Equal(s.T(), s.registry.Generation(), ds.Generation)

	for i, cloud := range ds.Clouds {
		require.Len(s.T(), cloud, params.PointsPerCloud)
		require.True(s.T(), ds.Labels[i] >= 0 && ds.Labels[i] < 4)
		// outer loop is samples, inner loop is classes
		require.Equal(s.T(), i%4, ds.Labels[i])
	}
}

func (s *BuilderSuite) TestHeightIsClampedAndSwapped() {
	for i := 0; i < 200; i++ {
		h := s.builder.Height(12, -4)
		require.GreaterOrEqual(s.T(), h, 3*BaseWidth)
		require.LessOrEqual(s.T(), h, 10*BaseWidth)
	}
	require.Equal(s.T(), 6.0, s.builder.Height(3, 3))
	require.Equal(s.T(), 20.0, s.builder.Height(50, 50))
}

func (s *BuilderSuite) TestCustomRatioBounds() {
	b := NewBuilder(random.NewSource(1), s.registry, RatioBounds{Min: 1, Max: 6})
	require.Equal(s.T(), 2.0, b.Height(0.1, 0.5))
	require.Equal(s.T(), RatioBounds{Min: 1, Max: 6}, b.RatioBounds())

	fallback := NewBuilder(random.NewSource(1), s.registry, RatioBounds{Min: 5, Max: 1})
	require.Equal(s.T(), DefaultRatioBounds, fallback.RatioBounds())
}

func (s *BuilderSuite) TestInvalidParams() {
	tests := []Params{
		{SamplesPerClass: 0, PointsPerCloud: 10},
		{SamplesPerClass: 1, PointsPerCloud: 0},
		{SamplesPerClass: 1, PointsPerCloud: 10, NoiseStd: -1},
		{SamplesPerClass: 1, PointsPerCloud: 10, Jitter: math.NaN()},
		{SamplesPerClass: 1, PointsPerCloud: 10, NoiseStd: math.Inf(1)},
		{SamplesPerClass: 1, PointsPerCloud: 10, Jitter: math.Inf(1)},
	}
	for _, p := range tests {
		_, err := s.builder.Build(p)
		require.True(s.T(), errors.Is(err, ErrInvalidParams), "%+v", p)
	}

	_, err := s.builder.BuildClasses(baseParams(), nil, 0)
	require.True(s.T(), errors.Is(err, ErrInvalidParams))
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}
