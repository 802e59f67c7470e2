package dataset

import (
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/ecopia-map/shapecloud/internal/crop"
	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/normalize"
	"github.com/ecopia-map/shapecloud/internal/perturb"
	"github.com/ecopia-map/shapecloud/internal/random"
	"github.com/ecopia-map/shapecloud/internal/shapes"
)

// Width of the shape base along X and Y. Heights are ratio * BaseWidth.
const BaseWidth = 2.0

// Bounds height ratios are clamped to
type RatioBounds struct {
	Min float64
	Max float64
}

var DefaultRatioBounds = RatioBounds{Min: 3, Max: 10}

// Clamps both ratios into the bounds and orders them
func (b RatioBounds) Clamp(ratioMin, ratioMax float64) (lo, hi float64) {
	lo = math.Max(b.Min, math.Min(b.Max, ratioMin))
	hi = math.Max(b.Min, math.Min(b.Max, ratioMax))
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func (b RatioBounds) Valid() bool {
	return b.Min > 0 && b.Min <= b.Max
}

// Parameters of a dataset generation
type Params struct {
	SamplesPerClass int
	PointsPerCloud  int
	NoiseStd        float64
	Jitter          float64 // half width of the uniform jitter
	RatioMin        float64
	RatioMax        float64
	Fill            bool // sample solid volumes instead of surfaces
	CropShareMin    float64
	CropShareMax    float64
}

func (p Params) Validate() error {
	switch {
	case p.SamplesPerClass < 1:
		return fmt.Errorf("%w: samples per class must be at least 1, got %d", ErrInvalidParams, p.SamplesPerClass)
	case p.PointsPerCloud < 1:
		return fmt.Errorf("%w: points per cloud must be at least 1, got %d", ErrInvalidParams, p.PointsPerCloud)
	case !(p.NoiseStd >= 0) || math.IsInf(p.NoiseStd, 1):
		return fmt.Errorf("%w: noise std must be finite and non negative, got %v", ErrInvalidParams, p.NoiseStd)
	case !(p.Jitter >= 0) || math.IsInf(p.Jitter, 1):
		return fmt.Errorf("%w: jitter must be finite and non negative, got %v", ErrInvalidParams, p.Jitter)
	case math.IsNaN(p.RatioMin) || math.IsNaN(p.RatioMax):
		return fmt.Errorf("%w: height ratios must be numbers", ErrInvalidParams)
	}
	return nil
}

func (p Params) cropEnabled() bool {
	return p.CropShareMin > 0 || p.CropShareMax > 0
}

// Builder assembles labelled datasets: sample, perturb, center, crop, normalize.
type Builder struct {
	src      random.Source
	registry *Registry
	bounds   RatioBounds
}

func NewBuilder(src random.Source, registry *Registry, bounds RatioBounds) *Builder {
	if !bounds.Valid() {
		bounds = DefaultRatioBounds
	}
	return &Builder{
		src:      src,
		registry: registry,
		bounds:   bounds,
	}
}

func (b *Builder) Registry() *Registry {
	return b.registry
}

func (b *Builder) RatioBounds() RatioBounds {
	return b.bounds
}

// Build generates a dataset over the currently active classes
func (b *Builder) Build(params Params) (*data.Dataset, error) {
	return b.BuildClasses(params, b.registry.Active(), b.registry.Generation())
}

// BuildClasses generates SamplesPerClass rounds, each round producing one cloud per class in
// list order. Labels index classes.
func (b *Builder) BuildClasses(params Params, classes []string, generation uint64) (*data.Dataset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: no active classes", ErrInvalidParams)
	}

	ds := data.NewDataset(uuid.NewString(), classes, generation)
	cropFallbacks := 0

	for i := 0; i < params.SamplesPerClass; i++ {
		for classIndex, class := range classes {
			cloud, cropped := b.sampleCloud(params, class)
			if params.cropEnabled() && !cropped {
				cropFallbacks++
			}
			ds.Append(cloud, classIndex)
		}
	}

	if cropFallbacks > 0 {
		glog.V(1).Infof("dataset %s: %d of %d crops fell back to the full cloud", ds.ID, cropFallbacks, ds.Len())
	}

	return ds, nil
}

// Height draws the height of one sample from the clamped ratio range
func (b *Builder) Height(ratioMin, ratioMax float64) float64 {
	lo, hi := b.bounds.Clamp(ratioMin, ratioMax)
	return random.Uniform(b.src, lo, hi) * BaseWidth
}

func (b *Builder) sampleCloud(params Params, class string) (data.Cloud, bool) {
	height := b.Height(params.RatioMin, params.RatioMax)

	points := shapes.SampleNamed(b.src, class, params.PointsPerCloud, height, params.Fill)
	points = perturb.Apply(b.src, points, params.NoiseStd, params.Jitter)

	cropped := false
	if params.cropEnabled() {
		points, cropped = crop.CropXYReport(b.src, points, params.CropShareMin, params.CropShareMax)
	}

	return normalize.ToCount(b.src, points, params.PointsPerCloud), cropped
}
