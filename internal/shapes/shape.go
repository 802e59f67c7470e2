package shapes

import (
	"strings"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

type Shape string

const (
	Pyramid    Shape = "pyramid"
	Box        Shape = "box"
	Cylinder   Shape = "cylinder"
	Ellipsoid  Shape = "ellipsoid"
	Paraboloid Shape = "paraboloid"
	Cone       Shape = "cone"
)

// All the known shapes, in their canonical order
var All = []Shape{Pyramid, Box, Cylinder, Ellipsoid, Paraboloid, Cone}

func (s Shape) String() string {
	return string(s)
}

func (s Shape) IsKnown() bool {
	for _, known := range All {
		if s == known {
			return true
		}
	}
	return false
}

// Parses a shape name. Unknown names resolve to Box with ok set to false.
func Parse(value string) (shape Shape, ok bool) {
	normalizedValue := Shape(strings.Trim(strings.ToLower(value), " "))
	if normalizedValue.IsKnown() {
		return normalizedValue, true
	}
	return Box, false
}

// Names returns the string form of all known shapes
func Names() []string {
	names := make([]string, len(All))
	for i, s := range All {
		names[i] = string(s)
	}
	return names
}

type generator func(src random.Source, pointCount int, height float64) []r3.Vector

type generatorPair struct {
	surface generator
	volume  generator
}

var generators = map[Shape]generatorPair{
	Pyramid:    {surface: pyramidSurface, volume: pyramidVolume},
	Box:        {surface: boxSurface, volume: boxVolume},
	Cylinder:   {surface: cylinderSurface, volume: cylinderVolume},
	Ellipsoid:  {surface: ellipsoidSurface, volume: ellipsoidVolume},
	Paraboloid: {surface: paraboloidSurface, volume: paraboloidVolume},
	Cone:       {surface: coneSurface, volume: coneVolume},
}

// Sample draws pointCount raw points of the given shape. The base spans [-1,1] in X and Y,
// height scales Z. With fill set the solid interior is sampled, otherwise the surface.
// Points are neither perturbed nor centered. Unknown shapes are sampled as a box.
func Sample(src random.Source, shape Shape, pointCount int, height float64, fill bool) []r3.Vector {
	if pointCount <= 0 {
		return []r3.Vector{}
	}
	pair, found := generators[shape]
	if !found {
		pair = generators[Box]
	}
	if fill {
		return pair.volume(src, pointCount, height)
	}
	return pair.surface(src, pointCount, height)
}

// SampleNamed is Sample for a shape given by name
func SampleNamed(src random.Source, name string, pointCount int, height float64, fill bool) []r3.Vector {
	shape, _ := Parse(name)
	return Sample(src, shape, pointCount, height, fill)
}
