package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

const cylinderLateralShare = 0.75

// Radius 1, z in [-height/2,height/2]. Cap points lie on the rim circles of the two ends.
func cylinderSurface(src random.Source, pointCount int, height float64) []r3.Vector {
	zMin, zMax := -height/2, height/2

	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		var z float64
		if src.Float64() < cylinderLateralShare {
			z = random.Uniform(src, zMin, zMax)
		} else if src.Float64() < 0.5 {
			z = zMin
		} else {
			z = zMax
		}
		theta := src.Float64() * 2 * math.Pi
		points = append(points, r3.Vector{X: math.Cos(theta), Y: math.Sin(theta), Z: z})
	}
	return points
}

func cylinderVolume(src random.Source, pointCount int, height float64) []r3.Vector {
	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		z := random.Symmetric(src, height/2)
		x, y := diskPoint(src, 1)
		points = append(points, r3.Vector{X: x, Y: y, Z: z})
	}
	return points
}

// Area-uniform point of a disk of the given radius centered on the origin
func diskPoint(src random.Source, radius float64) (x, y float64) {
	r := radius * math.Sqrt(src.Float64())
	theta := src.Float64() * 2 * math.Pi
	return r * math.Cos(theta), r * math.Sin(theta)
}
