package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

const coneLateralShare = 0.8

// Base radius 1 at z=0, apex at z=height. Base points fill the base disk.
func coneSurface(src random.Source, pointCount int, height float64) []r3.Vector {
	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		if src.Float64() < coneLateralShare {
			z := src.Float64() * height
			r := taper(z, height)
			theta := src.Float64() * 2 * math.Pi
			points = append(points, r3.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z})
		} else {
			x, y := diskPoint(src, 1)
			points = append(points, r3.Vector{X: x, Y: y, Z: 0})
		}
	}
	return points
}

func coneVolume(src random.Source, pointCount int, height float64) []r3.Vector {
	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		z := height * (1 - math.Cbrt(src.Float64()))
		x, y := diskPoint(src, taper(z, height))
		points = append(points, r3.Vector{X: x, Y: y, Z: z})
	}
	return points
}
