package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

// Bowl z = -h*r^2 opening upwards from its rim at z = -h. Radius is sqrt(u), so density grows
// towards the rim.
func paraboloidSurface(src random.Source, pointCount int, height float64) []r3.Vector {
	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		r := math.Sqrt(src.Float64())
		theta := src.Float64() * 2 * math.Pi
		points = append(points, r3.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: -height * r * r})
	}
	return points
}

func paraboloidVolume(src random.Source, pointCount int, height float64) []r3.Vector {
	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		z := -height * math.Sqrt(src.Float64())
		rMax := 1.0
		if height != 0 {
			rMax = math.Sqrt(math.Abs(z) / height)
		}
		x, y := diskPoint(src, rMax)
		points = append(points, r3.Vector{X: x, Y: y, Z: z})
	}
	return points
}
