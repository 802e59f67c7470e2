package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

// Semi-axes (1, 1, height/2). Uniform cos(phi) and theta, which is area-uniform on the
// unit sphere and only approximately so once stretched along z.
func ellipsoidSurface(src random.Source, pointCount int, height float64) []r3.Vector {
	c := height / 2

	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		u := random.Symmetric(src, 1)
		theta := src.Float64() * 2 * math.Pi
		s := math.Sqrt(1 - u*u)
		points = append(points, r3.Vector{X: s * math.Cos(theta), Y: s * math.Sin(theta), Z: c * u})
	}
	return points
}

func ellipsoidVolume(src random.Source, pointCount int, height float64) []r3.Vector {
	c := height / 2

	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		d := gaussianDirection(src)
		r := math.Cbrt(src.Float64())
		points = append(points, r3.Vector{X: d.X * r, Y: d.Y * r, Z: d.Z * r * c})
	}
	return points
}

// Uniformly distributed unit vector
func gaussianDirection(src random.Source) r3.Vector {
	for {
		v := r3.Vector{X: src.Normal(), Y: src.Normal(), Z: src.Normal()}
		if n := v.Norm(); n > 0 {
			return v.Mul(1 / n)
		}
	}
}
