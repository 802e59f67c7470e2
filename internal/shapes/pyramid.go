package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

// share of surface points drawn on the lateral faces, the rest lie on the base edges
const pyramidFaceShare = 0.7

type triangle struct {
	a, b, c r3.Vector
}

// Square base [-1,1]^2 at z=0, apex at (0,0,height)
func pyramidSurface(src random.Source, pointCount int, height float64) []r3.Vector {
	apex := r3.Vector{X: 0, Y: 0, Z: height}
	corners := [4]r3.Vector{
		{X: -1, Y: -1, Z: 0},
		{X: 1, Y: -1, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: -1, Y: 1, Z: 0},
	}
	faces := [4]triangle{}
	for i := range corners {
		faces[i] = triangle{a: apex, b: corners[i], c: corners[(i+1)%4]}
	}

	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		if src.Float64() < pyramidFaceShare {
			f := faces[src.Intn(len(faces))]
			u, v := src.Float64(), src.Float64()
			if u+v > 1 {
				u, v = 1-u, 1-v
			}
			w := 1 - u - v
			points = append(points, f.a.Mul(u).Add(f.b.Mul(v)).Add(f.c.Mul(w)))
		} else {
			e := src.Intn(len(corners))
			p0, p1 := corners[e], corners[(e+1)%4]
			t := src.Float64()
			points = append(points, r3.Vector{
				X: p0.X + t*(p1.X-p0.X),
				Y: p0.Y + t*(p1.Y-p0.Y),
				Z: 0,
			})
		}
	}
	return points
}

// Cross-section area shrinks quadratically with z, hence the cube root when drawing z
func pyramidVolume(src random.Source, pointCount int, height float64) []r3.Vector {
	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		z := height * (1 - math.Cbrt(src.Float64()))
		s := taper(z, height)
		points = append(points, r3.Vector{
			X: random.Symmetric(src, s),
			Y: random.Symmetric(src, s),
			Z: z,
		})
	}
	return points
}

// Lateral scale 1 - z/h of a shape tapering to an apex at z = h. Flat shapes do not taper.
func taper(z, height float64) float64 {
	if height == 0 {
		return 1
	}
	return 1 - z/height
}
