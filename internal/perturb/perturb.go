package perturb

import (
	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

// Perturb adds to every coordinate an independent normal draw scaled by noiseStd and a uniform
// jitter in [-jitter,jitter]. The input slice is left untouched.
func Perturb(src random.Source, points []r3.Vector, noiseStd, jitter float64) []r3.Vector {
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		// jitter is drawn before noise for every point
		jx := random.Symmetric(src, jitter)
		jy := random.Symmetric(src, jitter)
		jz := random.Symmetric(src, jitter)
		out[i] = r3.Vector{
			X: p.X + src.Normal()*noiseStd + jx,
			Y: p.Y + src.Normal()*noiseStd + jy,
			Z: p.Z + src.Normal()*noiseStd + jz,
		}
	}
	return out
}

// Center translates the points so that their centroid is the origin. There is no rescaling:
// height differences between shapes must survive. Empty input is returned as is.
func Center(points []r3.Vector) []r3.Vector {
	if len(points) == 0 {
		return points
	}

	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	centroid := sum.Mul(1 / float64(len(points)))

	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = p.Sub(centroid)
	}
	return out
}

// Apply runs Perturb then Center
func Apply(src random.Source, points []r3.Vector, noiseStd, jitter float64) []r3.Vector {
	return Center(Perturb(src, points, noiseStd, jitter))
}
