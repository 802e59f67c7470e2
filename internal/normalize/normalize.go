package normalize

import (
	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

// ToCount resamples cloud to exactly target points.
//
//   - empty input: target origin points
//   - len >= target: target independent uniform draws with replacement, duplicates allowed
//   - len < target: the input repeated cyclically, no randomness involved
//
// A non positive target yields an empty cloud.
func ToCount(src random.Source, cloud []r3.Vector, target int) []r3.Vector {
	if target <= 0 {
		return []r3.Vector{}
	}

	out := make([]r3.Vector, target)
	switch {
	case len(cloud) == 0:
		// zero value is the origin
	case len(cloud) >= target:
		for i := range out {
			out[i] = cloud[src.Intn(len(cloud))]
		}
	default:
		for i := range out {
			out[i] = cloud[i%len(cloud)]
		}
	}
	return out
}
