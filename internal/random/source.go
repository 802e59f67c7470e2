package random

import (
	"math"
	"math/rand"
	"time"
)

// Source is the pseudo-random generator every sampling step draws from.
// Implementations are not required to be safe for concurrent use.
type Source interface {
	// Uniform draw in [0,1)
	Float64() float64
	// Standard normal draw
	Normal() float64
	// Uniform integer in [0,n)
	Intn(n int) int
}

type StandardSource struct {
	rng *rand.Rand
}

// Builds a Source seeded with the given value. A zero seed picks a time based one.
func NewSource(seed int64) *StandardSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &StandardSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *StandardSource) Float64() float64 {
	return s.rng.Float64()
}

// Box-Muller transform. Zero draws are rejected so that the logarithm stays finite.
func (s *StandardSource) Normal() float64 {
	u, v := 0.0, 0.0
	for u == 0 {
		u = s.rng.Float64()
	}
	for v == 0 {
		v = s.rng.Float64()
	}
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
}

func (s *StandardSource) Intn(n int) int {
	return s.rng.Intn(n)
}

// Uniform draw in [lo,hi)
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Uniform draw in [-halfWidth,halfWidth)
func Symmetric(src Source, halfWidth float64) float64 {
	return (src.Float64()*2 - 1) * halfWidth
}
