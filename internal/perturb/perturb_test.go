package perturb

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/shapecloud/internal/random"
)

func TestZeroNoiseIsIdentity(t *testing.T) {
	in := []r3.Vector{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 5, Z: 6}}
	out := Perturb(random.NewSource(1), in, 0, 0)
	require.Len(t, out, 2)
	for i := range in {
		assert.InDelta(t, in[i].X, out[i].X, 1e-15)
		assert.InDelta(t, in[i].Y, out[i].Y, 1e-15)
		assert.InDelta(t, in[i].Z, out[i].Z, 1e-15)
	}
}

func TestJitterIsBounded(t *testing.T) {
	in := make([]r3.Vector, 1000)
	out := Perturb(random.NewSource(2), in, 0, 0.25)
	for _, p := range out {
		require.LessOrEqual(t, math.Abs(p.X), 0.25)
		require.LessOrEqual(t, math.Abs(p.Y), 0.25)
		require.LessOrEqual(t, math.Abs(p.Z), 0.25)
	}
}

func TestPerturbDoesNotMutateInput(t *testing.T) {
	in := []r3.Vector{{X: 1, Y: 1, Z: 1}}
	_ = Perturb(random.NewSource(3), in, 1, 1)
	assert.Equal(t, r3.Vector{X: 1, Y: 1, Z: 1}, in[0])
}

func TestCenterZeroesTheMean(t *testing.T) {
	src := random.NewSource(4)
	in := make([]r3.Vector, 500)
	for i := range in {
		in[i] = r3.Vector{X: 10 + src.Normal(), Y: -3 + src.Normal(), Z: 7 * src.Float64()}
	}

	out := Center(Apply(src, in, 0.3, 0.1))

	var sum r3.Vector
	for _, p := range out {
		sum = sum.Add(p)
	}
	mean := sum.Mul(1 / float64(len(out)))
	assert.InDelta(t, 0, mean.X, 1e-9)
	assert.InDelta(t, 0, mean.Y, 1e-9)
	assert.InDelta(t, 0, mean.Z, 1e-9)
}

func TestCenterKeepsScale(t *testing.T) {
	out := Center([]r3.Vector{{Z: 0}, {Z: 12}})
	assert.InDelta(t, 12, out[1].Z-out[0].Z, 1e-12)
	assert.InDelta(t, -6, out[0].Z, 1e-12)
}

func TestCenterEmpty(t *testing.T) {
	assert.Empty(t, Center(nil))
	assert.Empty(t, Center([]r3.Vector{}))
}
