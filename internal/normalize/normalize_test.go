package normalize

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/shapecloud/internal/random"
)

func cloudOf(n int) []r3.Vector {
	pts := make([]r3.Vector, n)
	for i := range pts {
		pts[i] = r3.Vector{X: float64(i), Y: float64(2 * i), Z: 1}
	}
	return pts
}

func TestAlwaysReturnsTargetCount(t *testing.T) {
	src := random.NewSource(1)
	for l := 0; l <= 40; l += 3 {
		for _, target := range []int{1, 2, 7, 16, 33, 64} {
			require.Len(t, ToCount(src, cloudOf(l), target), target, "len=%d target=%d", l, target)
		}
	}
	assert.Empty(t, ToCount(src, cloudOf(5), 0))
}

func TestEmptyGivesOrigins(t *testing.T) {
	out := ToCount(random.NewSource(1), nil, 4)
	assert.Equal(t, []r3.Vector{{}, {}, {}, {}}, out)
}

func TestShortCloudRepeatsCyclically(t *testing.T) {
	in := cloudOf(3)
	out := ToCount(random.NewSource(1), in, 7)
	for i, p := range out {
		assert.Equal(t, in[i%3], p)
	}
}

func TestLongCloudDrawsFromInput(t *testing.T) {
	in := cloudOf(50)
	members := make(map[r3.Vector]bool, len(in))
	for _, p := range in {
		members[p] = true
	}

	out := ToCount(random.NewSource(2), in, 20)
	for _, p := range out {
		assert.True(t, members[p])
	}
}
