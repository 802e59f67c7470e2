package dataset

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/random"
)

// clouds whose single point encodes their index
func indexedClouds(n int) ([]data.Cloud, []int) {
	clouds := make([]data.Cloud, n)
	labels := make([]int, n)
	for i := range clouds {
		clouds[i] = data.Cloud{{X: float64(i)}}
		labels[i] = i % 3
	}
	return clouds, labels
}

func TestValidationSize(t *testing.T) {
	tests := []struct {
		n     int
		ratio float64
		want  int
	}{
		{0, 0.2, 0},
		{1, 0.2, 1},
		{4, 0.2, 1},
		{10, 0.2, 2},
		{11, 0.25, 2},
		{10, 0, 1},
		{10, 1.5, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidationSize(tt.n, tt.ratio), "n=%d ratio=%v", tt.n, tt.ratio)
	}
}

func TestSplitIsPartition(t *testing.T) {
	src := random.NewSource(8)
	for _, n := range []int{1, 2, 5, 30, 97} {
		for _, ratio := range []float64{0, 0.2, 0.5, 0.9} {
			clouds, labels := indexedClouds(n)
			split, err := SplitTrainVal(src, clouds, labels, ratio)
			require.NoError(t, err)

			require.Len(t, split.ValClouds, ValidationSize(n, ratio))
			require.Equal(t, n, len(split.TrainClouds)+len(split.ValClouds))
			require.Len(t, split.TrainLabels, len(split.TrainClouds))
			require.Len(t, split.ValLabels, len(split.ValClouds))

			seen := make(map[int]bool, n)
			collect := func(cs []data.Cloud, ls []int) {
				for i, c := range cs {
					idx := int(c[0].X)
					require.False(t, seen[idx], "sample %d appears twice", idx)
					require.Equal(t, idx%3, ls[i], "label follows its cloud")
					seen[idx] = true
				}
			}
			collect(split.TrainClouds, split.TrainLabels)
			collect(split.ValClouds, split.ValLabels)
			require.Len(t, seen, n)
		}
	}
}

func TestSplitKeepsRelativeOrder(t *testing.T) {
	clouds, labels := indexedClouds(40)
	split, err := SplitTrainVal(random.NewSource(2), clouds, labels, 0.3)
	require.NoError(t, err)
	for i := 1; i < len(split.TrainClouds); i++ {
		assert.Less(t, split.TrainClouds[i-1][0].X, split.TrainClouds[i][0].X)
	}
}

func TestSplitLengthMismatch(t *testing.T) {
	_, err := SplitTrainVal(random.NewSource(1), []data.Cloud{{r3.Vector{}}}, nil, 0.2)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestPermutation(t *testing.T) {
	perm := Permutation(random.NewSource(5), 50)
	seen := make(map[int]bool)
	for _, v := range perm {
		seen[v] = true
	}
	assert.Len(t, seen, 50)
	assert.Empty(t, Permutation(random.NewSource(5), 0))
}
