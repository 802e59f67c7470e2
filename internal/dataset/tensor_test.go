package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/shapecloud/internal/data"
)

func TestCloudsToTensor(t *testing.T) {
	clouds := []data.Cloud{
		{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
		{{X: 7, Y: 8, Z: 9}, {X: 10, Y: 11, Z: 12}},
	}
	tensor, err := CloudsToTensor(clouds)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 3}, tensor.Shape)
	assert.Equal(t, 2, tensor.Len())
	assert.Equal(t, 6, tensor.Stride())
	assert.Equal(t, []float64{7, 8, 9, 10, 11, 12}, tensor.Row(1))

	_, err = CloudsToTensor([]data.Cloud{{{}}, {{}, {}}})
	assert.True(t, errors.Is(err, ErrRaggedClouds))

	empty, err := CloudsToTensor(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 3}, empty.Shape)
}

func TestLabelsToOneHot(t *testing.T) {
	tensor, err := LabelsToOneHot([]int{2, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, tensor.Shape)
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0}, tensor.Data)
	assert.Equal(t, []int{2, 0}, ArgMaxRows(tensor))

	_, err = LabelsToOneHot([]int{3}, 3)
	assert.True(t, errors.Is(err, ErrLabelRange))
}
