package dataset

import (
	"fmt"

	"github.com/ecopia-map/shapecloud/internal/data"
)

// Dense row-major array handed to an ML runtime
type Tensor struct {
	Shape []int
	Data  []float64
}

// Size of the first axis
func (t Tensor) Len() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// Number of values per entry of the first axis
func (t Tensor) Stride() int {
	if len(t.Shape) == 0 {
		return 0
	}
	stride := 1
	for _, d := range t.Shape[1:] {
		stride *= d
	}
	return stride
}

// Row returns a view of the i-th entry of the first axis
func (t Tensor) Row(i int) []float64 {
	s := t.Stride()
	return t.Data[i*s : (i+1)*s]
}

// CloudsToTensor flattens clouds into a [numSamples, pointsPerCloud, 3] tensor
func CloudsToTensor(clouds []data.Cloud) (Tensor, error) {
	n := len(clouds)
	p := 0
	if n > 0 {
		p = len(clouds[0])
	}

	values := make([]float64, 0, n*p*3)
	for i, cloud := range clouds {
		if len(cloud) != p {
			return Tensor{}, fmt.Errorf("%w: cloud %d has %d points, expected %d", ErrRaggedClouds, i, len(cloud), p)
		}
		for _, pt := range cloud {
			values = append(values, pt.X, pt.Y, pt.Z)
		}
	}
	return Tensor{Shape: []int{n, p, 3}, Data: values}, nil
}

// LabelsToOneHot encodes labels as a [numSamples, numClasses] tensor
func LabelsToOneHot(labels []int, numClasses int) (Tensor, error) {
	values := make([]float64, len(labels)*numClasses)
	for i, label := range labels {
		if label < 0 || label >= numClasses {
			return Tensor{}, fmt.Errorf("%w: label %d at %d, %d classes", ErrLabelRange, label, i, numClasses)
		}
		values[i*numClasses+label] = 1
	}
	return Tensor{Shape: []int{len(labels), numClasses}, Data: values}, nil
}

// ArgMax of every row of a rank 2 tensor
func ArgMaxRows(t Tensor) []int {
	out := make([]int, t.Len())
	for i := range out {
		row := t.Row(i)
		best := 0
		for j := range row {
			if row[j] > row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
