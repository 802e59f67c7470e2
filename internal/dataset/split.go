package dataset

import (
	"fmt"
	"math"

	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/random"
)

// Disjoint train and validation partitions of a dataset
type Split struct {
	TrainClouds []data.Cloud
	TrainLabels []int
	ValClouds   []data.Cloud
	ValLabels   []int
}

// Number of validation samples for n samples at the given ratio: max(1, floor(n*ratio)),
// never more than n.
func ValidationSize(n int, valRatio float64) int {
	if n == 0 {
		return 0
	}
	numVal := int(math.Floor(float64(n) * valRatio))
	if numVal < 1 {
		numVal = 1
	}
	if numVal > n {
		numVal = n
	}
	return numVal
}

// Permutation returns a Fisher-Yates shuffle of 0..n-1
func Permutation(src random.Source, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}

// SplitTrainVal moves the first ValidationSize indices of a random permutation to the validation
// set and the rest to the train set. Both sets keep the original relative order.
func SplitTrainVal(src random.Source, clouds []data.Cloud, labels []int, valRatio float64) (Split, error) {
	if len(clouds) != len(labels) {
		return Split{}, fmt.Errorf("%w: %d clouds, %d labels", ErrLengthMismatch, len(clouds), len(labels))
	}

	n := len(clouds)
	numVal := ValidationSize(n, valRatio)
	inVal := make([]bool, n)
	for _, i := range Permutation(src, n)[:numVal] {
		inVal[i] = true
	}

	split := Split{
		TrainClouds: make([]data.Cloud, 0, n-numVal),
		TrainLabels: make([]int, 0, n-numVal),
		ValClouds:   make([]data.Cloud, 0, numVal),
		ValLabels:   make([]int, 0, numVal),
	}
	for i := 0; i < n; i++ {
		if inVal[i] {
			split.ValClouds = append(split.ValClouds, clouds[i])
			split.ValLabels = append(split.ValLabels, labels[i])
		} else {
			split.TrainClouds = append(split.TrainClouds, clouds[i])
			split.TrainLabels = append(split.TrainLabels, labels[i])
		}
	}
	return split, nil
}

// SplitDataset splits a built dataset
func SplitDataset(src random.Source, ds *data.Dataset, valRatio float64) (Split, error) {
	return SplitTrainVal(src, ds.Clouds, ds.Labels, valRatio)
}
