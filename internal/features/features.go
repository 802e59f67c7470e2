package features

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/ecopia-map/shapecloud/internal/data"
	"github.com/ecopia-map/shapecloud/internal/dataset"
	"github.com/ecopia-map/shapecloud/internal/geometry"
)

const (
	// number of horizontal slabs the height profile is split into
	ProfileSlabs = 6
	// cells per axis of the occupancy grid
	GridDivisions = 4

	extentFeatures  = 3
	radialFeatures  = 2
	profileFeatures = ProfileSlabs * 3
	gridFeatures    = 1

	Count = extentFeatures + radialFeatures + profileFeatures + gridFeatures
)

type gridIndex struct {
	x, y, z int
}

// Describe computes a fixed length descriptor of a cloud:
//
//	[0:3]   bounding box width, length, height
//	[3:5]   mean and std of the radial distance from the vertical axis through the centroid
//	[5:23]  per z slab: mean radius, radius variation, square-norm variation
//	[23]    share of occupied occupancy grid cells
//
// The square-norm variation is low on square cross sections and the radius variation is low on
// round ones, which separates boxes and pyramids from cylinders and cones.
func Describe(points []r3.Vector) []float64 {
	out := make([]float64, Count)
	if len(points) == 0 {
		return out
	}

	box := geometry.NewBoundingBoxFromPoints(points)
	centroid := data.Cloud(points).Centroid()

	out[0], out[1], out[2] = box.Width(), box.Length(), box.Height()

	radii := make([]float64, len(points))
	slabRadii := make([][]float64, ProfileSlabs)
	slabSquare := make([][]float64, ProfileSlabs)
	for i, p := range points {
		dx, dy := p.X-centroid.X, p.Y-centroid.Y
		radii[i] = math.Hypot(dx, dy)

		s := cellOf(p.Z, box.Zmin, box.Height(), ProfileSlabs)
		slabRadii[s] = append(slabRadii[s], radii[i])
		slabSquare[s] = append(slabSquare[s], math.Max(math.Abs(dx), math.Abs(dy)))
	}
	out[3], out[4] = meanStdDev(radii)

	for s := 0; s < ProfileSlabs; s++ {
		base := extentFeatures + radialFeatures + s*3
		mean, std := meanStdDev(slabRadii[s])
		out[base] = mean
		out[base+1] = variation(mean, std)
		sqMean, sqStd := meanStdDev(slabSquare[s])
		out[base+2] = variation(sqMean, sqStd)
	}

	out[Count-1] = occupancy(points, box)
	return out
}

// DescribeTensor describes every cloud of a [N, P, 3] tensor
func DescribeTensor(t dataset.Tensor) [][]float64 {
	out := make([][]float64, t.Len())
	for i := range out {
		row := t.Row(i)
		points := make([]r3.Vector, len(row)/3)
		for j := range points {
			points[j] = r3.Vector{X: row[j*3], Y: row[j*3+1], Z: row[j*3+2]}
		}
		out[i] = Describe(points)
	}
	return out
}

func occupancy(points []r3.Vector, box *geometry.BoundingBox) float64 {
	cells := make(map[gridIndex]struct{})
	for _, p := range points {
		cells[gridIndex{
			x: cellOf(p.X, box.Xmin, box.Width(), GridDivisions),
			y: cellOf(p.Y, box.Ymin, box.Length(), GridDivisions),
			z: cellOf(p.Z, box.Zmin, box.Height(), GridDivisions),
		}] = struct{}{}
	}
	return float64(len(cells)) / float64(GridDivisions*GridDivisions*GridDivisions)
}

// Index of the cell of size extent/divisions containing v. Degenerate extents map to cell 0.
func cellOf(v, min, extent float64, divisions int) int {
	if extent <= 0 {
		return 0
	}
	i := int((v - min) / extent * float64(divisions))
	if i < 0 {
		return 0
	}
	if i >= divisions {
		return divisions - 1
	}
	return i
}

func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func variation(mean, std float64) float64 {
	if mean <= 0 {
		return 0
	}
	return std / mean
}
