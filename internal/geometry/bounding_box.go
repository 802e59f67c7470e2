package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// Contains the minimum and maximum coordinates of a set of points along each axis
type BoundingBox struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
	Zmin, Zmax float64
}

// Builds a new BoundingBox from the given extremes
func NewBoundingBox(xMin, xMax, yMin, yMax, zMin, zMax float64) *BoundingBox {
	return &BoundingBox{
		Xmin: xMin,
		Xmax: xMax,
		Ymin: yMin,
		Ymax: yMax,
		Zmin: zMin,
		Zmax: zMax,
	}
}

// Computes the tightest BoundingBox enclosing all the given points. Returns nil for an empty slice.
func NewBoundingBoxFromPoints(points []r3.Vector) *BoundingBox {
	if len(points) == 0 {
		return nil
	}

	box := NewBoundingBox(math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1))
	for _, p := range points {
		box.Xmin = math.Min(box.Xmin, p.X)
		box.Xmax = math.Max(box.Xmax, p.X)
		box.Ymin = math.Min(box.Ymin, p.Y)
		box.Ymax = math.Max(box.Ymax, p.Y)
		box.Zmin = math.Min(box.Zmin, p.Z)
		box.Zmax = math.Max(box.Zmax, p.Z)
	}
	return box
}

func (b *BoundingBox) Width() float64 {
	return b.Xmax - b.Xmin
}

func (b *BoundingBox) Length() float64 {
	return b.Ymax - b.Ymin
}

func (b *BoundingBox) Height() float64 {
	return b.Zmax - b.Zmin
}

// Returns true if the point lies inside the box, borders included
func (b *BoundingBox) Contains(p r3.Vector) bool {
	return p.X >= b.Xmin && p.X <= b.Xmax &&
		p.Y >= b.Ymin && p.Y <= b.Ymax &&
		p.Z >= b.Zmin && p.Z <= b.Zmax
}

// Returns true if the XY projection of the point lies inside the box footprint, borders included.
// The Z extent is ignored.
func (b *BoundingBox) ContainsXY(p r3.Vector) bool {
	return p.X >= b.Xmin && p.X <= b.Xmax &&
		p.Y >= b.Ymin && p.Y <= b.Ymax
}
