package data

import (
	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/geometry"
)

// An ordered sequence of points. Order carries no meaning, points are interchangeable.
type Cloud []r3.Vector

// Returns an independent copy of the cloud
func (c Cloud) Copy() Cloud {
	if c == nil {
		return nil
	}
	out := make(Cloud, len(c))
	copy(out, c)
	return out
}

// Arithmetic mean of the points. The zero vector for an empty cloud.
func (c Cloud) Centroid() r3.Vector {
	if len(c) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, p := range c {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(c)))
}

func (c Cloud) Bounds() *geometry.BoundingBox {
	return geometry.NewBoundingBoxFromPoints(c)
}

// Flattens the cloud into x0,y0,z0,x1,... order
func (c Cloud) Flatten() []float64 {
	out := make([]float64, 0, len(c)*3)
	for _, p := range c {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}
