package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/random"
)

// probability that a surface point is snapped onto an edge or corner
const boxEdgeSnapShare = 0.4

type boxFace int

const (
	faceTop boxFace = iota
	faceBottom
	faceRight
	faceLeft
	faceFront
	faceBack
	boxFaceCount
)

// Axis aligned box [-1,1] x [-1,1] x [-height/2,height/2]
func boxSurface(src random.Source, pointCount int, height float64) []r3.Vector {
	zMin, zMax := -height/2, height/2

	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		var p r3.Vector
		switch boxFace(src.Intn(int(boxFaceCount))) {
		case faceTop:
			p = r3.Vector{X: random.Symmetric(src, 1), Y: random.Symmetric(src, 1), Z: zMax}
		case faceBottom:
			p = r3.Vector{X: random.Symmetric(src, 1), Y: random.Symmetric(src, 1), Z: zMin}
		case faceRight:
			p = r3.Vector{X: 1, Y: random.Symmetric(src, 1), Z: random.Uniform(src, zMin, zMax)}
		case faceLeft:
			p = r3.Vector{X: -1, Y: random.Symmetric(src, 1), Z: random.Uniform(src, zMin, zMax)}
		case faceFront:
			p = r3.Vector{X: random.Symmetric(src, 1), Y: 1, Z: random.Uniform(src, zMin, zMax)}
		default:
			p = r3.Vector{X: random.Symmetric(src, 1), Y: -1, Z: random.Uniform(src, zMin, zMax)}
		}

		if src.Float64() < boxEdgeSnapShare {
			if src.Float64() < 0.5 {
				p.X = roundHalfUp(p.X)
			} else if src.Float64() < 0.5 {
				p.Y = roundHalfUp(p.Y)
			} else if math.Abs(p.Z-zMin) < math.Abs(p.Z-zMax) {
				p.Z = zMin
			} else {
				p.Z = zMax
			}
		}
		points = append(points, p)
	}
	return points
}

func boxVolume(src random.Source, pointCount int, height float64) []r3.Vector {
	points := make([]r3.Vector, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		points = append(points, r3.Vector{
			X: random.Symmetric(src, 1),
			Y: random.Symmetric(src, 1),
			Z: random.Symmetric(src, height/2),
		})
	}
	return points
}

// halves round towards positive infinity, so -0.5 becomes 0
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
