package crop

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ecopia-map/shapecloud/internal/geometry"
	"github.com/ecopia-map/shapecloud/internal/random"
)

const (
	// MaxShare is the largest accepted area share of the [-1,1]^2 base
	MaxShare = 0.9
	// MaxAttempts bounds how many rectangles are tried before giving up
	MaxAttempts = 5

	domainHalfSide = 1.0
	domainArea     = 4.0
	minWidth       = 0.0001
)

// ClampShares clamps both shares to [0,MaxShare] and orders them
func ClampShares(shareMin, shareMax float64) (lo, hi float64) {
	lo = clamp(shareMin, 0, MaxShare)
	hi = clamp(shareMax, 0, MaxShare)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// CropXY keeps the points falling in a random axis aligned XY rectangle covering a share of the
// base area drawn in [shareMin,shareMax]. A non positive max share is a no-op. If MaxAttempts
// rectangles all come out empty the original cloud is returned, never an empty one.
func CropXY(src random.Source, cloud []r3.Vector, shareMin, shareMax float64) []r3.Vector {
	cropped, _ := cropXY(src, cloud, shareMin, shareMax)
	return cropped
}

// CropXYReport is CropXY that also reports whether a rectangle was actually applied
func CropXYReport(src random.Source, cloud []r3.Vector, shareMin, shareMax float64) ([]r3.Vector, bool) {
	return cropXY(src, cloud, shareMin, shareMax)
}

func cropXY(src random.Source, cloud []r3.Vector, shareMin, shareMax float64) ([]r3.Vector, bool) {
	lo, hi := ClampShares(shareMin, shareMax)
	if hi <= 0 {
		return cloud, false
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		rect := randomRectangle(src, random.Uniform(src, lo, hi))

		cropped := make([]r3.Vector, 0, len(cloud))
		for _, p := range cloud {
			if rect.ContainsXY(p) {
				cropped = append(cropped, p)
			}
		}
		if len(cropped) > 0 {
			return cropped, true
		}
	}

	return cloud, false
}

// Rectangle of area share*domainArea fully inside the base domain. The width is drawn in
// [2*share, 2] so that the derived height 4*share/width never exceeds 2.
func randomRectangle(src random.Source, share float64) *geometry.BoundingBox {
	wMin := math.Max(minWidth, 2*share)
	w := random.Uniform(src, wMin, 2*domainHalfSide)
	h := domainArea * share / w
	cx := random.Symmetric(src, domainHalfSide-w/2)
	cy := random.Symmetric(src, domainHalfSide-h/2)
	return geometry.NewBoundingBox(cx-w/2, cx+w/2, cy-h/2, cy+h/2, math.Inf(-1), math.Inf(1))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
