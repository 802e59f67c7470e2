package io

import (
	"strconv"
	"strings"

	"github.com/ecopia-map/shapecloud/internal/shapes"
)

// display color of every shape class
var classColors = map[shapes.Shape]string{
	shapes.Pyramid:    "#f97316",
	shapes.Box:        "#3b82f6",
	shapes.Cylinder:   "#a855f7",
	shapes.Ellipsoid:  "#10b981",
	shapes.Paraboloid: "#eab308",
	shapes.Cone:       "#ef4444",
}

const fallbackColor = "#e6edf3"

// ClassColor returns the RGB color used when exporting points of the given class
func ClassColor(class string) (r, g, b uint8) {
	hex, found := classColors[shapes.Shape(class)]
	if !found {
		hex = fallbackColor
	}
	return parseHexColor(hex)
}

func parseHexColor(hex string) (r, g, b uint8) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
