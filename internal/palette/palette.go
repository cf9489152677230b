// Package palette holds the dashboard's display colors.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Named colors, as 6-digit hex without the leading '#'.
const (
	HexBlue      = "035aa6"
	HexDarkGray  = "888888"
	HexDarkGreen = "06623b"
	HexGold      = "f5a31a"
	HexGreen     = "79d70f"
	HexLightGray = "edf4f2"
	HexPurple    = "4d089a"
	HexRed       = "d32626"
	HexGrid      = "333333"
	HexBlack     = "000000"
)

var (
	Blue      = MustHex(HexBlue)
	DarkGray  = MustHex(HexDarkGray)
	DarkGreen = MustHex(HexDarkGreen)
	Gold      = MustHex(HexGold)
	Green     = MustHex(HexGreen)
	LightGray = MustHex(HexLightGray)
	Purple    = MustHex(HexPurple)
	Red       = MustHex(HexRed)
	Grid      = MustHex(HexGrid)
	Black     = MustHex(HexBlack)
)

// graphColors is the line color rotation for multi-series graphs.
var graphColors = [...]color.RGBA{Blue, Gold, Green, Red, Purple}

// GraphSize is the number of distinct graph colors before the rotation repeats.
const GraphSize = len(graphColors)

// Graph returns the line color for the dataset at index i.
// Colors cycle by i mod GraphSize; negative indexes wrap the same way.
func Graph(i int) color.RGBA {
	i %= GraphSize
	if i < 0 {
		i += GraphSize
	}
	return graphColors[i]
}

// Threshold picks a bar color for a 0..1 utilization: green normally,
// gold above 0.6, red above 0.8.
func Threshold(fraction float64) color.RGBA {
	switch {
	case fraction > 0.8:
		return Red
	case fraction > 0.6:
		return Gold
	default:
		return Green
	}
}

// Hex parses a color like "035aa6" or "#035aa6" into an opaque RGBA.
func Hex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// MustHex is Hex for package-level constants; it panics on bad input.
func MustHex(s string) color.RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
