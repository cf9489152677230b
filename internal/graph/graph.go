// Package graph renders several numeric series as one normalized line graph.
//
// The graph area is split top to bottom into an optional title band, the
// plot band and an optional legend band. All series share one vertical scale
// computed from their values and any explicit bounds, and one horizontal step
// derived from the longest series.
package graph

import (
	"fmt"
	"math"

	"github.com/rileyhilliard/fbdash/internal/palette"
	"github.com/rileyhilliard/fbdash/internal/surface"
)

// Defaults applied when the corresponding Options field is zero.
const (
	DefaultStroke      = 1
	DefaultSpacing     = 4
	DefaultTitleHeight = 12
	DefaultLabelHeight = 10
	DefaultFont        = "roboto"
)

// DataSet is one line on the graph.
type DataSet struct {
	Label  string
	Values []float64
}

// Options tunes a render. The zero value is usable.
type Options struct {
	// Width and Height of the graph; zero uses the surface size.
	Width  int
	Height int

	Stroke  int
	Spacing int

	Title       string
	TitleHeight int
	LabelHeight int

	// LowerBound and UpperBound widen the value range to include them. They
	// never narrow it: data outside the bounds still fits on the graph.
	LowerBound *float64
	UpperBound *float64

	// Annotate prints the computed max and min at the right edge of the plot.
	Annotate bool
	// Format renders annotation values. Setting it implies Annotate.
	Format func(float64) string

	Font string
}

// Result describes what a render drew.
type Result struct {
	Min float64
	Max float64
	// Step is the horizontal distance in pixels between consecutive points.
	// It may be fractional; point positions are rounded to whole pixels.
	Step float64

	PlotTop    int
	PlotHeight int

	// Lines is the number of datasets drawn as polylines; Segments counts
	// their line segments.
	Lines    int
	Segments int

	// EmptyRange is set when every value was equal and points were drawn
	// mid-band.
	EmptyRange bool
	// InsufficientData is set when no dataset had two points; only the axes
	// were drawn.
	InsufficientData bool
}

// Bound returns a pointer to v, for Options.LowerBound and UpperBound.
func Bound(v float64) *float64 {
	return &v
}

// FormatFixed formats v with two decimals.
func FormatFixed(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Render draws dataSets onto s. It never blits; committing the frame is up to
// the caller.
func Render(dataSets []DataSet, s surface.Drawer, opts Options) Result {
	l := newLayout(dataSets, s, opts)
	res := Result{PlotTop: l.top, PlotHeight: l.plotHeight}

	if opts.Title != "" {
		s.SetColor(palette.LightGray)
		s.SetFont(l.font, l.titleHeight)
		s.Text(l.width/2, l.titleHeight, opts.Title, surface.TextOptions{Centered: true})
	}

	if l.labelHeight > 0 {
		drawLegend(dataSets, s, l)
	}

	// Axes: left and bottom edges of the plot band.
	bottom := l.top + l.plotHeight
	s.SetColor(palette.DarkGray)
	s.Line(l.spacing, l.top, l.spacing, bottom, l.stroke)
	s.Line(l.spacing, bottom, l.width-l.spacing, bottom, l.stroke)

	maxLength := 0
	for _, ds := range dataSets {
		if len(ds.Values) > maxLength {
			maxLength = len(ds.Values)
		}
	}
	if maxLength < 2 {
		res.InsufficientData = true
		return res
	}

	// Points always span the band between the margins, however many there
	// are; dense series share pixels.
	step := float64(max(l.width-2*l.spacing, 0)) / float64(maxLength-1)
	res.Step = step
	x := func(i int) int {
		return l.spacing + int(math.Round(float64(i)*step))
	}

	s.SetColor(palette.Grid)
	for i := 1; i < maxLength; i++ {
		s.Line(x(i), l.top, x(i), bottom, l.stroke)
	}

	lo, hi := bounds(dataSets, opts.LowerBound, opts.UpperBound)
	res.Min, res.Max = lo, hi
	valueRange := hi - lo
	res.EmptyRange = valueRange == 0

	y := func(v float64) int {
		if valueRange == 0 {
			return l.top + l.plotHeight/2
		}
		return l.top + int(math.Floor((1-math.Abs(v-lo)/valueRange)*float64(l.plotHeight)))
	}

	for i, ds := range dataSets {
		if len(ds.Values) < 2 {
			continue
		}
		s.SetColor(palette.Graph(i))
		drawn := 0
		for j := 1; j < len(ds.Values); j++ {
			v0, v1 := ds.Values[j-1], ds.Values[j]
			if !finite(v0) || !finite(v1) {
				continue
			}
			s.Line(x(j-1), y(v0), x(j), y(v1), l.stroke)
			drawn++
		}
		res.Segments += drawn
		res.Lines++
	}

	if opts.Annotate || opts.Format != nil {
		format := opts.Format
		if format == nil {
			format = FormatFixed
		}
		size := opts.LabelHeight
		if size <= 0 {
			size = DefaultLabelHeight
		}
		right := surface.TextOptions{RightAligned: true}
		s.SetColor(palette.LightGray)
		s.SetFont(l.font, size)
		s.Text(l.width-l.spacing, l.top+size, format(hi), right)
		s.Text(l.width-l.spacing, bottom-l.stroke-1, format(lo), right)
	}

	return res
}

type layout struct {
	width       int
	height      int
	stroke      int
	spacing     int
	titleHeight int
	labelHeight int
	plotHeight  int
	top         int
	font        string
}

func newLayout(dataSets []DataSet, s surface.Drawer, opts Options) layout {
	sw, sh := s.Size()
	l := layout{
		width:   orDefault(opts.Width, sw),
		height:  orDefault(opts.Height, sh),
		stroke:  orDefault(opts.Stroke, DefaultStroke),
		spacing: orDefault(opts.Spacing, DefaultSpacing),
		font:    opts.Font,
	}
	if l.font == "" {
		l.font = DefaultFont
	}
	if opts.Title != "" {
		l.titleHeight = orDefault(opts.TitleHeight, DefaultTitleHeight)
	}
	if hasLabels(dataSets) {
		l.labelHeight = orDefault(opts.LabelHeight, DefaultLabelHeight)
	}
	l.plotHeight = l.height - l.titleHeight - l.labelHeight
	if l.plotHeight < 0 {
		l.plotHeight = 0
	}
	l.top = l.titleHeight
	return l
}

// drawLegend draws a swatch and label for every labeled dataset, evenly
// spaced across the legend band. Unlabeled datasets keep their color slot.
// Entries whose swatch would cross the right margin are dropped.
func drawLegend(dataSets []DataSet, s surface.Drawer, l layout) {
	labeled := 0
	for _, ds := range dataSets {
		if ds.Label != "" {
			labeled++
		}
	}

	swatch := int(math.Floor(0.8 * float64(l.labelHeight)))
	xStep := max((l.width-2*l.spacing)/labeled, swatch+1)
	pad := (l.labelHeight - swatch) / 2
	swatchY := l.top + l.plotHeight + pad
	baseline := l.top + l.plotHeight + l.labelHeight

	x := l.spacing
	for i, ds := range dataSets {
		if ds.Label == "" {
			continue
		}
		if x+swatch > l.width-l.spacing {
			break
		}
		s.SetColor(palette.Graph(i))
		s.Rect(x, swatchY, swatch, swatch, false, 0)

		s.SetColor(palette.LightGray)
		s.SetFont(l.font, l.labelHeight)
		s.Text(x+swatch+l.spacing, baseline, ds.Label, surface.TextOptions{})

		x += xStep
	}
}

// bounds returns the min and max over all finite values, widened to include
// the explicit bounds when set.
func bounds(dataSets []DataSet, lower, upper *float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	if lower != nil {
		lo = *lower
	}
	if upper != nil {
		hi = *upper
	}
	for _, ds := range dataSets {
		for _, v := range ds.Values {
			if !finite(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	// Only non-finite data and no bounds: treat as a flat zero line.
	if math.IsInf(lo, 1) && math.IsInf(hi, -1) {
		return 0, 0
	}
	if math.IsInf(lo, 1) {
		lo = hi
	}
	if math.IsInf(hi, -1) {
		hi = lo
	}
	return lo, hi
}

func hasLabels(dataSets []DataSet) bool {
	for _, ds := range dataSets {
		if ds.Label != "" {
			return true
		}
	}
	return false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
