package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
var sparklineBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps the newest width values onto eight block heights between
// their min and max. Non-finite values render as a space. When every value
// is equal the blocks sit mid-height.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	levels := len(sparklineBlocks)
	span := hi - lo

	var sb strings.Builder
	sb.Grow(len(data) * 3)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			sb.WriteByte(' ')
			continue
		}
		level := levels / 2
		if span > 0 {
			level = int((v - lo) / span * float64(levels-1))
		}
		sb.WriteRune(sparklineBlocks[level])
	}
	return sb.String()
}

// RenderSparkline is Sparkline colored by the 0-100 usage of the current
// value: green, yellow from 60%, red from 80%.
func RenderSparkline(data []float64, width int, usage float64) string {
	line := Sparkline(data, width)
	if line == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(ThresholdColor(usage)).Render(line)
}
