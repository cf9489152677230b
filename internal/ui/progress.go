package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Usage bar block characters.
const (
	barFilled = "█"
	barEmpty  = "░"
)

// RenderUsageBar draws a bracketed bar width cells wide for a 0-100 usage,
// clamped, followed by the rounded percentage: [████████░░░░]  67%
func RenderUsageBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = clampPercent(percent)

	filled := int(percent / 100 * float64(width))
	bar := strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)

	style := lipgloss.NewStyle().Foreground(ThresholdColor(percent))
	return "[" + style.Render(bar) + "]" + fmt.Sprintf(" %3.0f%%", percent)
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
