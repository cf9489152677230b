// Package ui styles fbdash's command-line output: status colors and
// symbols, sparklines, usage bars and plain tables.
//
// Colors are ANSI codes so they follow the user's terminal theme. Call
// Apply once at startup; it switches lipgloss to plain text when NO_COLOR is
// set or stdout is not a terminal.
//
//	ui.RenderSparkline([]float64{12, 40, 33, 71}, 20)  // ▁▄▃▇ in amber
//	ui.RenderUsageBar(67.5, 20)                         // [█████████████░░░░░░░]  68%
package ui
