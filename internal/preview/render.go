package preview

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in
// the background, so one cell shows two stacked pixels.
const upperHalf = "▀"

// HalfBlocks fits img into cols x rows terminal cells, keeping its aspect
// ratio, and renders it with one upper-half block per pair of pixel rows.
func HalfBlocks(img image.Image, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	fitted := imaging.Fit(img, cols, rows*2, imaging.NearestNeighbor)
	b := fitted.Bounds()

	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			out.WriteByte('\n')
		}
		writeRow(&out, fitted, y)
	}
	return out.String()
}

// writeRow renders one cell row, batching runs of identical cells into a
// single styled string.
func writeRow(out *strings.Builder, img *image.NRGBA, y int) {
	b := img.Bounds()
	var (
		run            int
		runTop, runBot string
	)
	flush := func() {
		if run == 0 {
			return
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(runTop)).
			Background(lipgloss.Color(runBot))
		out.WriteString(style.Render(strings.Repeat(upperHalf, run)))
		run = 0
	}

	for x := b.Min.X; x < b.Max.X; x++ {
		top := hex(img.At(x, y))
		bot := hex(color.Black)
		if y+1 < b.Max.Y {
			bot = hex(img.At(x, y+1))
		}
		if run > 0 && (top != runTop || bot != runBot) {
			flush()
		}
		runTop, runBot = top, bot
		run++
	}
	flush()
}

func hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
