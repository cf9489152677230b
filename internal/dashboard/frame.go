package dashboard

import (
	"fmt"
	"image/color"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/fbdash/internal/graph"
	"github.com/rileyhilliard/fbdash/internal/metrics"
	"github.com/rileyhilliard/fbdash/internal/palette"
	"github.com/rileyhilliard/fbdash/internal/series"
	"github.com/rileyhilliard/fbdash/internal/surface"
)

// Header text sizes and layout.
const (
	dateSize    = 24
	uptimeSize  = 12
	addrSize    = 18
	lineGap     = 2
	dividerPad  = 3
	meterHeight = 2
	meterGap    = 1

	dateLayout = "2006-01-02 3:04:05 pm"
)

// Frame reports what each panel drew.
type Frame struct {
	HeaderHeight int
	Load         graph.Result
	Memory       graph.Result
	Disk         graph.Result
	Network      graph.Result
}

// DrawFrame clears s and draws one full dashboard frame. It does not blit.
func (d *Dashboard) DrawFrame(s surface.Drawer) Frame {
	s.Clear()
	root := surface.Derive(s, surface.Viewport{})

	var f Frame
	f.HeaderHeight = d.drawHeader(root)

	panels := PanelViewports(root, f.HeaderHeight)
	f.Load = d.drawLoad(root.Sub(panels[0]))
	f.Memory = d.drawMemory(root.Sub(panels[1]))
	f.Disk = d.drawDisk(root.Sub(panels[2]))
	f.Network = d.drawNetwork(root.Sub(panels[3]))
	return f
}

// drawHeader draws date, uptime and addresses, then a divider, and returns
// the header height.
func (d *Dashboard) drawHeader(s *surface.Surface) int {
	w, _ := s.Size()
	y := 0
	line := func(text string, size int, c color.Color) {
		y += size + lineGap
		s.SetColor(c)
		s.SetFont(d.font, size)
		s.Text(0, y-lineGap, text, surface.TextOptions{})
	}

	line(d.host.Now().Format(dateLayout), dateSize, palette.Blue)

	uptime := "unknown"
	if up, err := d.host.Uptime(); err != nil {
		d.log.Debug("uptime: %v", err)
	} else {
		uptime = metrics.FormatUptime(up)
	}
	line("Uptime: "+uptime, uptimeSize, palette.DarkGray)

	addrs, err := d.host.Addresses()
	if err != nil {
		d.log.Debug("addresses: %v", err)
	}
	text := strings.Join(addrs, ", ")
	if text == "" {
		text = "no network"
	}
	line(text, addrSize, palette.Green)

	y += dividerPad
	s.SetColor(palette.LightGray)
	s.Line(0, y, w, y, 1)
	return y + 1 + dividerPad
}

// PanelViewports splits the area below top into a 2x2 grid: load, memory,
// disk, network.
func PanelViewports(s surface.Drawer, top int) [4]surface.Viewport {
	w, h := s.Size()
	pw := w / 2
	ph := (h - top) / 2
	if ph < 0 {
		ph = 0
	}
	return [4]surface.Viewport{
		{OffsetX: 0, OffsetY: top, Width: pw, Height: ph},
		{OffsetX: pw, OffsetY: top, Width: w - pw, Height: ph},
		{OffsetX: 0, OffsetY: top + ph, Width: pw, Height: ph},
		{OffsetX: pw, OffsetY: top + ph, Width: w - pw, Height: ph},
	}
}

// panel draws a graph above an optional utilization meter.
func (d *Dashboard) panel(s *surface.Surface, sets []graph.DataSet, opts graph.Options, fraction float64, meter bool) graph.Result {
	w, h := s.Size()
	if meter {
		h -= meterHeight + meterGap
	}
	opts.Width, opts.Height = w, h
	opts.Stroke = d.graph.Stroke
	opts.Spacing = d.graph.Spacing
	opts.TitleHeight = d.graph.TitleHeight
	opts.LabelHeight = d.graph.LabelHeight
	opts.Annotate = d.graph.Annotate
	opts.Font = d.font
	if !d.graph.Annotate {
		opts.Format = nil
	}

	res := graph.Render(sets, s, opts)

	if meter {
		spacing := d.graph.Spacing
		if spacing <= 0 {
			spacing = graph.DefaultSpacing
		}
		fraction = clamp01(fraction)
		s.SetColor(palette.Threshold(fraction))
		s.Rect(spacing, h+meterGap, int(fraction*float64(w-2*spacing)), meterHeight, false, 0)
	}
	return res
}

func (d *Dashboard) drawLoad(s *surface.Surface) graph.Result {
	samples := d.src.Load.Values()
	sets := []graph.DataSet{
		{Label: "1m", Values: series.Project(samples, func(l metrics.LoadAverage) float64 { return l[0] })},
		{Label: "5m", Values: series.Project(samples, func(l metrics.LoadAverage) float64 { return l[1] })},
		{Label: "15m", Values: series.Project(samples, func(l metrics.LoadAverage) float64 { return l[2] })},
	}

	title := "Load"
	fraction := 0.0
	if last, ok := d.src.Load.Last(); ok {
		title = fmt.Sprintf("Load %.2f", last.Value[0])
		fraction = last.Value[0] / float64(d.cpus)
	}
	return d.panel(s, sets, graph.Options{
		Title:      title,
		LowerBound: graph.Bound(0),
		Format:     graph.FormatFixed,
	}, fraction, true)
}

func (d *Dashboard) drawMemory(s *surface.Surface) graph.Result {
	samples := d.src.Memory.Values()
	sets := []graph.DataSet{{Values: series.Project(samples, metrics.Memory.UsedPercent)}}

	title := "Memory"
	fraction := 0.0
	if last, ok := d.src.Memory.Last(); ok {
		m := last.Value
		title = fmt.Sprintf("Mem %s/%s", humanize.IBytes(m.UsedBytes), humanize.IBytes(m.TotalBytes))
		fraction = m.UsedPercent() / 100
	}
	return d.panel(s, sets, percentOptions(title), fraction, true)
}

func (d *Dashboard) drawDisk(s *surface.Surface) graph.Result {
	samples := d.src.Disk.Values()
	sets := []graph.DataSet{{Values: series.Project(samples, func(u metrics.DriveUsage) float64 { return u.UsedPercent })}}

	title := "Disk"
	fraction := 0.0
	if last, ok := d.src.Disk.Last(); ok {
		u := last.Value
		title = fmt.Sprintf("Disk %s free", humanize.Bytes(u.FreeBytes))
		fraction = u.UsedPercent / 100
	}
	return d.panel(s, sets, percentOptions(title), fraction, true)
}

func (d *Dashboard) drawNetwork(s *surface.Surface) graph.Result {
	rates := metrics.Rates(d.src.Network.Values())
	rx := make([]float64, len(rates))
	tx := make([]float64, len(rates))
	for i, r := range rates {
		rx[i] = r.RxPerSec / 1024
		tx[i] = r.TxPerSec / 1024
	}

	title := "Network"
	if last, ok := d.src.Network.Last(); ok {
		title = "Net " + last.Value.Interface
	}
	if n := len(rates); n > 0 {
		title = fmt.Sprintf("%s %s/s", title, humanize.Bytes(uint64(rates[n-1].RxPerSec+rates[n-1].TxPerSec)))
	}
	return d.panel(s, []graph.DataSet{
		{Label: "rx", Values: rx},
		{Label: "tx", Values: tx},
	}, graph.Options{
		Title:      title,
		LowerBound: graph.Bound(0),
		Format:     func(v float64) string { return fmt.Sprintf("%.1fK", v) },
	}, 0, false)
}

func percentOptions(title string) graph.Options {
	return graph.Options{
		Title:      title,
		LowerBound: graph.Bound(0),
		UpperBound: graph.Bound(100),
		Format:     func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func numCPU() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
