package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/fbdash/internal/dashboard"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/metrics"
	"github.com/rileyhilliard/fbdash/internal/series"
	"github.com/rileyhilliard/fbdash/internal/ui"
)

// statusOptions holds the status command flags.
type statusOptions struct {
	Samples int
	Gap     time.Duration
}

const (
	trendWidth = 20
	barWidth   = 20
	notSampled = "n/a"
)

var statusColumns = []ui.TableColumn{
	{Title: "METRIC", Width: 12},
	{Title: "NOW", Width: 28},
	{Title: "TREND", Width: trendWidth + 2},
}

// statusCommand samples every metric and prints a summary table.
func statusCommand(ctx context.Context, w io.Writer, opts statusOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.NewEnvLogger("[status]")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	src := dashboard.NewSources(cfg.Series, nil, log)
	if err := sampleSources(ctx, src, opts.Samples, opts.Gap); err != nil {
		return err
	}
	fmt.Fprint(w, renderStatus(src, dashboard.SystemHost(), runtime.NumCPU()))
	return nil
}

// sampleSources retrieves every series n times, gap apart.
func sampleSources(ctx context.Context, src dashboard.Sources, n int, gap time.Duration) error {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, gap); err != nil {
				return err
			}
		}
		src.RetrieveAll(ctx)
	}
	return nil
}

// renderStatus formats the host header, a metric table and usage bars.
func renderStatus(src dashboard.Sources, host dashboard.HostInfo, cpus int) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Render("fbdash status")
	b.WriteString(title + "  " + ui.Muted(host.Now().Format("2006-01-02 15:04:05")) + "\n")

	uptime := notSampled
	if up, err := host.Uptime(); err == nil {
		uptime = metrics.FormatUptime(up)
	}
	b.WriteString("Uptime:    " + uptime + "\n")

	addrs, _ := host.Addresses()
	if len(addrs) == 0 {
		addrs = []string{"none"}
	}
	b.WriteString("Addresses: " + strings.Join(addrs, ", ") + "\n\n")

	rows := [][]string{
		loadRow(src.Load, cpus),
		memoryRow(src.Memory),
		diskRow(src.Disk),
		networkRow(src.Network),
	}
	b.WriteString(ui.RenderSimpleTable(statusColumns, rows))
	b.WriteString("\n")

	if last, ok := src.Memory.Last(); ok {
		b.WriteString("\nmemory " + ui.RenderUsageBar(last.Value.UsedPercent(), barWidth))
	}
	if last, ok := src.Disk.Last(); ok {
		b.WriteString("\ndisk   " + ui.RenderUsageBar(last.Value.UsedPercent, barWidth))
	}
	b.WriteString("\n")
	return b.String()
}

func loadRow(s *series.Series[metrics.LoadAverage], cpus int) []string {
	last, ok := s.Last()
	if !ok {
		return []string{"load", notSampled, ""}
	}
	if cpus < 1 {
		cpus = 1
	}
	now := fmt.Sprintf("%s (%d cpu)", last.Value, cpus)
	trend := series.Project(s.Values(), func(l metrics.LoadAverage) float64 { return l[0] })
	return []string{"load", now, ui.Sparkline(trend, trendWidth)}
}

func memoryRow(s *series.Series[metrics.Memory]) []string {
	last, ok := s.Last()
	if !ok {
		return []string{"memory", notSampled, ""}
	}
	m := last.Value
	now := fmt.Sprintf("%.0f%% of %s", m.UsedPercent(), humanize.IBytes(m.TotalBytes))
	trend := series.Project(s.Values(), metrics.Memory.UsedPercent)
	return []string{"memory", now, ui.Sparkline(trend, trendWidth)}
}

func diskRow(s *series.Series[metrics.DriveUsage]) []string {
	last, ok := s.Last()
	if !ok {
		return []string{"disk", notSampled, ""}
	}
	u := last.Value
	now := fmt.Sprintf("%.0f%%, %s free", u.UsedPercent, humanize.Bytes(u.FreeBytes))
	trend := series.Project(s.Values(), func(u metrics.DriveUsage) float64 { return u.UsedPercent })
	return []string{"disk", now, ui.Sparkline(trend, trendWidth)}
}

func networkRow(s *series.Series[metrics.NetworkCounters]) []string {
	name := "network"
	if last, ok := s.Last(); ok {
		name = "net " + last.Value.Interface
	}

	rates := metrics.Rates(s.Values())
	if len(rates) == 0 {
		return []string{name, notSampled, ""}
	}
	r := rates[len(rates)-1]
	now := fmt.Sprintf("rx %s/s  tx %s/s", humanize.Bytes(uint64(r.RxPerSec)), humanize.Bytes(uint64(r.TxPerSec)))

	trend := make([]float64, len(rates))
	for i, r := range rates {
		trend[i] = r.RxPerSec + r.TxPerSec
	}
	return []string{name, now, ui.Sparkline(trend, trendWidth)}
}
