// Package dashboard composes the host metric series into frames and drives
// the frame loop that presents them.
package dashboard

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rileyhilliard/fbdash/internal/backlight"
	"github.com/rileyhilliard/fbdash/internal/config"
	"github.com/rileyhilliard/fbdash/internal/graph"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/metrics"
	"github.com/rileyhilliard/fbdash/internal/store"
	"github.com/rileyhilliard/fbdash/internal/surface"
)

// HostInfo supplies the header's clock, uptime and addresses.
type HostInfo struct {
	Now       func() time.Time
	Uptime    func() (time.Duration, error)
	Addresses func() ([]string, error)
}

// SystemHost reads the header values from the running machine.
func SystemHost() HostInfo {
	return HostInfo{
		Now:       time.Now,
		Uptime:    metrics.Uptime,
		Addresses: metrics.IPv4Addresses,
	}
}

// Dashboard draws the four metric panels and runs the frame loop.
type Dashboard struct {
	src   Sources
	host  HostInfo
	graph config.GraphConfig
	font  string
	cpus  int
	log   logger.Logger

	backlight        *backlight.Backlight
	backlightOnStart bool
	store            *store.Store

	frameInterval time.Duration
	blitDelay     time.Duration

	// signal hooks, replaced in tests
	notify     func(c chan<- os.Signal, sig ...os.Signal)
	stopNotify func(c chan<- os.Signal)

	frames      atomic.Int64
	blitFailing bool
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithBacklight lets SIGUSR1 toggle b while running. With onStart the
// backlight is switched on when Run begins.
func WithBacklight(b *backlight.Backlight, onStart bool) Option {
	return func(d *Dashboard) {
		d.backlight = b
		d.backlightOnStart = onStart
	}
}

// WithStore saves series history to st when Run returns.
func WithStore(st *store.Store) Option {
	return func(d *Dashboard) { d.store = st }
}

// WithLogger sets the dashboard logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dashboard) { d.log = l }
}

// WithHost overrides where header values come from. Nil fields keep the
// system defaults.
func WithHost(h HostInfo) Option {
	return func(d *Dashboard) {
		if h.Now != nil {
			d.host.Now = h.Now
		}
		if h.Uptime != nil {
			d.host.Uptime = h.Uptime
		}
		if h.Addresses != nil {
			d.host.Addresses = h.Addresses
		}
	}
}

// WithGraph sets the graph panel tuning.
func WithGraph(g config.GraphConfig) Option {
	return func(d *Dashboard) { d.graph = g }
}

// WithFont sets the font name passed to the drawer. Empty keeps the default.
func WithFont(name string) Option {
	return func(d *Dashboard) {
		if name != "" {
			d.font = name
		}
	}
}

// WithCPUs sets the core count the load meter is scaled by.
func WithCPUs(n int) Option {
	return func(d *Dashboard) {
		if n > 0 {
			d.cpus = n
		}
	}
}

// WithFrameTiming sets the time between frames and the delay between
// drawing a frame and presenting it.
func WithFrameTiming(interval, blitDelay time.Duration) Option {
	return func(d *Dashboard) {
		if interval > 0 {
			d.frameInterval = interval
		}
		if blitDelay >= 0 {
			d.blitDelay = blitDelay
		}
	}
}

// New creates a dashboard over src.
func New(src Sources, opts ...Option) *Dashboard {
	defaults := config.DefaultConfig()
	d := &Dashboard{
		src:           src,
		host:          SystemHost(),
		graph:         defaults.Graph,
		font:          graph.DefaultFont,
		cpus:          numCPU(),
		log:           logger.Noop(),
		frameInterval: defaults.Display.FrameInterval,
		blitDelay:     defaults.Display.BlitDelay,
		notify:        signal.Notify,
		stopNotify:    signal.Stop,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Frames returns how many frames have been presented.
func (d *Dashboard) Frames() int64 {
	return d.frames.Load()
}

// Run starts the series, draws a frame every frame interval until ctx is
// done, then stops the series and saves their history. A failed blit is
// logged and the loop continues.
func (d *Dashboard) Run(ctx context.Context, s surface.Drawer) error {
	if d.backlight != nil && d.backlightOnStart {
		if err := d.backlight.Set(true); err != nil {
			d.log.Warn("backlight: %v", err)
		}
	}

	d.src.Start(ctx)
	defer d.shutdown()

	toggle := make(chan os.Signal, 1)
	d.notify(toggle, syscall.SIGUSR1)
	defer d.stopNotify(toggle)

	ticker := time.NewTicker(d.frameInterval)
	defer ticker.Stop()

	d.log.Info("dashboard: running, frame every %s", d.frameInterval)
	d.present(ctx, s)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-toggle:
			d.toggleBacklight()
		case <-ticker.C:
			d.present(ctx, s)
		}
	}
}

// Snapshot samples every series samples times, gap apart, then draws and
// presents a single frame. It does not start the series.
func (d *Dashboard) Snapshot(ctx context.Context, s surface.Drawer, samples int, gap time.Duration) (Frame, error) {
	for i := 0; i < samples; i++ {
		if i > 0 && gap > 0 {
			select {
			case <-ctx.Done():
				return Frame{}, ctx.Err()
			case <-time.After(gap):
			}
		}
		d.src.RetrieveAll(ctx)
	}

	f := d.DrawFrame(s)
	if err := s.Blit(); err != nil {
		return f, err
	}
	d.frames.Add(1)
	return f, nil
}

func (d *Dashboard) present(ctx context.Context, s surface.Drawer) {
	d.DrawFrame(s)

	if d.blitDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.blitDelay):
		}
	}

	err := s.Blit()
	switch {
	case err != nil && !d.blitFailing:
		d.log.Error("dashboard: blit failed: %v", err)
	case err == nil && d.blitFailing:
		d.log.Info("dashboard: blit recovered")
	}
	d.blitFailing = err != nil
	if err == nil {
		d.frames.Add(1)
	}
}

func (d *Dashboard) toggleBacklight() {
	if d.backlight == nil {
		return
	}
	enabled, err := d.backlight.Toggle()
	if err != nil {
		d.log.Warn("backlight: %v", err)
		return
	}
	d.log.Debug("backlight: on=%t", enabled)
}

func (d *Dashboard) shutdown() {
	d.src.Stop()
	if d.store == nil {
		return
	}
	if err := d.src.SaveHistory(d.store); err != nil {
		d.log.Warn("dashboard: history not saved: %v", err)
		return
	}
	d.log.Debug("dashboard: history saved")
}
