package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/fbdash/internal/backlight"
	"github.com/rileyhilliard/fbdash/internal/canvas"
	"github.com/rileyhilliard/fbdash/internal/config"
	"github.com/rileyhilliard/fbdash/internal/dashboard"
	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/series"
	"github.com/rileyhilliard/fbdash/internal/store"
)

// runCommand draws the dashboard on the framebuffer until SIGINT or SIGTERM.
func runCommand(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.NewEnvLogger("[dashboard]")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Display.Device); err != nil {
		return errors.WrapWithCode(err, errors.ErrDisplay,
			"Framebuffer not available: "+cfg.Display.Device,
			"Check display.device in your config, or use 'fbdash preview' without a display")
	}

	st := openHistory(cfg, log)
	if st != nil {
		defer st.Close()
	}

	src := dashboard.NewSources(cfg.Series, st, log,
		series.WithLogger(logger.NewEnvLogger("[series]")))

	sink := canvas.NewFramebufferSink(cfg.Display.Device, cfg.Display.BPP)
	defer sink.Close()
	c := canvas.New(cfg.Display.Width, cfg.Display.Height, sink)

	opts := dashboardOptions(cfg, log)
	opts = append(opts, dashboard.WithBacklight(backlight.New(cfg.Backlight.Path), cfg.Backlight.OnStart))
	if st != nil {
		opts = append(opts, dashboard.WithStore(st))
	}
	d := dashboard.New(src, opts...)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx, c)
}

// dashboardOptions maps the display and graph config onto a dashboard.
func dashboardOptions(cfg *config.Config, log logger.Logger) []dashboard.Option {
	return []dashboard.Option{
		dashboard.WithLogger(log),
		dashboard.WithGraph(cfg.Graph),
		dashboard.WithFont(cfg.Display.Font),
		dashboard.WithFrameTiming(cfg.Display.FrameInterval, cfg.Display.BlitDelay),
	}
}

// openHistory opens the history store, or returns nil when history is
// disabled or unavailable. Failing to open it is never fatal: the dashboard
// just starts with empty graphs.
func openHistory(cfg *config.Config, log logger.Logger) *store.Store {
	if !cfg.History.Enabled {
		return nil
	}
	st, err := store.Open(store.Options{
		Dir:    cfg.History.Dir,
		MaxAge: cfg.History.MaxAge,
		Logger: logger.NewEnvLogger("[store]"),
	})
	if err != nil {
		log.Warn("history disabled: %v", err)
		return nil
	}
	return st
}
