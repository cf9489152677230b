package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/fbdash/internal/canvas"
	"github.com/rileyhilliard/fbdash/internal/config"
	"github.com/rileyhilliard/fbdash/internal/dashboard"
	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/ui"
)

// snapshotOptions holds the snapshot command flags.
type snapshotOptions struct {
	Output  string
	Samples int
	Gap     time.Duration
	Scale   int
}

// snapshotCommand samples the host and writes one frame to an image.
func snapshotCommand(ctx context.Context, opts snapshotOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.NewEnvLogger("[snapshot]")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	src := dashboard.NewSources(cfg.Series, nil, log)
	return writeSnapshot(ctx, os.Stdout, cfg, src, opts, dashboardOptions(cfg, log)...)
}

// writeSnapshot draws src once into opts.Output and reports what it wrote.
func writeSnapshot(ctx context.Context, w io.Writer, cfg *config.Config, src dashboard.Sources, opts snapshotOptions, dopts ...dashboard.Option) error {
	if opts.Output == "" {
		return errors.New(errors.ErrConfig, "No output file given", "Pass one with -o, e.g. -o dash.png")
	}
	if opts.Samples < 1 {
		opts.Samples = 1
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	sink := &canvas.PNGSink{Path: opts.Output, Scale: scale}
	c := canvas.New(cfg.Display.Width, cfg.Display.Height, sink)
	d := dashboard.New(src, dopts...)

	if _, err := d.Snapshot(ctx, c, opts.Samples, opts.Gap); err != nil {
		return errors.WrapWithCode(err, errors.ErrDisplay,
			"Couldn't write snapshot to "+opts.Output,
			"Use a .png, .jpg, .gif, .bmp or .tif file name in a writable directory")
	}

	fmt.Fprintf(w, "%s Wrote %s (%dx%d)\n", ui.SymbolSuccess, opts.Output,
		cfg.Display.Width*scale, cfg.Display.Height*scale)
	return nil
}
