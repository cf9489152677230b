package config

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/fbdash/internal/errors"
)

// MinFrameInterval is the fastest supported frame loop.
const MinFrameInterval = 20 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but fbdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade fbdash, or regenerate the file with 'fbdash init --force'.")
	}

	if err := validateDisplay(cfg.Display); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'display' section in your .fbdash.yaml.")
	}

	for _, s := range []struct {
		name string
		spec SeriesSpec
	}{
		{"load", cfg.Series.Load},
		{"memory", cfg.Series.Memory},
		{"disk", cfg.Series.Disk},
		{"network", cfg.Series.Network},
	} {
		if err := validateSeries(s.name, s.spec); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'series' section in your .fbdash.yaml.")
		}
	}

	if err := validateGraph(cfg.Graph); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'graph' section in your .fbdash.yaml.")
	}

	if cfg.History.Enabled && cfg.History.Dir == "" {
		return errors.New(errors.ErrConfig,
			"history.dir is empty but history is enabled",
			"Set history.dir, or set history.enabled to false.")
	}
	if cfg.History.MaxAge < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history.max_age can't be negative (got %s)", cfg.History.MaxAge),
			"Use 0 to keep samples of any age.")
	}

	return nil
}

func validateDisplay(d DisplayConfig) error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", d.Width, d.Height)
	}
	if d.BPP != 16 && d.BPP != 32 {
		return fmt.Errorf("display.bpp must be 16 or 32, got %d", d.BPP)
	}
	if d.FrameInterval < MinFrameInterval {
		return fmt.Errorf("display.frame_interval must be at least %s, got %s", MinFrameInterval, d.FrameInterval)
	}
	if d.BlitDelay < 0 {
		return fmt.Errorf("display.blit_delay can't be negative, got %s", d.BlitDelay)
	}
	if d.BlitDelay >= d.FrameInterval {
		return fmt.Errorf("display.blit_delay (%s) must be shorter than display.frame_interval (%s)", d.BlitDelay, d.FrameInterval)
	}
	return nil
}

func validateSeries(name string, s SeriesSpec) error {
	if s.Capacity <= 0 {
		return fmt.Errorf("series.%s.capacity must be positive, got %d", name, s.Capacity)
	}
	if s.Interval < 0 {
		return fmt.Errorf("series.%s.interval can't be negative, got %s", name, s.Interval)
	}
	return nil
}

func validateGraph(g GraphConfig) error {
	if g.Stroke < 0 || g.Spacing < 0 || g.TitleHeight < 0 || g.LabelHeight < 0 {
		return fmt.Errorf("graph sizes can't be negative")
	}
	return nil
}
