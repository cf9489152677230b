package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/fbdash/internal/backlight"
	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/ui"
)

// backlightCommand applies action to the configured backlight.
func backlightCommand(w io.Writer, action string) error {
	cfg, err := loadConfig(logger.NewEnvLogger("[backlight]"))
	if err != nil {
		return err
	}
	return applyBacklight(w, backlight.New(cfg.Backlight.Path), action)
}

// applyBacklight switches bl per action and prints the resulting state.
func applyBacklight(w io.Writer, bl *backlight.Backlight, action string) error {
	var (
		enabled bool
		err     error
	)
	switch action {
	case "on":
		enabled, err = true, bl.Set(true)
	case "off":
		enabled, err = false, bl.Set(false)
	case "toggle":
		enabled, err = bl.Toggle()
	case "status":
		enabled, err = bl.Enabled()
	default:
		return errors.New(errors.ErrConfig,
			"Unknown backlight action: "+action,
			"Use one of: on, off, toggle, status")
	}
	if err != nil {
		return err
	}

	symbol, state := ui.SymbolPending, "off"
	if enabled {
		symbol, state = ui.SymbolComplete, "on"
	}
	fmt.Fprintf(w, "%s Backlight %s %s\n", symbol, state, ui.Muted("("+bl.Path+")"))
	return nil
}
