package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/fbdash/internal/config"
	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/metrics"
	"github.com/rileyhilliard/fbdash/internal/ui"
	"golang.org/x/term"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write; defaults to ./.fbdash.yaml
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

// initDefaults are init values taken from the environment.
type initDefaults struct {
	Device         string
	Interface      string
	NonInteractive bool
}

// getInitDefaults reads init values from the same variables that override
// the config at runtime, plus CI / FBDASH_NON_INTERACTIVE.
func getInitDefaults() initDefaults {
	d := initDefaults{
		Device:    os.Getenv(config.EnvPrefix + "_DISPLAY_DEVICE"),
		Interface: os.Getenv(config.EnvPrefix + "_SERIES_NETWORK_INTERFACE"),
	}
	if v, err := strconv.ParseBool(os.Getenv(config.EnvPrefix + "_NON_INTERACTIVE")); err == nil && v {
		d.NonInteractive = true
	}
	if os.Getenv("CI") != "" {
		d.NonInteractive = true
	}
	return d
}

// displayPresets are common small framebuffer panels.
var displayPresets = []struct {
	Label         string
	Width, Height int
}{
	{"320x240 (PiTFT 2.8\")", 320, 240},
	{"480x320 (PiTFT 3.5\")", 480, 320},
	{"240x240 (mini PiTFT 1.3\")", 240, 240},
	{"800x480 (official 7\")", 800, 480},
}

// Init creates a new .fbdash.yaml configuration file.
func Init(opts InitOptions) error {
	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}
	configPath = config.Expand(configPath)

	defaults := getInitDefaults()
	nonInteractive := opts.NonInteractive || defaults.NonInteractive || !term.IsTerminal(int(os.Stdin.Fd()))

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if nonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if defaults.Device != "" {
		cfg.Display.Device = defaults.Device
	}
	if defaults.Interface != "" {
		cfg.Series.Network.Interface = defaults.Interface
	}

	if !nonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(configPath, cfg, true); err != nil {
		return err
	}

	fmt.Printf("%s Created %s\n", ui.SymbolSuccess, configPath)
	fmt.Println(ui.Muted("  Try it with 'fbdash preview', then 'fbdash run'"))
	return nil
}

// promptConfig asks for the machine-specific settings.
func promptConfig(cfg *config.Config) error {
	preset := 0
	presetOpts := make([]huh.Option[int], len(displayPresets))
	for i, p := range displayPresets {
		presetOpts[i] = huh.NewOption(p.Label, i)
		if p.Width == cfg.Display.Width && p.Height == cfg.Display.Height {
			preset = i
		}
	}

	ifaceField := interfaceField(&cfg.Series.Network.Interface)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Framebuffer device").
				Description("The display's framebuffer, usually /dev/fb1 for a PiTFT").
				Value(&cfg.Display.Device).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("device is required")
					}
					return nil
				}),
			huh.NewSelect[int]().
				Title("Display size").
				Options(presetOpts...).
				Value(&preset),
			huh.NewSelect[int]().
				Title("Color depth").
				Options(
					huh.NewOption("16 bit (RGB565)", 16),
					huh.NewOption("32 bit (BGRA)", 32),
				).
				Value(&cfg.Display.BPP),
		),
		huh.NewGroup(
			ifaceField,
			huh.NewConfirm().
				Title("Keep history across restarts?").
				Description("Stores recent samples in " + cfg.History.Dir).
				Value(&cfg.History.Enabled),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Run with --non-interactive to write defaults")
	}

	cfg.Display.Width = displayPresets[preset].Width
	cfg.Display.Height = displayPresets[preset].Height
	return nil
}

// interfaceField offers the host's interfaces, or free text when they
// can't be listed.
func interfaceField(value *string) huh.Field {
	ifaces, err := metrics.Interfaces(nil)
	if err != nil || len(ifaces) == 0 {
		return huh.NewInput().
			Title("Network interface").
			Value(value)
	}

	opts := make([]huh.Option[string], len(ifaces))
	for i, name := range ifaces {
		opts[i] = huh.NewOption(name, name)
	}
	return huh.NewSelect[string]().
		Title("Network interface").
		Options(opts...).
		Value(value)
}
