package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	snapshotOutput  string
	snapshotSamples int
	snapshotGap     time.Duration
	snapshotScale   int
	previewInterval string
	statusSamples   int
	statusGap       time.Duration
	initForce       bool
	initNonInteract bool
	initPath        string
)

// minPreviewInterval keeps the terminal preview from redrawing faster than
// a terminal can paint.
const minPreviewInterval = 100 * time.Millisecond

// runCmd draws the dashboard on the framebuffer
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Draw the dashboard on the framebuffer",
	Long: `Start sampling and draw the dashboard on the configured framebuffer
until interrupted.

Sampled history is saved on exit and restored on the next start when
history is enabled. Send SIGUSR1 to toggle the backlight.

Examples:
  fbdash run
  fbdash run --config /etc/fbdash.yaml
  FBDASH_DISPLAY_DEVICE=/dev/fb0 fbdash run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context())
	},
}

// snapshotCmd writes one frame to an image file
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write one dashboard frame to a PNG",
	Long: `Sample every metric, draw one frame and save it as an image instead of
writing to the framebuffer. Graphs need at least two samples to draw lines.

Examples:
  fbdash snapshot -o dash.png
  fbdash snapshot -o dash.png --samples 5 --gap 1s --scale 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.Context(), snapshotOptions{
			Output:  snapshotOutput,
			Samples: snapshotSamples,
			Gap:     snapshotGap,
			Scale:   snapshotScale,
		})
	},
}

// previewCmd renders the dashboard in the terminal
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the dashboard in the terminal",
	Long: `Draw the dashboard in the terminal using half-block characters, for
checking layouts without a display attached.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Redraw now

Examples:
  fbdash preview
  fbdash preview --interval 500ms`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := time.ParseDuration(previewInterval)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid interval: %s", previewInterval),
				"Use a valid duration like 500ms, 1s or 2s")
		}
		if interval < minPreviewInterval {
			return errors.New(errors.ErrConfig,
				"Interval too short",
				fmt.Sprintf("Minimum interval is %s", minPreviewInterval))
		}
		return previewCommand(cmd.Context(), interval)
	},
}

// statusCmd prints current metrics
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print current metrics",
	Long: `Sample every metric a few times and print the latest values with a
short trend.

Examples:
  fbdash status
  fbdash status --samples 10 --gap 1s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(cmd.Context(), cmd.OutOrStdout(), statusOptions{
			Samples: statusSamples,
			Gap:     statusGap,
		})
	},
}

// backlightCmd switches the display backlight
var backlightCmd = &cobra.Command{
	Use:   "backlight on|off|toggle|status",
	Short: "Switch the display backlight",
	Long: `Turn the display backlight on or off, flip it, or report its state.

Examples:
  fbdash backlight off
  fbdash backlight toggle
  fbdash backlight status`,
	ValidArgs: []string{"on", "off", "toggle", "status"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return backlightCommand(cmd.OutOrStdout(), args[0])
	},
}

// historyCmd manages saved series history
var historyCmd = &cobra.Command{
	Use:   "history [list|clear]",
	Short: "List or clear saved graph history",
	Long: `List the series whose samples are saved between runs, or clear them so
the next 'fbdash run' starts with empty graphs. Stop 'fbdash run' first; the
history database allows one process at a time.

Examples:
  fbdash history
  fbdash history clear`,
	ValidArgs: []string{"list", "clear"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "list"
		if len(args) == 1 {
			action = args[0]
		}
		return historyCommand(cmd.OutOrStdout(), action)
	},
}

// initCmd creates a new .fbdash.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .fbdash.yaml configuration",
	Long: `Create a config file with the display, network interface and history
settings for this machine.

Prompts for values when run in a terminal. In non-interactive mode (or when
CI or FBDASH_NON_INTERACTIVE is set) defaults are written, with
FBDASH_DISPLAY_DEVICE and FBDASH_SERIES_NETWORK_INTERFACE applied.

Examples:
  fbdash init
  fbdash init --force
  fbdash init --non-interactive --path ~/.config/fbdash/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Path:           initPath,
			Overwrite:      initForce,
			NonInteractive: initNonInteract,
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for fbdash.

Examples:
  # Bash
  fbdash completion bash > /etc/bash_completion.d/fbdash

  # Zsh
  fbdash completion zsh > "${fpath[1]}/_fbdash"`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// snapshot command flags
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "fbdash.png", "image file to write (.png, .jpg, .gif, .bmp, .tif)")
	snapshotCmd.Flags().IntVar(&snapshotSamples, "samples", 2, "samples to take before drawing")
	snapshotCmd.Flags().DurationVar(&snapshotGap, "gap", time.Second, "time between samples")
	snapshotCmd.Flags().IntVar(&snapshotScale, "scale", 1, "enlarge the image by this factor")

	// preview command flags
	previewCmd.Flags().StringVar(&previewInterval, "interval", "1s", "redraw interval (e.g., 500ms, 1s)")

	// status command flags
	statusCmd.Flags().IntVar(&statusSamples, "samples", 3, "samples to take")
	statusCmd.Flags().DurationVar(&statusGap, "gap", 500*time.Millisecond, "time between samples")

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteract, "non-interactive", false, "write defaults without prompting")
	initCmd.Flags().StringVar(&initPath, "path", "", "where to write the config (default ./.fbdash.yaml)")

	// Register all commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(backlightCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
