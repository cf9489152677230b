package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/fbdash/internal/config"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/ui"
	"github.com/spf13/cobra"
)

// cfgFile is the --config flag shared by every command.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fbdash",
	Short: "System dashboard for small framebuffer displays",
	Long: `fbdash samples load, memory, disk and network use and draws them as
graphs on a small framebuffer display such as a Raspberry Pi PiTFT.

Configuration is read from --config, ./.fbdash.yaml or
~/.config/fbdash/config.yaml, in that order. Any key can be overridden with
an FBDASH_ environment variable, e.g. FBDASH_DISPLAY_DEVICE=/dev/fb0.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.Apply()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ./.fbdash.yaml, then ~/.config/fbdash/config.yaml)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				fmt.Fprintf(os.Stderr, "%s Unknown command %q\n\n  Run 'fbdash --help' to see available commands\n", ui.SymbolFail, name)
				os.Exit(1)
			}
		}
		fmt.Fprint(os.Stderr, err.Error())
		if !strings.HasSuffix(err.Error(), "\n") {
			fmt.Fprintln(os.Stderr)
		}
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line
// itself rather than a command failing.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "fbdash"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig finds, loads and validates the config named by --config.
func loadConfig(log logger.Logger) (*config.Config, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if path == "" {
		log.Debug("no config file found, using defaults")
	} else {
		log.Debug("loaded config from %s", path)
	}
	return cfg, nil
}
