package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".fbdash.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/fbdash"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. FBDASH_DISPLAY_DEVICE.
	EnvPrefix = "FBDASH"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'fbdash init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .fbdash.yaml in current directory
// 3. ~/.config/fbdash/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if path := GlobalPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}

// GlobalPath returns ~/.config/fbdash/config.yaml, or "" without a home dir.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault loads config from the found path, or returns defaults if
// nothing is found. Environment overrides apply either way. The returned
// path is empty when defaults were used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "defaults")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	cfg.History.Dir = Expand(cfg.History.Dir)
	cfg.Backlight.Path = Expand(cfg.Backlight.Path)
	cfg.Display.Device = Expand(cfg.Display.Device)

	return cfg, nil
}

// setDefaults registers every key so environment overrides work for keys
// the file does not mention.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)

	v.SetDefault("display.device", d.Display.Device)
	v.SetDefault("display.width", d.Display.Width)
	v.SetDefault("display.height", d.Display.Height)
	v.SetDefault("display.bpp", d.Display.BPP)
	v.SetDefault("display.frame_interval", d.Display.FrameInterval)
	v.SetDefault("display.blit_delay", d.Display.BlitDelay)
	v.SetDefault("display.font", d.Display.Font)

	v.SetDefault("backlight.path", d.Backlight.Path)
	v.SetDefault("backlight.on_start", d.Backlight.OnStart)

	for name, spec := range map[string]SeriesSpec{
		"load":    d.Series.Load,
		"memory":  d.Series.Memory,
		"disk":    d.Series.Disk,
		"network": d.Series.Network,
	} {
		v.SetDefault("series."+name+".capacity", spec.Capacity)
		v.SetDefault("series."+name+".interval", spec.Interval)
		if spec.Path != "" {
			v.SetDefault("series."+name+".path", spec.Path)
		}
		if spec.Interface != "" {
			v.SetDefault("series."+name+".interface", spec.Interface)
		}
	}

	v.SetDefault("graph.stroke", d.Graph.Stroke)
	v.SetDefault("graph.spacing", d.Graph.Spacing)
	v.SetDefault("graph.title_height", d.Graph.TitleHeight)
	v.SetDefault("graph.label_height", d.Graph.LabelHeight)
	v.SetDefault("graph.annotate", d.Graph.Annotate)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.dir", d.History.Dir)
	v.SetDefault("history.max_age", d.History.MaxAge)
}
