package config

import (
	"time"

	"github.com/rileyhilliard/fbdash/internal/backlight"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .fbdash.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
	Backlight BacklightConfig `yaml:"backlight" mapstructure:"backlight"`
	Series    SeriesConfig    `yaml:"series" mapstructure:"series"`
	Graph     GraphConfig     `yaml:"graph" mapstructure:"graph"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
}

// DisplayConfig describes the framebuffer and the frame loop.
type DisplayConfig struct {
	// Device is the framebuffer device file, e.g. /dev/fb1.
	Device string `yaml:"device" mapstructure:"device"`

	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`

	// BPP is the framebuffer depth: 16 (RGB565) or 32 (BGRA).
	BPP int `yaml:"bpp" mapstructure:"bpp"`

	// FrameInterval is the time between frames.
	FrameInterval time.Duration `yaml:"frame_interval" mapstructure:"frame_interval"`

	// BlitDelay postpones presenting a drawn frame.
	BlitDelay time.Duration `yaml:"blit_delay" mapstructure:"blit_delay"`

	// Font names the text face. Names containing "bold" select the bold face.
	Font string `yaml:"font" mapstructure:"font"`
}

// BacklightConfig controls the display backlight.
type BacklightConfig struct {
	Path string `yaml:"path" mapstructure:"path"`

	// OnStart switches the backlight on when the dashboard starts.
	OnStart bool `yaml:"on_start" mapstructure:"on_start"`
}

// SeriesSpec sizes one sampled metric.
type SeriesSpec struct {
	// Capacity is how many samples are kept.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`

	// Interval is the time between samples. Zero disables sampling.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Path is the mount point to report on (disk only).
	Path string `yaml:"path,omitempty" mapstructure:"path"`

	// Interface is the network interface to report on (network only).
	Interface string `yaml:"interface,omitempty" mapstructure:"interface"`
}

// SeriesConfig holds one spec per dashboard metric.
type SeriesConfig struct {
	Load    SeriesSpec `yaml:"load" mapstructure:"load"`
	Memory  SeriesSpec `yaml:"memory" mapstructure:"memory"`
	Disk    SeriesSpec `yaml:"disk" mapstructure:"disk"`
	Network SeriesSpec `yaml:"network" mapstructure:"network"`
}

// GraphConfig tunes the graph panels.
type GraphConfig struct {
	Stroke      int  `yaml:"stroke" mapstructure:"stroke"`
	Spacing     int  `yaml:"spacing" mapstructure:"spacing"`
	TitleHeight int  `yaml:"title_height" mapstructure:"title_height"`
	LabelHeight int  `yaml:"label_height" mapstructure:"label_height"`
	Annotate    bool `yaml:"annotate" mapstructure:"annotate"`
}

// HistoryConfig controls persisting samples across restarts.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Dir holds the history database. Supports ~ and ${HOME}.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// MaxAge drops restored samples older than this.
	MaxAge time.Duration `yaml:"max_age" mapstructure:"max_age"`
}

// DefaultConfig returns a Config matching a 320x240 PiTFT on /dev/fb1.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Display: DisplayConfig{
			Device:        "/dev/fb1",
			Width:         320,
			Height:        240,
			BPP:           16,
			FrameInterval: 120 * time.Millisecond,
			BlitDelay:     20 * time.Millisecond,
			Font:          "roboto",
		},
		Backlight: BacklightConfig{
			Path:    backlight.DefaultPath,
			OnStart: true,
		},
		Series: SeriesConfig{
			Load:    SeriesSpec{Capacity: 40, Interval: 15 * time.Second},
			Memory:  SeriesSpec{Capacity: 40, Interval: 15 * time.Second},
			Disk:    SeriesSpec{Capacity: 10, Interval: time.Minute, Path: "/"},
			Network: SeriesSpec{Capacity: 60, Interval: 10 * time.Second, Interface: "eth0"},
		},
		Graph: GraphConfig{
			Stroke:      1,
			Spacing:     4,
			TitleHeight: 12,
			LabelHeight: 10,
			Annotate:    true,
		},
		History: HistoryConfig{
			Enabled: true,
			Dir:     "~/.cache/fbdash",
			MaxAge:  time.Hour,
		},
	}
}
