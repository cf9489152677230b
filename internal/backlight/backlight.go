// Package backlight switches a display backlight through sysfs.
package backlight

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rileyhilliard/fbdash/internal/errors"
)

// DefaultPath is the PiTFT backlight control.
const DefaultPath = "/sys/class/backlight/soc:backlight/brightness"

const (
	on  = "1"
	off = "0"
)

// Backlight controls one sysfs brightness file. Any non-zero brightness
// counts as on.
type Backlight struct {
	Path string

	mu sync.Mutex
}

// New returns a Backlight for path, or DefaultPath when empty.
func New(path string) *Backlight {
	if path == "" {
		path = DefaultPath
	}
	return &Backlight{Path: path}
}

// Enabled reports whether the backlight is on.
func (b *Backlight) Enabled() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.read()
}

// Set turns the backlight on or off.
func (b *Backlight) Set(enabled bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.write(enabled)
}

// Toggle flips the backlight and returns the new state.
func (b *Backlight) Toggle() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	enabled, err := b.read()
	if err != nil {
		return false, err
	}
	if err := b.write(!enabled); err != nil {
		return enabled, err
	}
	return !enabled, nil
}

func (b *Backlight) read() (bool, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return false, b.wrap(err, "read")
	}
	v := strings.TrimSpace(string(data))
	return v != "" && v != off, nil
}

func (b *Backlight) write(enabled bool) error {
	v := off
	if enabled {
		v = on
	}
	// sysfs attributes exist already; never create a regular file in their place.
	f, err := os.OpenFile(b.Path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return b.wrap(err, "write")
	}
	defer f.Close()
	if _, err := f.WriteString(v); err != nil {
		return b.wrap(err, "write")
	}
	return nil
}

func (b *Backlight) wrap(err error, op string) error {
	suggestion := "Check that the display driver is loaded"
	if os.IsPermission(err) {
		suggestion = "Run as root or add a udev rule granting write access to " + b.Path
	}
	return errors.WrapWithCode(err, errors.ErrBacklight,
		fmt.Sprintf("Couldn't %s backlight at %s", op, b.Path), suggestion)
}
