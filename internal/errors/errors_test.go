package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []string{ErrConfig, ErrProducer, ErrDisplay, ErrBacklight, ErrStore}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code)
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Display width must be positive", "Set display.width in .fbdash.yaml")

	require.NotNil(t, err)
	assert.Equal(t, ErrConfig, err.Code)
	assert.Nil(t, err.Cause)
	assert.Equal(t, "✗ Display width must be positive\n\n  Set display.width in .fbdash.yaml\n", err.Error())
}

func TestWrapDefaultsToDisplay(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(cause, "Can't write to /dev/fb1")

	assert.Equal(t, ErrDisplay, err.Code)
	assert.Contains(t, err.Error(), "✗ Can't write to /dev/fb1")
	assert.Contains(t, err.Error(), "permission denied")
	assert.True(t, errors.Is(err, cause))
}

func TestWrapWithCode(t *testing.T) {
	cause := fmt.Errorf("statfs /: no such file")
	err := WrapWithCode(cause, ErrProducer, "disk producer failed", "Check series.disk.path")

	assert.Equal(t, ErrProducer, err.Code)
	assert.Equal(t, cause, errors.Unwrap(err))

	msg := err.Error()
	assert.Contains(t, msg, "disk producer failed")
	assert.Contains(t, msg, "statfs /: no such file")
	assert.Contains(t, msg, "Check series.disk.path")
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"nil error", nil, ErrConfig, false},
		{"plain error", fmt.Errorf("boom"), ErrConfig, false},
		{"matching code", New(ErrBacklight, "x", ""), ErrBacklight, true},
		{"other code", New(ErrBacklight, "x", ""), ErrStore, false},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrStore, "x", "")), ErrStore, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}
