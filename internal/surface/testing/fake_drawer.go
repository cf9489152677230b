// Package testing provides test doubles for the surface package.
package testing

import (
	"image/color"
	"sync"

	"github.com/rileyhilliard/fbdash/internal/surface"
)

// Op names recorded by FakeDrawer.
const (
	OpColor = "color"
	OpFont  = "font"
	OpLine  = "line"
	OpRect  = "rect"
	OpText  = "text"
	OpClear = "clear"
	OpBlit  = "blit"
)

// Call records one Drawer call. Only the fields relevant to Op are set.
type Call struct {
	Op      string
	X0, Y0  int
	X1, Y1  int
	W, H    int
	Stroke  int
	Outline bool
	Border  int
	Text    string
	TextOpt surface.TextOptions
	Font    string
	Size    int
	// Color is the color in effect when the call was made.
	Color color.Color
}

// FakeDrawer records every call made to it.
type FakeDrawer struct {
	mu      sync.Mutex
	Width   int
	Height  int
	Calls   []Call
	BlitErr error

	current color.Color
}

// NewFakeDrawer creates a recording drawer with the given size.
func NewFakeDrawer(width, height int) *FakeDrawer {
	return &FakeDrawer{Width: width, Height: height}
}

func (f *FakeDrawer) add(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.Op != OpColor {
		c.Color = f.current
	}
	f.Calls = append(f.Calls, c)
}

func (f *FakeDrawer) SetColor(c color.Color) {
	f.mu.Lock()
	f.current = c
	f.mu.Unlock()
	f.add(Call{Op: OpColor, Color: c})
}

func (f *FakeDrawer) SetFont(name string, size int) {
	f.add(Call{Op: OpFont, Font: name, Size: size})
}

func (f *FakeDrawer) Line(x0, y0, x1, y1, stroke int) {
	f.add(Call{Op: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Stroke: stroke})
}

func (f *FakeDrawer) Rect(x, y, w, h int, outline bool, borderWidth int) {
	f.add(Call{Op: OpRect, X0: x, Y0: y, W: w, H: h, Outline: outline, Border: borderWidth})
}

func (f *FakeDrawer) Text(x, y int, s string, opts surface.TextOptions) {
	f.add(Call{Op: OpText, X0: x, Y0: y, Text: s, TextOpt: opts})
}

func (f *FakeDrawer) Clear() {
	f.add(Call{Op: OpClear})
}

func (f *FakeDrawer) Blit() error {
	f.add(Call{Op: OpBlit})
	return f.BlitErr
}

func (f *FakeDrawer) Size() (int, int) {
	return f.Width, f.Height
}

// Ops returns the calls with the given op, in order.
func (f *FakeDrawer) Ops(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// LinesIn returns the line calls drawn in color c.
func (f *FakeDrawer) LinesIn(c color.Color) []Call {
	var out []Call
	for _, call := range f.Ops(OpLine) {
		if sameColor(call.Color, c) {
			out = append(out, call)
		}
	}
	return out
}

// Texts returns the strings passed to Text, in order.
func (f *FakeDrawer) Texts() []string {
	var out []string
	for _, c := range f.Ops(OpText) {
		out = append(out, c.Text)
	}
	return out
}

// Reset drops all recorded calls.
func (f *FakeDrawer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

var _ surface.Drawer = (*FakeDrawer)(nil)
