// Package surface defines the pixel-drawing capability the dashboard draws
// through, and a viewport facade that gives any sub-rectangle of a display
// its own local coordinate space.
//
// A Surface derived with Sub is itself a Drawer, so panels compose
// recursively: a graph inside a column inside the full screen. Each level
// adds only its own offset before delegating to its parent.
//
// Surfaces do not clip. Drawing outside a viewport's Width x Height is a
// caller error that the Surface does not detect; whatever is underneath
// (usually an image that silently drops out-of-range pixels) decides what
// happens.
package surface

import "image/color"

// TextOptions controls text placement. By default x is the left edge of the
// text and y its baseline.
type TextOptions struct {
	// Centered places the horizontal center of the text at x.
	Centered bool
	// RightAligned places the right edge of the text at x.
	RightAligned bool
	// Rotation in degrees, counter-clockwise, around the anchor point.
	Rotation float64
}

// Drawer is the primitive pixel-drawing capability supplied by a display.
type Drawer interface {
	// SetColor sets the color used by subsequent drawing operations.
	SetColor(c color.Color)
	// SetFont selects the font used by subsequent Text calls.
	SetFont(name string, size int)
	// Line draws a line from (x0,y0) to (x1,y1) with the given stroke width.
	Line(x0, y0, x1, y1, stroke int)
	// Rect draws a w x h rectangle at (x,y), filled unless outline is set.
	Rect(x, y, w, h int, outline bool, borderWidth int)
	// Text draws s anchored at (x,y).
	Text(x, y int, s string, opts TextOptions)
	// Clear erases the whole back buffer.
	Clear()
	// Blit presents the back buffer.
	Blit() error
	// Size returns the drawable width and height.
	Size() (width, height int)
}

// Viewport is a sub-rectangle of a parent's coordinate space.
// A zero Width or Height extends to the parent's far edge.
type Viewport struct {
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// Surface is a Drawer that translates coordinates into its parent's space.
type Surface struct {
	parent Drawer
	vp     Viewport
}

// New wraps parent in a Surface covering all of it.
func New(parent Drawer) *Surface {
	return newSurface(parent, Viewport{})
}

// Sub derives a Surface for the viewport, expressed in s's own coordinates.
func (s *Surface) Sub(vp Viewport) *Surface {
	return newSurface(s, vp)
}

// Derive is Sub for any Drawer, wrapping it first if needed.
func Derive(d Drawer, vp Viewport) *Surface {
	if s, ok := d.(*Surface); ok {
		return s.Sub(vp)
	}
	return New(d).Sub(vp)
}

func newSurface(parent Drawer, vp Viewport) *Surface {
	pw, ph := parent.Size()
	if vp.Width <= 0 {
		vp.Width = pw - vp.OffsetX
	}
	if vp.Height <= 0 {
		vp.Height = ph - vp.OffsetY
	}
	return &Surface{parent: parent, vp: vp}
}

// Viewport returns the viewport relative to the parent.
func (s *Surface) Viewport() Viewport {
	return s.vp
}

// Size returns the viewport's own size, not the parent's.
func (s *Surface) Size() (int, int) {
	return s.vp.Width, s.vp.Height
}

func (s *Surface) SetColor(c color.Color) {
	s.parent.SetColor(c)
}

func (s *Surface) SetFont(name string, size int) {
	s.parent.SetFont(name, size)
}

func (s *Surface) Line(x0, y0, x1, y1, stroke int) {
	s.parent.Line(x0+s.vp.OffsetX, y0+s.vp.OffsetY, x1+s.vp.OffsetX, y1+s.vp.OffsetY, stroke)
}

func (s *Surface) Rect(x, y, w, h int, outline bool, borderWidth int) {
	s.parent.Rect(x+s.vp.OffsetX, y+s.vp.OffsetY, w, h, outline, borderWidth)
}

func (s *Surface) Text(x, y int, text string, opts TextOptions) {
	s.parent.Text(x+s.vp.OffsetX, y+s.vp.OffsetY, text, opts)
}

// Clear clears the entire backing store, not just this viewport.
func (s *Surface) Clear() {
	s.parent.Clear()
}

// Blit presents the entire backing store.
func (s *Surface) Blit() error {
	return s.parent.Blit()
}

// Fill paints the whole viewport in c, for clearing a single panel.
func (s *Surface) Fill(c color.Color) {
	s.SetColor(c)
	s.Rect(0, 0, s.vp.Width, s.vp.Height, false, 0)
}

var _ Drawer = (*Surface)(nil)
