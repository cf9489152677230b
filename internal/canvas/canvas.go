// Package canvas implements surface.Drawer on an in-memory RGBA image.
//
// Drawing goes to a back buffer. Blit copies it to the front buffer and hands
// the front buffer to a Sink (a framebuffer device, a PNG file, memory).
// Pixels outside the image are dropped.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/rileyhilliard/fbdash/internal/surface"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Sink receives each blitted frame. The frame is only valid for the
// duration of the call.
type Sink interface {
	Present(frame *image.RGBA) error
}

// Canvas is a double-buffered drawing target.
type Canvas struct {
	mu    sync.Mutex
	back  *image.RGBA
	front *image.RGBA
	sink  Sink

	color color.RGBA
	face  font.Face
}

// New creates a w x h canvas that presents frames to sink. A nil sink makes
// Blit only swap buffers.
func New(w, h int, sink Sink) *Canvas {
	r := image.Rect(0, 0, w, h)
	c := &Canvas{
		back:  image.NewRGBA(r),
		front: image.NewRGBA(r),
		sink:  sink,
		color: color.RGBA{0xff, 0xff, 0xff, 0xff},
		face:  basicfont.Face7x13,
	}
	c.Clear()
	copy(c.front.Pix, c.back.Pix)
	return c
}

func (c *Canvas) Size() (int, int) {
	b := c.back.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) SetColor(col color.Color) {
	c.color = color.RGBAModel.Convert(col).(color.RGBA)
}

// SetFont picks the closest bitmap face: 7x13 for sizes up to 13, 8x16
// above, bold when the name asks for it.
func (c *Canvas) SetFont(name string, size int) {
	c.face = faceFor(name, size)
}

func faceFor(name string, size int) font.Face {
	bold := strings.Contains(strings.ToLower(name), "bold")
	switch {
	case size > 13 && bold:
		return inconsolata.Bold8x16
	case size > 13:
		return inconsolata.Regular8x16
	default:
		return basicfont.Face7x13
	}
}

// Line draws with Bresenham's algorithm, stamping a stroke x stroke square
// centered on each point.
func (c *Canvas) Line(x0, y0, x1, y1, stroke int) {
	if stroke < 1 {
		stroke = 1
	}
	half := (stroke - 1) / 2

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		if stroke == 1 {
			c.back.SetRGBA(x0, y0, c.color)
		} else {
			c.fill(image.Rect(x0-half, y0-half, x0-half+stroke, y0-half+stroke))
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Rect fills the rectangle, or draws its border borderWidth pixels thick
// (at least one) inside the rectangle when outline is set.
func (c *Canvas) Rect(x, y, w, h int, outline bool, borderWidth int) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h)
	if !outline {
		c.fill(r)
		return
	}
	b := borderWidth
	if b < 1 {
		b = 1
	}
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+b))
	c.fill(image.Rect(r.Min.X, r.Max.Y-b, r.Max.X, r.Max.Y))
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+b, r.Max.Y))
	c.fill(image.Rect(r.Max.X-b, r.Min.Y, r.Max.X, r.Max.Y))
}

// Text draws s with its baseline at y.
func (c *Canvas) Text(x, y int, s string, opts surface.TextOptions) {
	if s == "" {
		return
	}
	width := font.MeasureString(c.face, s).Ceil()
	switch {
	case opts.Centered:
		x -= width / 2
	case opts.RightAligned:
		x -= width
	}

	if opts.Rotation == 0 {
		d := &font.Drawer{
			Dst:  c.back,
			Src:  image.NewUniform(c.color),
			Face: c.face,
			Dot:  fixed.P(x, y),
		}
		d.DrawString(s)
		return
	}

	// Render upright into a scratch image, then rotate about its center and
	// paste it where the upright text would have been centered.
	m := c.face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	scratch := image.NewNRGBA(image.Rect(0, 0, width, ascent+descent))
	d := &font.Drawer{
		Dst:  scratch,
		Src:  image.NewUniform(c.color),
		Face: c.face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)

	rotated := imaging.Rotate(scratch, opts.Rotation, color.Transparent)
	cx := x + width/2
	cy := y - ascent + (ascent+descent)/2
	rb := rotated.Bounds()
	dst := image.Rect(cx-rb.Dx()/2, cy-rb.Dy()/2, cx-rb.Dx()/2+rb.Dx(), cy-rb.Dy()/2+rb.Dy())
	draw.Draw(c.back, dst, rotated, rb.Min, draw.Over)
}

// Clear paints the back buffer black.
func (c *Canvas) Clear() {
	draw.Draw(c.back, c.back.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
}

// Blit copies the back buffer to the front buffer and presents it.
func (c *Canvas) Blit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.front.Pix, c.back.Pix)
	if c.sink == nil {
		return nil
	}
	return c.sink.Present(c.front)
}

// Frame returns a copy of the last blitted frame.
func (c *Canvas) Frame() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRGBA(c.front)
}

// Back exposes the back buffer, for inspecting a frame before Blit.
func (c *Canvas) Back() *image.RGBA {
	return c.back
}

func (c *Canvas) fill(r image.Rectangle) {
	draw.Draw(c.back, r, image.NewUniform(c.color), image.Point{}, draw.Src)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ surface.Drawer = (*Canvas)(nil)
