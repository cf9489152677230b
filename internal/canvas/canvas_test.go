package canvas

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
)

var (
	black = color.RGBA{A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
)

func countColor(img *image.RGBA, c color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestNewIsBlack(t *testing.T) {
	c := New(8, 4, nil)
	w, h := c.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, 32, countColor(c.Back(), black))
}

func TestLineHorizontalVerticalDiagonal(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           []image.Point
	}{
		{"horizontal", 1, 2, 4, 2, []image.Point{{1, 2}, {2, 2}, {3, 2}, {4, 2}}},
		{"vertical reversed", 3, 4, 3, 1, []image.Point{{3, 1}, {3, 2}, {3, 3}, {3, 4}}},
		{"diagonal", 0, 0, 3, 3, []image.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"single point", 5, 5, 5, 5, []image.Point{{5, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(10, 10, nil)
			c.SetColor(red)
			c.Line(tt.x0, tt.y0, tt.x1, tt.y1, 1)

			for _, p := range tt.want {
				assert.Equal(t, red, c.Back().RGBAAt(p.X, p.Y), "pixel %v", p)
			}
			assert.Equal(t, len(tt.want), countColor(c.Back(), red))
		})
	}
}

func TestLineStrokeWidth(t *testing.T) {
	c := New(20, 20, nil)
	c.SetColor(red)
	c.Line(5, 10, 14, 10, 3)

	// 10 points stamped with a 3x3 brush along a row: 12 wide, 3 tall.
	assert.Equal(t, 12*3, countColor(c.Back(), red))
	assert.Equal(t, red, c.Back().RGBAAt(4, 9))
	assert.Equal(t, red, c.Back().RGBAAt(15, 11))
	assert.Equal(t, black, c.Back().RGBAAt(10, 12))
}

func TestLineOutOfBoundsIsClipped(t *testing.T) {
	c := New(10, 10, nil)
	c.SetColor(red)
	assert.NotPanics(t, func() { c.Line(-20, 5, 30, 5, 2) })
	assert.Equal(t, 20, countColor(c.Back(), red))
}

func TestRect(t *testing.T) {
	t.Run("filled", func(t *testing.T) {
		c := New(10, 10, nil)
		c.SetColor(red)
		c.Rect(2, 3, 4, 5, false, 0)
		assert.Equal(t, 20, countColor(c.Back(), red))
		assert.Equal(t, red, c.Back().RGBAAt(2, 3))
		assert.Equal(t, red, c.Back().RGBAAt(5, 7))
		assert.Equal(t, black, c.Back().RGBAAt(6, 7))
	})

	t.Run("outline", func(t *testing.T) {
		c := New(10, 10, nil)
		c.SetColor(red)
		c.Rect(0, 0, 6, 6, true, 1)
		assert.Equal(t, 20, countColor(c.Back(), red))
		assert.Equal(t, black, c.Back().RGBAAt(2, 2))
	})

	t.Run("thick outline", func(t *testing.T) {
		c := New(10, 10, nil)
		c.SetColor(red)
		c.Rect(0, 0, 6, 6, true, 2)
		assert.Equal(t, 36-4, countColor(c.Back(), red))
	})

	t.Run("empty", func(t *testing.T) {
		c := New(10, 10, nil)
		c.SetColor(red)
		c.Rect(0, 0, 0, 5, false, 0)
		assert.Zero(t, countColor(c.Back(), red))
	})
}

func TestSetColorConverts(t *testing.T) {
	c := New(2, 2, nil)
	c.SetColor(color.Gray{Y: 0x80})
	c.Rect(0, 0, 1, 1, false, 0)
	assert.Equal(t, color.RGBA{0x80, 0x80, 0x80, 0xff}, c.Back().RGBAAt(0, 0))
}

func TestFaceFor(t *testing.T) {
	assert.Equal(t, basicfont.Face7x13, faceFor("roboto", 10))
	assert.Equal(t, basicfont.Face7x13, faceFor("roboto", 13))
	assert.Equal(t, inconsolata.Regular8x16, faceFor("roboto", 18))
	assert.Equal(t, inconsolata.Bold8x16, faceFor("Roboto-Bold", 24))
}

func TestTextDrawsAboveBaseline(t *testing.T) {
	c := New(100, 30, nil)
	c.SetColor(red)
	c.Text(2, 20, "Load", surface.TextOptions{})

	img := c.Back()
	assert.Positive(t, countColor(img, red))

	// Nothing below the descender or left of the anchor.
	for x := 0; x < 100; x++ {
		for y := 24; y < 30; y++ {
			assert.NotEqual(t, red, img.RGBAAt(x, y))
		}
	}
	for y := 0; y < 30; y++ {
		assert.NotEqual(t, red, img.RGBAAt(1, y))
	}
}

func TestTextAlignment(t *testing.T) {
	extent := func(opts surface.TextOptions) (minX, maxX int) {
		c := New(200, 20, nil)
		c.SetColor(red)
		c.Text(100, 15, "MMMM", opts)
		minX, maxX = 200, -1
		for y := 0; y < 20; y++ {
			for x := 0; x < 200; x++ {
				if c.Back().RGBAAt(x, y) == red {
					minX = min(minX, x)
					maxX = max(maxX, x)
				}
			}
		}
		return minX, maxX
	}

	leftMin, _ := extent(surface.TextOptions{})
	assert.GreaterOrEqual(t, leftMin, 100)

	_, rightMax := extent(surface.TextOptions{RightAligned: true})
	assert.Less(t, rightMax, 100)

	cMin, cMax := extent(surface.TextOptions{Centered: true})
	assert.Less(t, cMin, 100)
	assert.Greater(t, cMax, 100)
}

func TestTextRotated(t *testing.T) {
	c := New(60, 60, nil)
	c.SetColor(red)
	c.Text(10, 30, "Disk", surface.TextOptions{Rotation: 90})

	img := c.Back()
	require.Positive(t, countColor(img, red))

	// Rotated text is taller than it is wide.
	minX, maxX, minY, maxY := 60, -1, 60, -1
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y) == red {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	assert.Greater(t, maxY-minY, maxX-minX)
}

func TestBlitPresentsCopy(t *testing.T) {
	sink := &MemorySink{}
	c := New(4, 4, sink)

	assert.Nil(t, sink.Last())

	c.SetColor(red)
	c.Rect(0, 0, 4, 4, false, 0)
	assert.Equal(t, black, c.Frame().RGBAAt(0, 0), "front untouched before blit")

	require.NoError(t, c.Blit())
	assert.Equal(t, 1, sink.Frames())
	assert.Equal(t, red, sink.Last().RGBAAt(0, 0))
	assert.Equal(t, red, c.Frame().RGBAAt(0, 0))

	// Later drawing does not leak into the presented frame.
	c.Clear()
	assert.Equal(t, red, sink.Last().RGBAAt(3, 3))
}

func TestAppendRGB565(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{0xff, 0x00, 0x00, 0xff})
	img.SetRGBA(1, 0, color.RGBA{0x00, 0xff, 0xff, 0xff})

	got := AppendRGB565(nil, img)
	assert.Equal(t, []byte{0x00, 0xf8, 0xff, 0x07}, got)
}

func TestAppendBGRA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{0x01, 0x02, 0x03, 0xff})
	assert.Equal(t, []byte{0x03, 0x02, 0x01, 0xff}, AppendBGRA(nil, img))
}

func TestFramebufferSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fb1")
	// Device files exist before we write; the sink never creates them.
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	sink := NewFramebufferSink(path, 16)
	t.Cleanup(func() { sink.Close() })

	c := New(2, 2, sink)
	c.SetColor(red)
	c.Rect(0, 0, 1, 1, false, 0)
	require.NoError(t, c.Blit())
	require.NoError(t, c.Blit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Written at offset 0, rest of the device untouched.
	assert.Len(t, data, 64)
	assert.Equal(t, []byte{0x00, 0xf8, 0, 0, 0, 0, 0, 0}, data[:8])
}

func TestFramebufferSinkErrors(t *testing.T) {
	t.Run("missing device", func(t *testing.T) {
		sink := NewFramebufferSink(filepath.Join(t.TempDir(), "fb9"), 16)
		err := sink.Present(image.NewRGBA(image.Rect(0, 0, 1, 1)))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open framebuffer")
		assert.True(t, errors.IsCode(err, errors.ErrDisplay))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported depth", func(t *testing.T) {
		sink := NewFramebufferSink("/dev/null", 24)
		err := sink.Present(image.NewRGBA(image.Rect(0, 0, 1, 1)))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "24 bpp")
		assert.True(t, errors.IsCode(err, errors.ErrDisplay))
	})

	t.Run("close unopened", func(t *testing.T) {
		assert.NoError(t, NewFramebufferSink("/dev/null", 16).Close())
	})
}

func TestPNGSink(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		scale int
		wantW int
		wantH int
	}{
		{"native", 0, 8, 6},
		{"scaled", 3, 24, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".png")
			c := New(8, 6, &PNGSink{Path: path, Scale: tt.scale})
			c.SetColor(red)
			c.Rect(0, 0, 1, 1, false, 0)
			require.NoError(t, c.Blit())

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, img.Bounds().Dx())
			assert.Equal(t, tt.wantH, img.Bounds().Dy())

			r, g, b, _ := img.At(0, 0).RGBA()
			assert.Equal(t, uint32(0xffff), r)
			assert.Zero(t, g)
			assert.Zero(t, b)
		})
	}
}

func TestPNGSinkBadPath(t *testing.T) {
	sink := &PNGSink{Path: filepath.Join(t.TempDir(), "frame.unknown")}
	assert.Error(t, sink.Present(image.NewRGBA(image.Rect(0, 0, 1, 1))))
}
