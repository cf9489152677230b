package canvas

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/rileyhilliard/fbdash/internal/errors"
)

// FramebufferSink writes frames to a Linux framebuffer device such as
// /dev/fb1. The device must already be configured for the canvas
// resolution; only 16 (RGB565) and 32 (BGRA) bits per pixel are supported.
type FramebufferSink struct {
	Path         string
	BitsPerPixel int

	mu  sync.Mutex
	f   *os.File
	buf []byte
}

// NewFramebufferSink returns a sink for the device at path.
func NewFramebufferSink(path string, bpp int) *FramebufferSink {
	return &FramebufferSink{Path: path, BitsPerPixel: bpp}
}

// Present encodes frame and writes it at offset 0. The device is opened on
// first use and kept open until Close.
func (s *FramebufferSink) Present(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.BitsPerPixel {
	case 16:
		s.buf = AppendRGB565(s.buf[:0], frame)
	case 32:
		s.buf = AppendBGRA(s.buf[:0], frame)
	default:
		return errors.New(errors.ErrDisplay,
			fmt.Sprintf("Unsupported framebuffer depth %d bpp", s.BitsPerPixel),
			"Set display.bpp to 16 or 32")
	}

	if s.f == nil {
		f, err := os.OpenFile(s.Path, os.O_WRONLY, 0)
		if err != nil {
			return errors.Wrap(err, "Couldn't open framebuffer "+s.Path)
		}
		s.f = f
	}
	if _, err := s.f.WriteAt(s.buf, 0); err != nil {
		return errors.Wrap(err, "Couldn't write framebuffer "+s.Path)
	}
	return nil
}

// Close releases the device.
func (s *FramebufferSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// AppendRGB565 appends img as little-endian RGB565 pixels, row by row.
func AppendRGB565(dst []byte, img *image.RGBA) []byte {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := img.RGBAAt(x, y)
			v := uint16(p.R>>3)<<11 | uint16(p.G>>2)<<5 | uint16(p.B>>3)
			dst = binary.LittleEndian.AppendUint16(dst, v)
		}
	}
	return dst
}

// AppendBGRA appends img as 32-bit BGRA pixels, row by row.
func AppendBGRA(dst []byte, img *image.RGBA) []byte {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := img.RGBAAt(x, y)
			dst = append(dst, p.B, p.G, p.R, p.A)
		}
	}
	return dst
}

// PNGSink saves every frame to Path, overwriting the previous one.
// Scale > 1 enlarges the image with nearest-neighbor sampling so small
// displays stay crisp.
type PNGSink struct {
	Path  string
	Scale int
}

func (s *PNGSink) Present(frame *image.RGBA) error {
	var img image.Image = frame
	if s.Scale > 1 {
		b := frame.Bounds()
		img = imaging.Resize(frame, b.Dx()*s.Scale, b.Dy()*s.Scale, imaging.NearestNeighbor)
	}
	if err := imaging.Save(img, s.Path); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	return nil
}

// MemorySink keeps a copy of the most recent frame.
type MemorySink struct {
	mu     sync.Mutex
	last   *image.RGBA
	frames int
}

func (s *MemorySink) Present(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = cloneRGBA(frame)
	s.frames++
	return nil
}

// Last returns the most recent frame, or nil before the first blit.
func (s *MemorySink) Last() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Frames returns how many frames have been presented.
func (s *MemorySink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
