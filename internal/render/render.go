package render

import (
	"context"
	"image"
	"image/color"

	"golang.org/x/image/math/f64"
)

// Renderer owns a drawing surface and presents finished frames to a display.
type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	Drawer() Drawer
	Present() error
}

// Resizer is implemented by renderers whose surface size can change at runtime.
type Resizer interface {
	Resize(width, height int)
}

// Stub implementations
type NoopRenderer struct{}

func (n *NoopRenderer) Start(ctx context.Context) error { return nil }
func (n *NoopRenderer) Stop() error                     { return nil }
func (n *NoopRenderer) Drawer() Drawer                  { return nil }
func (n *NoopRenderer) Present() error                  { return nil }

// Drawer is the drawing surface the watch face draws a frame into.
// It hides how pixels reach the display.
type Drawer interface {
	// Size returns the surface size in pixels.
	Size() (width int, height int)

	Fill(c color.Color)

	// Generic text primitives. y is the baseline.
	MeasureText(text string, style TextStyle) TextMetrics
	DrawText(text string, x, y int, style TextStyle) TextMetrics

	// Generic image primitives.
	DrawImage(img image.Image, x, y int, opts ImageOpts)
	// DrawImageTransformed maps img into the surface through m (source to surface coordinates).
	DrawImageTransformed(img image.Image, m f64.Aff3, opts ImageOpts)

	// ReducePalette restricts the current frame to a 1-bit palette.
	ReducePalette()
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text.
// For X, Align controls how x is interpreted.
type TextStyle struct {
	Color     color.Color
	Size      int // pixels; 0 means renderer default
	Align     TextAlign
	AntiAlias bool
}

type TextMetrics struct {
	Width      int
	Height     int
	Ascent     int
	Descent    int
	LineHeight int
}

type ImageOpts struct {
	// Filter enables bilinear sampling when the image is transformed.
	Filter bool
}
