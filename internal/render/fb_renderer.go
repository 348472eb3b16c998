package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
)

// FBRenderer renders to the Linux framebuffer using an offscreen canvas.
// The canvas matches the framebuffer unless Width/Height request a logical
// size, in which case frames are nearest-neighbour scaled on present.
type FBRenderer struct {
	Path   string
	Width  int
	Height int
	Faces  *FaceCache
	Logger Logger

	fbDev   *fb.Device
	canvas  *Canvas
	running atomic.Bool
}

func NewFBRenderer(path string, faces *FaceCache) *FBRenderer {
	return &FBRenderer{Path: path, Faces: faces}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	path := r.Path
	if path == "" {
		path = "/dev/fb0"
	}
	dev, err := fb.Open(path)
	if err != nil {
		return err
	}
	r.fbDev = dev
	bounds := dev.Bounds()
	logInfo(r.Logger, "fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())

	width, height := r.Width, r.Height
	if width <= 0 || height <= 0 {
		width, height = bounds.Dx(), bounds.Dy()
	}
	r.canvas = NewCanvas(width, height, r.Faces)
	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
	}
	return nil
}

func (r *FBRenderer) Drawer() Drawer {
	if r.canvas == nil {
		return nil
	}
	return r.canvas
}

// Canvas exposes the offscreen canvas for frame snapshots.
func (r *FBRenderer) Canvas() *Canvas { return r.canvas }

func (r *FBRenderer) Resize(width, height int) {
	if r.canvas != nil {
		r.canvas.Resize(width, height)
	}
}

func (r *FBRenderer) Present() error {
	if !r.running.Load() || r.fbDev == nil {
		return errors.New("framebuffer not started")
	}
	r.canvas.Commit()
	return blitToFB(r.fbDev, r.canvas.Image())
}

// Helper: blit canvas to framebuffer via nearest-neighbor scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) error {
	if dev == nil {
		return nil
	}
	bounds := dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	canvasWidth := canvas.Bounds().Dx()
	canvasHeight := canvas.Bounds().Dy()
	for y := 0; y < fbHeight; y++ {
		sy := (y * canvasHeight) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * canvasWidth) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
	return nil
}
