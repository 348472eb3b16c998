package render

import (
	"image"
	"image/color"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Canvas is an offscreen RGBA Drawer. Renderers present it to their display.
type Canvas struct {
	img   *image.RGBA
	faces *FaceCache

	mu    sync.Mutex
	frame *image.RGBA
}

func NewCanvas(width, height int, faces *FaceCache) *Canvas {
	if faces == nil {
		faces = &FaceCache{faces: map[int]font.Face{}}
	}
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height)), faces: faces}
}

func (c *Canvas) Image() *image.RGBA { return c.img }

// Resize reallocates the backing image; the next frame starts blank.
func (c *Canvas) Resize(width, height int) {
	if width == c.img.Bounds().Dx() && height == c.img.Bounds().Dy() {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Commit keeps a copy of the finished frame for Frame readers on other goroutines.
func (c *Canvas) Commit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == nil || c.frame.Bounds() != c.img.Bounds() {
		c.frame = image.NewRGBA(c.img.Bounds())
	}
	copy(c.frame.Pix, c.img.Pix)
}

// Frame returns the last committed frame, or nil before the first commit.
func (c *Canvas) Frame() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == nil {
		return nil
	}
	out := image.NewRGBA(c.frame.Bounds())
	copy(out.Pix, c.frame.Pix)
	return out
}

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Fill(col color.Color) {
	xdraw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: col}, image.Point{}, xdraw.Src)
}

func (c *Canvas) DrawImage(img image.Image, x, y int, opts ImageOpts) {
	if img == nil {
		return
	}
	b := img.Bounds()
	xdraw.Copy(c.img, image.Pt(x, y), img, b, xdraw.Over, nil)
}

func (c *Canvas) DrawImageTransformed(img image.Image, m f64.Aff3, opts ImageOpts) {
	if img == nil {
		return
	}
	var interp xdraw.Transformer = xdraw.NearestNeighbor
	if opts.Filter {
		interp = xdraw.ApproxBiLinear
	}
	interp.Transform(c.img, m, img, img.Bounds(), xdraw.Over, nil)
}

func (c *Canvas) MeasureText(text string, style TextStyle) TextMetrics {
	face := c.faces.Face(style.Size)
	metrics := face.Metrics()
	drawer := &font.Drawer{Face: face}
	return TextMetrics{
		Width:      drawer.MeasureString(text).Ceil(),
		Height:     (metrics.Ascent + metrics.Descent).Ceil(),
		Ascent:     metrics.Ascent.Ceil(),
		Descent:    metrics.Descent.Ceil(),
		LineHeight: metrics.Height.Ceil(),
	}
}

func (c *Canvas) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	m := c.MeasureText(text, style)
	if text == "" {
		return m
	}
	switch style.Align {
	case TextAlignCenter:
		x -= m.Width / 2
	case TextAlignRight:
		x -= m.Width
	}
	var fg color.Color = color.White
	if style.Color != nil {
		fg = style.Color
	}
	dot := fixed.P(x, y)
	face := c.faces.Face(style.Size)

	if style.AntiAlias {
		drawer := &font.Drawer{Dst: c.img, Src: image.NewUniform(fg), Face: face, Dot: dot}
		drawer.DrawString(text)
		return m
	}

	// Render coverage into a mask, then snap it to fully on or off.
	area := image.Rect(x, y-m.Ascent, x+m.Width, y+m.Descent).Intersect(c.img.Bounds())
	if area.Empty() {
		return m
	}
	mask := image.NewAlpha(area)
	drawer := &font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: dot}
	drawer.DrawString(text)
	for i, a := range mask.Pix {
		if a >= 0x80 {
			mask.Pix[i] = 0xFF
		} else {
			mask.Pix[i] = 0
		}
	}
	xdraw.DrawMask(c.img, area, image.NewUniform(fg), image.Point{}, mask, area.Min, xdraw.Over)
	return m
}

// ReducePalette thresholds the frame through a 1-bit image, leaving only Ink and Paper.
func (c *Canvas) ReducePalette() {
	b := c.img.Bounds()
	mono := image1bit.NewVerticalLSB(b)
	xdraw.Draw(mono, b, c.img, b.Min, xdraw.Src)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mono.BitAt(x, y) {
				c.img.SetRGBA(x, y, Ink)
			} else {
				c.img.SetRGBA(x, y, Paper)
			}
		}
	}
}

var _ Drawer = (*Canvas)(nil)
