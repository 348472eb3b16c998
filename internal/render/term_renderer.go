package render

import (
	"context"
	"errors"
	"image"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"
)

// CellPixels is the edge, in canvas pixels, of half a terminal cell.
const CellPixels = 4

// TermRenderer presents frames to a terminal using upper half blocks,
// two vertically stacked pixels per cell.
type TermRenderer struct {
	Screen tcell.Screen
	Faces  *FaceCache
	Logger Logger

	canvas *Canvas
	cells  *image.RGBA
}

func NewTermRenderer(screen tcell.Screen, faces *FaceCache) *TermRenderer {
	return &TermRenderer{Screen: screen, Faces: faces}
}

// SurfaceSize converts a terminal size in cells into a canvas size in pixels.
func SurfaceSize(cols, rows int) (int, int) {
	return cols * CellPixels, rows * 2 * CellPixels
}

func (r *TermRenderer) Start(ctx context.Context) error {
	if r.Screen == nil {
		return errors.New("no terminal screen configured")
	}
	if err := r.Screen.Init(); err != nil {
		return err
	}
	r.Screen.HideCursor()
	r.Screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	cols, rows := r.Screen.Size()
	width, height := SurfaceSize(cols, rows)
	r.canvas = NewCanvas(width, height, r.Faces)
	logInfo(r.Logger, "term", "terminal %dx%d cells, canvas %dx%d", cols, rows, width, height)
	return nil
}

func (r *TermRenderer) Stop() error {
	if r.Screen != nil {
		r.Screen.Fini()
	}
	return nil
}

func (r *TermRenderer) Drawer() Drawer {
	if r.canvas == nil {
		return nil
	}
	return r.canvas
}

func (r *TermRenderer) Canvas() *Canvas { return r.canvas }

func (r *TermRenderer) Resize(width, height int) {
	if r.canvas != nil {
		r.canvas.Resize(width, height)
	}
}

func (r *TermRenderer) Present() error {
	if r.canvas == nil {
		return errors.New("terminal renderer not started")
	}
	r.canvas.Commit()
	src := r.canvas.Image()
	cols := src.Bounds().Dx() / CellPixels
	rows := src.Bounds().Dy() / (2 * CellPixels)
	want := image.Rect(0, 0, cols, rows*2)
	if r.cells == nil || r.cells.Bounds() != want {
		r.cells = image.NewRGBA(want)
	}
	xdraw.ApproxBiLinear.Scale(r.cells, want, src, src.Bounds(), xdraw.Src, nil)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := r.cells.RGBAAt(col, row*2)
			bottom := r.cells.RGBAAt(col, row*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			r.Screen.SetContent(col, row, '▀', nil, style)
		}
	}
	r.Screen.Show()
	return nil
}
