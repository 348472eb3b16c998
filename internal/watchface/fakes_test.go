package watchface

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	"golang.org/x/image/math/f64"

	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/render"
)

type fakeTicket struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// fire runs the callback the way time.AfterFunc does; a fired ticket is
// no longer outstanding.
func (t *fakeTicket) fire() {
	t.fired = true
	t.fn()
}

func (t *fakeTicket) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

// fakeExecutor records tickets; tests run them by hand.
type fakeExecutor struct {
	tickets []*fakeTicket
}

func (x *fakeExecutor) AfterFunc(d time.Duration, f func()) Ticket {
	t := &fakeTicket{delay: d, fn: f}
	x.tickets = append(x.tickets, t)
	return t
}

func (x *fakeExecutor) outstanding() int {
	n := 0
	for _, t := range x.tickets {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (x *fakeExecutor) last() *fakeTicket {
	if len(x.tickets) == 0 {
		return nil
	}
	return x.tickets[len(x.tickets)-1]
}

type fakeHost struct {
	redraws int
}

func (h *fakeHost) RequestRedraw() { h.redraws++ }

type fakeSource struct {
	subscribed   int
	unsubscribed int
	post         func(Event) bool
}

func (s *fakeSource) Subscribe(post func(Event) bool) error {
	s.subscribed++
	s.post = post
	return nil
}

func (s *fakeSource) Unsubscribe() {
	s.unsubscribed++
	s.post = nil
}

// mapSource serves fixed images and counts loads.
type mapSource struct {
	images map[assets.AssetID]image.Image
	loads  map[assets.AssetID]int
}

func newMapSource() *mapSource {
	return &mapSource{images: map[assets.AssetID]image.Image{}, loads: map[assets.AssetID]int{}}
}

func (s *mapSource) Load(id assets.AssetID) (image.Image, error) {
	s.loads[id]++
	img, ok := s.images[id]
	if !ok {
		return nil, assets.ErrUnknownAsset
	}
	return img, nil
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

type drawOp struct {
	kind  string
	img   image.Image
	text  string
	style render.TextStyle
	opts  render.ImageOpts
}

// recordingDrawer implements render.Drawer and keeps the call sequence.
type recordingDrawer struct {
	width, height int
	ops           []drawOp
}

func (d *recordingDrawer) Size() (int, int) { return d.width, d.height }

func (d *recordingDrawer) Fill(color.Color) { d.ops = append(d.ops, drawOp{kind: "fill"}) }

func (d *recordingDrawer) MeasureText(text string, style render.TextStyle) render.TextMetrics {
	return render.TextMetrics{Width: len(text) * style.Size / 2, Height: style.Size}
}

func (d *recordingDrawer) DrawText(text string, x, y int, style render.TextStyle) render.TextMetrics {
	d.ops = append(d.ops, drawOp{kind: "text", text: text, style: style})
	return d.MeasureText(text, style)
}

func (d *recordingDrawer) DrawImage(img image.Image, x, y int, opts render.ImageOpts) {
	d.ops = append(d.ops, drawOp{kind: "image", img: img, opts: opts})
}

func (d *recordingDrawer) DrawImageTransformed(img image.Image, m f64.Aff3, opts render.ImageOpts) {
	d.ops = append(d.ops, drawOp{kind: "transformed", img: img, opts: opts})
}

func (d *recordingDrawer) ReducePalette() { d.ops = append(d.ops, drawOp{kind: "reduce"}) }

func (d *recordingDrawer) texts() []string {
	var out []string
	for _, op := range d.ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func (d *recordingDrawer) count(kind string) int {
	n := 0
	for _, op := range d.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

// recordingRenderer presents a recordingDrawer and signals each frame.
type recordingRenderer struct {
	mu       sync.Mutex
	drawer   *recordingDrawer
	presents int
	resized  [2]int
	frames   chan struct{}
}

func newRecordingRenderer(w, h int) *recordingRenderer {
	return &recordingRenderer{drawer: &recordingDrawer{width: w, height: h}, frames: make(chan struct{}, 16)}
}

func (r *recordingRenderer) Start(context.Context) error { return nil }
func (r *recordingRenderer) Stop() error                 { return nil }
func (r *recordingRenderer) Drawer() render.Drawer       { return r.drawer }

func (r *recordingRenderer) Present() error {
	r.mu.Lock()
	r.presents++
	r.mu.Unlock()
	select {
	case r.frames <- struct{}{}:
	default:
	}
	return nil
}

func (r *recordingRenderer) Resize(w, h int) {
	r.resized = [2]int{w, h}
	r.drawer.width, r.drawer.height = w, h
}

func (r *recordingRenderer) presentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presents
}

// fullSource returns a source with a distinct bitmap for every asset.
func fullSource() *mapSource {
	src := newMapSource()
	for i, id := range assets.All {
		c := color.RGBA{R: uint8(20 * (i + 1)), A: 0xFF}
		switch id {
		case assets.HourHand, assets.MinuteHand, assets.SecondHand:
			src.images[id] = solid(100, 300+10*i, c)
		default:
			src.images[id] = solid(80, 80, c)
		}
	}
	return src
}
