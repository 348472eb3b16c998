package watchface

import (
	"image"
	"strconv"
	"time"

	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/render"
	"github.com/rook-computer/bangasa/internal/render/layout"
	"github.com/rook-computer/bangasa/internal/state"
)

// Text sizes in design units.
const (
	dateTextSize    = 44
	weekdayTextSize = 32
	batteryTextSize = 40
	minTextSize     = 8
)

// Paint holds the rendering quality flags. Low-bit ambient turns both off.
type Paint struct {
	AntiAlias    bool
	FilterBitmap bool
}

// Pipeline draws one frame from a time sample and a mode snapshot.
// It never touches the mode store or the scheduler.
type Pipeline struct {
	cache   *ResourceCache
	paint   Paint
	weekday func(time.Time) string

	geom       Geometry
	haveGeom   bool
	recomputes int
	logger     Logger
}

func NewPipeline(cache *ResourceCache, logger Logger) *Pipeline {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Pipeline{
		cache:   cache,
		paint:   Paint{AntiAlias: true, FilterBitmap: true},
		weekday: func(t time.Time) string { return t.Format("Mon") },
		logger:  logger,
	}
}

func (p *Pipeline) Paint() Paint       { return p.paint }
func (p *Pipeline) SetPaint(pt Paint)  { p.paint = pt }
func (p *Pipeline) Geometry() Geometry { return p.geom }

// Recomputes counts geometry recomputations.
func (p *Pipeline) Recomputes() int { return p.recomputes }

// SetWeekdayFormat replaces the day-of-week formatter, e.g. with a localized one.
func (p *Pipeline) SetWeekdayFormat(f func(time.Time) string) {
	if f != nil {
		p.weekday = f
	}
}

func (p *Pipeline) Draw(d render.Drawer, now time.Time, mode state.ModeState) {
	width, height := d.Size()
	if !p.haveGeom || width != p.geom.Width || height != p.geom.Height {
		p.geom = ComputeGeometry(width, height)
		p.haveGeom = true
		p.recomputes++
		p.logger.Infof("draw", "geometry %dx%d scale=%.3f", width, height, p.geom.Scale)
	}
	g := p.geom
	fill := FillSpec(width, height)

	d.Fill(render.Paper)
	p.drawLayer(d, assets.Tick, fill)
	if !mode.Ambient {
		p.drawLayer(d, assets.Background, fill)
		p.drawLayer(d, assets.Battery, fill)
		if mode.Battery.Charging {
			p.drawLayer(d, assets.BatteryCharge, fill)
		}
	}
	p.drawLayer(d, assets.Date, fill)

	bounds := image.Rect(0, 0, width, height)
	if !mode.Ambient {
		at := layout.Proportional(bounds, 3.0/8, 121.0/120)
		d.DrawText(batteryText(mode.Battery), at.X, at.Y, p.textStyle(batteryTextSize, g.Scale))
	}
	at := layout.Proportional(bounds, 13.0/8, 41.0/40)
	d.DrawText(strconv.Itoa(now.Day()), at.X, at.Y, p.textStyle(dateTextSize, g.Scale))
	at = layout.Proportional(bounds, 13.0/8, 11.0/10)
	d.DrawText(p.weekday(now), at.X, at.Y, p.textStyle(weekdayTextSize, g.Scale))

	hour, minute, second := HandAngles(now)
	hands := UniformSpec(g.Scale)
	p.drawHand(d, assets.HourHand, hands, g.HourAnchor, hour)
	p.drawHand(d, assets.MinuteHand, hands, g.MinuteAnchor, minute)
	if !mode.Ambient {
		p.drawHand(d, assets.SecondHand, hands, g.SecondAnchor, second)
	}

	if mode.LowBitAmbient() {
		d.ReducePalette()
	}
}

// drawLayer skips the layer when its bitmap is unavailable; the cache logs why.
func (p *Pipeline) drawLayer(d render.Drawer, id assets.AssetID, spec ScaleSpec) {
	bitmap, err := p.cache.Get(id, spec)
	if err != nil {
		return
	}
	d.DrawImage(bitmap.Image(), 0, 0, render.ImageOpts{})
}

func (p *Pipeline) drawHand(d render.Drawer, id assets.AssetID, spec ScaleSpec, anchor Point, degrees float64) {
	bitmap, err := p.cache.Get(id, spec)
	if err != nil {
		return
	}
	m := HandTransform(anchor, p.geom.Center, degrees)
	d.DrawImageTransformed(bitmap.Image(), m, render.ImageOpts{Filter: p.paint.FilterBitmap})
}

func (p *Pipeline) textStyle(designSize, scale float64) render.TextStyle {
	size := int(designSize * scale)
	if size < minTextSize {
		size = minTextSize
	}
	return render.TextStyle{Color: render.Ink, Size: size, Align: render.TextAlignCenter, AntiAlias: p.paint.AntiAlias}
}

func batteryText(b state.Battery) string {
	if !b.Known {
		return ""
	}
	return strconv.Itoa(b.Level)
}
