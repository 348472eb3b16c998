package watchface

import (
	"image"
	"math"
	"time"

	"golang.org/x/image/math/f64"

	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/render/layout"
)

type Point struct {
	X, Y float64
}

// Top-left corners of the hand bitmaps in design space.
var (
	hourAnchorDesign   = Point{X: 350, Y: 125}
	minuteAnchorDesign = Point{X: 350, Y: 0}
	secondAnchorDesign = Point{X: 350, Y: 0}
)

// Geometry is the layout derived from the surface size.
type Geometry struct {
	Width, Height int
	// Scale maps design units to pixels: max(Width, Height) / DesignSize.
	Scale            float64
	BackgroundOffset Point
	Center           Point

	HourAnchor   Point
	MinuteAnchor Point
	SecondAnchor Point
}

func ComputeGeometry(width, height int) Geometry {
	bounds := image.Rect(0, 0, width, height)
	left, top := layout.SquareOffset(bounds)
	cx, cy := layout.Center(bounds)
	scale := float64(layout.LongSide(bounds)) / assets.DesignSize
	anchor := func(p Point) Point {
		return Point{X: p.X*scale + left, Y: p.Y*scale + top}
	}
	return Geometry{
		Width:            width,
		Height:           height,
		Scale:            scale,
		BackgroundOffset: Point{X: left, Y: top},
		Center:           Point{X: cx, Y: cy},
		HourAnchor:       anchor(hourAnchorDesign),
		MinuteAnchor:     anchor(minuteAnchorDesign),
		SecondAnchor:     anchor(secondAnchorDesign),
	}
}

// HourAngle is clockwise degrees from 12 o'clock; the hand advances with the minutes.
func HourAngle(hour, minute int) float64 {
	return math.Mod((float64(hour%12)+float64(minute)/60)*30, 360)
}

func MinuteAngle(minute int) float64 { return float64(minute) * 6 }

func SecondAngle(second int) float64 { return float64(second) * 6 }

// HandAngles returns the hour, minute and second angles for t.
func HandAngles(t time.Time) (hour, minute, second float64) {
	return HourAngle(t.Hour(), t.Minute()), MinuteAngle(t.Minute()), SecondAngle(t.Second())
}

// HandTransform places a bitmap with its top-left corner at anchor and then
// rotates it clockwise by degrees about center.
func HandTransform(anchor, center Point, degrees float64) f64.Aff3 {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	dx, dy := anchor.X-center.X, anchor.Y-center.Y
	return f64.Aff3{
		cos, -sin, center.X + dx*cos - dy*sin,
		sin, cos, center.Y + dx*sin + dy*cos,
	}
}
