package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Procedural draws a default asset pack so the face works without image files.
// Backgrounds are DesignSize square; hands are drawn pointing to 12 o'clock with
// the pivot placed so that the design-space anchors line up with the centre.
type Procedural struct{}

var (
	tickColor    = color.RGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
	faceColor    = color.RGBA{R: 0x12, G: 0x2A, B: 0x4A, A: 0xFF}
	gaugeColor   = color.RGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xFF}
	chargeColor  = color.RGBA{R: 0xFF, G: 0xD2, B: 0x1F, A: 0xFF}
	dateColor    = color.RGBA{R: 0x08, G: 0x10, B: 0x1C, A: 0xFF}
	hourColor    = color.RGBA{R: 0xF4, G: 0xF4, B: 0xF4, A: 0xFF}
	minuteColor  = color.RGBA{R: 0xD8, G: 0xDE, B: 0xE6, A: 0xFF}
	secondColor  = color.RGBA{R: 0xE0, G: 0x2B, B: 0x2B, A: 0xFF}
	designCenter = float32(DesignSize) / 2
)

func (Procedural) Load(id AssetID) (image.Image, error) {
	switch id {
	case Tick:
		return drawTicks(), nil
	case Background:
		img, z := newLayer(DesignSize, DesignSize)
		circle(z, designCenter, designCenter, 335)
		z.Draw(img, img.Bounds(), image.NewUniform(faceColor), image.Point{})
		return img, nil
	case Battery:
		img, z := newLayer(DesignSize, DesignSize)
		circle(z, 150, 390, 62)
		z.Draw(img, img.Bounds(), image.NewUniform(gaugeColor), image.Point{})
		return img, nil
	case BatteryCharge:
		img, z := newLayer(DesignSize, DesignSize)
		polygon(z, [][2]float32{{158, 300}, {132, 345}, {150, 345}, {140, 380}, {170, 330}, {152, 330}})
		z.Draw(img, img.Bounds(), image.NewUniform(chargeColor), image.Point{})
		return img, nil
	case Date:
		img, z := newLayer(DesignSize, DesignSize)
		polygon(z, [][2]float32{{580, 345}, {720, 345}, {720, 450}, {580, 450}})
		z.Draw(img, img.Bounds(), image.NewUniform(dateColor), image.Point{})
		return img, nil
	case HourHand:
		// anchor (350,125): pivot at bitmap (50, 275)
		return drawHand(300, 275, 18, 8, hourColor), nil
	case MinuteHand:
		// anchor (350,0): pivot at bitmap (50, 400)
		return drawHand(430, 400, 12, 6, minuteColor), nil
	case SecondHand:
		return drawHand(450, 400, 4, 3, secondColor), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
}

func newLayer(w, h int) (*image.RGBA, *vector.Rasterizer) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	return img, z
}

func polygon(z *vector.Rasterizer, pts [][2]float32) {
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
}

func circle(z *vector.Rasterizer, cx, cy, r float32) {
	const segments = 96
	z.MoveTo(cx+r, cy)
	for i := 1; i < segments; i++ {
		a := float64(i) * 2 * math.Pi / segments
		z.LineTo(cx+r*float32(math.Cos(a)), cy+r*float32(math.Sin(a)))
	}
	z.ClosePath()
}

func drawTicks() *image.RGBA {
	img, z := newLayer(DesignSize, DesignSize)
	for i := 0; i < 60; i++ {
		inner, half := float32(370), float32(2)
		if i%5 == 0 {
			inner, half = 340, 6
		}
		a := float64(i) * 2 * math.Pi / 60
		sin, cos := float32(math.Sin(a)), float32(math.Cos(a))
		// radial quad from inner to 390, clockwise from 12 o'clock
		at := func(r, off float32) [2]float32 {
			return [2]float32{designCenter + r*sin + off*cos, designCenter - r*cos + off*sin}
		}
		polygon(z, [][2]float32{at(inner, -half), at(390, -half), at(390, half), at(inner, half)})
	}
	z.Draw(img, img.Bounds(), image.NewUniform(tickColor), image.Point{})
	return img
}

// drawHand returns a 100 wide hand of the given length whose pivot sits at (50, pivotY).
func drawHand(length int, pivotY, baseHalf, tipHalf float32, c color.Color) *image.RGBA {
	img, z := newLayer(100, length)
	const mid = 50
	tail := float32(length) - 2
	polygon(z, [][2]float32{
		{mid - tipHalf, 2},
		{mid + tipHalf, 2},
		{mid + baseHalf, pivotY},
		{mid + tipHalf, tail},
		{mid - tipHalf, tail},
		{mid - baseHalf, pivotY},
	})
	circle(z, mid, pivotY, baseHalf+4)
	z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
	return img
}
