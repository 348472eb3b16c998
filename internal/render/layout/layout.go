package layout

import "image"

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Center returns the centre of rect in surface coordinates.
func Center(rect image.Rectangle) (x, y float64) {
	rect = Normalize(rect)
	return float64(rect.Min.X) + float64(rect.Dx())/2, float64(rect.Min.Y) + float64(rect.Dy())/2
}

// LongSide returns the longer edge of rect.
func LongSide(rect image.Rectangle) int {
	rect = Normalize(rect)
	if rect.Dx() > rect.Dy() {
		return rect.Dx()
	}
	return rect.Dy()
}

// SquareOffset returns the top-left corner of the LongSide square centred on rect.
// On non-square surfaces one coordinate is negative: the square overhangs that axis.
func SquareOffset(rect image.Rectangle) (left, top float64) {
	rect = Normalize(rect)
	long := float64(LongSide(rect))
	left = float64(rect.Min.X) + (float64(rect.Dx())-long)/2
	top = float64(rect.Min.Y) + (float64(rect.Dy())-long)/2
	return left, top
}

// Proportional returns the point at (fx, fy) multiples of the centre offsets of rect,
// i.e. Center scaled per axis. It places elements that must keep their relative
// position on every display size.
func Proportional(rect image.Rectangle, fx, fy float64) image.Point {
	cx, cy := Center(rect)
	return image.Pt(int(cx*fx), int(cy*fy))
}
