package render

import "image/color"

// Face palette. Low-bit frames are reduced to exactly these two colors.
var (
	Ink   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Paper = color.RGBA{A: 0xFF}
)
