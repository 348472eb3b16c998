package watchface

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < epsilon }

func TestComputeGeometrySquare(t *testing.T) {
	g := ComputeGeometry(400, 400)
	if !near(g.Scale, 0.5) {
		t.Fatalf("scale = %v, want 0.5", g.Scale)
	}
	if g.BackgroundOffset != (Point{}) {
		t.Fatalf("offset = %+v, want zero", g.BackgroundOffset)
	}
	if !near(g.HourAnchor.X, 175) || !near(g.HourAnchor.Y, 62.5) {
		t.Fatalf("hour anchor = %+v, want (175, 62.5)", g.HourAnchor)
	}
	if !near(g.MinuteAnchor.X, 175) || !near(g.MinuteAnchor.Y, 0) {
		t.Fatalf("minute anchor = %+v", g.MinuteAnchor)
	}
	if g.Center != (Point{X: 200, Y: 200}) {
		t.Fatalf("center = %+v", g.Center)
	}
}

func TestComputeGeometryRectangle(t *testing.T) {
	g := ComputeGeometry(400, 300)
	if !near(g.Scale, 0.5) {
		t.Fatalf("scale = %v", g.Scale)
	}
	if !near(g.BackgroundOffset.X, 0) || !near(g.BackgroundOffset.Y, -50) {
		t.Fatalf("offset = %+v, want (0, -50)", g.BackgroundOffset)
	}
	if !near(g.HourAnchor.Y, 62.5-50) {
		t.Fatalf("hour anchor = %+v", g.HourAnchor)
	}
}

func TestHandAngles(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			want := math.Mod((float64(h%12)+float64(m)/60)*30, 360)
			if got := HourAngle(h, m); !near(got, want) {
				t.Fatalf("HourAngle(%d,%d) = %v, want %v", h, m, got, want)
			}
			if got := MinuteAngle(m); !near(got, float64(m)*6) {
				t.Fatalf("MinuteAngle(%d) = %v", m, got)
			}
			if got := SecondAngle(m); !near(got, float64(m)*6) {
				t.Fatalf("SecondAngle(%d) = %v", m, got)
			}
		}
	}

	hour, minute, second := HandAngles(time.Date(2024, 3, 1, 15, 30, 45, 0, time.UTC))
	if !near(hour, 105) || !near(minute, 180) || !near(second, 270) {
		t.Fatalf("HandAngles = %v %v %v", hour, minute, second)
	}
}

func TestHandTransform(t *testing.T) {
	apply := func(m [6]float64, x, y float64) (float64, float64) {
		return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
	}

	center := Point{X: 200, Y: 200}
	anchor := Point{X: 175, Y: 62.5}

	m := HandTransform(anchor, center, 0)
	if x, y := apply(m, 0, 0); !near(x, 175) || !near(y, 62.5) {
		t.Fatalf("origin maps to %v,%v, want anchor", x, y)
	}

	// A quarter turn clockwise takes a point above the centre to its right.
	m = HandTransform(Point{X: 200, Y: 100}, center, 90)
	x, y := apply(m, 0, 0)
	if math.Abs(x-300) > 1e-6 || math.Abs(y-200) > 1e-6 {
		t.Fatalf("rotated origin = %v,%v, want 300,200", x, y)
	}
}
