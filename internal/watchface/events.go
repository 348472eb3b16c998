package watchface

import (
	"fmt"
	"time"
)

// Event is a message for the engine queue.
type Event interface {
	event()
}

type SurfaceSizeChanged struct {
	Width, Height int
}

type VisibilityChanged struct {
	Visible bool
}

type AmbientModeChanged struct {
	Ambient bool
}

// PropertiesChanged carries the device constraints. Delivered once, early.
type PropertiesChanged struct {
	LowBitAmbient    bool
	BurnInProtection bool
}

type TimezoneChanged struct{}

type BatteryChanged struct {
	Level    int
	Charging bool
}

// InterruptionFilterChanged reports whether notifications are silenced.
type InterruptionFilterChanged struct {
	Muted bool
}

// TimeTick is the host's once-per-minute tick.
type TimeTick struct{}

type TapType int

const (
	TapTouch TapType = iota
	TapTouchCancel
	TapTap
)

func (t TapType) String() string {
	switch t {
	case TapTouch:
		return "touch"
	case TapTouchCancel:
		return "touch-cancel"
	case TapTap:
		return "tap"
	}
	return fmt.Sprintf("TapType(%d)", int(t))
}

type Tap struct {
	Type TapType
	X, Y int
	Time time.Time
}

// AssetsChanged tells the engine the asset source may now return different
// bitmaps; every cached entry is dropped.
type AssetsChanged struct{}

// BuffersLost reports that the host released the memory behind the cached
// bitmaps. They are regenerated on the next frame.
type BuffersLost struct{}

// DrawRequested asks the engine to render and present one frame.
type DrawRequested struct{}

// TimerFired is posted by the scheduler's executor.
type TimerFired struct {
	seq uint64
}

func (SurfaceSizeChanged) event()        {}
func (VisibilityChanged) event()         {}
func (AmbientModeChanged) event()        {}
func (PropertiesChanged) event()         {}
func (TimezoneChanged) event()           {}
func (BatteryChanged) event()            {}
func (InterruptionFilterChanged) event() {}
func (TimeTick) event()                  {}
func (Tap) event()                       {}
func (AssetsChanged) event()             {}
func (BuffersLost) event()               {}
func (DrawRequested) event()             {}
func (TimerFired) event()                {}
