package web

import (
	"image"
	"time"

	"github.com/rook-computer/bangasa/internal/state"
	"github.com/rook-computer/bangasa/internal/watchface"
)

// StateReader exposes the current ModeState.
type StateReader interface {
	Snapshot() state.ModeState
}

// FrameSource returns the last presented frame, or nil before the first one.
type FrameSource interface {
	Frame() image.Image
}

// ZoneSetter switches the clock's location before TimezoneChanged is posted.
type ZoneSetter interface {
	SetLocation(loc *time.Location)
}

// apiLogger matches the app logger shape.
type apiLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopAPILogger struct{}

func (noopAPILogger) Infof(string, string, ...interface{})  {}
func (noopAPILogger) Errorf(string, string, ...interface{}) {}

type APIV1Deps struct {
	State  StateReader
	Frames FrameSource
	Zone   ZoneSetter
	// Post delivers an event to the engine; false means it has stopped.
	Post   func(watchface.Event) bool
	Logger apiLogger
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.State == nil {
		out.State = state.NewStore()
	}
	if out.Frames == nil {
		out.Frames = noFrames{}
	}
	if out.Post == nil {
		out.Post = func(watchface.Event) bool { return false }
	}
	if out.Logger == nil {
		out.Logger = noopAPILogger{}
	}
	return out
}

type noFrames struct{}

func (noFrames) Frame() image.Image { return nil }
