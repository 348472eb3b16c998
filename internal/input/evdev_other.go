//go:build !linux

package input

import "context"

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EvdevSource has no devices outside Linux; it never delivers events.
type EvdevSource struct {
	Glob          string
	Width, Height int
	Logger        logger

	ch chan Event
}

func NewEvdevSource(width, height int) *EvdevSource {
	return &EvdevSource{Width: width, Height: height, ch: make(chan Event)}
}

func (s *EvdevSource) Events() <-chan Event { return s.ch }

func (s *EvdevSource) Start(ctx context.Context) error {
	if s.Logger != nil {
		s.Logger.Infof("input", "evdev input is only available on linux")
	}
	return nil
}

func (s *EvdevSource) Stop() error { return nil }
