package web

import "context"

// Server is the control API the app starts next to the watch face engine.
// The device and the simulator serve it with HTTPServer; tests and headless
// runs use NoopServer.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

// NoopServer runs the face without a control API.
type NoopServer struct{}

func (n *NoopServer) Start(ctx context.Context) error { return nil }
func (n *NoopServer) Stop() error                     { return nil }
