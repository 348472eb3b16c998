package app

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/input"
	"github.com/rook-computer/bangasa/internal/render"
	"github.com/rook-computer/bangasa/internal/watchface"
)

// canvasRenderer presents into an in-memory canvas.
type canvasRenderer struct {
	canvas *render.Canvas
}

func (r *canvasRenderer) Start(context.Context) error { return nil }
func (r *canvasRenderer) Stop() error                 { return nil }
func (r *canvasRenderer) Drawer() render.Drawer       { return r.canvas }
func (r *canvasRenderer) Canvas() *render.Canvas      { return r.canvas }
func (r *canvasRenderer) Present() error              { r.canvas.Commit(); return nil }
func (r *canvasRenderer) Resize(width, height int)    { r.canvas.Resize(width, height) }

type chanSource struct{ ch chan input.Event }

func (s *chanSource) Start(context.Context) error { return nil }
func (s *chanSource) Stop() error                 { return nil }
func (s *chanSource) Events() <-chan input.Event  { return s.ch }

func newTestApp() (*App, *canvasRenderer, *chanSource) {
	renderer := &canvasRenderer{canvas: render.NewCanvas(120, 120, nil)}
	engine := watchface.New(watchface.Config{Renderer: renderer, Assets: assets.Procedural{}})
	source := &chanSource{ch: make(chan input.Event, 4)}
	a := New(engine, nil, source)
	a.Properties = watchface.PropertiesChanged{BurnInProtection: true}
	return a, renderer, source
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestAppRunsFaceUntilExit(t *testing.T) {
	a, renderer, _ := newTestApp()
	errc := make(chan error, 1)
	go func() { errc <- a.Start(context.Background()) }()

	frames := Frames{Renderer: renderer}
	waitFor(t, "first frame", func() bool { return frames.Frame() != nil })

	mode := a.Engine.Store().Snapshot()
	if !mode.Visible || !mode.BurnInRequired {
		t.Fatalf("mode = %+v", mode)
	}

	a.Exit(nil)
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Start = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	<-a.Engine.Done()
}

func TestAppExitKey(t *testing.T) {
	a, _, source := newTestApp()
	errc := make(chan error, 1)
	go func() { errc <- a.Start(context.Background()) }()

	source.ch <- input.Event{Kind: input.Exit, Code: 1}
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Start = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("exit key did not stop the app")
	}
}

func TestAppIdleEntersAmbient(t *testing.T) {
	a, _, source := newTestApp()
	a.AmbientAfter = 40 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- a.Start(ctx) }()

	waitFor(t, "ambient", func() bool { return a.Engine.Store().Snapshot().Ambient })
	source.ch <- input.Event{Kind: input.Tap, Tap: watchface.Tap{Type: watchface.TapTap}}
	waitFor(t, "interactive", func() bool { return !a.Engine.Store().Snapshot().Ambient })

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("Start = %v", err)
	}
}

type failingRenderer struct{ *render.NoopRenderer }

func (failingRenderer) Start(context.Context) error { return errors.New("no display") }

func TestAppRendererStartError(t *testing.T) {
	engine := watchface.New(watchface.Config{Renderer: failingRenderer{&render.NoopRenderer{}}})
	if err := New(engine, nil, nil).Start(context.Background()); err == nil {
		t.Fatal("expected renderer error")
	}
}

func TestFramesWithoutCanvas(t *testing.T) {
	if (Frames{Renderer: &render.NoopRenderer{}}).Frame() != nil {
		t.Fatal("renderer without canvas has no frames")
	}
	if (Frames{Renderer: &canvasRenderer{}}).Frame() != nil {
		t.Fatal("unstarted renderer has no frames")
	}
}

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("cache", "bitmap %s regenerated", "tick")
	l.Errorf("draw", "present failed: %v", errors.New("gone"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	re := regexp.MustCompile(`^\S+ \[(INFO|ERROR)\] (\w+): (.*)$`)
	m := re.FindStringSubmatch(lines[0])
	if m == nil || m[1] != "INFO" || m[2] != "cache" || m[3] != "bitmap tick regenerated" {
		t.Fatalf("line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] draw: present failed: gone") {
		t.Fatalf("line = %q", lines[1])
	}
}
