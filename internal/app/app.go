package app

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/bangasa/internal/input"
	"github.com/rook-computer/bangasa/internal/render"
	"github.com/rook-computer/bangasa/internal/system"
	"github.com/rook-computer/bangasa/internal/watchface"
	"github.com/rook-computer/bangasa/internal/web"
)

// App hosts the watch face: it starts the renderer, runs the engine loop,
// feeds it input and serves the control API.
type App struct {
	Engine *watchface.Engine
	Web    web.Server
	Input  input.Source
	Logger Logger

	// Properties is delivered once at start, before the face becomes visible.
	Properties watchface.PropertiesChanged
	// AmbientAfter enters ambient mode after this long without input; zero disables it.
	AmbientAfter time.Duration
	// Graphics switches the console to KD_GRAPHICS while running.
	Graphics bool

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(engine *watchface.Engine, webServer web.Server, source input.Source) *App {
	return &App{Engine: engine, Web: webServer, Input: source, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs until ctx is done, Exit is called or the engine stops.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Engine == nil {
		return fmt.Errorf("app: no engine")
	}

	renderer := app.Engine.Renderer()
	if renderer == nil {
		renderer = &render.NoopRenderer{}
	}
	if err := renderer.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer renderer.Stop()

	if app.Graphics {
		restore := system.EnterGraphics(app.Logger)
		defer restore()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.Web != nil {
		if err := app.Web.Start(runCtx); err != nil {
			app.Logger.Errorf("app", "web start error: %v", err)
			return err
		}
		defer app.Web.Stop()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.Engine.Run(runCtx); err != nil && runCtx.Err() == nil {
			app.Logger.Errorf("app", "engine stopped: %v", err)
		}
	}()

	idle := input.NewIdleAmbient(app.AmbientAfter, app.Engine.Post)
	wg.Add(1)
	go func() {
		defer wg.Done()
		idle.Run(runCtx)
	}()

	if app.Input != nil {
		if err := app.Input.Start(runCtx); err != nil {
			app.Logger.Errorf("input", "start error: %v", err)
		} else {
			defer app.Input.Stop()
			wg.Add(1)
			go func() {
				defer wg.Done()
				app.pumpInput(runCtx, idle)
			}()
		}
	}

	app.Engine.Post(app.Properties)
	if d := renderer.Drawer(); d != nil {
		w, h := d.Size()
		app.Engine.Post(watchface.SurfaceSizeChanged{Width: w, Height: h})
	}
	app.Engine.Post(watchface.VisibilityChanged{Visible: true})
	app.Logger.Infof("app", "watch face running")

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	case <-app.Engine.Done():
	}
	cancel()
	wg.Wait()
	return err
}

func (app *App) pumpInput(ctx context.Context, idle *input.IdleAmbient) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-app.Input.Events():
			if !ok {
				return
			}
			idle.Activity()
			switch ev.Kind {
			case input.Tap:
				app.Engine.Post(ev.Tap)
			case input.Exit:
				app.Logger.Infof("input", "exit key %d pressed", ev.Code)
				app.Exit(nil)
			}
		}
	}
}

func (app *App) Stop() error {
	app.Exit(nil)
	return nil
}

// canvasOwner is implemented by renderers that draw into a render.Canvas.
type canvasOwner interface {
	Canvas() *render.Canvas
}

// Frames adapts a renderer to web.FrameSource. The canvas only exists once
// the renderer has started, so it is looked up on every request.
type Frames struct {
	Renderer render.Renderer
}

func (f Frames) Frame() image.Image {
	owner, ok := f.Renderer.(canvasOwner)
	if !ok {
		return nil
	}
	canvas := owner.Canvas()
	if canvas == nil {
		return nil
	}
	return canvas.Frame()
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// FileLogger writes one line per entry; writes are serialised because the
// engine, input and web goroutines all log.
type FileLogger struct {
	mu *sync.Mutex
	w  io.Writer
}

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{mu: &sync.Mutex{}, w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	l.write("INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	l.write("ERROR", component, format, args...)
}

func (l FileLogger) write(level, component, format string, args ...interface{}) {
	if l.mu != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	writeLog(l.w, level, component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
