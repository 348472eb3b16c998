// Package watchface is the analog watch face core: the mode transitions,
// the single-ticket redraw scheduler, the bitmap cache and the draw pipeline,
// driven by one engine goroutine that serialises every event.
package watchface

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/clock"
	"github.com/rook-computer/bangasa/internal/render"
	"github.com/rook-computer/bangasa/internal/state"
)

// ErrEngineClosed is returned by Run when the engine was already closed.
var ErrEngineClosed = errors.New("engine closed")

// Host receives redraw requests. The host answers by getting a
// DrawRequested to the engine.
type Host interface {
	RequestRedraw()
}

// EventSource is a notification feed that is only subscribed while the
// face is visible.
type EventSource interface {
	Subscribe(post func(Event) bool) error
	Unsubscribe()
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

type Config struct {
	// Host defaults to the engine itself, which coalesces redraw requests
	// into DrawRequested on its own loop.
	Host     Host
	Renderer render.Renderer
	Clock    clock.Clock
	Assets   assets.Source
	Sources  []EventSource
	Executor Executor
	Store    *state.Store
	Logger   Logger

	QueueSize int
}

type Engine struct {
	host     Host
	renderer render.Renderer
	clock    clock.Clock
	store    *state.Store
	sources  []EventSource
	logger   Logger

	cache     *ResourceCache
	pipeline  *Pipeline
	scheduler *Scheduler

	queue  chan Event
	drawCh chan struct{}
	done   chan struct{}
	once   sync.Once

	sample     time.Time
	subscribed bool
	closed     bool
}

func New(cfg Config) *Engine {
	e := &Engine{
		host:     cfg.Host,
		renderer: cfg.Renderer,
		clock:    cfg.Clock,
		store:    cfg.Store,
		sources:  cfg.Sources,
		logger:   cfg.Logger,
	}
	if e.logger == nil {
		e.logger = noopLogger{}
	}
	if e.clock == nil {
		e.clock = clock.NewZoneClock(nil)
	}
	if e.store == nil {
		e.store = state.NewStore()
	}
	if e.host == nil {
		e.host = e
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	e.queue = make(chan Event, queueSize)
	e.drawCh = make(chan struct{}, 1)
	e.done = make(chan struct{})

	e.cache = NewResourceCache(cfg.Assets, e.logger)
	e.pipeline = NewPipeline(e.cache, e.logger)
	e.scheduler = NewScheduler(cfg.Executor, e.shouldRun, e.invalidate, e.Post, e.clock.Now)
	e.sample = e.clock.Now()
	return e
}

func (e *Engine) Store() *state.Store       { return e.store }
func (e *Engine) Pipeline() *Pipeline       { return e.pipeline }
func (e *Engine) Scheduler() *Scheduler     { return e.scheduler }
func (e *Engine) Cache() *ResourceCache     { return e.cache }
func (e *Engine) Sample() time.Time         { return e.sample }
func (e *Engine) Done() <-chan struct{}     { return e.done }
func (e *Engine) Renderer() render.Renderer { return e.renderer }

// Post queues ev for the engine goroutine. It blocks while the queue is full
// and returns false once the engine has stopped.
func (e *Engine) Post(ev Event) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.queue <- ev:
		return true
	case <-e.done:
		return false
	}
}

// RequestRedraw coalesces draw requests; at most one is ever pending.
func (e *Engine) RequestRedraw() {
	select {
	case e.drawCh <- struct{}{}:
	default:
	}
}

// Run processes events until ctx is cancelled, then tears the engine down.
func (e *Engine) Run(ctx context.Context) error {
	if e.closed {
		return ErrEngineClosed
	}
	defer e.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-e.queue:
			e.Handle(ev)
		case <-e.drawCh:
			e.Handle(DrawRequested{})
		}
	}
}

// Close cancels the pending ticket and releases event subscriptions.
// It must run on the engine goroutine, or after Run has returned.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.scheduler.Close()
	e.unsubscribe()
	e.once.Do(func() { close(e.done) })
}

func (e *Engine) shouldRun() bool {
	return e.store.Snapshot().ShouldRun()
}

func (e *Engine) invalidate() {
	if e.closed {
		return
	}
	e.host.RequestRedraw()
}

func (e *Engine) draw() {
	if e.closed || e.renderer == nil {
		return
	}
	d := e.renderer.Drawer()
	if d == nil {
		return
	}
	e.sample = e.clock.Now()
	e.pipeline.Draw(d, e.sample, e.store.Snapshot())
	if err := e.renderer.Present(); err != nil {
		e.logger.Errorf("draw", "present failed: %v", err)
	}
}

func (e *Engine) subscribe() {
	if e.subscribed {
		return
	}
	e.subscribed = true
	for _, src := range e.sources {
		if err := src.Subscribe(e.Post); err != nil {
			e.logger.Errorf("events", "subscribe failed: %v", err)
		}
	}
}

func (e *Engine) unsubscribe() {
	if !e.subscribed {
		return
	}
	e.subscribed = false
	for _, src := range e.sources {
		src.Unsubscribe()
	}
}
