package system

import (
	"context"
	"sync"
	"time"

	"github.com/rook-computer/bangasa/internal/watchface"
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// poller runs one background loop per subscription. Unsubscribe does not wait
// for the loop: it may be blocked posting to an engine that is the caller.
type poller struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (p *poller) start(post func(watchface.Event) bool, loop func(ctx context.Context, post func(watchface.Event) bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go loop(ctx, func(ev watchface.Event) bool {
		if ctx.Err() != nil {
			return false
		}
		return post(ev)
	})
}

func (p *poller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// sleep waits for d or until ctx is done, reporting whether to keep going.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
