package input

import (
	"context"
	"sync"
	"time"

	"github.com/rook-computer/bangasa/internal/watchface"
)

// IdleAmbient enters ambient mode after Timeout without input and leaves it
// on the next input.
type IdleAmbient struct {
	Timeout time.Duration
	Post    func(watchface.Event) bool

	mu      sync.Mutex
	ambient bool
	kick    chan struct{}
}

func NewIdleAmbient(timeout time.Duration, post func(watchface.Event) bool) *IdleAmbient {
	return &IdleAmbient{Timeout: timeout, Post: post, kick: make(chan struct{}, 1)}
}

// Activity records user input.
func (i *IdleAmbient) Activity() {
	i.mu.Lock()
	wake := i.ambient
	i.ambient = false
	i.mu.Unlock()
	if wake {
		i.Post(watchface.AmbientModeChanged{Ambient: false})
	}
	select {
	case i.kick <- struct{}{}:
	default:
	}
}

func (i *IdleAmbient) Ambient() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.ambient
}

// Run arms the idle timer until ctx is done. A zero Timeout disables it.
func (i *IdleAmbient) Run(ctx context.Context) {
	if i.Timeout <= 0 {
		return
	}
	timer := time.NewTimer(i.Timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-i.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(i.Timeout)
		case <-timer.C:
			i.mu.Lock()
			enter := !i.ambient
			i.ambient = true
			i.mu.Unlock()
			if enter {
				i.Post(watchface.AmbientModeChanged{Ambient: true})
			}
		}
	}
}
