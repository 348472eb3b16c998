package system

import (
	"context"
	"time"

	"github.com/rook-computer/bangasa/internal/watchface"
)

// MinuteTicker posts TimeTick on every minute boundary, the way the platform
// tick drives ambient redraws.
type MinuteTicker struct {
	Interval time.Duration
	Now      func() time.Time

	poller
}

func NewMinuteTicker() *MinuteTicker {
	return &MinuteTicker{Interval: time.Minute, Now: time.Now}
}

func (m *MinuteTicker) Subscribe(post func(watchface.Event) bool) error {
	m.start(post, m.loop)
	return nil
}

func (m *MinuteTicker) Unsubscribe() { m.stop() }

func (m *MinuteTicker) loop(ctx context.Context, post func(watchface.Event) bool) {
	interval := m.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	now := m.Now
	if now == nil {
		now = time.Now
	}
	for sleep(ctx, watchface.NextDelay(now(), interval)) {
		if !post(watchface.TimeTick{}) {
			return
		}
	}
}
