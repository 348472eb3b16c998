// Package clock provides the time source the watch face samples once per frame.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current local time.
type Clock interface {
	Now() time.Time
}

// ZoneClock returns the system time in a location that can be swapped
// at runtime when the device timezone changes.
type ZoneClock struct {
	mu  sync.RWMutex
	loc *time.Location
}

func NewZoneClock(loc *time.Location) *ZoneClock {
	if loc == nil {
		loc = time.Local
	}
	return &ZoneClock{loc: loc}
}

func (c *ZoneClock) Now() time.Time {
	c.mu.RLock()
	loc := c.loc
	c.mu.RUnlock()
	return time.Now().In(loc)
}

func (c *ZoneClock) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loc
}

func (c *ZoneClock) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	c.mu.Lock()
	c.loc = loc
	c.mu.Unlock()
}

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

func (c Fixed) Now() time.Time { return c.T }

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

var (
	_ Clock = (*ZoneClock)(nil)
	_ Clock = Fixed{}
	_ Clock = Func(nil)
)
