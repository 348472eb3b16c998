// Package input turns evdev input into watch face events: touches become
// taps, Esc and F4 ask the host to exit, and any input counts as activity.
package input

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/rook-computer/bangasa/internal/watchface"
)

type Kind string

const (
	Tap  Kind = "tap"
	Key  Kind = "key"
	Exit Kind = "exit"
)

type Event struct {
	Kind Kind
	Tap  watchface.Tap
	Code uint16
}

// Source delivers input events until Stop.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopSource struct{ ch chan Event }

func NewNoopSource() *NoopSource { return &NoopSource{ch: make(chan Event)} }

func (n *NoopSource) Start(ctx context.Context) error { return nil }
func (n *NoopSource) Stop() error                     { return nil }
func (n *NoopSource) Events() <-chan Event            { return n.ch }

// Linux input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0

	keyEsc   = 1
	keyF4    = 62
	btnLeft  = 0x110
	btnTouch = 0x14a

	absX      = 0x00
	absY      = 0x01
	absMTPosX = 0x35
	absMTPosY = 0x36
)

// Decoder assembles input_event records into Events. Touch contacts are
// reported on the SYN_REPORT that closes their frame, so the position sent
// in the same frame is already known.
type Decoder struct {
	// Map converts device coordinates to surface pixels; nil keeps them.
	Map func(x, y int32) (int, int)
	Now func() time.Time

	x, y    int32
	pending *watchface.TapType
}

// recordLayout returns the offset of the type field and the size of one
// input_event: a timeval, then u16 type, u16 code and s32 value.
func recordLayout(tvSize int) (int, int) {
	return tvSize, tvSize + 2 + 2 + 4
}

// Decode parses every complete record in buf.
func (d *Decoder) Decode(buf []byte, tvSize int) []Event {
	off0, size := recordLayout(tvSize)
	var out []Event
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off+off0 : off+size]
		typ := binary.LittleEndian.Uint16(rec[0:2])
		code := binary.LittleEndian.Uint16(rec[2:4])
		value := int32(binary.LittleEndian.Uint32(rec[4:8]))
		if ev, ok := d.feed(typ, code, value); ok {
			out = append(out, ev)
		}
	}
	return out
}

func (d *Decoder) feed(typ, code uint16, value int32) (Event, bool) {
	switch typ {
	case evAbs:
		switch code {
		case absX, absMTPosX:
			d.x = value
		case absY, absMTPosY:
			d.y = value
		}
	case evKey:
		switch code {
		case btnTouch, btnLeft:
			t := watchface.TapTap
			if value == 1 {
				t = watchface.TapTouch
			}
			d.pending = &t
		case keyEsc, keyF4:
			if value == 1 {
				return Event{Kind: Exit, Code: code}, true
			}
		default:
			if value == 1 {
				return Event{Kind: Key, Code: code}, true
			}
		}
	case evSyn:
		if code == synReport && d.pending != nil {
			t := *d.pending
			d.pending = nil
			return Event{Kind: Tap, Tap: d.tap(t)}, true
		}
	}
	return Event{}, false
}

func (d *Decoder) tap(t watchface.TapType) watchface.Tap {
	x, y := int(d.x), int(d.y)
	if d.Map != nil {
		x, y = d.Map(d.x, d.y)
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return watchface.Tap{Type: t, X: x, Y: y, Time: now()}
}

// AxisMap scales a device axis range onto [0, size).
func AxisMap(min, max int32, size int) func(int32) int {
	span := int64(max) - int64(min)
	return func(v int32) int {
		if span <= 0 || size <= 0 {
			return int(v)
		}
		p := (int64(v) - int64(min)) * int64(size-1) / span
		return int(p)
	}
}
