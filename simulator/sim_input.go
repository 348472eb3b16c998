package main

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/bangasa/internal/input"
	"github.com/rook-computer/bangasa/internal/render"
	"github.com/rook-computer/bangasa/internal/state"
	"github.com/rook-computer/bangasa/internal/watchface"
)

// termInput turns terminal events into watch face events. Mode keys post
// straight to the engine; clicks become taps and q/Esc exit.
type termInput struct {
	screen tcell.Screen
	store  *state.Store
	post   func(watchface.Event) bool
	ch     chan input.Event
}

func newTermInput(screen tcell.Screen, store *state.Store, post func(watchface.Event) bool) *termInput {
	return &termInput{screen: screen, store: store, post: post, ch: make(chan input.Event, 16)}
}

func (t *termInput) Events() <-chan input.Event { return t.ch }

// Stop is a no-op: PollEvent returns nil once the renderer finalises the screen.
func (t *termInput) Stop() error { return nil }

func (t *termInput) Start(ctx context.Context) error {
	t.screen.EnableMouse()
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			for _, out := range t.translate(ev) {
				select {
				case t.ch <- out:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return nil
}

func (t *termInput) translate(ev tcell.Event) []input.Event {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		t.screen.Sync()
		w, h := render.SurfaceSize(cols, rows)
		t.post(watchface.SurfaceSizeChanged{Width: w, Height: h})
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return nil
		}
		col, row := ev.Position()
		tap := watchface.Tap{Type: watchface.TapTap, X: col * render.CellPixels, Y: row * 2 * render.CellPixels, Time: ev.When()}
		return []input.Event{{Kind: input.Tap, Tap: tap}}
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return []input.Event{{Kind: input.Exit}}
		}
		if ev.Key() != tcell.KeyRune {
			return []input.Event{{Kind: input.Key}}
		}
		return t.key(ev.Rune())
	}
	return nil
}

func (t *termInput) key(r rune) []input.Event {
	mode := t.store.Snapshot()
	switch r {
	case 'q':
		return []input.Event{{Kind: input.Exit, Code: uint16(r)}}
	case 'a':
		// Toggling ambient by hand must not count as activity, or it would wake at once.
		t.post(watchface.AmbientModeChanged{Ambient: !mode.Ambient})
		return nil
	case 'v':
		t.post(watchface.VisibilityChanged{Visible: !mode.Visible})
		return nil
	case 'b':
		t.post(watchface.BatteryChanged{Level: nextLevel(mode.Battery), Charging: mode.Battery.Charging})
	case 'c':
		level := mode.Battery.Level
		if !mode.Battery.Known {
			level = 100
		}
		t.post(watchface.BatteryChanged{Level: level, Charging: !mode.Battery.Charging})
	case 'm':
		t.post(watchface.InterruptionFilterChanged{Muted: !mode.Muted})
	case 't':
		t.post(watchface.TimezoneChanged{})
	}
	return []input.Event{{Kind: input.Key, Code: uint16(r)}}
}

// nextLevel steps the simulated battery down by 10%, wrapping to full.
func nextLevel(b state.Battery) int {
	if !b.Known || b.Level <= 0 {
		return 100
	}
	return max(b.Level-10, 0)
}
