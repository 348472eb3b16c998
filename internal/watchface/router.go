package watchface

import (
	"github.com/rook-computer/bangasa/internal/render"
)

// Handle applies one event. Run calls it for every queued event; it must
// not be called concurrently with Run.
func (e *Engine) Handle(ev Event) {
	if e.closed {
		return
	}
	switch ev := ev.(type) {
	case SurfaceSizeChanged:
		if r, ok := e.renderer.(render.Resizer); ok {
			r.Resize(ev.Width, ev.Height)
		}
		e.invalidate()

	case VisibilityChanged:
		if !e.store.SetVisible(ev.Visible) {
			return
		}
		e.logger.Infof("events", "visible=%v", ev.Visible)
		if ev.Visible {
			e.subscribe()
			e.sample = e.clock.Now()
			// In ambient nothing else redraws until the next minute tick.
			e.invalidate()
		} else {
			e.unsubscribe()
		}
		e.scheduler.UpdateTimer()

	case AmbientModeChanged:
		if !e.store.SetAmbient(ev.Ambient) {
			return
		}
		e.logger.Infof("events", "ambient=%v", ev.Ambient)
		e.applyPaint()
		e.scheduler.UpdateTimer()
		e.invalidate()

	case PropertiesChanged:
		if !e.store.SetProperties(ev.LowBitAmbient, ev.BurnInProtection) {
			e.logger.Infof("events", "ignoring late properties low-bit=%v burn-in=%v", ev.LowBitAmbient, ev.BurnInProtection)
			return
		}
		e.applyPaint()

	case TimezoneChanged:
		e.sample = e.clock.Now()
		e.invalidate()

	case BatteryChanged:
		if e.store.SetBattery(ev.Level, ev.Charging) {
			e.invalidate()
		}

	case InterruptionFilterChanged:
		if e.store.SetMuted(ev.Muted) {
			e.invalidate()
		}

	case TimeTick:
		if e.store.Snapshot().Visible {
			e.invalidate()
		}

	case Tap:
		e.logger.Infof("events", "%s at %d,%d", ev.Type, ev.X, ev.Y)

	case AssetsChanged:
		e.cache.Purge()
		e.invalidate()

	case BuffersLost:
		e.cache.RecycleAll()
		e.invalidate()

	case DrawRequested:
		e.draw()

	case TimerFired:
		e.scheduler.Fire(ev.seq)

	default:
		e.logger.Errorf("events", "unhandled event %T", ev)
	}
}

// applyPaint turns anti-aliasing and bitmap filtering off while the device
// is ambient with a low-bit display.
func (e *Engine) applyPaint() {
	full := !e.store.Snapshot().LowBitAmbient()
	e.pipeline.SetPaint(Paint{AntiAlias: full, FilterBitmap: full})
}
