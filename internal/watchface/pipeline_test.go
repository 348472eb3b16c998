package watchface

import (
	"image"
	"testing"
	"time"

	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/state"
)

var frameTime = time.Date(2024, 5, 17, 10, 8, 30, 0, time.UTC)

// layers maps each drawn image back to its asset id through the cache.
func layers(t *testing.T, p *Pipeline, d *recordingDrawer) []assets.AssetID {
	t.Helper()
	g := p.Geometry()
	lookup := map[image.Image]assets.AssetID{}
	for _, id := range assets.All {
		spec := FillSpec(g.Width, g.Height)
		switch id {
		case assets.HourHand, assets.MinuteHand, assets.SecondHand:
			spec = UniformSpec(g.Scale)
		}
		if bm, err := p.cache.Get(id, spec); err == nil {
			lookup[bm.Image()] = id
		}
	}
	var out []assets.AssetID
	for _, op := range d.ops {
		if op.kind != "image" && op.kind != "transformed" {
			continue
		}
		id, ok := lookup[op.img]
		if !ok {
			t.Fatalf("drawn image does not belong to any asset")
		}
		out = append(out, id)
	}
	return out
}

func contains(ids []assets.AssetID, id assets.AssetID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func index(ids []assets.AssetID, id assets.AssetID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func interactive() state.ModeState {
	return state.ModeState{Visible: true, Battery: state.Battery{Level: 42, Charging: true, Known: true}}
}

func TestPipelineInteractiveFrame(t *testing.T) {
	p := NewPipeline(NewResourceCache(fullSource(), nil), nil)
	d := &recordingDrawer{width: 400, height: 400}
	p.Draw(d, frameTime, interactive())

	if d.ops[0].kind != "fill" {
		t.Fatalf("first op = %s, want fill", d.ops[0].kind)
	}
	got := layers(t, p, d)
	want := []assets.AssetID{
		assets.Tick, assets.Background, assets.Battery, assets.BatteryCharge, assets.Date,
		assets.HourHand, assets.MinuteHand, assets.SecondHand,
	}
	if len(got) != len(want) {
		t.Fatalf("layers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("layers = %v, want %v", got, want)
		}
	}

	texts := d.texts()
	if len(texts) != 3 || texts[0] != "42" || texts[1] != "17" || texts[2] != "Fri" {
		t.Fatalf("texts = %q", texts)
	}
	if d.count("reduce") != 0 {
		t.Fatal("interactive frame must keep its palette")
	}
}

func TestPipelineChargingOverlayOnlyWhenCharging(t *testing.T) {
	p := NewPipeline(NewResourceCache(fullSource(), nil), nil)
	mode := interactive()
	mode.Battery.Charging = false
	d := &recordingDrawer{width: 400, height: 400}
	p.Draw(d, frameTime, mode)
	if got := layers(t, p, d); contains(got, assets.BatteryCharge) {
		t.Fatalf("layers = %v; no charge overlay expected", got)
	}
}

func TestPipelineAmbientFrame(t *testing.T) {
	p := NewPipeline(NewResourceCache(fullSource(), nil), nil)
	mode := interactive()
	mode.Ambient = true
	d := &recordingDrawer{width: 400, height: 400}
	p.Draw(d, frameTime, mode)

	got := layers(t, p, d)
	for _, id := range []assets.AssetID{assets.Background, assets.Battery, assets.BatteryCharge, assets.SecondHand} {
		if contains(got, id) {
			t.Fatalf("ambient frame drew %s", id)
		}
	}
	for _, text := range d.texts() {
		if text == "42" {
			t.Fatal("ambient frame drew battery text")
		}
	}
	if !contains(got, assets.Tick) || !contains(got, assets.Date) {
		t.Fatalf("layers = %v; tick and date always render", got)
	}
}

func TestPipelineHandOrder(t *testing.T) {
	p := NewPipeline(NewResourceCache(fullSource(), nil), nil)
	d := &recordingDrawer{width: 320, height: 320}
	p.Draw(d, frameTime, interactive())
	got := layers(t, p, d)
	h, m, s := index(got, assets.HourHand), index(got, assets.MinuteHand), index(got, assets.SecondHand)
	if !(h >= 0 && h < m && m < s) {
		t.Fatalf("hand order = %v", got)
	}
}

func TestPipelineSkipsUnavailableLayer(t *testing.T) {
	src := fullSource()
	delete(src.images, assets.Background)
	p := NewPipeline(NewResourceCache(src, nil), nil)
	d := &recordingDrawer{width: 400, height: 400}
	p.Draw(d, frameTime, interactive())

	got := layers(t, p, d)
	if contains(got, assets.Background) || len(got) != 7 {
		t.Fatalf("layers = %v", got)
	}
}

func TestPipelineGeometryRecomputedOnResize(t *testing.T) {
	cache := NewResourceCache(fullSource(), nil)
	p := NewPipeline(cache, nil)
	d := &recordingDrawer{width: 400, height: 400}

	for i := 0; i < 3; i++ {
		p.Draw(d, frameTime, interactive())
	}
	if p.Recomputes() != 1 {
		t.Fatalf("Recomputes = %d, want 1", p.Recomputes())
	}
	generated := cache.Generated()

	p.Draw(d, frameTime, interactive())
	if cache.Generated() != generated {
		t.Fatal("cache grew at constant size")
	}

	d.width, d.height = 300, 500
	p.Draw(d, frameTime, interactive())
	if p.Recomputes() != 2 {
		t.Fatalf("Recomputes = %d, want 2", p.Recomputes())
	}
	if g := p.Geometry(); g.Width != 300 || g.Height != 500 {
		t.Fatalf("geometry = %+v", g)
	}
}

func TestPipelineLowBitAmbient(t *testing.T) {
	p := NewPipeline(NewResourceCache(fullSource(), nil), nil)
	p.SetPaint(Paint{})
	mode := interactive()
	mode.Ambient = true
	mode.LowBitRequired = true
	d := &recordingDrawer{width: 200, height: 200}
	p.Draw(d, frameTime, mode)

	if d.ops[len(d.ops)-1].kind != "reduce" {
		t.Fatal("low-bit ambient frame should end with a palette reduction")
	}
	for _, op := range d.ops {
		if op.kind == "text" && op.style.AntiAlias {
			t.Fatal("text anti-aliased in low-bit ambient")
		}
		if op.kind == "transformed" && op.opts.Filter {
			t.Fatal("hand filtered in low-bit ambient")
		}
	}
}

func TestPipelineUnknownBattery(t *testing.T) {
	p := NewPipeline(NewResourceCache(fullSource(), nil), nil)
	d := &recordingDrawer{width: 400, height: 400}
	p.Draw(d, frameTime, state.ModeState{Visible: true})
	if texts := d.texts(); texts[0] != "" {
		t.Fatalf("battery text = %q, want empty while unknown", texts[0])
	}
}
