package watchface

import (
	"errors"
	"image/color"
	"testing"

	"github.com/rook-computer/bangasa/internal/assets"
)

func TestCacheReusesBitmapAtConstantSize(t *testing.T) {
	src := newMapSource()
	src.images[assets.Background] = solid(800, 800, color.White)
	cache := NewResourceCache(src, nil)

	first, err := cache.Get(assets.Background, FillSpec(400, 300))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b := first.Image().Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("bounds = %v, want 400x300", b)
	}
	for i := 0; i < 5; i++ {
		again, err := cache.Get(assets.Background, FillSpec(400, 300))
		if err != nil || again != first {
			t.Fatalf("frame %d: bitmap regenerated (err=%v)", i, err)
		}
	}
	if cache.Generated() != 1 || src.loads[assets.Background] != 1 {
		t.Fatalf("generated=%d loads=%d, want 1 and 1", cache.Generated(), src.loads[assets.Background])
	}
}

func TestCacheRegeneratesOnGeometryChange(t *testing.T) {
	src := newMapSource()
	src.images[assets.HourHand] = solid(100, 300, color.White)
	cache := NewResourceCache(src, nil)

	small, _ := cache.Get(assets.HourHand, UniformSpec(0.5))
	if b := small.Image().Bounds(); b.Dx() != 50 || b.Dy() != 150 {
		t.Fatalf("bounds = %v, want 50x150", b)
	}
	large, _ := cache.Get(assets.HourHand, UniformSpec(1))
	if large == small {
		t.Fatal("expected a new bitmap for a new scale")
	}
	if cache.Len() != 1 {
		t.Fatalf("Len = %d, want one entry per asset", cache.Len())
	}
	if cache.Generated() != 2 {
		t.Fatalf("Generated = %d, want 2", cache.Generated())
	}
}

func TestCacheRegeneratesRecycledBitmap(t *testing.T) {
	src := newMapSource()
	src.images[assets.Tick] = solid(800, 800, color.White)
	cache := NewResourceCache(src, nil)

	first, _ := cache.Get(assets.Tick, FillSpec(200, 200))
	cache.RecycleAll()
	if first.Usable() || first.Image() != nil {
		t.Fatal("recycled bitmap should be unusable")
	}

	second, err := cache.Get(assets.Tick, FillSpec(200, 200))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if second == first || !second.Usable() {
		t.Fatal("expected a fresh usable bitmap")
	}
	if cache.Generated() != 2 {
		t.Fatalf("Generated = %d, want 2", cache.Generated())
	}
}

func TestCacheMissingAssetIsUnavailable(t *testing.T) {
	src := newMapSource()
	cache := NewResourceCache(src, nil)

	for i := 0; i < 3; i++ {
		bm, err := cache.Get(assets.Date, FillSpec(100, 100))
		if bm != nil {
			t.Fatal("expected no bitmap")
		}
		if !errors.Is(err, ErrAssetUnavailable) {
			t.Fatalf("err = %v, want ErrAssetUnavailable", err)
		}
	}
	if src.loads[assets.Date] != 1 {
		t.Fatalf("loads = %d; the failure should be cached for the geometry", src.loads[assets.Date])
	}

	cache.Get(assets.Date, FillSpec(120, 120))
	if src.loads[assets.Date] != 2 {
		t.Fatalf("loads = %d; a new geometry should retry", src.loads[assets.Date])
	}
}

func TestCacheWithoutSource(t *testing.T) {
	cache := NewResourceCache(nil, nil)
	if _, err := cache.Get(assets.Tick, FillSpec(10, 10)); !errors.Is(err, ErrAssetUnavailable) {
		t.Fatalf("err = %v, want ErrAssetUnavailable", err)
	}
}
