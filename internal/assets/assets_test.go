package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestDirSourceLoadsPNG(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hour_hand.png"), 100, 300)

	img, err := DirSource{Dir: dir}.Load(HourHand)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 300 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestDirSourceMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	if _, err := (DirSource{Dir: dir}).Load(Tick); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("missing asset err = %v, want ErrUnknownAsset", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "tick.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := DirSource{Dir: dir}.Load(Tick)
	if err == nil || errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("corrupt asset should fail with a decode error, got %v", err)
	}
}

func TestProceduralCoversEveryAsset(t *testing.T) {
	hands := map[AssetID]int{HourHand: 300, MinuteHand: 430, SecondHand: 450}
	for _, id := range All {
		img, err := Procedural{}.Load(id)
		if err != nil {
			t.Fatalf("Load(%s): %v", id, err)
		}
		b := img.Bounds()
		if length, ok := hands[id]; ok {
			if b.Dx() != 100 || b.Dy() != length {
				t.Fatalf("%s bounds = %v", id, b)
			}
			continue
		}
		if b.Dx() != DesignSize || b.Dy() != DesignSize {
			t.Fatalf("%s bounds = %v, want design size", id, b)
		}
	}
	if _, err := (Procedural{}).Load("nope"); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("unknown id err = %v", err)
	}
}

func TestLayeredSourceFallsBack(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "date.png"), 10, 10)
	src := LayeredSource{DirSource{Dir: dir}, Procedural{}}

	date, err := src.Load(Date)
	if err != nil || date.Bounds().Dx() != 10 {
		t.Fatalf("date should come from dir source: %v %v", date, err)
	}
	tick, err := src.Load(Tick)
	if err != nil || tick.Bounds().Dx() != DesignSize {
		t.Fatalf("tick should fall back to procedural: %v", err)
	}
}

func TestFontDataDefault(t *testing.T) {
	data, err := FontData("")
	if err != nil || len(data) == 0 {
		t.Fatalf("default font missing: %v", err)
	}
}
