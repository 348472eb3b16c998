package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font/gofont/goregular"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AssetID names one bitmap of the watch face.
type AssetID string

const (
	Background    AssetID = "background"
	Tick          AssetID = "tick"
	Date          AssetID = "date"
	Battery       AssetID = "battery"
	BatteryCharge AssetID = "battery_charge"
	HourHand      AssetID = "hour_hand"
	MinuteHand    AssetID = "minute_hand"
	SecondHand    AssetID = "second_hand"
)

// All lists every asset the face draws, bottom layer first.
var All = []AssetID{Tick, Background, Battery, BatteryCharge, Date, HourHand, MinuteHand, SecondHand}

// DesignSize is the edge length of the square design space all assets are drawn for.
const DesignSize = 800

var ErrUnknownAsset = errors.New("unknown asset")

// Source returns the raw, unscaled bitmap for an asset.
type Source interface {
	Load(id AssetID) (image.Image, error)
}

// DirSource loads <dir>/<id>.{png,webp,bmp}.
type DirSource struct {
	Dir string
}

var dirExtensions = []string{".png", ".webp", ".bmp"}

func (s DirSource) Load(id AssetID) (image.Image, error) {
	for _, ext := range dirExtensions {
		path := filepath.Join(s.Dir, string(id)+ext)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s not found in %s", ErrUnknownAsset, id, s.Dir)
}

// LayeredSource tries each source in order and returns the first bitmap found.
type LayeredSource []Source

func (l LayeredSource) Load(id AssetID) (image.Image, error) {
	var lastErr error = fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	for _, src := range l {
		img, err := src.Load(id)
		if err == nil {
			return img, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// FontData returns the bytes of the font at path, or the embedded Go Regular
// face when path is empty.
func FontData(path string) ([]byte, error) {
	if path == "" {
		return goregular.TTF, nil
	}
	return os.ReadFile(path)
}
