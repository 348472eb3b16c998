package watchface

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/bangasa/internal/assets"
)

var ErrAssetUnavailable = errors.New("asset unavailable")

// Bitmap is a decoded, pre-scaled asset. A recycled bitmap must not be drawn;
// the cache replaces it on the next lookup.
type Bitmap struct {
	img      *image.RGBA
	recycled atomic.Bool
}

func (b *Bitmap) Usable() bool {
	return b != nil && b.img != nil && !b.recycled.Load()
}

// Image returns nil once the bitmap is recycled.
func (b *Bitmap) Image() image.Image {
	if !b.Usable() {
		return nil
	}
	return b.img
}

// Recycle marks the backing buffer as lost.
func (b *Bitmap) Recycle() {
	if b != nil {
		b.recycled.Store(true)
	}
}

// ScaleSpec selects how an asset is scaled: to an exact Width x Height when
// both are set, otherwise uniformly by Scale.
type ScaleSpec struct {
	Width, Height int
	Scale         float64
}

func FillSpec(width, height int) ScaleSpec { return ScaleSpec{Width: width, Height: height} }

func UniformSpec(scale float64) ScaleSpec { return ScaleSpec{Scale: scale} }

func (s ScaleSpec) target(src image.Rectangle) image.Rectangle {
	if s.Width > 0 && s.Height > 0 {
		return image.Rect(0, 0, s.Width, s.Height)
	}
	w := int(float64(src.Dx()) * s.Scale)
	h := int(float64(src.Dy()) * s.Scale)
	return image.Rect(0, 0, max(w, 1), max(h, 1))
}

type cacheKey struct {
	id   assets.AssetID
	spec ScaleSpec
}

type cacheEntry struct {
	key    cacheKey
	bitmap *Bitmap
	err    error
}

// ResourceCache keeps one scaled bitmap per asset, for the most recent
// geometry it was asked for. Decode failures are cached too, so a broken
// asset is reported once per geometry rather than on every frame.
type ResourceCache struct {
	source    assets.Source
	logger    Logger
	entries   map[assets.AssetID]*cacheEntry
	generated int
}

func NewResourceCache(source assets.Source, logger Logger) *ResourceCache {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ResourceCache{source: source, logger: logger, entries: map[assets.AssetID]*cacheEntry{}}
}

// Get returns the bitmap for id scaled per spec. On failure it returns nil
// and an error wrapping ErrAssetUnavailable.
func (c *ResourceCache) Get(id assets.AssetID, spec ScaleSpec) (*Bitmap, error) {
	key := cacheKey{id: id, spec: spec}
	if entry, ok := c.entries[id]; ok && entry.key == key {
		if entry.err != nil {
			return nil, entry.err
		}
		if entry.bitmap.Usable() {
			return entry.bitmap, nil
		}
		c.logger.Infof("cache", "bitmap %s no longer usable, regenerating", id)
	}

	c.generated++
	entry := &cacheEntry{key: key}
	c.entries[id] = entry

	if c.source == nil {
		entry.err = fmt.Errorf("%w: %s: no asset source", ErrAssetUnavailable, id)
		return nil, entry.err
	}
	raw, err := c.source.Load(id)
	if err != nil || raw == nil {
		entry.err = fmt.Errorf("%w: %s: %v", ErrAssetUnavailable, id, err)
		c.logger.Errorf("cache", "%v", entry.err)
		return nil, entry.err
	}

	dst := image.NewRGBA(spec.target(raw.Bounds()))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), raw, raw.Bounds(), xdraw.Src, nil)
	entry.bitmap = &Bitmap{img: dst}
	return entry.bitmap, nil
}

// Generated counts bitmap generations, including failed ones.
func (c *ResourceCache) Generated() int { return c.generated }

func (c *ResourceCache) Len() int { return len(c.entries) }

// Purge drops every entry, failures included.
func (c *ResourceCache) Purge() {
	clear(c.entries)
}

// RecycleAll marks every cached bitmap unusable, as after the host dropped
// its graphics buffers.
func (c *ResourceCache) RecycleAll() {
	for _, entry := range c.entries {
		entry.bitmap.Recycle()
	}
}
