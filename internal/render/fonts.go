package render

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

const defaultTextSize = 24

// FaceCache hands out font faces per pixel size, parsing the font once.
// OpenType parsing is tried first; freetype's TrueType parser covers fonts
// the opentype package rejects; basicfont is the last resort.
type FaceCache struct {
	mu    sync.Mutex
	otf   *opentype.Font
	ttf   *truetype.Font
	faces map[int]font.Face
}

func NewFaceCache(data []byte, logger Logger) *FaceCache {
	fc := &FaceCache{faces: map[int]font.Face{}}
	otf, err := opentype.Parse(data)
	if err == nil {
		fc.otf = otf
		logInfo(logger, "font", "opentype font parsed")
		return fc
	}
	logError(logger, "font", "opentype parse failed, trying truetype: %v", err)
	ttf, terr := truetype.Parse(data)
	if terr != nil {
		logError(logger, "font", "truetype parse failed, using basicfont: %v", terr)
		return fc
	}
	fc.ttf = ttf
	logInfo(logger, "font", "truetype font parsed for freetype")
	return fc
}

func (fc *FaceCache) Face(size int) font.Face {
	if size <= 0 {
		size = defaultTextSize
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if face, ok := fc.faces[size]; ok {
		return face
	}
	var face font.Face = basicfont.Face7x13
	switch {
	case fc.otf != nil:
		if f, err := opentype.NewFace(fc.otf, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull}); err == nil {
			face = f
		}
	case fc.ttf != nil:
		face = truetype.NewFace(fc.ttf, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	}
	fc.faces[size] = face
	return face
}

// Logger matches the app logger shape.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

func logInfo(l Logger, component, format string, args ...interface{}) {
	if l != nil {
		l.Infof(component, format, args...)
	}
}

func logError(l Logger, component, format string, args ...interface{}) {
	if l != nil {
		l.Errorf(component, format, args...)
	}
}
