package web

import (
	"github.com/rook-computer/bangasa/internal/watchface"
)

// NewEngineAPIV1Deps wires the API to a running engine. frames is usually
// the renderer's canvas; zone may be nil when the clock follows the system.
func NewEngineAPIV1Deps(engine *watchface.Engine, frames FrameSource, zone ZoneSetter, logger apiLogger) APIV1Deps {
	return APIV1Deps{
		State:  engine.Store(),
		Frames: frames,
		Zone:   zone,
		Post:   engine.Post,
		Logger: logger,
	}
}
