package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/rook-computer/bangasa/internal/watchface"
)

const maxBodyBytes = 1 << 16

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type batteryJSON struct {
	Level    int  `json:"level"`
	Charging bool `json:"charging"`
	Known    bool `json:"known"`
}

type stateResponse struct {
	Visible        bool        `json:"visible"`
	Ambient        bool        `json:"ambient"`
	LowBitRequired bool        `json:"lowBitRequired"`
	BurnInRequired bool        `json:"burnInRequired"`
	Muted          bool        `json:"muted"`
	ShouldRun      bool        `json:"shouldRun"`
	Battery        batteryJSON `json:"battery"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

type ambientRequest struct {
	Ambient bool `json:"ambient"`
}

type propertiesRequest struct {
	LowBitAmbient    bool `json:"lowBitAmbient"`
	BurnInProtection bool `json:"burnInProtection"`
}

type batteryRequest struct {
	Level    *int `json:"level"`
	Charging bool `json:"charging"`
}

type timezoneRequest struct {
	Zone string `json:"zone"`
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

type tapRequest struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type sizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) { handleState(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	mux.HandleFunc("/visibility", func(w http.ResponseWriter, r *http.Request) {
		var req visibilityRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			return watchface.VisibilityChanged{Visible: req.Visible}, nil
		})
	})
	mux.HandleFunc("/ambient", func(w http.ResponseWriter, r *http.Request) {
		var req ambientRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			return watchface.AmbientModeChanged{Ambient: req.Ambient}, nil
		})
	})
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		var req propertiesRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			return watchface.PropertiesChanged{LowBitAmbient: req.LowBitAmbient, BurnInProtection: req.BurnInProtection}, nil
		})
	})
	mux.HandleFunc("/battery", func(w http.ResponseWriter, r *http.Request) {
		var req batteryRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			if req.Level == nil || *req.Level < 0 || *req.Level > 100 {
				return nil, errors.New("level must be between 0 and 100")
			}
			return watchface.BatteryChanged{Level: *req.Level, Charging: req.Charging}, nil
		})
	})
	mux.HandleFunc("/timezone", func(w http.ResponseWriter, r *http.Request) {
		var req timezoneRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			if req.Zone == "" {
				return watchface.TimezoneChanged{}, nil
			}
			if deps.Zone == nil {
				return nil, errors.New("zone switching not configured")
			}
			loc, err := time.LoadLocation(req.Zone)
			if err != nil {
				return nil, fmt.Errorf("unknown zone %q: %w", req.Zone, err)
			}
			deps.Zone.SetLocation(loc)
			return watchface.TimezoneChanged{}, nil
		})
	})
	mux.HandleFunc("/mute", func(w http.ResponseWriter, r *http.Request) {
		var req muteRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			return watchface.InterruptionFilterChanged{Muted: req.Muted}, nil
		})
	})
	mux.HandleFunc("/tap", func(w http.ResponseWriter, r *http.Request) {
		var req tapRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			typ, err := parseTapType(req.Type)
			if err != nil {
				return nil, err
			}
			return watchface.Tap{Type: typ, X: req.X, Y: req.Y, Time: time.Now()}, nil
		})
	})
	mux.HandleFunc("/size", func(w http.ResponseWriter, r *http.Request) {
		var req sizeRequest
		handleEvent(w, r, deps, &req, func() (watchface.Event, error) {
			if req.Width <= 0 || req.Height <= 0 {
				return nil, errors.New("width and height must be positive")
			}
			return watchface.SurfaceSizeChanged{Width: req.Width, Height: req.Height}, nil
		})
	})
	return mux
}

func parseTapType(s string) (watchface.TapType, error) {
	for _, t := range []watchface.TapType{watchface.TapTouch, watchface.TapTouchCancel, watchface.TapTap} {
		if t.String() == s {
			return t, nil
		}
	}
	if s == "" {
		return watchface.TapTap, nil
	}
	return 0, fmt.Errorf("unknown tap type %q", s)
}

func handleState(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	mode := deps.State.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		Visible:        mode.Visible,
		Ambient:        mode.Ambient,
		LowBitRequired: mode.LowBitRequired,
		BurnInRequired: mode.BurnInRequired,
		Muted:          mode.Muted,
		ShouldRun:      mode.ShouldRun(),
		Battery:        batteryJSON{Level: mode.Battery.Level, Charging: mode.Battery.Charging, Known: mode.Battery.Known},
	})
}

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	frame := deps.Frames.Frame()
	if frame == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame presented yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, frame); err != nil {
		deps.Logger.Errorf("web", "encode frame: %v", err)
	}
}

// handleEvent decodes the JSON body into req, builds the event and posts it.
func handleEvent(w http.ResponseWriter, r *http.Request, deps APIV1Deps, req any, build func() (watchface.Event, error)) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if err := decodeBody(r, req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	ev, err := build()
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if !deps.Post(ev) {
		writeAPIError(w, http.StatusServiceUnavailable, "engine_stopped", "watch face engine is not running")
		return
	}
	deps.Logger.Infof("web", "posted %T", ev)
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

// decodeBody accepts an empty body as all defaults.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
