package main

import (
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"sort"
	"sync"

	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/watchface"
)

type SimFaults struct {
	// MissingAssets lists asset ids whose loads fail.
	MissingAssets []string `json:"missingAssets"`
}

// SimControl sits between the engine and the real asset source so asset
// failures can be injected while the face is running.
type SimControl struct {
	source assets.Source
	post   func(watchface.Event) bool

	faults struct {
		mu      sync.RWMutex
		missing map[assets.AssetID]bool
	}
}

func NewSimControl(source assets.Source) *SimControl {
	c := &SimControl{source: source, post: func(watchface.Event) bool { return false }}
	c.faults.missing = map[assets.AssetID]bool{}
	return c
}

// Attach sets where fault changes are announced, normally engine.Post.
func (c *SimControl) Attach(post func(watchface.Event) bool) {
	if post != nil {
		c.post = post
	}
}

func (c *SimControl) Load(id assets.AssetID) (image.Image, error) {
	c.faults.mu.RLock()
	missing := c.faults.missing[id]
	c.faults.mu.RUnlock()
	if missing {
		return nil, fmt.Errorf("%w: %s (simulated)", assets.ErrUnknownAsset, id)
	}
	return c.source.Load(id)
}

func (c *SimControl) Faults() SimFaults {
	c.faults.mu.RLock()
	defer c.faults.mu.RUnlock()
	out := SimFaults{MissingAssets: []string{}}
	for id := range c.faults.missing {
		out.MissingAssets = append(out.MissingAssets, string(id))
	}
	sort.Strings(out.MissingAssets)
	return out
}

// SetFaults replaces the fault set and makes the engine reload its assets.
func (c *SimControl) SetFaults(v SimFaults) error {
	missing := map[assets.AssetID]bool{}
	for _, name := range v.MissingAssets {
		id := assets.AssetID(name)
		if !known(id) {
			return fmt.Errorf("%w: %q", assets.ErrUnknownAsset, name)
		}
		missing[id] = true
	}
	c.faults.mu.Lock()
	c.faults.missing = missing
	c.faults.mu.Unlock()
	c.post(watchface.AssetsChanged{})
	return nil
}

func (c *SimControl) Reset() error {
	return c.SetFaults(SimFaults{})
}

func known(id assets.AssetID) bool {
	for _, a := range assets.All {
		if a == id {
			return true
		}
	}
	return false
}

func registerSimEndpoints(handler http.Handler, control *SimControl) {
	mux, ok := handler.(*http.ServeMux)
	if !ok {
		// Only supported when the simulator uses the default mux.
		return
	}

	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/recycle", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !control.post(watchface.BuffersLost{}) {
			writeSimError(w, http.StatusServiceUnavailable, "engine not running")
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.Faults())
			return
		case http.MethodPost:
			var patch struct {
				MissingAssets *[]string `json:"missingAssets"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.Faults()
			if patch.MissingAssets != nil {
				current.MissingAssets = *patch.MissingAssets
			}
			if err := control.SetFaults(current); err != nil {
				writeSimError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeSimJSON(w, http.StatusOK, control.Faults())
			return
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
