package web

import (
	"fmt"
	"os"
	"strconv"
)

// Environment overrides for the control API, read before flags are parsed so
// the flags can show them as defaults.
const (
	EnvListenAddr = "BANGASA_LISTEN"
	EnvDevMode    = "BANGASA_DEV"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - real device: :8080
// - simulator:   :8081
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

// DefaultServerConfigFromEnv applies the BANGASA_* overrides on top of the
// binary's default listen address. DevMode turns on WithDevCORS.
func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
