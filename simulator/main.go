package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/bangasa/internal/app"
	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/clock"
	"github.com/rook-computer/bangasa/internal/render"
	"github.com/rook-computer/bangasa/internal/state"
	"github.com/rook-computer/bangasa/internal/system"
	"github.com/rook-computer/bangasa/internal/watchface"
	"github.com/rook-computer/bangasa/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8081")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	assetDir := flag.String("assets", "", "directory of PNG/WEBP/BMP assets; missing ones fall back to the built-in face")
	fontPath := flag.String("font", "", "TTF/OTF font for the face text (default: Go Regular)")
	lowBit := flag.Bool("low-bit", false, "simulate a low-bit ambient display")
	burnIn := flag.Bool("burn-in", false, "simulate burn-in protection")
	ambientAfter := flag.Duration("ambient-after", 0, "enter ambient after this long without input (0 disables)")
	logPath := flag.String("log", "", "write the debug log to this file (the terminal is taken by the face)")
	flag.Parse()

	var logger app.Logger = app.NoopLogger{}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Println("log open error:", err)
			os.Exit(2)
		}
		defer f.Close()
		logger = app.NewFileLogger(f)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fontData, err := assets.FontData(*fontPath)
	if err != nil {
		fmt.Println("font error:", err)
		os.Exit(2)
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Println("terminal error:", err)
		os.Exit(1)
	}
	renderer := render.NewTermRenderer(screen, render.NewFaceCache(fontData, logger))
	renderer.Logger = logger

	var source assets.Source = assets.Procedural{}
	if *assetDir != "" {
		source = assets.LayeredSource{assets.DirSource{Dir: *assetDir}, assets.Procedural{}}
	}
	control := NewSimControl(source)

	zone := clock.NewZoneClock(nil)
	store := state.NewStore()
	engine := watchface.New(watchface.Config{
		Renderer: renderer,
		Clock:    zone,
		Assets:   control,
		Sources:  []watchface.EventSource{system.NewMinuteTicker()},
		Store:    store,
		Logger:   logger,
	})
	control.Attach(engine.Post)

	mux := web.NewDefaultMux(web.APIV1Config{
		Deps: web.NewEngineAPIV1Deps(engine, app.Frames{Renderer: renderer}, zone, logger),
	})
	registerSimEndpoints(mux, control)
	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}, mux)
	server.Logger = logger

	a := app.New(engine, server, newTermInput(screen, store, engine.Post))
	a.Logger = logger
	a.Properties = watchface.PropertiesChanged{LowBitAmbient: *lowBit, BurnInProtection: *burnIn}
	a.AmbientAfter = *ambientAfter

	start := time.Now()
	err = a.Start(processCtx)
	fmt.Printf("bangasa simulator ran %s\n", time.Since(start).Round(time.Second))
	if err != nil && err != context.Canceled {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}
