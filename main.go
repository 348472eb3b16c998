package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/bangasa/internal/app"
	"github.com/rook-computer/bangasa/internal/assets"
	"github.com/rook-computer/bangasa/internal/clock"
	"github.com/rook-computer/bangasa/internal/input"
	"github.com/rook-computer/bangasa/internal/render"
	"github.com/rook-computer/bangasa/internal/state"
	"github.com/rook-computer/bangasa/internal/system"
	"github.com/rook-computer/bangasa/internal/watchface"
	"github.com/rook-computer/bangasa/internal/web"
)

func main() {
	fmt.Println("Bangasa starting")

	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}
	batteryDir, _ := system.FindBattery()

	// Flags
	debug := flag.Bool("debug", false, "enable debug logging to ./bangasa-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via BANGASA_STDIO_LOG")
	fbPath := flag.String("fb", "/dev/fb0", "framebuffer device")
	assetDir := flag.String("assets", "", "directory of PNG/WEBP/BMP assets; missing ones fall back to the built-in face")
	fontPath := flag.String("font", "", "TTF/OTF font for the face text (default: Go Regular)")
	lowBit := flag.Bool("low-bit", false, "the display needs a two-colour palette in ambient mode")
	burnIn := flag.Bool("burn-in", false, "the display needs burn-in protection")
	ambientAfter := flag.Duration("ambient-after", 0, "enter ambient after this long without input (0 disables)")
	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	battery := flag.String("battery", batteryDir, "sysfs power supply directory (empty disables battery updates)")
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("BANGASA_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./bangasa-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fontData, err := assets.FontData(*fontPath)
	if err != nil {
		fmt.Println("font error:", err)
		os.Exit(2)
	}
	renderer := render.NewFBRenderer(*fbPath, render.NewFaceCache(fontData, logger))
	renderer.Logger = logger

	var source assets.Source = assets.Procedural{}
	if *assetDir != "" {
		source = assets.LayeredSource{assets.DirSource{Dir: *assetDir}, assets.Procedural{}}
	}

	zone := clock.NewZoneClock(nil)
	tz := system.NewTimezoneSource(zone)
	tz.Logger = logger
	sources := []watchface.EventSource{tz, system.NewMinuteTicker()}
	if *battery != "" {
		bs := system.NewBatterySource(*battery)
		bs.Logger = logger
		sources = append(sources, bs)
	} else {
		logger.Infof("main", "no battery found, level stays unknown")
	}

	engine := watchface.New(watchface.Config{
		Renderer: renderer,
		Clock:    zone,
		Assets:   source,
		Sources:  sources,
		Store:    state.NewStore(),
		Logger:   logger,
	})

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode},
		web.NewDefaultMux(web.APIV1Config{
			Deps: web.NewEngineAPIV1Deps(engine, app.Frames{Renderer: renderer}, zone, logger),
		}))
	server.Logger = logger

	touch := input.NewEvdevSource(0, 0)
	touch.Logger = logger

	a := app.New(engine, server, canvasSized{EvdevSource: touch, renderer: renderer})
	a.Logger = logger
	a.Properties = watchface.PropertiesChanged{LowBitAmbient: *lowBit, BurnInProtection: *burnIn}
	a.AmbientAfter = *ambientAfter
	a.Graphics = true

	if err := a.Start(ctx); err != nil && err != context.Canceled {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
	fmt.Println("Bangasa stopped")
}

// canvasSized scales touch coordinates to the canvas, which only has a size
// once the renderer has started.
type canvasSized struct {
	*input.EvdevSource
	renderer *render.FBRenderer
}

func (c canvasSized) Start(ctx context.Context) error {
	if canvas := c.renderer.Canvas(); canvas != nil {
		c.Width, c.Height = canvas.Size()
	}
	return c.EvdevSource.Start(ctx)
}
