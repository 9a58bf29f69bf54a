// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command framedemo runs the frame engine headless and saves the last
// presented frame.
package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/framecore"
	_ "github.com/gogpu/framecore/backend/capture"
	_ "github.com/gogpu/framecore/backend/opengl"
	_ "github.com/gogpu/framecore/backend/vulkan"
	"github.com/gogpu/framecore/config"
	"github.com/gogpu/framecore/engine"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		backend    = flag.String("backend", "", "override renderer.backend")
		frames     = flag.Uint64("frames", 120, "frames to present before exiting (0 = until interrupted)")
		output     = flag.String("output", "frame.png", "PNG of the last frame (opengl only)")
		verbose    = flag.Bool("v", false, "log engine diagnostics")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *backend != "" {
		cfg.Renderer.Backend = *backend
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid backend: %v", err)
		}
	}
	if *verbose {
		framecore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	window := engine.NewHeadlessWindow(cfg.Window.Width, cfg.Window.Height, *frames)
	app := engine.NewApplication(engine.NewContext(cfg), window)
	scene := newSpinLayer()
	app.PushLayer(scene)
	app.PushOverlay(engine.NewStatsOverlay())

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Engine failed: %v", err)
	}

	st := app.Stats()
	log.Printf("Presented %d frames (%d updates, %d reused, %d failed)\n",
		window.Presented(), st.Updates, st.Fallbacks, st.Failures)

	img := scene.frontImage()
	if img == nil || *output == "" {
		return
	}
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Last frame saved to %s (%dx%d)\n", *output, img.Bounds().Dx(), img.Bounds().Dy())
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
