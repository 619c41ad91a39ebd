//go:build ebiten

package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"ionfield/internal/app"
	"ionfield/internal/engine"
	"ionfield/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "ionfield: ", log.LstdFlags)
	}
	opts, err := cfg.Options(logger)
	if err != nil {
		log.Fatal(err)
	}
	overlay := ui.NewOverlay(cfg.Cards)
	opts.Locator = overlay

	eng := engine.New(opts)
	if err := eng.Mount(float64(cfg.Width), float64(cfg.Height), ebiten.Monitor().DeviceScaleFactor()); err != nil {
		log.Fatal(err)
	}
	defer eng.Unmount()

	game := app.New(eng, overlay, cfg.HUD)

	ebiten.SetWindowTitle("ionfield")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
