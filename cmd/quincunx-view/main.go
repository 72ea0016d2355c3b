//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"quincunx/internal/app"
	"quincunx/internal/core"
	_ "quincunx/internal/galton"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Sims()[cfg.Mode]
	if !ok {
		log.Fatalf("unknown mode %q (available: %v)", cfg.Mode, core.Names())
	}

	sim := factory(cfg.SimConfig())
	game := app.New(sim, cfg)
	size := sim.Size()

	ebiten.SetWindowTitle("quincunx - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+max(cfg.HUD, 0), size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
