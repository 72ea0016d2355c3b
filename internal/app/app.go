//go:build ebiten

package app

import (
	"image/color"
	"time"

	"quincunx/internal/core"
	"quincunx/internal/render"
	"quincunx/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// experiment is implemented by boards that support replay and trimming.
type experiment interface {
	Repeat()
	UpperHalf()
	LowerHalf()
}

type paletteProvider interface {
	Palette() []color.RGBA
}

// Game adapts a board to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	hud     *ui.HUD
	palette []color.RGBA

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided board.
func New(sim core.Sim, cfg *Config) *Game {
	size := sim.Size()
	g := &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		hud:      ui.NewHUD(sim, cfg.HUD),
		scale:    cfg.Scale,
		hudWidth: max(cfg.HUD, 0),
		seed:     cfg.Seed,
	}
	if p, ok := sim.(paletteProvider); ok {
		g.palette = p.Palette()
	}
	return g
}

// Reset redraws the bead population with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the board.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if exp, ok := g.sim.(experiment); ok {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			exp.Repeat()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyU) {
			exp.UpperHalf()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyL) {
			exp.LowerHalf()
		}
	}

	g.hud.Update()

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the board and the HUD panel.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.hud.Draw(screen, g.sim.Size().W*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
