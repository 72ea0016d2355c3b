//go:build ebiten

package ui

import (
	"image/color"
	"strconv"

	"quincunx/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// beadStep is how many beads +/- adds or removes.
const beadStep = 50

// HUD renders the parameter panel to the right of the board.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	intSetter core.IntParameterSetter
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0)}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	return h
}

// Update refreshes the cached parameter snapshot and handles +/- input.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.handleInput()
}

func (h *HUD) handleInput() {
	if h.intSetter == nil {
		return
	}
	delta := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		delta = beadStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		delta = -beadStep
	}
	if delta == 0 {
		return
	}
	p, ok := h.snapshot.Lookup("beads")
	if !ok {
		return
	}
	current, err := strconv.Atoi(p.Value)
	if err != nil {
		return
	}
	h.intSetter.SetIntParameter("beads", max(current+delta, 0))
}

// Draw paints the HUD panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := screen.Bounds().Dy()
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	tallies, _ := h.sim.(tallySource)
	face := basicfont.Face7x13
	fg := color.RGBA{R: 220, G: 220, B: 230, A: 255}
	for i, line := range Lines(h.sim.Name(), h.snapshot, tallies) {
		text.Draw(h.panel, line, face, panelPadding, panelPadding+lineHeight*(i+1), fg)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

const (
	panelPadding = 12
	lineHeight   = 15
)
