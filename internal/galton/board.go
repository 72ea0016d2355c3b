package galton

import (
	"quincunx/internal/core"
	prng "quincunx/pkg/core"
)

// Board couples a machine with the population and randomness that feed it,
// and paints the result into a cell buffer for the viewers.
type Board struct {
	cfg   Config
	m     *Machine
	beads []*Bead

	grid *core.ByteGrid
}

// NewBoard returns a board for cfg, already reset with cfg.Seed.
func NewBoard(cfg Config) *Board {
	cfg.Slots = max(cfg.Slots, 1)
	b := &Board{
		cfg:  cfg,
		m:    New(cfg.Slots),
		grid: core.NewByteGrid(boardWidth(cfg.Slots), boardHeight(cfg.Slots)),
	}
	b.Reset(cfg.Seed)
	return b
}

// Name returns the simulation identifier.
func (b *Board) Name() string { return b.cfg.Mode.String() }

// Size reports the cell dimensions of the rendered board.
func (b *Board) Size() core.Size { return core.Size{W: b.grid.W, H: b.grid.H} }

// Cells exposes the current display buffer.
func (b *Board) Cells() []uint8 { return b.grid.Cells() }

// Machine exposes the underlying machine for queries.
func (b *Board) Machine() *Machine { return b.m }

// Counts returns the per-slot bead counts.
func (b *Board) Counts() []int { return b.m.Counts() }

// Average returns the mean slot index of the settled beads.
func (b *Board) Average() float64 { return b.m.Average() }

// Config returns the configuration the board was built with.
func (b *Board) Config() Config { return b.cfg }

// Reset draws a fresh population from seed and restarts the machine. A zero
// seed falls back to the configured one.
func (b *Board) Reset(seed int64) {
	if seed == 0 {
		seed = b.cfg.Seed
	}
	b.cfg.Seed = seed
	b.beads = Population(b.cfg, prng.NewRNG(seed))
	b.m.Reset(b.beads)
	b.rebuildDisplay()
}

// Step advances the machine one tick.
func (b *Board) Step() bool {
	moved := b.m.Step()
	if moved {
		b.rebuildDisplay()
	}
	return moved
}

// Repeat replays the experiment with the beads currently on the board.
func (b *Board) Repeat() {
	b.m.Repeat()
	b.rebuildDisplay()
}

// UpperHalf keeps only the upper half of the settled beads.
func (b *Board) UpperHalf() {
	b.m.UpperHalf()
	b.rebuildDisplay()
}

// LowerHalf keeps only the lower half of the settled beads.
func (b *Board) LowerHalf() {
	b.m.LowerHalf()
	b.rebuildDisplay()
}

// Parameters reports the experiment configuration and machine tallies.
func (b *Board) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		configGroup(b.cfg),
		machineGroup(b.m),
	}}
}

// SetIntParameter updates the bead count and restarts the experiment.
func (b *Board) SetIntParameter(key string, value int) bool {
	if key != "beads" || value < 0 {
		return false
	}
	b.cfg.Beads = value
	b.Reset(b.cfg.Seed)
	return true
}

func init() {
	for _, mode := range []Mode{ModeLuck, ModeSkill} {
		core.Register(mode.String(), func(cfg map[string]string) core.Sim {
			c := FromMap(cfg)
			c.Mode = mode
			return NewBoard(c)
		})
	}
}
