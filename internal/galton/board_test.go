package galton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quincunx/internal/core"
)

func countCells(cells []uint8, v uint8) int {
	n := 0
	for _, c := range cells {
		if c == v {
			n++
		}
	}
	return n
}

func TestBoard_InitialDisplay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beads = 30
	b := NewBoard(cfg)

	size := b.Size()
	require.Len(t, b.Cells(), size.W*size.H)
	assert.Equal(t, 21, size.W)
	assert.Equal(t, 61, size.H)
	assert.Equal(t, 55, countCells(b.Cells(), CellPeg), "triangular number of pegs for ten rows")
	assert.Equal(t, 1, countCells(b.Cells(), CellBead))
	assert.Zero(t, countCells(b.Cells(), CellSlot))
	assert.Equal(t, size.W, countCells(b.Cells(), CellFloor))
	assert.Len(t, b.Palette(), int(CellFloor)+1)
}

func TestBoard_RunsToCompletion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beads = 30
	b := NewBoard(cfg)
	for b.Step() {
		assert.LessOrEqual(t, countCells(b.Cells(), CellBead), cfg.Slots)
	}
	assert.Equal(t, 30, b.Machine().Settled())
	assert.Zero(t, countCells(b.Cells(), CellBead))
	assert.Positive(t, countCells(b.Cells(), CellSlot))
}

func TestBoard_SkillBarLandsUnderSlot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slots = 4
	cfg.Beads = 3
	cfg.Mode = ModeSkill
	cfg.SkillStdev = 0
	cfg.SkillAverage = 2
	b := NewBoard(cfg)
	for b.Step() {
	}
	require.Equal(t, 3, b.Machine().SlotBeans(2))

	g := b.grid
	bottom := g.H - 2
	assert.Equal(t, CellSlot, g.At(2*2+1, bottom))
	assert.Equal(t, CellEmpty, g.At(0*2+1, bottom))
}

func TestBoard_ResetDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beads = 100
	b := NewBoard(cfg)
	for b.Step() {
	}
	first := b.Machine().Counts()

	b.Reset(0)
	assert.Equal(t, 1, b.Machine().InFlight())
	for b.Step() {
	}
	assert.Equal(t, first, b.Machine().Counts())
}

func TestBoard_TrimAndRepeat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beads = 41
	b := NewBoard(cfg)
	for b.Step() {
	}
	b.UpperHalf()
	assert.Equal(t, 21, b.Machine().Settled())
	b.LowerHalf()
	assert.Equal(t, 11, b.Machine().Settled())

	b.Repeat()
	assert.Equal(t, 11, b.Machine().Total())
	assert.Equal(t, 1, countCells(b.Cells(), CellBead))
}

func TestBoard_SetIntParameter(t *testing.T) {
	b := NewBoard(DefaultConfig())
	assert.True(t, b.SetIntParameter("beads", 12))
	assert.Equal(t, 12, b.Machine().Total())
	assert.False(t, b.SetIntParameter("beads", -1))
	assert.False(t, b.SetIntParameter("slots", 4))

	p, ok := b.Parameters().Lookup("beads")
	require.True(t, ok)
	assert.Equal(t, "12", p.Value)
	_, ok = b.Parameters().Lookup("average")
	assert.True(t, ok)
}

func TestBoard_Registered(t *testing.T) {
	for _, name := range []string{"luck", "skill"} {
		factory, ok := core.Sims()[name]
		require.True(t, ok, "%s not registered", name)
		sim := factory(map[string]string{"slots": "5", "beads": "3"})
		assert.Equal(t, name, sim.Name())
		board, ok := sim.(*Board)
		require.True(t, ok)
		assert.Equal(t, 5, board.Machine().Slots())
	}
	assert.Equal(t, []string{"luck", "skill"}, core.Names())
}
