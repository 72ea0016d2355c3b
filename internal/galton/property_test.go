package galton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prng "quincunx/pkg/core"
)

type shape struct {
	beads, slots int
	mode         Mode
}

func shapes() []shape {
	var out []shape
	for _, mode := range []Mode{ModeLuck, ModeSkill} {
		for _, slots := range []int{1, 2, 3, 5, 10, 17} {
			for _, beads := range []int{0, 1, 2, 7, 40} {
				out = append(out, shape{beads: beads, slots: slots, mode: mode})
			}
		}
	}
	return out
}

func runShape(t *testing.T, s shape, seed int64) *Machine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Slots, cfg.Beads, cfg.Mode = s.slots, s.beads, s.mode
	m := New(s.slots)
	m.Reset(Population(cfg, prng.NewRNG(seed)))
	require.NoError(t, m.Verify(s.beads))

	ticks := 0
	for m.Step() {
		ticks++
		require.NoError(t, m.Verify(s.beads), "tick %d of %+v", ticks, s)
		for y := 0; y < s.slots; y++ {
			x := m.InFlightX(y)
			require.True(t, x == NoBead || (x >= 0 && x <= y), "row %d x=%d", y, x)
		}
		require.LessOrEqual(t, m.InFlight(), s.slots)
		require.LessOrEqual(t, ticks, s.beads+s.slots, "machine failed to terminate for %+v", s)
	}
	return m
}

func TestProperty_ConservationAndTermination(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		for _, s := range shapes() {
			m := runShape(t, s, seed)
			assert.Zero(t, m.Remaining())
			assert.Zero(t, m.InFlight())
			assert.Equal(t, s.beads, m.Settled(), "%+v seed %d", s, seed)
		}
	}
}

func TestProperty_TickCount(t *testing.T) {
	for _, s := range shapes() {
		if s.beads == 0 {
			continue
		}
		m := New(s.slots)
		m.Reset(skillBeads(s.beads, 1))
		ticks := 0
		for m.Step() {
			ticks++
		}
		assert.Equal(t, s.beads-1+s.slots, ticks, "%+v", s)
	}
}

func TestProperty_SkillLandsInSkillSlot(t *testing.T) {
	for slots := 1; slots <= 12; slots++ {
		for skill := 0; skill <= slots+2; skill++ {
			m := New(slots)
			m.Reset(skillBeads(3, skill))
			for m.Step() {
			}
			assert.Equal(t, 3, m.SlotBeans(min(skill, slots-1)), "slots=%d skill=%d", slots, skill)
		}
	}
}

func TestProperty_HalfTrim(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		for _, s := range shapes() {
			before := runShape(t, s, seed).Counts()

			upper := NewWithState(s.slots, nil, nil, slotsFromCounts(before))
			upper.UpperHalf()
			lower := NewWithState(s.slots, nil, nil, slotsFromCounts(before))
			lower.LowerHalf()

			kept := s.beads - s.beads/2
			assert.Equal(t, kept, upper.Settled())
			assert.Equal(t, kept, lower.Settled())
			assert.Equal(t, upper.Settled(), upper.Total())
			assertTrimmedFrom(t, before, upper.Counts(), false)
			assertTrimmedFrom(t, before, lower.Counts(), true)
		}
	}
}

// assertTrimmedFrom checks that trimming emptied a run of slots from one end,
// drained at most one more slot partially, and left the rest untouched.
func assertTrimmedFrom(t *testing.T, before, after []int, fromTop bool) {
	t.Helper()
	at := func(i int) int {
		if fromTop {
			return len(before) - 1 - i
		}
		return i
	}
	i := 0
	for i < len(before) && after[at(i)] == 0 {
		i++
	}
	if i < len(before) {
		assert.LessOrEqual(t, after[at(i)], before[at(i)], "slot %d grew", at(i))
		i++
	}
	for ; i < len(before); i++ {
		assert.Equal(t, before[at(i)], after[at(i)], "slot %d touched outside the drained run", at(i))
	}
}

func slotsFromCounts(counts []int) [][]*Bead {
	return filledSlots(counts...)
}

func TestProperty_RepeatPreservesCount(t *testing.T) {
	rng := prng.NewRNG(99)
	for _, s := range shapes() {
		cfg := DefaultConfig()
		cfg.Slots, cfg.Beads, cfg.Mode = s.slots, s.beads, s.mode
		m := New(s.slots)
		m.Reset(Population(cfg, rng))

		// interrupt mid-run, at the end, and on an untouched machine
		for _, steps := range []int{0, s.slots / 2, s.beads + s.slots} {
			for i := 0; i < steps; i++ {
				m.Step()
			}
			m.Repeat()
			assert.Equal(t, s.beads, m.Total())
			assert.NoError(t, m.Verify(s.beads))
			assert.Zero(t, m.Settled())
			if s.beads > 0 {
				assert.Equal(t, 1, m.InFlight())
				assert.Equal(t, s.beads-1, m.Remaining())
				assert.Equal(t, 0, m.InFlightX(0))
			} else {
				assert.Zero(t, m.InFlight())
			}
		}
	}
}

func TestProperty_LuckApproachesBinomialMean(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beads = 4000
	cfg.Seed = 2024
	m := Run(cfg)
	// mean of Binomial(9, 0.5)
	assert.InDelta(t, 4.5, m.Average(), 0.15)
}
