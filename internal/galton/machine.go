package galton

// NoBead is returned by InFlightX when no bead occupies the requested row.
const NoBead = -1

// Machine is the bean machine itself. It owns three disjoint bead
// collections and moves beads between them one tick at a time:
//
//	waiting -> in flight -> slots
//
// A Machine is not safe for concurrent use.
type Machine struct {
	slotCount int

	waiting  []*Bead
	inFlight []*Bead
	slots    [][]*Bead

	total int
}

// New returns an empty machine with slotCount slots.
func New(slotCount int) *Machine {
	return NewWithState(slotCount, nil, nil, nil)
}

// NewWithState builds a machine around existing collections. Nil collections
// start empty; nil slots become slotCount empty slots. The slices are adopted
// rather than copied, so callers can seed a machine mid-run.
func NewWithState(slotCount int, waiting, inFlight []*Bead, slots [][]*Bead) *Machine {
	slotCount = max(slotCount, 0)
	if slots == nil {
		slots = make([][]*Bead, slotCount)
	}
	m := &Machine{
		slotCount: slotCount,
		waiting:   waiting,
		inFlight:  inFlight,
		slots:     slots,
	}
	m.total = len(waiting) + len(inFlight) + m.Settled()
	return m
}

// Slots returns the number of slots at the bottom of the machine.
func (m *Machine) Slots() int { return m.slotCount }

// Total returns the bead population the machine is accounting for.
func (m *Machine) Total() int { return m.total }

// Remaining returns the number of beads still waiting to be dropped.
func (m *Machine) Remaining() int { return len(m.waiting) }

// InFlight returns the number of beads currently falling.
func (m *Machine) InFlight() int { return len(m.inFlight) }

// InFlightX returns the x position of the falling bead on row y, or NoBead.
func (m *Machine) InFlightX(y int) int {
	for _, b := range m.inFlight {
		if b.Y() == y {
			return b.X()
		}
	}
	return NoBead
}

// SlotBeans returns the number of beads resting in slot i.
func (m *Machine) SlotBeans(i int) int {
	return len(m.slots[i])
}

// Settled returns the number of beads resting in any slot.
func (m *Machine) Settled() int {
	n := 0
	for _, s := range m.slots {
		n += len(s)
	}
	return n
}

// Counts returns a copy of the per-slot bead counts.
func (m *Machine) Counts() []int {
	counts := make([]int, len(m.slots))
	for i, s := range m.slots {
		counts[i] = len(s)
	}
	return counts
}

// Average returns the bead-weighted mean slot index, or 0 when no bead has
// settled.
func (m *Machine) Average() float64 {
	settled := m.Settled()
	if settled == 0 {
		return 0
	}
	weighted := 0
	for i, s := range m.slots {
		weighted += i * len(s)
	}
	return float64(weighted) / float64(settled)
}

// Done reports whether every bead has settled.
func (m *Machine) Done() bool {
	return len(m.waiting) == 0 && len(m.inFlight) == 0
}

// Reset empties the machine, returns every bead to the origin and queues
// them. The first bead starts in flight.
func (m *Machine) Reset(beads []*Bead) {
	// beads may share memory with the machine's own collections, so copy it
	// before anything is emptied.
	waiting := make([]*Bead, len(beads))
	copy(waiting, beads)
	for _, b := range waiting {
		b.ResetPosition()
	}

	m.inFlight = nil
	for i := range m.slots {
		m.slots[i] = nil
	}
	m.waiting = waiting
	m.total = len(waiting)
	m.drop()
}

// Repeat scoops up every bead (waiting, then in flight, then slot by slot)
// and restarts the experiment with them. Beads keep their mode and skill.
func (m *Machine) Repeat() {
	beads := make([]*Bead, 0, m.total)
	beads = append(beads, m.waiting...)
	beads = append(beads, m.inFlight...)
	for _, s := range m.slots {
		beads = append(beads, s...)
	}
	m.Reset(beads)
}

// Step advances the machine by one tick. Beads on the last row settle into
// the slot below them, every other falling bead moves down one row, then the
// next waiting bead is dropped. Step returns false once nothing is waiting or
// falling.
func (m *Machine) Step() bool {
	if m.Done() {
		return false
	}
	if m.slotCount == 0 {
		panic("galton: cannot step beads through a machine with no slots")
	}

	falling := m.inFlight[:0]
	for _, b := range m.inFlight {
		if b.Y() >= m.slotCount-1 {
			m.slots[b.X()] = append(m.slots[b.X()], b)
			continue
		}
		b.Step()
		falling = append(falling, b)
	}
	clear(m.inFlight[len(falling):])
	m.inFlight = falling

	m.drop()
	return true
}

// drop moves the front waiting bead into flight.
func (m *Machine) drop() {
	if len(m.waiting) == 0 {
		return
	}
	b := m.waiting[0]
	m.waiting[0] = nil
	m.waiting = m.waiting[1:]
	m.inFlight = append(m.inFlight, b)
}

// UpperHalf discards the lower half of the settled beads, draining slots from
// index 0 upward. With an odd count the middle bead is kept.
func (m *Machine) UpperHalf() {
	remove := m.Settled() / 2
	for i := 0; remove > 0 && i < len(m.slots); i++ {
		remove = m.drain(i, remove)
	}
	m.recount()
}

// LowerHalf discards the upper half of the settled beads, draining slots from
// the last index downward. With an odd count the middle bead is kept.
func (m *Machine) LowerHalf() {
	remove := m.Settled() / 2
	for i := len(m.slots) - 1; remove > 0 && i >= 0; i-- {
		remove = m.drain(i, remove)
	}
	m.recount()
}

// drain removes up to n beads from the front of slot i and returns how many
// are still owed.
func (m *Machine) drain(i, n int) int {
	slot := m.slots[i]
	if len(slot) <= n {
		m.slots[i] = nil
		return n - len(slot)
	}
	m.slots[i] = slot[n:]
	return 0
}

// recount re-derives the population after beads were discarded.
func (m *Machine) recount() {
	m.total = len(m.waiting) + len(m.inFlight) + m.Settled()
}
