package galton

import (
	"errors"
	"fmt"

	prng "quincunx/pkg/core"
)

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// ErrCodeIllegalPosition indicates a falling bead outside 0 <= x <= y < slots.
	ErrCodeIllegalPosition InvariantCode = "ILLEGAL_POSITION"

	// ErrCodeConservation indicates beads were created or lost.
	ErrCodeConservation InvariantCode = "CONSERVATION"

	// ErrCodeUnfinished indicates beads still waiting or falling after the
	// machine reported it was done.
	ErrCodeUnfinished InvariantCode = "UNFINISHED"

	// ErrCodeNoProgress indicates the machine kept stepping past its bound.
	ErrCodeNoProgress InvariantCode = "NO_PROGRESS"
)

// InvariantError describes a single broken machine invariant.
type InvariantError struct {
	Code    InvariantCode
	Message string

	Beads int
	Slots int
	Tick  int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s (beads=%d, slots=%d, tick=%d)", e.Code, e.Message, e.Beads, e.Slots, e.Tick)
}

// IsInvariantError reports whether err wraps an InvariantError with code.
func IsInvariantError(err error, code InvariantCode) bool {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// Verify checks the machine's between-tick invariants against the expected
// population.
func (m *Machine) Verify(total int) error {
	var errs []error
	for _, b := range m.inFlight {
		if b.X() < 0 || b.X() > b.Y() || b.Y() >= m.slotCount {
			errs = append(errs, &InvariantError{
				Code:    ErrCodeIllegalPosition,
				Message: fmt.Sprintf("bead at (%d,%d)", b.X(), b.Y()),
			})
		}
	}
	for y := 0; y < m.slotCount; y++ {
		x := m.InFlightX(y)
		if x != NoBead && (x < 0 || x > y) {
			errs = append(errs, &InvariantError{
				Code:    ErrCodeIllegalPosition,
				Message: fmt.Sprintf("row %d reports x=%d", y, x),
			})
		}
	}
	if got := m.Remaining() + m.InFlight() + m.Settled(); got != total {
		errs = append(errs, &InvariantError{
			Code:    ErrCodeConservation,
			Message: fmt.Sprintf("accounted for %d of %d beads", got, total),
		})
	}
	return errors.Join(errs...)
}

// CheckResult summarises an exhaustive invariant run.
type CheckResult struct {
	Machines int `json:"machines"`
	Ticks    int `json:"ticks"`
}

// Check runs luck-mode machines for every bead count in [0, maxBeads] and
// slot count in [1, maxSlots], verifying invariants after every tick and the
// final state once each machine finishes.
func Check(maxBeads, maxSlots int, seed int64) (CheckResult, error) {
	var (
		res  CheckResult
		errs []error
	)
	rng := prng.NewRNG(seed)
	for beads := 0; beads <= maxBeads; beads++ {
		for slots := 1; slots <= maxSlots; slots++ {
			ticks, err := checkOne(beads, slots, rng)
			res.Machines++
			res.Ticks += ticks
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return res, errors.Join(errs...)
}

func checkOne(beads, slots int, src Source) (int, error) {
	tag := func(err error, tick int) error {
		var ie *InvariantError
		for _, e := range unjoin(err) {
			if errors.As(e, &ie) {
				ie.Beads, ie.Slots, ie.Tick = beads, slots, tick
			}
		}
		return err
	}

	m := New(slots)
	if err := m.Verify(0); err != nil {
		return 0, tag(err, 0)
	}

	population := make([]*Bead, beads)
	for i := range population {
		population[i] = NewBead(ModeLuck, src)
	}
	m.Reset(population)

	// Every bead needs one tick to enter and slots ticks to settle.
	bound := beads + slots + 1
	tick := 0
	for m.Step() {
		tick++
		if err := m.Verify(beads); err != nil {
			return tick, tag(err, tick)
		}
		for _, b := range population {
			if b.X() > b.Y() || b.Y() >= slots {
				return tick, tag(&InvariantError{
					Code:    ErrCodeIllegalPosition,
					Message: b.String(),
				}, tick)
			}
		}
		if tick > bound {
			return tick, tag(&InvariantError{
				Code:    ErrCodeNoProgress,
				Message: fmt.Sprintf("still running after %d ticks", tick),
			}, tick)
		}
	}

	if m.Remaining() != 0 || m.InFlight() != 0 || m.Settled() != beads {
		return tick, tag(&InvariantError{
			Code: ErrCodeUnfinished,
			Message: fmt.Sprintf("finished with remaining=%d in_flight=%d settled=%d",
				m.Remaining(), m.InFlight(), m.Settled()),
		}, tick)
	}
	return tick, nil
}

// unjoin flattens an errors.Join result.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
