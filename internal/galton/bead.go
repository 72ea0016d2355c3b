package galton

import (
	"fmt"
	"math"
)

// Mode selects how a bead resolves each peg.
type Mode uint8

const (
	// ModeSkill makes a bead go right until it has gone right Skill times.
	ModeSkill Mode = iota
	// ModeLuck makes every decision a fair coin flip.
	ModeLuck
)

// SkillAverage and SkillStdev parameterise the normal draw of a bead's skill.
const (
	SkillAverage = 4.5
	SkillStdev   = 1.5
)

func (m Mode) String() string {
	switch m {
	case ModeLuck:
		return "luck"
	case ModeSkill:
		return "skill"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode maps "luck" or "skill" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "luck":
		return ModeLuck, nil
	case "skill":
		return ModeSkill, nil
	}
	return 0, fmt.Errorf("unknown mode %q: must be luck or skill", s)
}

// Source is the randomness a bead consumes. *core.RNG satisfies it.
type Source interface {
	Bool() bool
	NormFloat64() float64
}

// Bead is a single falling bead. Its position is in the logical peg
// coordinate system: y is the row, x the number of right turns so far.
type Bead struct {
	mode  Mode
	src   Source
	skill int

	x, y int
}

// NewBead creates a bead whose skill is drawn from src.
func NewBead(mode Mode, src Source) *Bead {
	return NewBeadWith(mode, src, -1, 0, 0)
}

// NewBeadWith creates a bead with an explicit skill. A negative skill is drawn
// from src using SkillAverage and SkillStdev. Negative start coordinates clamp
// to zero, and the bead is returned to the origin before use, so every bead
// starts at (0, 0).
func NewBeadWith(mode Mode, src Source, skill, x, y int) *Bead {
	b := &Bead{mode: mode, src: src, skill: skill}
	if skill < 0 {
		b.skill = drawSkill(src, SkillAverage, SkillStdev)
	}
	b.x = max(x, 0)
	b.y = max(y, 0)
	b.ResetPosition()
	return b
}

// drawSkill rounds half up, so -0.5 becomes 0 rather than -1.
func drawSkill(src Source, mean, stdev float64) int {
	return int(math.Floor(src.NormFloat64()*stdev + mean + 0.5))
}

// Mode returns the bead's decision mode.
func (b *Bead) Mode() Mode { return b.mode }

// Skill returns the number of right turns a skill bead takes before turning left.
func (b *Bead) Skill() int { return b.skill }

// X returns the number of right turns taken.
func (b *Bead) X() int { return b.x }

// Y returns the number of pegs passed.
func (b *Bead) Y() int { return b.y }

// Step resolves the next peg and moves the bead one row down. It reports
// whether the bead went right.
func (b *Bead) Step() bool {
	var right bool
	if b.mode == ModeLuck {
		right = b.src.Bool()
	} else {
		right = b.x < b.skill
	}
	b.y++
	if right {
		b.x++
	}
	return right
}

// ResetPosition returns the bead to the top of the board.
func (b *Bead) ResetPosition() {
	b.x = 0
	b.y = 0
}

func (b *Bead) String() string {
	return fmt.Sprintf("bead{%s skill=%d at (%d,%d)}", b.mode, b.skill, b.x, b.y)
}
