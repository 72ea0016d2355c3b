package galton

import (
	"math"
	"strconv"

	"quincunx/pkg/core"
)

// Config controls a machine and the population dropped through it.
type Config struct {
	Slots int
	Beads int
	Mode  Mode
	Seed  int64

	SkillAverage float64
	SkillStdev   float64
}

// DefaultConfig returns the standard ten-slot luck experiment.
func DefaultConfig() Config {
	return Config{
		Slots:        10,
		Beads:        400,
		Mode:         ModeLuck,
		Seed:         1337,
		SkillAverage: SkillAverage,
		SkillStdev:   SkillStdev,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["slots"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Slots = parsed
			c.SkillAverage, c.SkillStdev = SkillFor(parsed)
		}
	}
	if v, ok := cfg["beads"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Beads = parsed
		}
	}
	if v, ok := cfg["mode"]; ok {
		if parsed, err := ParseMode(v); err == nil {
			c.Mode = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["skill_average"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.SkillAverage = parsed
		}
	}
	if v, ok := cfg["skill_stdev"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.SkillStdev = parsed
		}
	}
	return c
}

// SkillFor returns the skill distribution for a board with the given slot
// count. A bead makes slots-1 decisions; the mean is half of them and the
// stdev is that of a fair binomial over the same count. Ten slots give
// SkillAverage and SkillStdev.
func SkillFor(slots int) (average, stdev float64) {
	rows := float64(max(slots-1, 0))
	return rows * 0.5, math.Sqrt(rows * 0.25)
}

// Population creates cfg.Beads beads drawing from src. Skills are drawn with
// the config's skill distribution.
func Population(cfg Config, src Source) []*Bead {
	beads := make([]*Bead, cfg.Beads)
	for i := range beads {
		skill := drawSkill(src, cfg.SkillAverage, cfg.SkillStdev)
		beads[i] = NewBeadWith(cfg.Mode, src, max(skill, 0), 0, 0)
	}
	return beads
}

// Run drops a fresh population through a new machine until every bead has
// settled and returns the machine.
func Run(cfg Config) *Machine {
	m := New(cfg.Slots)
	m.Reset(Population(cfg, core.NewRNG(cfg.Seed)))
	for m.Step() {
	}
	return m
}
