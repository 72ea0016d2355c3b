package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Mode  string
	Slots int
	Beads int
	Scale int
	TPS   int
	Seed  int64
	HUD   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Mode: "luck", Slots: 10, Beads: 400, Scale: 8, TPS: 20, Seed: 42, HUD: 220}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Mode, "mode", c.Mode, "decision mode (luck|skill)")
	fs.IntVar(&c.Slots, "slots", c.Slots, "number of slots")
	fs.IntVar(&c.Beads, "beads", c.Beads, "number of beads")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for bead generation")
	fs.IntVar(&c.HUD, "hud", c.HUD, "HUD panel width in pixels (0 hides it)")
}

// SimConfig renders the flags as the key/value map sim factories accept.
func (c *Config) SimConfig() map[string]string {
	return map[string]string{
		"slots": strconv.Itoa(c.Slots),
		"beads": strconv.Itoa(c.Beads),
		"seed":  strconv.FormatInt(c.Seed, 10),
	}
}
