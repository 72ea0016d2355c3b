package ui

import (
	"fmt"
	"strings"

	"quincunx/internal/core"
)

// tallySource is implemented by boards that expose slot tallies.
type tallySource interface {
	Counts() []int
	Average() float64
}

// Lines builds the text shown on the HUD panel: the parameter snapshot
// grouped by heading, followed by the slot counts when available.
func Lines(title string, snap core.ParameterSnapshot, tallies tallySource) []string {
	lines := []string{title, ""}
	for _, g := range snap.Groups {
		lines = append(lines, strings.ToUpper(g.Name))
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %-14s %s", p.Label, p.Value))
		}
		lines = append(lines, "")
	}
	if tallies != nil {
		lines = append(lines, "SLOTS")
		for i, c := range tallies.Counts() {
			lines = append(lines, fmt.Sprintf("  %2d  %d", i, c))
		}
		lines = append(lines, fmt.Sprintf("  avg %.2f", tallies.Average()))
		lines = append(lines, "")
	}
	lines = append(lines,
		"space pause  n step",
		"r repeat  s reseed",
		"u upper  l lower",
		"+/- beads  q quit",
	)
	return lines
}
