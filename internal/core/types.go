package core

import "sort"

// Size describes the dimensions of a rendered board.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a steppable board must implement so the
// viewer and the console animator can drive it.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	// Step advances one tick and reports whether anything was left to do.
	Step() bool
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names lists the registered factories in lexical order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
