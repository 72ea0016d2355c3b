package galton

// scriptedSource replays fixed draws. Once a script runs out it repeats the
// last value, or the zero value if the script was empty.
type scriptedSource struct {
	bools   []bool
	normals []float64

	boolCalls   int
	normalCalls int
}

func (s *scriptedSource) Bool() bool {
	s.boolCalls++
	if len(s.bools) == 0 {
		return false
	}
	v := s.bools[0]
	if len(s.bools) > 1 {
		s.bools = s.bools[1:]
	}
	return v
}

func (s *scriptedSource) NormFloat64() float64 {
	s.normalCalls++
	if len(s.normals) == 0 {
		return 0
	}
	v := s.normals[0]
	if len(s.normals) > 1 {
		s.normals = s.normals[1:]
	}
	return v
}

func skillBeads(n, skill int) []*Bead {
	beads := make([]*Bead, n)
	for i := range beads {
		beads[i] = NewBeadWith(ModeSkill, &scriptedSource{}, skill, 0, 0)
	}
	return beads
}

func filledSlots(counts ...int) [][]*Bead {
	slots := make([][]*Bead, len(counts))
	for i, c := range counts {
		slots[i] = skillBeads(c, i)
	}
	return slots
}
