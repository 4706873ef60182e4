package hexgrid

// Aligned reports whether b lies on one of the three hex axes through a.
// On success it returns the canonical direction index from a toward b and
// the number of steps between them.
//
// Postcondition: ok is false when a == b or the coordinates share no axis.
func Aligned(a, b Coord) (dir int, steps int, ok bool) {
	if a == b {
		return 0, 0, false
	}
	dq := b.Q - a.Q
	dr := b.R - a.R
	ds := b.S() - a.S()

	var step Coord
	switch {
	case dq == 0:
		step = Coord{Q: 0, R: sign(dr)}
		steps = abs(dr)
	case dr == 0:
		step = Coord{Q: sign(dq), R: 0}
		steps = abs(dq)
	case ds == 0:
		step = Coord{Q: sign(dq), R: sign(dr)}
		steps = abs(dq)
	default:
		return 0, 0, false
	}
	for i, off := range NeighborOffsets {
		if off == step {
			return i, steps, true
		}
	}
	return 0, 0, false
}

// Line returns the coordinates strictly between a and b along their shared
// axis, nearest-first.
//
// Precondition: a and b must be axis-aligned (Aligned returns ok).
// Postcondition: Returns steps-1 coordinates; empty for adjacent tiles.
func Line(a, b Coord) []Coord {
	dir, steps, ok := Aligned(a, b)
	if !ok {
		return nil
	}
	out := make([]Coord, 0, steps-1)
	c := a
	for i := 1; i < steps; i++ {
		c = c.Add(NeighborOffsets[dir])
		out = append(out, c)
	}
	return out
}

// LineOfSight reports whether a and b share a hex axis with every
// intervening tile active. Occupancy does not block sight; shot resolution
// decides what an intervening pawn absorbs.
func (g *Grid) LineOfSight(a, b Coord) bool {
	_, _, ok := Aligned(a, b)
	if !ok {
		return false
	}
	for _, c := range Line(a, b) {
		if !g.Contains(c) {
			return false
		}
	}
	return true
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
