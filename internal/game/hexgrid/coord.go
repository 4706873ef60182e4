// Package hexgrid provides axial hex coordinate math and tile occupancy
// for the battle board. Coordinates use the axial (q, r) scheme; the third
// cube coordinate s is derived as -q-r.
package hexgrid

import "math"

// Coord is an axial hex coordinate. Equality and map hashing are by value.
type Coord struct {
	Q int
	R int
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int { return -c.Q - c.R }

// Add returns the component-wise sum of c and o.
func (c Coord) Add(o Coord) Coord {
	return Coord{Q: c.Q + o.Q, R: c.R + o.R}
}

// NeighborOffsets is the canonical neighbor order. The ordering is
// load-bearing: direction indices, weight classification tie-breaks, and
// forward-direction selection all reference it.
var NeighborOffsets = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// ForwardDirIndices are the three NeighborOffsets indices whose flat-top
// world projection moves toward the board's forward edge (decreasing y).
// Basic opponents are restricted to these directions.
var ForwardDirIndices = [3]int{1, 2, 3}

// Neighbors returns the six adjacent coordinates in canonical order.
// Some entries may lie off-grid or on inactive tiles; callers filter.
//
// Postcondition: Returns exactly 6 coordinates, index i == c + NeighborOffsets[i].
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, off := range NeighborOffsets {
		out[i] = c.Add(off)
	}
	return out
}

// Distance returns the hex distance between a and b (cube metric).
//
// Postcondition: Returns >= 0; Distance(a, a) == 0; symmetric in a, b.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return (dq + dr + ds) / 2
}

// Orientation selects the world-projection formula for WorldPosition.
type Orientation int

const (
	// FlatTop lays hexes with a flat edge up; columns step by 3/2 * size.
	FlatTop Orientation = iota
	// PointyTop lays hexes with a vertex up; rows step by 3/2 * size.
	PointyTop
)

// WorldPosition projects c into 2D world space using the standard axial
// layout formulas for the given orientation and tile size.
//
// Precondition: size > 0.
func WorldPosition(c Coord, o Orientation, size float64) (x, y float64) {
	q := float64(c.Q)
	r := float64(c.R)
	sqrt3 := math.Sqrt(3)
	if o == PointyTop {
		return size * (sqrt3*q + sqrt3/2*r), size * 1.5 * r
	}
	return size * 1.5 * q, size * (sqrt3/2*q + sqrt3*r)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
