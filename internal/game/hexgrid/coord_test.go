package hexgrid_test

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
)

func TestNeighborOffsets_CanonicalOrder(t *testing.T) {
	want := [6]hexgrid.Coord{
		{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
		{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
	}
	if hexgrid.NeighborOffsets != want {
		t.Fatalf("canonical offset order changed: %v", hexgrid.NeighborOffsets)
	}
}

func TestNeighbors_AllAtDistanceOne(t *testing.T) {
	c := hexgrid.Coord{Q: 2, R: -1}
	for i, n := range c.Neighbors() {
		if d := hexgrid.Distance(c, n); d != 1 {
			t.Errorf("neighbor[%d] = %v at distance %d, want 1", i, n, d)
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	cases := []struct {
		a, b hexgrid.Coord
		want int
	}{
		{hexgrid.Coord{}, hexgrid.Coord{}, 0},
		{hexgrid.Coord{}, hexgrid.Coord{Q: 1, R: 0}, 1},
		{hexgrid.Coord{}, hexgrid.Coord{Q: 3, R: -3}, 3},
		{hexgrid.Coord{}, hexgrid.Coord{Q: 2, R: 1}, 3},
		{hexgrid.Coord{Q: -2, R: 0}, hexgrid.Coord{Q: 2, R: 0}, 4},
	}
	for _, tc := range cases {
		if got := hexgrid.Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestPropertyDistance_SymmetricAndTriangle(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		coord := func(label string) hexgrid.Coord {
			return hexgrid.Coord{
				Q: rapid.IntRange(-10, 10).Draw(rt, label+"q"),
				R: rapid.IntRange(-10, 10).Draw(rt, label+"r"),
			}
		}
		a, b, c := coord("a"), coord("b"), coord("c")
		if hexgrid.Distance(a, b) != hexgrid.Distance(b, a) {
			rt.Errorf("distance not symmetric for %v, %v", a, b)
		}
		if hexgrid.Distance(a, c) > hexgrid.Distance(a, b)+hexgrid.Distance(b, c) {
			rt.Errorf("triangle inequality violated for %v, %v, %v", a, b, c)
		}
	})
}

func TestForwardDirIndices_ProjectToward_NegativeY(t *testing.T) {
	forward := map[int]bool{}
	for _, i := range hexgrid.ForwardDirIndices {
		forward[i] = true
	}
	for i, off := range hexgrid.NeighborOffsets {
		_, y := hexgrid.WorldPosition(off, hexgrid.FlatTop, 1)
		if forward[i] && y >= 0 {
			t.Errorf("forward dir %d projects to y=%v, want negative", i, y)
		}
		if !forward[i] && y <= 0 {
			t.Errorf("non-forward dir %d projects to y=%v, want positive", i, y)
		}
	}
}

func TestWorldPosition_Origin(t *testing.T) {
	for _, o := range []hexgrid.Orientation{hexgrid.FlatTop, hexgrid.PointyTop} {
		x, y := hexgrid.WorldPosition(hexgrid.Coord{}, o, 12)
		if x != 0 || y != 0 {
			t.Errorf("orientation %v: origin projects to (%v, %v)", o, x, y)
		}
	}
}

func TestWorldPosition_FlatTopColumnStep(t *testing.T) {
	x, y := hexgrid.WorldPosition(hexgrid.Coord{Q: 1, R: 0}, hexgrid.FlatTop, 2)
	if math.Abs(x-3) > 1e-9 {
		t.Errorf("flat-top q step x = %v, want 3", x)
	}
	if math.Abs(y-math.Sqrt(3)) > 1e-9 {
		t.Errorf("flat-top q step y = %v, want sqrt(3)", y)
	}
}
