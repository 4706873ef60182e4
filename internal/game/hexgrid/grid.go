package hexgrid

import "fmt"

// Tile is one board position. A tile holds at most one pawn; occupancy is
// mutated only through Grid methods.
type Tile struct {
	// Coord is the tile's axial position.
	Coord Coord
	// Occupant is the occupying pawn's ID, or "" when the tile is empty.
	Occupant string
	// Active is false for tiles that exist in the map but are not part of
	// the playable board.
	Active bool
}

// Grid is the immutable-topology, mutable-occupancy battle board.
// Topology is fixed at construction; only occupancy changes afterward.
type Grid struct {
	tiles map[Coord]*Tile
}

// NewGrid builds a grid from an externally generated coordinate set.
// Every listed coordinate becomes an active, empty tile.
//
// Precondition: coords must not contain duplicates.
func NewGrid(coords []Coord) *Grid {
	g := &Grid{tiles: make(map[Coord]*Tile, len(coords))}
	for _, c := range coords {
		g.tiles[c] = &Tile{Coord: c, Active: true}
	}
	return g
}

// NewHexagon builds a regular hexagonal grid of the given radius centered
// on the origin. Radius 0 is a single tile.
//
// Precondition: radius >= 0.
// Postcondition: the grid contains 3*radius*(radius+1)+1 active tiles.
func NewHexagon(radius int) *Grid {
	var coords []Coord
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			c := Coord{Q: q, R: r}
			if abs(c.S()) <= radius {
				coords = append(coords, c)
			}
		}
	}
	return NewGrid(coords)
}

// Tile returns the tile at c, or (nil, false) when c is off-grid.
func (g *Grid) Tile(c Coord) (*Tile, bool) {
	t, ok := g.tiles[c]
	return t, ok
}

// Contains reports whether c is an active tile of the grid.
func (g *Grid) Contains(c Coord) bool {
	t, ok := g.tiles[c]
	return ok && t.Active
}

// IsOpen reports whether c is an active, unoccupied tile — a legal move
// destination.
func (g *Grid) IsOpen(c Coord) bool {
	t, ok := g.tiles[c]
	return ok && t.Active && t.Occupant == ""
}

// OccupantAt returns the pawn ID occupying c, or ("", false) when the tile
// is empty or off-grid.
func (g *Grid) OccupantAt(c Coord) (string, bool) {
	t, ok := g.tiles[c]
	if !ok || t.Occupant == "" {
		return "", false
	}
	return t.Occupant, true
}

// Occupy places pawn id on tile c.
//
// Postcondition: Returns an error and mutates nothing if c is off-grid,
// inactive, or already occupied by a different pawn.
func (g *Grid) Occupy(c Coord, id string) error {
	t, ok := g.tiles[c]
	if !ok || !t.Active {
		return fmt.Errorf("hexgrid: tile %v is not on the board", c)
	}
	if t.Occupant != "" && t.Occupant != id {
		return fmt.Errorf("hexgrid: tile %v already occupied by %q", c, t.Occupant)
	}
	t.Occupant = id
	return nil
}

// Vacate clears the occupant of tile c. Vacating an empty or off-grid tile
// is a no-op.
func (g *Grid) Vacate(c Coord) {
	if t, ok := g.tiles[c]; ok {
		t.Occupant = ""
	}
}

// Move relocates pawn id from one tile to another.
//
// Precondition: id must occupy from.
// Postcondition: On error nothing is mutated; on success from is vacated
// and to is occupied by id.
func (g *Grid) Move(from, to Coord, id string) error {
	src, ok := g.tiles[from]
	if !ok || src.Occupant != id {
		return fmt.Errorf("hexgrid: pawn %q does not occupy %v", id, from)
	}
	if !g.IsOpen(to) {
		return fmt.Errorf("hexgrid: tile %v is not open", to)
	}
	src.Occupant = ""
	g.tiles[to].Occupant = id
	return nil
}

// EdgeSide reports which horizontal board edge is nearer to c: +1 for the
// right edge, -1 for the left. Ties resolve to the right edge. Used to pick
// the expulsion direction on death.
func (g *Grid) EdgeSide(c Coord) int {
	// Flat-top world x depends only on q.
	if c.Q >= 0 {
		return 1
	}
	return -1
}

// Size returns the number of active tiles.
func (g *Grid) Size() int {
	n := 0
	for _, t := range g.tiles {
		if t.Active {
			n++
		}
	}
	return n
}
