// Package arena loads battle definitions from YAML content files: the board
// shape, spawn layout, modifier allowance, standoff platforms, and the
// optional per-arena script.
package arena

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
)

// Spawn is a board position in a definition file.
type Spawn struct {
	Q int `yaml:"q"`
	R int `yaml:"r"`
}

// Coord converts the spawn to a board coordinate.
func (s Spawn) Coord() hexgrid.Coord {
	return hexgrid.Coord{Q: s.Q, R: s.R}
}

// OpponentSpawn places one templated opponent on the board.
type OpponentSpawn struct {
	// Template is the pawn template ID to instantiate.
	Template string `yaml:"template"`
	Spawn    Spawn  `yaml:"spawn"`
}

// Platform is one solid block of standoff terrain: [X, X+Width] wide,
// [Y, Y+Height] tall. Height 0 is walkable ground with no wall.
type Platform struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Definition is one arena content file.
type Definition struct {
	Name        string              `yaml:"name"`
	GridRadius  int                 `yaml:"grid_radius"`
	PlayerSpawn Spawn               `yaml:"player_spawn"`
	Opponents   []OpponentSpawn     `yaml:"opponents"`
	Modifiers   *modifier.Allowance `yaml:"modifiers"`
	Platforms   []Platform          `yaml:"platforms"`
	// Script is an optional Lua file name, relative to the arena file.
	Script string `yaml:"script"`
}

// Validate checks structural consistency. Template existence is checked at
// battle assembly, where the template set is known.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("arena: name is required")
	}
	if d.GridRadius < 1 {
		return fmt.Errorf("arena %s: grid_radius must be >= 1, got %d", d.Name, d.GridRadius)
	}
	if len(d.Opponents) == 0 {
		return fmt.Errorf("arena %s: at least one opponent is required", d.Name)
	}
	seen := map[hexgrid.Coord]string{
		d.PlayerSpawn.Coord(): "player",
	}
	if !onBoard(d.PlayerSpawn.Coord(), d.GridRadius) {
		return fmt.Errorf("arena %s: player spawn %v is off the board", d.Name, d.PlayerSpawn.Coord())
	}
	for i, o := range d.Opponents {
		if o.Template == "" {
			return fmt.Errorf("arena %s: opponent %d has no template", d.Name, i)
		}
		c := o.Spawn.Coord()
		if !onBoard(c, d.GridRadius) {
			return fmt.Errorf("arena %s: opponent %d spawn %v is off the board", d.Name, i, c)
		}
		if prev, dup := seen[c]; dup {
			return fmt.Errorf("arena %s: spawn %v used by both %s and opponent %d", d.Name, c, prev, i)
		}
		seen[c] = fmt.Sprintf("opponent %d", i)
	}
	if d.Modifiers != nil {
		if err := d.Modifiers.Validate(); err != nil {
			return fmt.Errorf("arena %s: %w", d.Name, err)
		}
	}
	for i, p := range d.Platforms {
		if p.Width <= 0 {
			return fmt.Errorf("arena %s: platform %d width must be > 0", d.Name, i)
		}
		if p.Height < 0 {
			return fmt.Errorf("arena %s: platform %d height must be >= 0", d.Name, i)
		}
	}
	return nil
}

func onBoard(c hexgrid.Coord, radius int) bool {
	return hexgrid.Distance(c, hexgrid.Coord{}) <= radius
}

// Grid builds the battle board the definition describes.
func (d *Definition) Grid() *hexgrid.Grid {
	return hexgrid.NewHexagon(d.GridRadius)
}

// Allowance returns the modifier allowance, or a no-modifier allowance when
// the file omits the section.
func (d *Definition) Allowance() modifier.Allowance {
	if d.Modifiers != nil {
		return *d.Modifiers
	}
	return modifier.Allowance{}
}

// Load parses and validates a single arena file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("arena: reading %s: %w", path, err)
	}
	var d Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("arena: parsing %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDirectory loads every *.yaml arena in dir, keyed by name.
//
// Postcondition: No two definitions share a name.
func LoadDirectory(dir string) (map[string]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("arena: reading dir %s: %w", dir, err)
	}
	out := make(map[string]*Definition)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		d, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := out[d.Name]; dup {
			return nil, fmt.Errorf("arena: duplicate name %q in %s", d.Name, e.Name())
		}
		out[d.Name] = d
	}
	return out, nil
}
