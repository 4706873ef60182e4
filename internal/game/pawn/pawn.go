// Package pawn defines the combat entities shared by both phases: the
// player, opponents, their AI types, and weapon ownership.
package pawn

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/weapon"
)

// Kind distinguishes the player pawn from opponent pawns.
type Kind int

const (
	KindPlayer Kind = iota
	KindOpponent
)

// AIType is the closed set of opponent behavior profiles. Each profile has
// one weighting strategy and one targeting-band strategy, resolved through
// lookup tables in the decision package.
type AIType int

const (
	Basic AIType = iota
	Handcannon
	Shotgun
	Sniper
)

// String returns the lowercase AI type name.
func (t AIType) String() string {
	switch t {
	case Basic:
		return "basic"
	case Handcannon:
		return "handcannon"
	case Shotgun:
		return "shotgun"
	case Sniper:
		return "sniper"
	default:
		return "unknown"
	}
}

// ParseAIType converts a lowercase AI type name to its tag.
func ParseAIType(s string) (AIType, error) {
	switch s {
	case "basic":
		return Basic, nil
	case "handcannon":
		return Handcannon, nil
	case "shotgun":
		return Shotgun, nil
	case "sniper":
		return Sniper, nil
	default:
		return Basic, fmt.Errorf("pawn: unknown ai type %q", s)
	}
}

// Player HP is fixed at creation. This is a design invariant of the game,
// not a default: there is deliberately no configuration knob for it.
const (
	PlayerMaxHP   = 3
	PlayerStartHP = 2
)

// Pawn is one combat entity. Position is Hex during the turn-based phase
// and Pos during the standoff phase; the transition re-seats one from the
// other.
type Pawn struct {
	ID   string
	Kind Kind
	Name string
	// AIType is meaningful for opponents only.
	AIType AIType
	// Modifier is assigned at spawn and immutable for the pawn's lifetime.
	Modifier modifier.Modifier
	// Hex is the turn-phase board position.
	Hex hexgrid.Coord
	// Pos is the standoff-phase world position.
	Pos geom.Vec2
	// CurrentHP is bounded: 0 <= CurrentHP <= MaxHP.
	CurrentHP int
	MaxHP     int
	// Alive is cleared by the combat resolver's death path.
	Alive bool
	// Weapon is nil for unarmed pawns (the player, Basic opponents).
	Weapon *weapon.Weapon
}

// NewPlayer creates the player pawn at the given board position.
//
// Postcondition: MaxHP == PlayerMaxHP and CurrentHP == PlayerStartHP.
func NewPlayer(id string, at hexgrid.Coord) *Pawn {
	return &Pawn{
		ID:        id,
		Kind:      KindPlayer,
		Name:      "player",
		Hex:       at,
		CurrentHP: PlayerStartHP,
		MaxHP:     PlayerMaxHP,
		Alive:     true,
	}
}

// NewOpponent creates an opponent from a template with the given modifier.
// Tenacious (via eff.HPMultiplier) scales HP at spawn; the weapon, if any,
// is built from the template and reconfigured for the modifier.
//
// Precondition: tmpl must be validated; eff must be the effect record for mod.
// Postcondition: CurrentHP == MaxHP == tmpl.MaxHP * eff.HPMultiplier.
func NewOpponent(id string, tmpl *Template, mod modifier.Modifier, eff modifier.Effects, at hexgrid.Coord) *Pawn {
	hp := tmpl.MaxHP * eff.HPMultiplier
	p := &Pawn{
		ID:        id,
		Kind:      KindOpponent,
		Name:      tmpl.Name,
		AIType:    tmpl.ParsedAIType,
		Modifier:  mod,
		Hex:       at,
		CurrentHP: hp,
		MaxHP:     hp,
		Alive:     true,
	}
	if tmpl.Weapon != nil {
		p.Weapon = tmpl.Weapon.Build()
		p.Weapon.Reconfigure(eff)
	}
	return p
}

// IsPlayer reports whether this pawn is the player.
func (p *Pawn) IsPlayer() bool { return p.Kind == KindPlayer }

// IsArmed reports whether the pawn owns a weapon.
func (p *Pawn) IsArmed() bool { return p.Weapon != nil }

// IsDead reports whether the pawn has been removed from the simulation.
func (p *Pawn) IsDead() bool { return !p.Alive }

// ApplyDamage reduces CurrentHP by amount, flooring at zero. Reaching zero
// does not clear Alive; the combat resolver's death path owns that so death
// processing happens exactly once.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0.
func (p *Pawn) ApplyDamage(amount int) {
	p.CurrentHP -= amount
	if p.CurrentHP < 0 {
		p.CurrentHP = 0
	}
}

// ConvertAIType re-parameterizes the pawn to a new behavior profile at the
// phase boundary. HP and modifier are untouched. A weapon is attached if
// absent and reconfigured for the pawn's modifier.
//
// Precondition: eff must be the effect record for p.Modifier.
// Postcondition: p.AIType == t; p.Weapon != nil.
func (p *Pawn) ConvertAIType(t AIType, eff modifier.Effects) {
	p.AIType = t
	if p.Weapon == nil {
		p.Weapon = DefaultWeapon(t)
		p.Weapon.Reconfigure(eff)
	}
}

// DefaultWeapon returns the stock weapon archetype for an AI type, or nil
// for Basic (unarmed).
func DefaultWeapon(t AIType) *weapon.Weapon {
	switch t {
	case Handcannon:
		return &weapon.Weapon{
			Mode:         weapon.TrackPlayer,
			Geometry:     weapon.Geometry{Kind: weapon.Single},
			Damage:       1,
			FireInterval: 2 * time.Second,
			FiringDelay:  500 * time.Millisecond,
		}
	case Shotgun:
		return &weapon.Weapon{
			Mode:         weapon.TrackPlayer,
			Geometry:     weapon.Geometry{Kind: weapon.Spread, Count: 3, AngleStep: 60},
			Damage:       1,
			FireInterval: 3 * time.Second,
			FiringDelay:  600 * time.Millisecond,
		}
	case Sniper:
		return &weapon.Weapon{
			Mode:         weapon.TrackPlayer,
			Geometry:     weapon.Geometry{Kind: weapon.Beam},
			Damage:       2,
			Pierce:       1,
			FireInterval: 4 * time.Second,
			FiringDelay:  1 * time.Second,
		}
	default:
		return nil
	}
}
