// Package modifier defines the stackable-by-design, singular-in-practice
// opponent traits and their numeric effects. A pawn carries at most one
// Modifier as a pure tag; every effect magnitude lives in the read-only
// effect Table, never on the pawn.
package modifier

import "fmt"

// Modifier is an opponent trait tag. The zero value None means unmodified.
// A modifier, once assigned to a pawn, is immutable for the pawn's lifetime.
type Modifier int

const (
	None Modifier = iota
	Tenacious
	Confrontational
	Fleet
	Observant
	Reflexive
)

// Assignable lists every modifier that can be attached to a pawn, in
// declaration order. None is excluded.
var Assignable = []Modifier{Tenacious, Confrontational, Fleet, Observant, Reflexive}

// String returns the lowercase modifier name.
func (m Modifier) String() string {
	switch m {
	case None:
		return "none"
	case Tenacious:
		return "tenacious"
	case Confrontational:
		return "confrontational"
	case Fleet:
		return "fleet"
	case Observant:
		return "observant"
	case Reflexive:
		return "reflexive"
	default:
		return "unknown"
	}
}

// Parse converts a lowercase modifier name to its tag.
//
// Postcondition: Returns an error for any name that is not a known
// modifier; "none" and "" both parse to None.
func Parse(s string) (Modifier, error) {
	switch s {
	case "", "none":
		return None, nil
	case "tenacious":
		return Tenacious, nil
	case "confrontational":
		return Confrontational, nil
	case "fleet":
		return Fleet, nil
	case "observant":
		return Observant, nil
	case "reflexive":
		return Reflexive, nil
	default:
		return None, fmt.Errorf("modifier: unknown modifier %q", s)
	}
}
