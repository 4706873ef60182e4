package modifier

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/rng"
)

// Allowance is the per-arena modifier configuration: how many modifiers to
// hand out, which are permitted, and whether the same modifier may appear
// on more than one pawn.
type Allowance struct {
	// Count is the number of modifiers to assign across the opponent roster.
	Count int `yaml:"count"`
	// AllowDuplicates permits the same modifier on multiple pawns.
	AllowDuplicates bool `yaml:"allow_duplicates"`
	// Allow lists permitted modifier names. Empty means all are permitted.
	Allow []string `yaml:"allow"`
	// Deny lists forbidden modifier names; deny wins over allow.
	Deny []string `yaml:"deny"`
}

// Validate checks the allowance's fields against the known modifier set.
//
// Postcondition: Returns nil iff Count >= 0 and every allow/deny entry
// names a known non-None modifier.
func (a Allowance) Validate() error {
	if a.Count < 0 {
		return fmt.Errorf("modifier: allowance count must be >= 0, got %d", a.Count)
	}
	for _, name := range append(append([]string{}, a.Allow...), a.Deny...) {
		m, err := Parse(name)
		if err != nil {
			return err
		}
		if m == None {
			return fmt.Errorf("modifier: allowance cannot list %q", name)
		}
	}
	return nil
}

// Permits reports whether m may be assigned under this allowance.
//
// Postcondition: None is never permitted as an assignment; deny entries
// win over allow entries.
func (a Allowance) Permits(m Modifier) bool {
	if m == None {
		return false
	}
	for _, name := range a.Deny {
		if d, _ := Parse(name); d == m {
			return false
		}
	}
	if len(a.Allow) == 0 {
		return true
	}
	for _, name := range a.Allow {
		if al, _ := Parse(name); al == m {
			return true
		}
	}
	return false
}

// AllowedSet returns the permitted modifiers in declaration order.
func (a Allowance) AllowedSet() []Modifier {
	var out []Modifier
	for _, m := range Assignable {
		if a.Permits(m) {
			out = append(out, m)
		}
	}
	return out
}

// PickRandom draws one modifier uniformly from allowed.
//
// Precondition: src must be non-nil.
// Postcondition: Returns None when allowed is empty; deterministic given a
// fixed src.
func PickRandom(allowed []Modifier, src rng.Source) Modifier {
	if len(allowed) == 0 {
		return None
	}
	return allowed[src.Intn(len(allowed))]
}

// RollAssignments draws a.Count modifiers for an opponent roster. Without
// duplicates each pick is removed from the pool; when the pool empties the
// remaining slots are None.
//
// Precondition: src must be non-nil.
// Postcondition: len(result) == a.Count; every non-None entry is permitted
// by a; without AllowDuplicates no non-None entry repeats.
func (a Allowance) RollAssignments(src rng.Source) []Modifier {
	pool := a.AllowedSet()
	out := make([]Modifier, a.Count)
	for i := range out {
		m := PickRandom(pool, src)
		out[i] = m
		if m != None && !a.AllowDuplicates {
			for j, p := range pool {
				if p == m {
					pool = append(pool[:j], pool[j+1:]...)
					break
				}
			}
		}
	}
	return out
}
