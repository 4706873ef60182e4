package combat

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
	"github.com/cory-johannsen/skirmish/internal/game/weapon"
)

// Lookup resolves a pawn by ID. The coordinator owns the roster; the
// resolver only asks.
type Lookup func(id string) (*pawn.Pawn, bool)

// FireTurnShot resolves one turn-based shot from shooter: the aim axis is
// the neighbor direction toward player, the weapon geometry selects the
// rays, and each ray hits the first pawn on its line. A piercing shot
// continues past its first contact with the reduced follow-up damage; a
// friendly-fire-suppressed weapon passes through opponents without harm.
//
// Precondition: shooter must be armed and on the board; r.grid non-nil.
func (r *Resolver) FireTurnShot(shooter *pawn.Pawn, player hexgrid.Coord, lookup Lookup) {
	w := shooter.Weapon
	if w == nil || r.grid == nil {
		return
	}
	aim := aimDirection(shooter.Hex, player)
	for _, dir := range rayDirections(aim, w.Geometry) {
		r.resolveRay(shooter, dir, lookup)
	}
}

// resolveRay walks one ray from the shooter's tile until it leaves the
// board, applying the weapon's contact rules along the way.
func (r *Resolver) resolveRay(shooter *pawn.Pawn, dir int, lookup Lookup) {
	w := shooter.Weapon
	offset := hexgrid.NeighborOffsets[dir]
	damage := w.Damage
	remaining := w.Pierce

	for c := shooter.Hex.Add(offset); r.grid.Contains(c); c = c.Add(offset) {
		id, occupied := r.grid.OccupantAt(c)
		if !occupied {
			continue
		}
		target, ok := lookup(id)
		if !ok || target.IsDead() {
			continue
		}
		if w.PlayerOnly && !target.IsPlayer() {
			// Friendly-fire suppression: the shot passes through.
			continue
		}
		r.ApplyHit(target, shooter.ID, shooter.AIType, damage)
		if remaining > 0 {
			remaining--
			damage = 1
			continue
		}
		return
	}
}

// aimDirection picks the canonical neighbor direction whose first step
// closes the most distance toward target. Ties break on the lowest index.
func aimDirection(from, target hexgrid.Coord) int {
	if dir, _, ok := hexgrid.Aligned(from, target); ok {
		return dir
	}
	best, bestDist := 0, math.MaxInt
	for i, off := range hexgrid.NeighborOffsets {
		d := hexgrid.Distance(from.Add(off), target)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// rayDirections expands a weapon geometry into neighbor direction indices
// around the aim, in emission order. Spread steps are quantized to whole
// directions; Single and Beam are one ray along the aim.
func rayDirections(aim int, g weapon.Geometry) []int {
	if g.Kind != weapon.Spread || g.Count <= 1 {
		return []int{aim}
	}
	step := int(math.Round(g.AngleStep / 60))
	if step < 1 {
		step = 1
	}
	dirs := make([]int, 0, g.Count)
	dirs = append(dirs, aim)
	for k := 1; len(dirs) < g.Count; k++ {
		dirs = append(dirs, mod6(aim+k*step))
		if len(dirs) < g.Count {
			dirs = append(dirs, mod6(aim-k*step))
		}
	}
	return dirs
}

func mod6(i int) int {
	return ((i % 6) + 6) % 6
}
