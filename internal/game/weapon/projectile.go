package weapon

import (
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/geom"
)

// Projectile is an in-flight shot in the continuous phase. It despawns on
// contact unless it retains pierce budget.
type Projectile struct {
	ID string
	// OwnerID is the firing pawn's ID; a projectile never damages its owner.
	OwnerID string
	Pos     geom.Vec2
	Vel     geom.Vec2
	// Damage is applied on the next contact.
	Damage int
	// Pierce is the remaining number of contacts the projectile survives.
	Pierce int
	// PlayerOnly restricts valid damage targets to the player.
	PlayerOnly bool
	// Live is false once the projectile has despawned.
	Live bool
}

// Emit spawns the weapon's projectile pattern from origin at the current
// aim angle. Spread geometry fans Count projectiles by AngleStep; Single
// and Beam emit one.
//
// Precondition: speed > 0.
// Postcondition: Every projectile is Live with the weapon's damage, pierce,
// and target restriction.
func (w *Weapon) Emit(ownerID string, origin geom.Vec2, speed float64) []*Projectile {
	var angles []float64
	switch w.Geometry.Kind {
	case Spread:
		count := w.Geometry.Count
		if count < 1 {
			count = 1
		}
		angles = SpreadAngles(count, w.Geometry.AngleStep)
	default:
		angles = []float64{0}
	}

	out := make([]*Projectile, 0, len(angles))
	for _, offset := range angles {
		dir := geom.FromAngleDeg(w.AimAngle + offset)
		out = append(out, &Projectile{
			ID:         uuid.New().String(),
			OwnerID:    ownerID,
			Pos:        origin,
			Vel:        dir.Scale(speed),
			Damage:     w.Damage,
			Pierce:     w.Pierce,
			PlayerOnly: w.PlayerOnly,
			Live:       true,
		})
	}
	return out
}

// Step advances the projectile by dt scaled by the shared time scale.
//
// Precondition: the time scale is immutable for the tick.
func (p *Projectile) Step(dt time.Duration, timeScale float64) {
	if !p.Live {
		return
	}
	p.Pos = p.Pos.Add(p.Vel.Scale(dt.Seconds() * timeScale))
}

// HitDamage returns the damage the projectile applies on its next contact.
func (p *Projectile) HitDamage() int { return p.Damage }

// OnHit consumes one contact. While pierce budget remains the projectile
// survives and its follow-up damage drops to 1; otherwise it despawns.
//
// Postcondition: Returns true iff the projectile despawned. A beam with
// Damage=2, Pierce=1 deals 2 on first contact and 1 on the second, then
// despawns; a third contact cannot occur.
func (p *Projectile) OnHit() bool {
	if p.Pierce > 0 {
		p.Pierce--
		p.Damage = 1
		return false
	}
	p.Live = false
	return true
}
