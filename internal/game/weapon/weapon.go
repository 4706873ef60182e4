// Package weapon models fire modes, projectile geometry, and the per-weapon
// timer state machine. Damage application lives in the combat package; this
// package only decides when a weapon fires and what it emits.
package weapon

import (
	"math"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/modifier"
)

// FireMode selects the trigger policy for a weapon.
type FireMode int

const (
	// Manual weapons fire only on an explicit command.
	Manual FireMode = iota
	// OnLineOfSight weapons fire when a target enters line of sight.
	OnLineOfSight
	// TrackPlayer weapons continuously track the player and fire on the
	// interval timer.
	TrackPlayer
	// Timed weapons fire on the interval timer without tracking.
	Timed
)

// String returns the lowercase fire mode name.
func (m FireMode) String() string {
	switch m {
	case Manual:
		return "manual"
	case OnLineOfSight:
		return "on_line_of_sight"
	case TrackPlayer:
		return "track_player"
	case Timed:
		return "timed"
	default:
		return "unknown"
	}
}

// GeometryKind selects the projectile pattern a weapon emits.
type GeometryKind int

const (
	// Single emits one projectile along the current aim.
	Single GeometryKind = iota
	// Spread emits Count projectiles fanned around the aim by AngleStep.
	Spread
	// Beam emits one piercing projectile.
	Beam
)

// Geometry describes a weapon's projectile pattern. Count and AngleStep are
// meaningful for Spread only.
type Geometry struct {
	Kind      GeometryKind
	Count     int
	AngleStep float64 // degrees between adjacent spread projectiles
}

// SpreadAngles returns the aim-relative angles for a spread of the given
// count and step, in emission order: {0, +step, -step, +2*step, -2*step, ...}.
//
// Precondition: count >= 1.
// Postcondition: len(result) == count; result[0] == 0.
func SpreadAngles(count int, step float64) []float64 {
	out := make([]float64, 0, count)
	out = append(out, 0)
	for k := 1; len(out) < count; k++ {
		out = append(out, float64(k)*step)
		if len(out) < count {
			out = append(out, -float64(k)*step)
		}
	}
	return out
}

// Phase is the weapon timer state in the continuous phase.
type Phase int

const (
	// PhaseTracking: the gun angle follows line of sight while the fire
	// interval elapses.
	PhaseTracking Phase = iota
	// PhaseAimHold: aim is locked and motion stops while the firing delay
	// elapses.
	PhaseAimHold
	// PhaseFired: the weapon has just emitted; the next advance returns it
	// to tracking.
	PhaseFired
)

// Weapon is owned one-to-one by an armed pawn. It is reconfigured in place
// when a modifier attaches or when the pawn's AI type converts at the phase
// boundary; it is never recreated.
type Weapon struct {
	Mode     FireMode
	Geometry Geometry
	// Damage is the per-contact base damage.
	Damage int
	// Pierce is the number of additional contacts after the first before
	// the projectile despawns.
	Pierce int
	// FireInterval is the tracking time before each aim hold.
	FireInterval time.Duration
	// FiringDelay is the aim-hold time before emission.
	FiringDelay time.Duration
	// AimAngle is the current gun angle in degrees.
	AimAngle float64
	// InstantAim locks AimAngle to the target angle instead of slewing.
	InstantAim bool
	// PlayerOnly restricts damage to the player (friendly-fire suppression).
	PlayerOnly bool
	// FiresOnSight grants the line-of-sight extra shot in the turn phase.
	FiresOnSight bool

	phase   Phase
	elapsed time.Duration
}

// Reconfigure applies a modifier's effect record to the weapon in place.
// Interval and delay scaling compound on the current values, so it must be
// called once per attachment.
//
// Postcondition: The timer phase is reset to PhaseTracking.
func (w *Weapon) Reconfigure(eff modifier.Effects) {
	w.FireInterval = time.Duration(float64(w.FireInterval) * eff.FireIntervalScale)
	w.FiringDelay = time.Duration(float64(w.FiringDelay) * eff.FiringDelayScale)
	w.InstantAim = w.InstantAim || eff.InstantAim
	w.PlayerOnly = w.PlayerOnly || eff.PlayerOnlyDamage
	w.FiresOnSight = w.FiresOnSight || eff.FiresOnSight
	w.Reset()
}

// Phase returns the current timer phase.
func (w *Weapon) Phase() Phase { return w.phase }

// Reset returns the weapon to tracking with a fresh interval.
func (w *Weapon) Reset() {
	w.phase = PhaseTracking
	w.elapsed = 0
}

// Track slews AimAngle toward targetAngle at turnRate degrees per second,
// or snaps immediately when InstantAim is set. Aim only moves while
// tracking; during aim hold the angle is frozen.
func (w *Weapon) Track(targetAngle float64, dt time.Duration, turnRate float64) {
	if w.phase != PhaseTracking {
		return
	}
	if w.InstantAim {
		w.AimAngle = targetAngle
		return
	}
	delta := normDeg(targetAngle - w.AimAngle)
	maxStep := turnRate * dt.Seconds()
	if math.Abs(delta) <= maxStep {
		w.AimAngle = targetAngle
		return
	}
	if delta > 0 {
		w.AimAngle = normDeg(w.AimAngle + maxStep)
	} else {
		w.AimAngle = normDeg(w.AimAngle - maxStep)
	}
}

// Advance progresses the timer state machine by dt and reports whether the
// weapon fired on this step. The cycle is Tracking -(FireInterval)->
// AimHold -(FiringDelay)-> Fired -> Tracking.
//
// Precondition: dt >= 0.
// Postcondition: Returns true exactly on the step entering PhaseFired.
func (w *Weapon) Advance(dt time.Duration) bool {
	switch w.phase {
	case PhaseTracking:
		w.elapsed += dt
		if w.elapsed >= w.FireInterval {
			w.phase = PhaseAimHold
			w.elapsed = 0
		}
		return false
	case PhaseAimHold:
		w.elapsed += dt
		if w.elapsed >= w.FiringDelay {
			w.phase = PhaseFired
			w.elapsed = 0
			return true
		}
		return false
	case PhaseFired:
		w.phase = PhaseTracking
		w.elapsed = 0
		return false
	default:
		return false
	}
}

// normDeg normalizes an angle to (-180, 180].
func normDeg(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
