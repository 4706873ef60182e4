package decision

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
)

// Targeting-band constants for the standoff phase, in world units.
const (
	// HandcannonBandMin/Max bound the distance band a handcannon holds:
	// approach beyond the band, retreat inside it, idle within.
	HandcannonBandMin = 2.0
	HandcannonBandMax = 4.0
	// SniperRetreatDist is the distance below which a sniper backs away.
	SniperRetreatDist = 3.0
)

// Probes answers the three jump-eligibility questions against the arena's
// walkable platform set. dirX is the horizontal movement sign (-1 or +1).
type Probes interface {
	// ForwardBlocked reports an obstacle directly ahead.
	ForwardBlocked(pos geom.Vec2, dirX float64) bool
	// EdgeAhead reports a downward edge at the near lookahead.
	EdgeAhead(pos geom.Vec2, dirX float64) bool
	// GapAhead reports missing far ground with landable ground beyond.
	GapAhead(pos geom.Vec2, dirX float64) bool
}

// Intent is one standoff-phase movement decision.
type Intent struct {
	// Move is the velocity direction scaled by the pawn's speed factor
	// (Fleet applies 1.25); zero means idle.
	Move geom.Vec2
	// Jump is true when any of the three probes triggers.
	Jump bool
}

// Steer computes the movement intent for one opponent on its decision tick.
// The branch per AI type is the targeting-band strategy:
//
//	Basic, Shotgun — always move toward the player.
//	Handcannon     — hold the [2, 4] band.
//	Sniper         — retreat below the threshold, otherwise idle and track.
//
// Precondition: p must be a living opponent; probes may be nil (no jumps).
func (e *Engine) Steer(p *pawn.Pawn, player geom.Vec2, probes Probes) Intent {
	dist := geom.Dist(p.Pos, player)
	toward := 1.0
	if player.X < p.Pos.X {
		toward = -1.0
	}

	var dirX float64
	switch p.AIType {
	case pawn.Basic, pawn.Shotgun:
		dirX = toward
	case pawn.Handcannon:
		switch {
		case dist > HandcannonBandMax:
			dirX = toward
		case dist < HandcannonBandMin:
			dirX = -toward
		}
	case pawn.Sniper:
		if dist < SniperRetreatDist {
			dirX = -toward
		}
	default:
		// Unknown profile: degrade to the Basic band with a diagnostic,
		// mirroring the turn-based degradation policy.
		if !e.warned[p.AIType] {
			e.warned[p.AIType] = true
			e.logger.Warn("no targeting band configured; degrading to basic",
				zap.String("ai_type", p.AIType.String()),
			)
		}
		dirX = toward
	}

	intent := Intent{}
	if dirX != 0 {
		scale := e.table.Effects(p.Modifier).MoveSpeedScale
		intent.Move = geom.Vec2{X: dirX * scale}
	}
	if probes != nil && dirX != 0 {
		intent.Jump = probes.ForwardBlocked(p.Pos, dirX) ||
			probes.EdgeAhead(p.Pos, dirX) ||
			probes.GapAhead(p.Pos, dirX)
	}
	return intent
}
