// Package combat applies damage and owns the death path. Every HP change in
// either phase flows through the Resolver so the bounded-HP invariant and
// the exactly-once death processing hold everywhere.
package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
)

// ExpulsionImpulse is the magnitude of the one-shot displacement a dying
// pawn receives toward the nearer board edge.
const ExpulsionImpulse = 6.0

// Resolver applies damage, publishes the resulting events, and runs the
// death path. It never mutates a dead pawn: a hit against a pawn whose
// death already processed is discarded.
type Resolver struct {
	grid   *hexgrid.Grid
	bus    *events.Bus
	logger *zap.Logger
}

// NewResolver creates a Resolver bound to the battle board and event bus.
//
// Precondition: bus and logger must be non-nil; grid may be nil during the
// standoff phase, where board occupancy no longer exists.
func NewResolver(grid *hexgrid.Grid, bus *events.Bus, logger *zap.Logger) *Resolver {
	return &Resolver{grid: grid, bus: bus, logger: logger}
}

// ApplyHit applies amount damage from attacker to target. A dead target or
// a non-positive amount is a no-op. Reaching zero HP runs the death path.
//
// Postcondition: target.CurrentHP >= 0; the death path runs at most once
// per pawn.
func (r *Resolver) ApplyHit(target *pawn.Pawn, attackerID string, attackerType pawn.AIType, amount int) {
	if target.IsDead() || amount <= 0 {
		return
	}
	target.ApplyDamage(amount)
	r.bus.PublishDamage(events.DamageTaken{
		TargetID:     target.ID,
		AttackerID:   attackerID,
		AttackerType: attackerType,
		Amount:       amount,
		Remaining:    target.CurrentHP,
	})
	r.logger.Debug("damage applied",
		zap.String("target", target.ID),
		zap.String("attacker", attackerID),
		zap.Int("amount", amount),
		zap.Int("remaining", target.CurrentHP),
	)
	if target.CurrentHP == 0 {
		r.kill(target)
	}
}

// ApplyCapture resolves the player stepping onto target's tile: a
// guaranteed kill regardless of remaining HP, including doubled Tenacious HP.
//
// Precondition: attacker is the player pawn.
// Postcondition: target is dead.
func (r *Resolver) ApplyCapture(attacker, target *pawn.Pawn) {
	if target.IsDead() {
		return
	}
	r.ApplyHit(target, attacker.ID, attacker.AIType, target.CurrentHP)
}

// ApplyTouch resolves standoff-phase body contact between the player and
// the final opponent. Same guarantee as a capture.
func (r *Resolver) ApplyTouch(attacker, target *pawn.Pawn) {
	r.ApplyCapture(attacker, target)
}

// kill runs the death path: clear Alive, free the board tile, and publish
// the death with its expulsion impulse.
func (r *Resolver) kill(target *pawn.Pawn) {
	target.Alive = false
	if r.grid != nil {
		if id, ok := r.grid.OccupantAt(target.Hex); ok && id == target.ID {
			r.grid.Vacate(target.Hex)
		}
	}
	r.bus.PublishDeath(events.PawnDied{
		ID:        target.ID,
		Kind:      target.Kind,
		AIType:    target.AIType,
		Modifier:  target.Modifier,
		Expulsion: r.expulsion(target),
	})
	r.logger.Info("pawn died",
		zap.String("id", target.ID),
		zap.String("ai_type", target.AIType.String()),
		zap.String("modifier", target.Modifier.String()),
	)
}

// expulsion picks the displacement toward the nearer horizontal edge. On the
// board the tile position decides; off the board (standoff) the world
// position does.
func (r *Resolver) expulsion(target *pawn.Pawn) geom.Vec2 {
	side := 1.0
	if r.grid != nil && r.grid.Contains(target.Hex) {
		side = float64(r.grid.EdgeSide(target.Hex))
	} else if target.Pos.X < 0 {
		side = -1.0
	}
	return geom.Vec2{X: side * ExpulsionImpulse}
}

// Hit is one pending damage application collected during a standoff tick.
type Hit struct {
	Target       *pawn.Pawn
	AttackerID   string
	AttackerType pawn.AIType
	Amount       int
}

// Queue collects hits during a tick so all damage of the tick applies in
// one place, in collection order. Not safe for concurrent use; the standoff
// loop is single-threaded.
type Queue struct {
	hits []Hit
}

// Push appends a pending hit.
func (q *Queue) Push(h Hit) {
	q.hits = append(q.hits, h)
}

// Drain applies every pending hit through the resolver and empties the
// queue. Hits against pawns that died earlier in the same drain are
// discarded by the resolver.
func (q *Queue) Drain(r *Resolver) {
	for _, h := range q.hits {
		r.ApplyHit(h.Target, h.AttackerID, h.AttackerType, h.Amount)
	}
	q.hits = q.hits[:0]
}

// Len returns the number of pending hits.
func (q *Queue) Len() int { return len(q.hits) }
