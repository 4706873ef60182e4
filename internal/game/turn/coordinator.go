// Package turn runs the turn-based combat phase: the player acts, every
// living opponent takes its scripted sub-steps, and the round resolves into
// either another round, a terminal state, or the standoff handoff.
package turn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/decision"
	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
	"github.com/cory-johannsen/skirmish/internal/game/rng"
	"github.com/cory-johannsen/skirmish/internal/game/weapon"
)

// State is the coordinator's round state machine.
type State int

const (
	// StateAwaitingPlayer: the coordinator is waiting for the player's move.
	StateAwaitingPlayer State = iota
	// StateStandoff: the phase handoff fired; the turn phase is over.
	StateStandoff
	// StateVictory: every opponent is dead.
	StateVictory
	// StateDefeat: the player is dead.
	StateDefeat
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateAwaitingPlayer:
		return "awaiting_player"
	case StateStandoff:
		return "standoff"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Coordinator owns the turn-phase round loop. One SubmitPlayerMove call
// runs a full round: the player's action, then every living opponent's
// sub-steps in roster order, then resolution. All processing is
// synchronous on the caller's goroutine.
type Coordinator struct {
	grid     *hexgrid.Grid
	table    *modifier.Table
	engine   *decision.Engine
	resolver *combat.Resolver
	bus      *events.Bus
	logger   *zap.Logger

	player    *pawn.Pawn
	opponents []*pawn.Pawn
	byID      map[string]*pawn.Pawn
	hadLOS    map[string]bool

	round int
	state State
}

// NewCoordinator seats the pawns on the board and prepares the round loop.
//
// Precondition: all pawn positions must be distinct active tiles.
func NewCoordinator(grid *hexgrid.Grid, table *modifier.Table, src rng.Source, bus *events.Bus, logger *zap.Logger, player *pawn.Pawn, opponents []*pawn.Pawn) (*Coordinator, error) {
	c := &Coordinator{
		grid:      grid,
		table:     table,
		engine:    decision.NewEngine(grid, table, src, logger),
		resolver:  combat.NewResolver(grid, bus, logger),
		bus:       bus,
		logger:    logger,
		player:    player,
		opponents: opponents,
		byID:      make(map[string]*pawn.Pawn, len(opponents)+1),
		hadLOS:    make(map[string]bool, len(opponents)),
		state:     StateAwaitingPlayer,
	}
	if err := grid.Occupy(player.Hex, player.ID); err != nil {
		return nil, fmt.Errorf("turn: seating player: %w", err)
	}
	c.byID[player.ID] = player
	for _, o := range opponents {
		if err := grid.Occupy(o.Hex, o.ID); err != nil {
			return nil, fmt.Errorf("turn: seating opponent %s: %w", o.ID, err)
		}
		c.byID[o.ID] = o
		c.hadLOS[o.ID] = grid.LineOfSight(o.Hex, player.Hex)
	}
	return c, nil
}

// State returns the current round state.
func (c *Coordinator) State() State { return c.state }

// Round returns the completed round count.
func (c *Coordinator) Round() int { return c.round }

// Player returns the player pawn.
func (c *Coordinator) Player() *pawn.Pawn { return c.player }

// LivingOpponents returns the living opponents in roster order.
func (c *Coordinator) LivingOpponents() []*pawn.Pawn {
	var out []*pawn.Pawn
	for _, o := range c.opponents {
		if o.Alive {
			out = append(out, o)
		}
	}
	return out
}

// lookup resolves a roster pawn for shot resolution.
func (c *Coordinator) lookup(id string) (*pawn.Pawn, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// SubmitPlayerMove runs one full round with the player moving in direction
// dir. Stepping onto an opponent's tile is a capture. In a terminal state
// the call is a recorded no-op.
//
// Postcondition: On success the round either advanced or ended in a
// terminal or handoff state; on error the board is unchanged.
func (c *Coordinator) SubmitPlayerMove(dir int) error {
	if c.state != StateAwaitingPlayer {
		c.logger.Debug("move submitted after phase end", zap.String("state", c.state.String()))
		return nil
	}
	if dir < 0 || dir >= len(hexgrid.NeighborOffsets) {
		return fmt.Errorf("turn: direction %d out of range", dir)
	}
	dest := c.player.Hex.Add(hexgrid.NeighborOffsets[dir])
	if !c.grid.Contains(dest) {
		return fmt.Errorf("turn: destination %v is off the board", dest)
	}

	living := len(c.LivingOpponents())
	c.round++
	c.bus.PublishTurn(events.TurnChanged{OwnerID: c.player.ID, Round: c.round})

	if id, occupied := c.grid.OccupantAt(dest); occupied {
		target, ok := c.byID[id]
		if !ok || target.IsPlayer() {
			return fmt.Errorf("turn: destination %v is not enterable", dest)
		}
		c.resolver.ApplyCapture(c.player, target)
		c.engine.Forget(target.ID)
	}
	if err := c.grid.Move(c.player.Hex, dest, c.player.ID); err != nil {
		return fmt.Errorf("turn: player move: %w", err)
	}
	c.player.Hex = dest

	c.sightSweep()
	c.opponentSequence()
	c.resolveRound(living)
	return nil
}

// opponentSequence runs every living opponent's sub-steps in roster order:
// fire if armed, then its weighted moves, with the on-sight extra shot
// checked after each move. The sequence aborts as soon as the player dies.
func (c *Coordinator) opponentSequence() {
	for _, o := range c.opponents {
		if !o.Alive || c.player.IsDead() {
			return
		}
		c.bus.PublishTurn(events.TurnChanged{OwnerID: o.ID, Round: c.round})

		if c.firesAtTurnStart(o) {
			c.resolver.FireTurnShot(o, c.player.Hex, c.lookup)
			if c.player.IsDead() {
				return
			}
		}

		for i := 0; i < c.engine.MovesPerTurn(o); i++ {
			m := c.engine.PickMove(o, c.player.Hex)
			if m.Stayed {
				continue
			}
			if err := c.grid.Move(o.Hex, m.To, o.ID); err != nil {
				// The board changed since the weights were computed; a
				// blocked move degrades to a stay.
				c.logger.Warn("opponent move rejected", zap.String("id", o.ID), zap.Error(err))
				continue
			}
			o.Hex = m.To
			c.checkSightFire(o)
			if c.player.IsDead() {
				return
			}
		}
	}
}

// sightSweep re-evaluates the line-of-sight edge for every living opponent
// after the player's move. Sight is positional, so the player's step is the
// only way an opponent that cannot move ever gains it; without this sweep a
// boxed-in pawn would miss its on-sight shot.
func (c *Coordinator) sightSweep() {
	for _, o := range c.opponents {
		if !o.Alive {
			continue
		}
		c.checkSightFire(o)
		if c.player.IsDead() {
			return
		}
	}
}

// firesAtTurnStart reports whether o's weapon fires at the top of its turn.
// Manual weapons never fire autonomously; a sight-gated weapon needs the
// player in line of sight.
func (c *Coordinator) firesAtTurnStart(o *pawn.Pawn) bool {
	w := o.Weapon
	if w == nil || w.Mode == weapon.Manual {
		return false
	}
	if w.Mode == weapon.OnLineOfSight {
		return c.grid.LineOfSight(o.Hex, c.player.Hex)
	}
	return true
}

// checkSightFire grants the on-sight extra shot to a weapon configured for
// it, exactly on the move that establishes line of sight.
func (c *Coordinator) checkSightFire(o *pawn.Pawn) {
	has := c.grid.LineOfSight(o.Hex, c.player.Hex)
	had := c.hadLOS[o.ID]
	c.hadLOS[o.ID] = has
	if had || !has || o.Weapon == nil || o.Weapon.Mode == weapon.Manual {
		return
	}
	if o.Weapon.FiresOnSight || o.Weapon.Mode == weapon.OnLineOfSight {
		c.resolver.FireTurnShot(o, c.player.Hex, c.lookup)
	}
}

// resolveRound decides the round outcome. livingBefore is the living
// opponent count at the top of the round; the standoff handoff triggers
// only when the count drops from two or more to exactly one.
func (c *Coordinator) resolveRound(livingBefore int) {
	if c.player.IsDead() {
		c.state = StateDefeat
		c.bus.PublishPhase(events.PhaseChanged{From: "turn", To: "defeat"})
		return
	}
	living := c.LivingOpponents()
	switch {
	case len(living) == 0:
		c.state = StateVictory
		c.bus.PublishPhase(events.PhaseChanged{From: "turn", To: "victory"})
	case len(living) == 1 && livingBefore >= 2:
		c.beginStandoff(living[0])
	}
}

// beginStandoff converts the survivor for the continuous phase and
// announces the handoff. A Basic survivor is re-armed as a handcannon;
// armed survivors keep their weapon.
func (c *Coordinator) beginStandoff(survivor *pawn.Pawn) {
	if survivor.AIType == pawn.Basic {
		survivor.ConvertAIType(pawn.Handcannon, c.table.Effects(survivor.Modifier))
	}
	c.state = StateStandoff
	c.bus.PublishPhase(events.PhaseChanged{From: "turn", To: "standoff"})
	c.logger.Info("standoff handoff",
		zap.String("survivor", survivor.ID),
		zap.String("ai_type", survivor.AIType.String()),
	)
}
