package decision

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
	"github.com/cory-johannsen/skirmish/internal/game/rng"
)

// Move is the outcome of one weighted pick. Stayed is the explicit no-op
// when a pawn has no legal direction; it is not an error.
type Move struct {
	Dir    int
	To     hexgrid.Coord
	Stayed bool
}

// cacheEntry remembers the last weight computation for the
// recompute-on-change contract.
type cacheEntry struct {
	from   hexgrid.Coord
	player hexgrid.Coord
	moves  []WeightedMove
}

// Engine produces movement decisions for opponent pawns. All state it
// mutates is its own; board mutation belongs to the caller.
//
// Invariant: a decision failure never propagates — a mis-weighted pawn
// stays in place, it does not block turn progression.
type Engine struct {
	grid     *hexgrid.Grid
	table    *modifier.Table
	src      rng.Source
	logger   *zap.Logger
	profiles map[pawn.AIType]profile
	cache    map[string]cacheEntry
	warned   map[pawn.AIType]bool
}

// NewEngine creates an Engine with the built-in behavior profiles. AI
// types without a configured profile degrade to Basic weighting with a
// diagnostic, per the configuration-error policy.
//
// Precondition: grid, table, src, and logger must be non-nil.
func NewEngine(grid *hexgrid.Grid, table *modifier.Table, src rng.Source, logger *zap.Logger) *Engine {
	return &Engine{
		grid:     grid,
		table:    table,
		src:      src,
		logger:   logger,
		profiles: defaultProfiles(),
		cache:    make(map[string]cacheEntry),
		warned:   make(map[pawn.AIType]bool),
	}
}

// profileFor resolves the weighting profile for t, degrading to Basic
// weighting when no profile is configured. The degradation is non-fatal
// and surfaces a diagnostic once per AI type.
func (e *Engine) profileFor(t pawn.AIType) profile {
	if pr, ok := e.profiles[t]; ok {
		return pr
	}
	if !e.warned[t] {
		e.warned[t] = true
		e.logger.Warn("no behavior profile configured; degrading to basic weighting",
			zap.String("ai_type", t.String()),
		)
	}
	return basicProfile
}

// Weights returns the current legal weighted candidates for p against the
// player position. Exposed for the coordinator's diagnostics and tests.
func (e *Engine) Weights(p *pawn.Pawn, player hexgrid.Coord) []WeightedMove {
	return e.weightsCached(p, player)
}

// weightsCached applies the recompute-on-change contract: a Reflexive
// pawn's weights are recomputed when the player (or the pawn itself) has
// moved since the last computation and reused otherwise. Non-Reflexive
// pawns recompute every call.
func (e *Engine) weightsCached(p *pawn.Pawn, player hexgrid.Coord) []WeightedMove {
	if p.Modifier == modifier.Reflexive {
		if entry, ok := e.cache[p.ID]; ok && entry.from == p.Hex && entry.player == player {
			return entry.moves
		}
	}
	moves := computeWeights(e.profileFor(p.AIType), p.Hex, player, e.grid.IsOpen)
	e.cache[p.ID] = cacheEntry{from: p.Hex, player: player, moves: moves}
	return moves
}

// PickMove draws one weighted move for p. When no legal direction exists
// the pawn stays in place — an explicit no-op, not an error.
//
// Precondition: p must be a living opponent pawn occupying p.Hex.
// Postcondition: A non-stay result is always a legal destination.
func (e *Engine) PickMove(p *pawn.Pawn, player hexgrid.Coord) Move {
	moves := e.weightsCached(p, player)
	if len(moves) == 0 {
		return Move{Stayed: true}
	}
	weights := make([]int, len(moves))
	for i, m := range moves {
		weights[i] = m.Weight
	}
	i, ok := rng.WeightedIndex(weights, e.src)
	if !ok {
		// Weights are >= 1 by construction; treat a failed draw as a stay
		// rather than blocking the turn.
		return Move{Stayed: true}
	}
	return Move{Dir: moves[i].Dir, To: moves[i].To}
}

// MovesPerTurn returns the number of weighted picks p performs in one turn.
// Fleet grants a second independent pick without granting a second fire.
func (e *Engine) MovesPerTurn(p *pawn.Pawn) int {
	return 1 + e.table.Effects(p.Modifier).ExtraMoves
}

// Forget drops the cached computation for a pawn, used when it leaves the
// simulation.
func (e *Engine) Forget(id string) {
	delete(e.cache, id)
}
