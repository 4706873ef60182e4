// Package battle assembles a playable encounter from content: arena
// definition, pawn templates, modifier allowance, and the optional script
// veto, wired into a turn coordinator.
package battle

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
	"github.com/cory-johannsen/skirmish/internal/game/rng"
	"github.com/cory-johannsen/skirmish/internal/game/turn"
)

// ModifierVeto lets the arena script reject a rolled modifier for a pawn.
// A nil veto permits everything.
type ModifierVeto func(modifierName, aiType string) bool

// Battle is one assembled encounter.
type Battle struct {
	Definition  *arena.Definition
	Grid        *hexgrid.Grid
	Player      *pawn.Pawn
	Opponents   []*pawn.Pawn
	Coordinator *turn.Coordinator
}

// Assemble builds the encounter the definition describes: spawns the player
// and every templated opponent, rolls modifier assignments under the
// arena's allowance, and seats everyone through a turn coordinator.
//
// Precondition: def must be validated; every referenced template must exist.
func Assemble(def *arena.Definition, templates map[string]*pawn.Template, table *modifier.Table, src rng.Source, bus *events.Bus, logger *zap.Logger, veto ModifierVeto) (*Battle, error) {
	grid := def.Grid()
	player := pawn.NewPlayer("player-"+uuid.NewString()[:8], def.PlayerSpawn.Coord())

	assignments := def.Allowance().RollAssignments(src)
	opponents := make([]*pawn.Pawn, 0, len(def.Opponents))
	for i, spawn := range def.Opponents {
		tmpl, ok := templates[spawn.Template]
		if !ok {
			return nil, fmt.Errorf("battle: arena %s references unknown template %q", def.Name, spawn.Template)
		}
		mod := modifier.None
		if i < len(assignments) {
			mod = assignments[i]
		}
		if mod != modifier.None && veto != nil && !veto(mod.String(), tmpl.AIType) {
			logger.Info("modifier vetoed by arena script",
				zap.String("modifier", mod.String()),
				zap.String("template", tmpl.ID),
			)
			mod = modifier.None
		}
		id := fmt.Sprintf("%s-%d-%s", tmpl.ID, i, uuid.NewString()[:8])
		opponents = append(opponents, pawn.NewOpponent(id, tmpl, mod, table.Effects(mod), spawn.Spawn.Coord()))
	}

	coord, err := turn.NewCoordinator(grid, table, src, bus, logger, player, opponents)
	if err != nil {
		return nil, err
	}
	logger.Info("battle assembled",
		zap.String("arena", def.Name),
		zap.Int("opponents", len(opponents)),
	)
	return &Battle{
		Definition:  def,
		Grid:        grid,
		Player:      player,
		Opponents:   opponents,
		Coordinator: coord,
	}, nil
}

// Autoplay drives the player with a simple chase policy until the turn
// phase ends or maxRounds elapses: capture an adjacent opponent when
// possible, otherwise step toward the nearest living one.
//
// Postcondition: Returns the coordinator's final state.
func (b *Battle) Autoplay(maxRounds int, logger *zap.Logger) turn.State {
	c := b.Coordinator
	for i := 0; i < maxRounds && c.State() == turn.StateAwaitingPlayer; i++ {
		dir, ok := b.chooseDir()
		if !ok {
			logger.Warn("player has no legal move; ending autoplay")
			break
		}
		if err := c.SubmitPlayerMove(dir); err != nil {
			logger.Warn("autoplay move rejected", zap.Error(err))
			break
		}
	}
	return c.State()
}

// chooseDir picks the player direction: an adjacent opponent first,
// otherwise the open neighbor closest to the nearest living opponent.
func (b *Battle) chooseDir() (int, bool) {
	target, ok := b.nearestOpponent()
	if !ok {
		return 0, false
	}
	best, bestDist, found := 0, -1, false
	for dir, n := range b.Player.Hex.Neighbors() {
		if n == target.Hex {
			return dir, true
		}
		if !b.Grid.IsOpen(n) {
			continue
		}
		d := hexgrid.Distance(n, target.Hex)
		if !found || d < bestDist {
			best, bestDist, found = dir, d, true
		}
	}
	return best, found
}

func (b *Battle) nearestOpponent() (*pawn.Pawn, bool) {
	var target *pawn.Pawn
	bestDist := -1
	for _, o := range b.Opponents {
		if !o.Alive {
			continue
		}
		d := hexgrid.Distance(b.Player.Hex, o.Hex)
		if bestDist < 0 || d < bestDist {
			target, bestDist = o, d
		}
	}
	return target, target != nil
}
