// Command skirmish runs one full battle from content files: the turn-based
// phase under a simple autoplayer, then the continuous standoff when the
// roster drops to a single survivor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/decision"
	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
	"github.com/cory-johannsen/skirmish/internal/game/rng"
	"github.com/cory-johannsen/skirmish/internal/game/standoff"
	"github.com/cory-johannsen/skirmish/internal/game/turn"
	"github.com/cory-johannsen/skirmish/internal/lifecycle"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	maxRounds := flag.Int("max-rounds", 200, "turn-phase round cap for the autoplayer")
	standoffTimeout := flag.Duration("standoff-timeout", 60*time.Second, "wall-clock cap on the standoff phase")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *maxRounds, *standoffTimeout); err != nil {
		logger.Fatal("battle failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger, maxRounds int, standoffTimeout time.Duration) error {
	table := modifier.DefaultTable()
	if cfg.Content.ModifiersFile != "" {
		var err error
		table, err = modifier.LoadTable(cfg.Content.ModifiersFile)
		if err != nil {
			return err
		}
	}
	templates, err := pawn.LoadTemplates(cfg.Content.TemplatesDir)
	if err != nil {
		return err
	}
	arenas, err := arena.LoadDirectory(cfg.Content.ArenasDir)
	if err != nil {
		return err
	}
	def, ok := arenas[cfg.Game.Arena]
	if !ok {
		return fmt.Errorf("arena %q not found in %s", cfg.Game.Arena, cfg.Content.ArenasDir)
	}

	var src rng.Source
	if cfg.Game.Seed != 0 {
		src = rng.NewSeeded(cfg.Game.Seed)
	} else {
		src = rng.NewCryptoSource()
	}
	bus := events.NewBus(cfg.Game.EventBuffer)
	defer bus.Close()

	scripts := scripting.NewManager(logger)
	defer scripts.Close()
	var veto battle.ModifierVeto
	if def.Script != "" {
		path := filepath.Join(cfg.Content.ArenasDir, def.Script)
		if err := scripts.LoadArena(def.Name, path, cfg.Content.ScriptInstructionLimit); err != nil {
			return err
		}
		veto = func(mod, aiType string) bool {
			return scripts.AllowModifier(def.Name, mod, aiType)
		}
	}

	b, err := battle.Assemble(def, templates, table, src, bus, logger, veto)
	if err != nil {
		return err
	}
	scripts.GetPawn = pawnLookup(b)
	scripts.OnBattleStart(def.Name)

	watcherDone := make(chan struct{})
	go watchEvents(bus, logger, scripts, def.Name, watcherDone)

	state := b.Autoplay(maxRounds, logger)
	logger.Info("turn phase over",
		zap.String("state", state.String()),
		zap.Int("rounds", b.Coordinator.Round()),
	)

	if state == turn.StateStandoff {
		if err := runStandoff(cfg, logger, table, src, bus, b, def, standoffTimeout); err != nil {
			return err
		}
	}

	bus.Close()
	<-watcherDone
	return nil
}

// runStandoff hands the survivor to the continuous phase and drives the
// player toward it until a terminal outcome or the timeout.
func runStandoff(cfg config.Config, logger *zap.Logger, table *modifier.Table, src rng.Source, bus *events.Bus, b *battle.Battle, def *arena.Definition, timeout time.Duration) error {
	survivor := b.Coordinator.LivingOpponents()[0]
	engine := decision.NewEngine(b.Grid, table, src, logger)
	resolver := combat.NewResolver(nil, bus, logger)
	runner := standoff.NewRunner(standoffConfig(cfg.Standoff), b.Player, survivor, engine, resolver, bus, logger, def.Probes())
	runner.SetTimeScale(cfg.Standoff.TimeScale)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	lc := lifecycle.NewManager(logger)
	lc.Add("standoff", &lifecycle.FuncService{
		StartFn: func() error {
			err := runner.Start()
			cancel()
			return err
		},
		StopFn: runner.Stop,
	})
	lc.Add("player-driver", newPlayerDriver(runner, cfg.Standoff.MoveSpeed))

	if err := lc.Run(ctx); err != nil {
		return err
	}
	logger.Info("standoff over", zap.String("outcome", runner.Outcome().String()))
	return nil
}

func standoffConfig(s config.StandoffConfig) standoff.Config {
	return standoff.Config{
		TickInterval:     s.TickInterval,
		DecisionInterval: s.DecisionInterval,
		TileSize:         s.TileSize,
		MoveSpeed:        s.MoveSpeed,
		ProjectileSpeed:  s.ProjectileSpeed,
		TurnRate:         s.TurnRate,
	}
}

// newPlayerDriver steers the autoplayer straight at the opponent so the
// duel resolves by touch or by taking fire.
func newPlayerDriver(runner *standoff.Runner, speed float64) *lifecycle.FuncService {
	stop := make(chan struct{})
	return &lifecycle.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return nil
				case <-ticker.C:
					player, opponent := runner.Positions()
					dir := opponent.Sub(player)
					if dir.Len() > 0 {
						runner.SetPlayerVelocity(dir.Normalized().Scale(speed))
					}
				}
			}
		},
		StopFn: func() { close(stop) },
	}
}

// pawnLookup exposes the live roster to arena scripts.
func pawnLookup(b *battle.Battle) func(id string) *scripting.PawnInfo {
	byID := map[string]*pawn.Pawn{b.Player.ID: b.Player}
	for _, o := range b.Opponents {
		byID[o.ID] = o
	}
	return func(id string) *scripting.PawnInfo {
		p, ok := byID[id]
		if !ok {
			return nil
		}
		return &scripting.PawnInfo{
			ID:       p.ID,
			Name:     p.Name,
			AIType:   p.AIType.String(),
			Modifier: p.Modifier.String(),
			HP:       p.CurrentHP,
			MaxHP:    p.MaxHP,
		}
	}
}

// watchEvents drains the event bus, logging each event and forwarding the
// scripted hooks, until every channel closes.
func watchEvents(bus *events.Bus, logger *zap.Logger, scripts *scripting.Manager, arenaName string, done chan<- struct{}) {
	defer close(done)
	turns, damage, deaths, phases := bus.Turns(), bus.Damage(), bus.Deaths(), bus.Phases()
	for turns != nil || damage != nil || deaths != nil || phases != nil {
		select {
		case ev, ok := <-turns:
			if !ok {
				turns = nil
				continue
			}
			logger.Debug("turn", zap.String("owner", ev.OwnerID), zap.Int("round", ev.Round))
		case ev, ok := <-damage:
			if !ok {
				damage = nil
				continue
			}
			logger.Info("damage",
				zap.String("target", ev.TargetID),
				zap.String("attacker", ev.AttackerID),
				zap.Int("amount", ev.Amount),
				zap.Int("remaining", ev.Remaining),
			)
			scripts.OnDamage(arenaName, ev.TargetID, ev.AttackerID, ev.Amount, ev.Remaining)
		case ev, ok := <-deaths:
			if !ok {
				deaths = nil
				continue
			}
			logger.Info("death",
				zap.String("id", ev.ID),
				zap.String("ai_type", ev.AIType.String()),
				zap.String("modifier", ev.Modifier.String()),
			)
			scripts.OnPawnDied(arenaName, scripting.PawnInfo{
				ID:       ev.ID,
				AIType:   ev.AIType.String(),
				Modifier: ev.Modifier.String(),
			})
		case ev, ok := <-phases:
			if !ok {
				phases = nil
				continue
			}
			logger.Info("phase", zap.String("from", ev.From), zap.String("to", ev.To))
		}
	}
}
