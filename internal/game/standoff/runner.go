// Package standoff runs the continuous-time final duel: one surviving
// opponent against the player, with free movement, weapon timers, and
// in-flight projectiles. The simulation is a single-threaded tick loop;
// timers only signal into it, they never mutate state themselves.
package standoff

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/decision"
	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
	"github.com/cory-johannsen/skirmish/internal/game/weapon"
)

// Outcome is the standoff's terminal result.
type Outcome int

const (
	// OutcomePending: the duel is still running.
	OutcomePending Outcome = iota
	// OutcomeVictory: the opponent died.
	OutcomeVictory
	// OutcomeDefeat: the player died.
	OutcomeDefeat
	// OutcomeStopped: the runner was cancelled before a result.
	OutcomeStopped
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config tunes the standoff simulation. Zero values take the defaults.
type Config struct {
	// TickInterval is the fixed simulation step.
	TickInterval time.Duration
	// DecisionInterval is the cadence of the opponent's steering decisions.
	DecisionInterval time.Duration
	// TileSize converts board coordinates into world units at the handoff.
	TileSize float64
	// MoveSpeed is the base horizontal speed in world units per second.
	MoveSpeed float64
	// ProjectileSpeed is the emission speed in world units per second.
	ProjectileSpeed float64
	// TurnRate is the aim slew rate in degrees per second.
	TurnRate float64
	// HitRadius is the projectile contact distance.
	HitRadius float64
	// TouchRadius is the body-contact distance that ends the duel.
	TouchRadius float64
	// JumpImpulse is the vertical velocity applied on a jump.
	JumpImpulse float64
	// Gravity is the downward acceleration in world units per second squared.
	Gravity float64
	// ArenaHalfWidth clamps horizontal positions to [-w, w].
	ArenaHalfWidth float64
}

func (c *Config) applyDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = 16 * time.Millisecond
	}
	if c.DecisionInterval <= 0 {
		c.DecisionInterval = 500 * time.Millisecond
	}
	if c.TileSize <= 0 {
		c.TileSize = 1
	}
	if c.MoveSpeed <= 0 {
		c.MoveSpeed = 3
	}
	if c.ProjectileSpeed <= 0 {
		c.ProjectileSpeed = 8
	}
	if c.TurnRate <= 0 {
		c.TurnRate = 180
	}
	if c.HitRadius <= 0 {
		c.HitRadius = 0.4
	}
	if c.TouchRadius <= 0 {
		c.TouchRadius = 0.6
	}
	if c.JumpImpulse <= 0 {
		c.JumpImpulse = 6
	}
	if c.Gravity <= 0 {
		c.Gravity = 18
	}
	if c.ArenaHalfWidth <= 0 {
		c.ArenaHalfWidth = 12
	}
}

// Runner drives the standoff phase. It satisfies the lifecycle Service
// contract: Start blocks until a terminal outcome or Stop.
//
// All simulation state is owned by the tick goroutine. External inputs
// (player velocity, time scale, the decision timer) pass through guarded
// fields or channels and are read once per tick.
type Runner struct {
	cfg      Config
	player   *pawn.Pawn
	opponent *pawn.Pawn
	engine   *decision.Engine
	resolver *combat.Resolver
	bus      *events.Bus
	logger   *zap.Logger
	probes   decision.Probes

	mu        sync.Mutex
	timeScale float64
	playerVel geom.Vec2
	outcome   Outcome
	playerPos geom.Vec2
	oppPos    geom.Vec2

	decideCh chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	decision *Timer

	queue       combat.Queue
	projectiles []*weapon.Projectile
	oppVel      geom.Vec2
	oppVY       float64
}

// NewRunner seats both pawns in world space from their board positions and
// prepares the duel. The opponent's weapon timer restarts fresh.
//
// Precondition: opponent must be armed (the handoff converts Basic
// survivors); all dependencies non-nil except probes, which may be nil.
func NewRunner(cfg Config, player, opponent *pawn.Pawn, engine *decision.Engine, resolver *combat.Resolver, bus *events.Bus, logger *zap.Logger, probes decision.Probes) *Runner {
	cfg.applyDefaults()
	seat(player, cfg.TileSize)
	seat(opponent, cfg.TileSize)
	if opponent.Weapon != nil {
		opponent.Weapon.Reset()
	}
	return &Runner{
		cfg:       cfg,
		player:    player,
		opponent:  opponent,
		engine:    engine,
		resolver:  resolver,
		bus:       bus,
		logger:    logger,
		probes:    probes,
		timeScale: 1,
		outcome:   OutcomePending,
		playerPos: player.Pos,
		oppPos:    opponent.Pos,
		decideCh:  make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// seat projects a pawn's board position into world space. Only the
// horizontal position carries over; vertical motion restarts grounded.
func seat(p *pawn.Pawn, tileSize float64) {
	x, _ := hexgrid.WorldPosition(p.Hex, hexgrid.FlatTop, tileSize)
	p.Pos = geom.Vec2{X: x}
}

// Start runs the tick loop until a terminal outcome or Stop.
//
// Postcondition: the decision timer is stopped and live projectiles are
// cleared when Start returns.
func (r *Runner) Start() error {
	var rearm func()
	rearm = func() {
		select {
		case r.decideCh <- struct{}{}:
		default:
		}
		r.decision.Reset(r.cfg.DecisionInterval, rearm)
	}
	r.decision = NewTimer(r.cfg.DecisionInterval, rearm)
	defer r.cleanup()

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	r.logger.Info("standoff started",
		zap.String("opponent", r.opponent.ID),
		zap.String("ai_type", r.opponent.AIType.String()),
	)
	for {
		select {
		case <-r.stopCh:
			r.setOutcome(OutcomeStopped, "")
			return nil
		case <-ticker.C:
			select {
			case <-r.decideCh:
				r.Decide()
			default:
			}
			r.Tick()
			if r.Outcome() != OutcomePending {
				return nil
			}
		}
	}
}

// Stop cancels the duel. Safe to call multiple times.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// cleanup stops the timer and despawns everything in flight.
func (r *Runner) cleanup() {
	if r.decision != nil {
		r.decision.Stop()
	}
	for _, p := range r.projectiles {
		p.Live = false
	}
	r.projectiles = nil
}

// Outcome returns the current result.
func (r *Runner) Outcome() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

func (r *Runner) setOutcome(o Outcome, phase string) {
	r.mu.Lock()
	if r.outcome != OutcomePending {
		r.mu.Unlock()
		return
	}
	r.outcome = o
	r.mu.Unlock()
	if phase != "" {
		r.bus.PublishPhase(events.PhaseChanged{From: "standoff", To: phase})
	}
	r.logger.Info("standoff ended", zap.String("outcome", o.String()))
}

// SetTimeScale adjusts the shared simulation speed. Values are clamped to
// [0, 1]; the scale is read once per tick so a tick is internally uniform.
func (r *Runner) SetTimeScale(s float64) {
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	r.mu.Lock()
	r.timeScale = s
	r.mu.Unlock()
}

// SetPlayerVelocity sets the player's movement input in world units per
// second, applied each tick.
func (r *Runner) SetPlayerVelocity(v geom.Vec2) {
	r.mu.Lock()
	r.playerVel = v
	r.mu.Unlock()
}

// Positions returns the last tick's player and opponent world positions.
// Safe to call from outside the tick goroutine.
func (r *Runner) Positions() (player, opponent geom.Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerPos, r.oppPos
}

// LiveProjectiles returns the number of projectiles in flight.
func (r *Runner) LiveProjectiles() int {
	n := 0
	for _, p := range r.projectiles {
		if p.Live {
			n++
		}
	}
	return n
}

// Decide runs one steering decision for the opponent. Start invokes it on
// the decision cadence; tests may call it directly.
func (r *Runner) Decide() {
	if r.opponent.IsDead() {
		return
	}
	intent := r.engine.Steer(r.opponent, r.player.Pos, r.probes)
	r.oppVel = intent.Move.Scale(r.cfg.MoveSpeed)
	if intent.Jump && r.opponent.Pos.Y <= 0 {
		r.oppVY = r.cfg.JumpImpulse
	}
}

// Tick advances the simulation by one fixed step. Start invokes it on the
// tick cadence; tests may call it directly for a deterministic run.
func (r *Runner) Tick() {
	r.mu.Lock()
	scale := r.timeScale
	playerVel := r.playerVel
	r.mu.Unlock()
	if r.Outcome() != OutcomePending {
		return
	}

	dt := r.cfg.TickInterval
	scaled := time.Duration(float64(dt) * scale)
	secs := scaled.Seconds()

	// Player movement is direct input.
	if r.player.Alive {
		r.player.Pos = r.player.Pos.Add(playerVel.Scale(secs))
		r.player.Pos.X = clamp(r.player.Pos.X, -r.cfg.ArenaHalfWidth, r.cfg.ArenaHalfWidth)
	}

	// Opponent movement follows the last steering decision, with simple
	// ballistic vertical motion for jumps.
	if r.opponent.Alive {
		r.opponent.Pos.X = clamp(r.opponent.Pos.X+r.oppVel.X*secs, -r.cfg.ArenaHalfWidth, r.cfg.ArenaHalfWidth)
		if r.opponent.Pos.Y > 0 || r.oppVY != 0 {
			r.oppVY -= r.cfg.Gravity * secs
			r.opponent.Pos.Y += r.oppVY * secs
			if r.opponent.Pos.Y <= 0 {
				r.opponent.Pos.Y = 0
				r.oppVY = 0
			}
		}
		r.advanceWeapon(scaled)
	}

	r.stepProjectiles(scale)

	// Body contact ends the duel in the player's favor.
	if r.player.Alive && r.opponent.Alive &&
		geom.Dist(r.player.Pos, r.opponent.Pos) <= r.cfg.TouchRadius {
		r.resolver.ApplyTouch(r.player, r.opponent)
	}

	r.queue.Drain(r.resolver)

	r.mu.Lock()
	r.playerPos = r.player.Pos
	r.oppPos = r.opponent.Pos
	r.mu.Unlock()

	switch {
	case r.opponent.IsDead():
		r.setOutcome(OutcomeVictory, "victory")
	case r.player.IsDead():
		r.setOutcome(OutcomeDefeat, "defeat")
	}
}

// advanceWeapon tracks the player and emits on the weapon's fire step.
// Manual weapons never fire autonomously; a timed weapon fires along its
// frozen aim without slewing. The duel always has line of sight, so a
// sight-gated weapon behaves like a tracking one here.
func (r *Runner) advanceWeapon(scaled time.Duration) {
	w := r.opponent.Weapon
	if w == nil || w.Mode == weapon.Manual {
		return
	}
	if w.Mode != weapon.Timed {
		target := r.player.Pos.Sub(r.opponent.Pos).AngleDeg()
		w.Track(target, scaled, r.cfg.TurnRate)
	}
	if w.Advance(scaled) {
		shots := w.Emit(r.opponent.ID, r.opponent.Pos, r.cfg.ProjectileSpeed)
		r.projectiles = append(r.projectiles, shots...)
		r.logger.Debug("weapon fired",
			zap.String("owner", r.opponent.ID),
			zap.Int("projectiles", len(shots)),
		)
	}
}

// stepProjectiles advances every live projectile, queues contacts, and
// culls anything that left the arena.
func (r *Runner) stepProjectiles(scale float64) {
	live := r.projectiles[:0]
	for _, p := range r.projectiles {
		if !p.Live {
			continue
		}
		p.Step(r.cfg.TickInterval, scale)
		if r.player.Alive && geom.Dist(p.Pos, r.player.Pos) <= r.cfg.HitRadius {
			r.queue.Push(combat.Hit{
				Target:       r.player,
				AttackerID:   p.OwnerID,
				AttackerType: r.opponent.AIType,
				Amount:       p.HitDamage(),
			})
			// The duel has one damageable target, so pierce has nothing
			// further to reach; every contact despawns.
			p.OnHit()
			p.Live = false
			continue
		}
		if p.Pos.Len() > 4*r.cfg.ArenaHalfWidth {
			p.Live = false
			continue
		}
		live = append(live, p)
	}
	r.projectiles = live
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
