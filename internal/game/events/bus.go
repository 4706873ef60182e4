// Package events publishes the structured combat events the core exposes to
// external collaborators (turn indicators, textual announcements, camera and
// audio triggers). One typed channel per event category; delivery order
// matches emission order within a tick.
package events

import (
	"sync"

	"github.com/cory-johannsen/skirmish/internal/game/geom"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
)

// TurnChanged announces a new turn owner.
type TurnChanged struct {
	// OwnerID is the pawn whose turn began.
	OwnerID string
	// Round is the turn-based round number, starting at 1.
	Round int
}

// DamageTaken announces a damage application.
type DamageTaken struct {
	TargetID     string
	AttackerID   string
	AttackerType pawn.AIType
	Amount       int
	// Remaining is the target's HP after the application.
	Remaining int
}

// PawnDied announces a death, including the expulsion impulse the
// presentation layer plays back.
type PawnDied struct {
	ID       string
	Kind     pawn.Kind
	AIType   pawn.AIType
	Modifier modifier.Modifier
	// Expulsion is the one-shot displacement toward the nearer board edge.
	Expulsion geom.Vec2
}

// PhaseChanged announces a phase or terminal-state transition.
type PhaseChanged struct {
	From string
	To   string
}

// Bus carries the four event categories on independent buffered channels.
// Publishing never blocks the core: when a subscriber falls behind, the
// oldest pending event in that category is dropped.
type Bus struct {
	mu     sync.Mutex
	closed bool

	turns   chan TurnChanged
	damage  chan DamageTaken
	deaths  chan PawnDied
	phases  chan PhaseChanged
	dropped int
}

// NewBus creates a Bus with the given per-category buffer size.
//
// Precondition: bufferSize > 0; values <= 0 use 64.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Bus{
		turns:  make(chan TurnChanged, bufferSize),
		damage: make(chan DamageTaken, bufferSize),
		deaths: make(chan PawnDied, bufferSize),
		phases: make(chan PhaseChanged, bufferSize),
	}
}

// Turns returns the turn-changed channel.
func (b *Bus) Turns() <-chan TurnChanged { return b.turns }

// Damage returns the damage-taken channel.
func (b *Bus) Damage() <-chan DamageTaken { return b.damage }

// Deaths returns the pawn-died channel.
func (b *Bus) Deaths() <-chan PawnDied { return b.deaths }

// Phases returns the phase-changed channel.
func (b *Bus) Phases() <-chan PhaseChanged { return b.phases }

// Dropped returns the number of events discarded because a subscriber fell
// behind.
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// PublishTurn emits a TurnChanged event.
func (b *Bus) PublishTurn(ev TurnChanged) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for {
		select {
		case b.turns <- ev:
			return
		default:
			<-b.turns
			b.dropped++
		}
	}
}

// PublishDamage emits a DamageTaken event.
func (b *Bus) PublishDamage(ev DamageTaken) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for {
		select {
		case b.damage <- ev:
			return
		default:
			<-b.damage
			b.dropped++
		}
	}
}

// PublishDeath emits a PawnDied event.
func (b *Bus) PublishDeath(ev PawnDied) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for {
		select {
		case b.deaths <- ev:
			return
		default:
			<-b.deaths
			b.dropped++
		}
	}
}

// PublishPhase emits a PhaseChanged event.
func (b *Bus) PublishPhase(ev PhaseChanged) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for {
		select {
		case b.phases <- ev:
			return
		default:
			<-b.phases
			b.dropped++
		}
	}
}

// Close closes all channels. Further publishes are silent no-ops.
//
// Postcondition: Every category channel is closed exactly once.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.turns)
	close(b.damage)
	close(b.deaths)
	close(b.phases)
}
