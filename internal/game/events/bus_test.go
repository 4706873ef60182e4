package events_test

import (
	"testing"

	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
)

func TestBus_DeliveryOrderMatchesEmission(t *testing.T) {
	b := events.NewBus(8)
	for i := 1; i <= 5; i++ {
		b.PublishDamage(events.DamageTaken{Amount: i})
	}
	for i := 1; i <= 5; i++ {
		ev := <-b.Damage()
		if ev.Amount != i {
			t.Fatalf("event %d delivered out of order: got amount %d", i, ev.Amount)
		}
	}
}

func TestBus_DropsOldestWhenFull(t *testing.T) {
	b := events.NewBus(2)
	b.PublishTurn(events.TurnChanged{Round: 1})
	b.PublishTurn(events.TurnChanged{Round: 2})
	b.PublishTurn(events.TurnChanged{Round: 3})

	if b.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", b.Dropped())
	}
	if ev := <-b.Turns(); ev.Round != 2 {
		t.Fatalf("first delivered round = %d, want 2 (oldest dropped)", ev.Round)
	}
}

func TestBus_CloseIsIdempotentAndSilencesPublish(t *testing.T) {
	b := events.NewBus(2)
	b.Close()
	b.Close()
	// Publishing after close must not panic.
	b.PublishDeath(events.PawnDied{ID: "x", AIType: pawn.Sniper})

	if _, ok := <-b.Deaths(); ok {
		t.Fatal("closed deaths channel delivered an event")
	}
}
