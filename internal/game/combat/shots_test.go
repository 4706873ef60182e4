package combat_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
)

func rosterLookup(pawns ...*pawn.Pawn) combat.Lookup {
	byID := make(map[string]*pawn.Pawn, len(pawns))
	for _, p := range pawns {
		byID[p.ID] = p
	}
	return func(id string) (*pawn.Pawn, bool) {
		p, ok := byID[id]
		return p, ok
	}
}

func TestFireTurnShot_HandcannonHitsPlayerForOne(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(8)
	r := combat.NewResolver(grid, bus, zap.NewNop())

	shooter := testOpponent(t, grid, "hc", pawn.Handcannon, modifier.None, 1, hexgrid.Coord{})
	player := pawn.NewPlayer("player", hexgrid.Coord{Q: 2, R: 0})
	if err := grid.Occupy(player.Hex, player.ID); err != nil {
		t.Fatalf("occupy: %v", err)
	}

	r.FireTurnShot(shooter, player.Hex, rosterLookup(shooter, player))

	if player.CurrentHP != pawn.PlayerStartHP-1 {
		t.Fatalf("player HP = %d, want %d", player.CurrentHP, pawn.PlayerStartHP-1)
	}
	if !player.Alive {
		t.Fatal("player defeated by a single handcannon hit")
	}
	ev := <-bus.Damage()
	if ev.TargetID != "player" || ev.AttackerType != pawn.Handcannon || ev.Amount != 1 {
		t.Errorf("damage event = %+v", ev)
	}
}

func TestFireTurnShot_FirstPawnOnLineBlocksTheShot(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(8)
	r := combat.NewResolver(grid, bus, zap.NewNop())

	shooter := testOpponent(t, grid, "hc", pawn.Handcannon, modifier.None, 1, hexgrid.Coord{})
	blocker := testOpponent(t, grid, "blocker", pawn.Basic, modifier.None, 2, hexgrid.Coord{Q: 1, R: 0})
	player := pawn.NewPlayer("player", hexgrid.Coord{Q: 2, R: 0})
	if err := grid.Occupy(player.Hex, player.ID); err != nil {
		t.Fatalf("occupy: %v", err)
	}

	r.FireTurnShot(shooter, player.Hex, rosterLookup(shooter, blocker, player))

	if blocker.CurrentHP != 1 {
		t.Errorf("blocker HP = %d, want 1", blocker.CurrentHP)
	}
	if player.CurrentHP != pawn.PlayerStartHP {
		t.Errorf("player HP = %d, want untouched %d", player.CurrentHP, pawn.PlayerStartHP)
	}
}

func TestFireTurnShot_ObservantPassesThroughOpponents(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(8)
	r := combat.NewResolver(grid, bus, zap.NewNop())

	tbl := modifier.DefaultTable()
	shooter := testOpponent(t, grid, "hc", pawn.Handcannon, modifier.Observant, 1, hexgrid.Coord{})
	shooter.Weapon.Reconfigure(tbl.Effects(modifier.Observant))
	bystander := testOpponent(t, grid, "bystander", pawn.Basic, modifier.None, 1, hexgrid.Coord{Q: 1, R: 0})
	player := pawn.NewPlayer("player", hexgrid.Coord{Q: 2, R: 0})
	if err := grid.Occupy(player.Hex, player.ID); err != nil {
		t.Fatalf("occupy: %v", err)
	}

	r.FireTurnShot(shooter, player.Hex, rosterLookup(shooter, bystander, player))

	if bystander.CurrentHP != 1 {
		t.Errorf("bystander HP = %d, want untouched 1", bystander.CurrentHP)
	}
	if player.CurrentHP != pawn.PlayerStartHP-1 {
		t.Errorf("player HP = %d, want %d", player.CurrentHP, pawn.PlayerStartHP-1)
	}
}

// A sniper beam deals full damage to its first contact and exactly 1 to the
// single pierced follow-up; a third pawn on the line is never reached.
func TestFireTurnShot_SniperBeamPiercesOnce(t *testing.T) {
	grid := hexgrid.NewHexagon(4)
	bus := events.NewBus(16)
	r := combat.NewResolver(grid, bus, zap.NewNop())

	shooter := testOpponent(t, grid, "sniper", pawn.Sniper, modifier.None, 1, hexgrid.Coord{})
	first := testOpponent(t, grid, "first", pawn.Basic, modifier.Tenacious, 4, hexgrid.Coord{Q: 1, R: 0})
	second := testOpponent(t, grid, "second", pawn.Basic, modifier.Tenacious, 4, hexgrid.Coord{Q: 2, R: 0})
	third := testOpponent(t, grid, "third", pawn.Basic, modifier.Tenacious, 4, hexgrid.Coord{Q: 3, R: 0})
	player := pawn.NewPlayer("player", hexgrid.Coord{Q: 4, R: 0})
	if err := grid.Occupy(player.Hex, player.ID); err != nil {
		t.Fatalf("occupy: %v", err)
	}

	r.FireTurnShot(shooter, player.Hex, rosterLookup(shooter, first, second, third, player))

	if first.CurrentHP != 2 {
		t.Errorf("first contact HP = %d, want 2 (took full damage 2)", first.CurrentHP)
	}
	if second.CurrentHP != 3 {
		t.Errorf("pierced contact HP = %d, want 3 (took exactly 1)", second.CurrentHP)
	}
	if third.CurrentHP != 4 {
		t.Errorf("third pawn HP = %d, want untouched 4", third.CurrentHP)
	}
	if player.CurrentHP != pawn.PlayerStartHP {
		t.Errorf("player HP = %d, want untouched", player.CurrentHP)
	}
}

func TestFireTurnShot_ShotgunSpreadCoversAdjacentAxes(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(16)
	r := combat.NewResolver(grid, bus, zap.NewNop())

	shooter := testOpponent(t, grid, "sg", pawn.Shotgun, modifier.None, 1, hexgrid.Coord{})
	player := pawn.NewPlayer("player", hexgrid.Coord{Q: 2, R: 0})
	if err := grid.Occupy(player.Hex, player.ID); err != nil {
		t.Fatalf("occupy: %v", err)
	}
	// Pawns one step along the two axes adjacent to the aim axis.
	upper := testOpponent(t, grid, "upper", pawn.Basic, modifier.None, 2, hexgrid.Coord{Q: 1, R: -1})
	lower := testOpponent(t, grid, "lower", pawn.Basic, modifier.None, 2, hexgrid.Coord{Q: 0, R: 1})

	r.FireTurnShot(shooter, player.Hex, rosterLookup(shooter, player, upper, lower))

	if player.CurrentHP != pawn.PlayerStartHP-1 {
		t.Errorf("player HP = %d, want hit by center ray", player.CurrentHP)
	}
	if upper.CurrentHP != 1 {
		t.Errorf("upper HP = %d, want hit by +60 ray", upper.CurrentHP)
	}
	if lower.CurrentHP != 1 {
		t.Errorf("lower HP = %d, want hit by -60 ray", lower.CurrentHP)
	}
	if got := len(bus.Damage()); got != 3 {
		t.Errorf("damage events = %d, want 3", got)
	}
}
