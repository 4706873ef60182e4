package turn_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/events"
	"github.com/cory-johannsen/skirmish/internal/game/hexgrid"
	"github.com/cory-johannsen/skirmish/internal/game/modifier"
	"github.com/cory-johannsen/skirmish/internal/game/pawn"
	"github.com/cory-johannsen/skirmish/internal/game/rng"
	"github.com/cory-johannsen/skirmish/internal/game/turn"
	"github.com/cory-johannsen/skirmish/internal/game/weapon"
)

func newOpponent(id string, aiType pawn.AIType, mod modifier.Modifier, hp int, at hexgrid.Coord) *pawn.Pawn {
	p := &pawn.Pawn{
		ID:        id,
		Kind:      pawn.KindOpponent,
		Name:      id,
		AIType:    aiType,
		Modifier:  mod,
		Hex:       at,
		CurrentHP: hp,
		MaxHP:     hp,
		Alive:     true,
		Weapon:    pawn.DefaultWeapon(aiType),
	}
	if p.Weapon != nil {
		p.Weapon.Reconfigure(modifier.DefaultTable().Effects(mod))
	}
	return p
}

func newCoordinator(t *testing.T, grid *hexgrid.Grid, bus *events.Bus, player *pawn.Pawn, opponents ...*pawn.Pawn) *turn.Coordinator {
	t.Helper()
	c, err := turn.NewCoordinator(grid, modifier.DefaultTable(), rng.NewSeeded(11), bus, zap.NewNop(), player, opponents)
	if err != nil {
		t.Fatalf("coordinator: %v", err)
	}
	return c
}

func TestRound_AnnouncesPlayerThenOpponents(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	opp := newOpponent("b1", pawn.Basic, modifier.None, 1, hexgrid.Coord{Q: 0, R: 2})
	c := newCoordinator(t, grid, bus, player, opp)

	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if c.Round() != 1 {
		t.Fatalf("round = %d, want 1", c.Round())
	}
	first := <-bus.Turns()
	if first.OwnerID != "player" || first.Round != 1 {
		t.Errorf("first turn event = %+v, want player round 1", first)
	}
	second := <-bus.Turns()
	if second.OwnerID != "b1" {
		t.Errorf("second turn event owner = %q, want b1", second.OwnerID)
	}
}

func TestCapture_KillsOpponentAndTakesTile(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	target := newOpponent("b1", pawn.Basic, modifier.Tenacious, 2, hexgrid.Coord{Q: 1, R: 0})
	c := newCoordinator(t, grid, bus, player, target)

	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if target.Alive {
		t.Fatal("captured opponent still alive")
	}
	if player.Hex != (hexgrid.Coord{Q: 1, R: 0}) {
		t.Fatalf("player at %v, want the captured tile", player.Hex)
	}
	if id, _ := grid.OccupantAt(player.Hex); id != "player" {
		t.Errorf("tile occupant = %q, want player", id)
	}
	if c.State() != turn.StateVictory {
		t.Errorf("state = %v, want victory after the last opponent dies", c.State())
	}
}

func TestFleet_TwoMovesOneShot(t *testing.T) {
	// A corridor leaves a basic pawn exactly one legal forward direction,
	// so both Fleet moves are forced.
	grid := hexgrid.NewGrid([]hexgrid.Coord{
		{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}, {Q: 3, R: 0}, {Q: 4, R: 0}, {Q: 5, R: 0},
	})
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	fleet := newOpponent("fleet", pawn.Basic, modifier.Fleet, 1, hexgrid.Coord{Q: 4, R: 0})
	c := newCoordinator(t, grid, bus, player, fleet)

	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if fleet.Hex != (hexgrid.Coord{Q: 2, R: 0}) {
		t.Fatalf("fleet pawn at %v, want (2,0) after two moves", fleet.Hex)
	}
}

func TestFleet_ArmedFiresExactlyOncePerTurn(t *testing.T) {
	grid := hexgrid.NewHexagon(4)
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	hc := newOpponent("hc", pawn.Handcannon, modifier.Fleet, 1, hexgrid.Coord{Q: 3, R: 0})
	c := newCoordinator(t, grid, bus, player, hc)

	// The player stays on the shared axis, so the opening shot connects.
	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if player.CurrentHP != pawn.PlayerStartHP-1 {
		t.Fatalf("player HP = %d, want one hit taken", player.CurrentHP)
	}
	if got := len(bus.Damage()); got != 1 {
		t.Errorf("damage events = %d, want exactly 1 (extra move grants no extra shot)", got)
	}
}

func TestConfrontational_FiresOnGainingLineOfSight(t *testing.T) {
	// An elbow board: the opponent starts off the player's axis and every
	// legal move puts it on the axis, establishing line of sight.
	grid := hexgrid.NewGrid([]hexgrid.Coord{
		{Q: -1, R: 0}, {Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}, {Q: 2, R: -1},
	})
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	conf := newOpponent("conf", pawn.Handcannon, modifier.Confrontational, 1, hexgrid.Coord{Q: 2, R: -1})
	c := newCoordinator(t, grid, bus, player, conf)

	if err := c.SubmitPlayerMove(3); err != nil {
		t.Fatalf("move: %v", err)
	}
	if player.CurrentHP != pawn.PlayerStartHP-1 {
		t.Fatalf("player HP = %d, want hit by the on-sight shot", player.CurrentHP)
	}
	if got := len(bus.Damage()); got != 1 {
		t.Errorf("damage events = %d, want 1", got)
	}
}

func TestConfrontational_FiresWhenPlayerMoveGrantsSight(t *testing.T) {
	// The opponent's only on-board neighbor is the tile the player steps
	// onto, so it has no move of its own; the player's step must be what
	// triggers the on-sight shot.
	grid := hexgrid.NewGrid([]hexgrid.Coord{
		{Q: 0, R: 1}, {Q: 1, R: 0}, {Q: 2, R: 0},
	})
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{Q: 0, R: 1})
	conf := newOpponent("conf", pawn.Handcannon, modifier.Confrontational, 1, hexgrid.Coord{Q: 2, R: 0})
	c := newCoordinator(t, grid, bus, player, conf)

	if err := c.SubmitPlayerMove(1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := len(bus.Damage()); got != 2 {
		t.Fatalf("damage events = %d, want 2 (on-sight shot plus turn-start shot)", got)
	}
	if conf.Hex != (hexgrid.Coord{Q: 2, R: 0}) {
		t.Errorf("opponent at %v, want boxed in at (2,0)", conf.Hex)
	}
	if c.State() != turn.StateDefeat {
		t.Errorf("state = %v, want defeat after two adjacent hits", c.State())
	}
}

func TestPlainWeapon_NoExtraShotOnGainingSight(t *testing.T) {
	grid := hexgrid.NewGrid([]hexgrid.Coord{
		{Q: -1, R: 0}, {Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}, {Q: 2, R: -1},
	})
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	hc := newOpponent("hc", pawn.Handcannon, modifier.None, 1, hexgrid.Coord{Q: 2, R: -1})
	c := newCoordinator(t, grid, bus, player, hc)

	if err := c.SubmitPlayerMove(3); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := len(bus.Damage()); got != 0 {
		t.Errorf("damage events = %d, want 0 (no line of sight at fire time)", got)
	}
}

func TestManualMode_NeverFiresAutonomously(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	hc := newOpponent("hc", pawn.Handcannon, modifier.None, 1, hexgrid.Coord{Q: 2, R: 0})
	hc.Weapon.Mode = weapon.Manual
	c := newCoordinator(t, grid, bus, player, hc)

	// The player stays on the shared axis; any autonomous shot would land.
	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := len(bus.Damage()); got != 0 {
		t.Errorf("damage events = %d, want 0 for a manual weapon", got)
	}
	if player.CurrentHP != pawn.PlayerStartHP {
		t.Errorf("player HP = %d, want untouched", player.CurrentHP)
	}
}

func TestOnLineOfSightMode_TurnStartShotIsSightGated(t *testing.T) {
	// Same elbow board as the Confrontational case: no sight at turn start,
	// sight gained by the opponent's own move.
	grid := hexgrid.NewGrid([]hexgrid.Coord{
		{Q: -1, R: 0}, {Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}, {Q: 2, R: -1},
	})
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	hc := newOpponent("hc", pawn.Handcannon, modifier.None, 1, hexgrid.Coord{Q: 2, R: -1})
	hc.Weapon.Mode = weapon.OnLineOfSight
	c := newCoordinator(t, grid, bus, player, hc)

	if err := c.SubmitPlayerMove(3); err != nil {
		t.Fatalf("move: %v", err)
	}
	if player.CurrentHP != pawn.PlayerStartHP-1 {
		t.Fatalf("player HP = %d, want hit once the move establishes sight", player.CurrentHP)
	}
	if got := len(bus.Damage()); got != 1 {
		t.Errorf("damage events = %d, want 1 (no blind turn-start shot)", got)
	}
}

func TestStandoffHandoff_TriggersOnDropToOne(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	prey := newOpponent("prey", pawn.Basic, modifier.None, 1, hexgrid.Coord{Q: 1, R: 0})
	survivor := newOpponent("survivor", pawn.Basic, modifier.None, 1, hexgrid.Coord{Q: -3, R: 0})
	c := newCoordinator(t, grid, bus, player, prey, survivor)

	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if c.State() != turn.StateStandoff {
		t.Fatalf("state = %v, want standoff after 2 -> 1", c.State())
	}
	if survivor.AIType != pawn.Handcannon {
		t.Errorf("survivor AI type = %v, want converted to handcannon", survivor.AIType)
	}
	if !survivor.IsArmed() {
		t.Error("converted survivor is unarmed")
	}

	var phase events.PhaseChanged
	for ev := range bus.Phases() {
		phase = ev
		break
	}
	if phase.From != "turn" || phase.To != "standoff" {
		t.Errorf("phase event = %+v, want turn -> standoff", phase)
	}
}

func TestTerminalState_IgnoresFurtherMoves(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	last := newOpponent("b1", pawn.Basic, modifier.None, 1, hexgrid.Coord{Q: 1, R: 0})
	c := newCoordinator(t, grid, bus, player, last)

	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if c.State() != turn.StateVictory {
		t.Fatalf("state = %v, want victory", c.State())
	}
	round := c.Round()
	if err := c.SubmitPlayerMove(0); err != nil {
		t.Fatalf("post-terminal move returned error: %v", err)
	}
	if c.Round() != round {
		t.Error("round advanced after the battle was decided")
	}
}

func TestDefeat_PlayerDeathEndsTheRound(t *testing.T) {
	grid := hexgrid.NewHexagon(3)
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	player.CurrentHP = 1
	hc := newOpponent("hc", pawn.Handcannon, modifier.None, 1, hexgrid.Coord{Q: 2, R: 0})
	c := newCoordinator(t, grid, bus, player, hc)

	// Move along the shared axis into the line of fire.
	if err := c.SubmitPlayerMove(3); err != nil {
		t.Fatalf("move: %v", err)
	}
	if player.Alive {
		t.Fatal("player survived a hit at 1 HP")
	}
	if c.State() != turn.StateDefeat {
		t.Fatalf("state = %v, want defeat", c.State())
	}
	death := <-bus.Deaths()
	if death.Kind != pawn.KindPlayer {
		t.Errorf("death event kind = %v, want the player", death.Kind)
	}
}

func TestIllegalMove_LeavesBoardUntouched(t *testing.T) {
	grid := hexgrid.NewGrid([]hexgrid.Coord{{Q: 0, R: 0}})
	bus := events.NewBus(16)
	player := pawn.NewPlayer("player", hexgrid.Coord{})
	c := newCoordinator(t, grid, bus, player)

	if err := c.SubmitPlayerMove(0); err == nil {
		t.Fatal("expected an error for an off-board destination")
	}
	if c.Round() != 0 {
		t.Errorf("round = %d, want 0 after a rejected move", c.Round())
	}
	if player.Hex != (hexgrid.Coord{}) {
		t.Errorf("player moved to %v on a rejected move", player.Hex)
	}
}
