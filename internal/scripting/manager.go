package scripting

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// PawnInfo is a snapshot of a pawn's state passed to Lua callbacks.
type PawnInfo struct {
	ID       string
	Name     string
	AIType   string
	Modifier string
	HP       int
	MaxHP    int
}

// Manager owns one sandboxed LState per arena and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all LoadArena calls
// complete. Each arena's LState is single-threaded; the lock serializes
// hook calls.
type Manager struct {
	mu      sync.Mutex
	states  map[string]*lua.LState
	cancels map[string]context.CancelFunc
	logger  *zap.Logger

	// GetPawn is injected after construction; nil makes game.pawn() return nil.
	GetPawn func(id string) *PawnInfo
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]context.CancelFunc),
		logger:  logger,
	}
}

// LoadArena creates a sandboxed VM for the arena, registers the game.*
// module, then executes the script file.
//
// Precondition: name must be non-empty; scriptPath must be a readable file.
// Postcondition: The arena VM is registered; a previous VM for the same
// name is closed.
func (m *Manager) LoadArena(name, scriptPath string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	if err := L.DoFile(scriptPath); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading %q for %q: %w", scriptPath, name, err)
	}

	m.mu.Lock()
	if old, ok := m.states[name]; ok {
		if oldCancel := m.cancels[name]; oldCancel != nil {
			oldCancel()
		}
		old.Close()
	}
	m.states[name] = L
	m.cancels[name] = cancel
	m.mu.Unlock()
	return nil
}

// Close shuts down every arena VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, L := range m.states {
		if cancel := m.cancels[name]; cancel != nil {
			cancel()
		}
		L.Close()
	}
	m.states = make(map[string]*lua.LState)
	m.cancels = make(map[string]context.CancelFunc)
}

// CallHook calls the named Lua global function in the arena's VM. Returns
// (LNil, nil) if the hook is not defined or the arena has no VM. Lua
// runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(arena, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	L, ok := m.states[arena]
	if !ok {
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("arena", arena),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// OnBattleStart fires the on_battle_start hook.
func (m *Manager) OnBattleStart(arena string) {
	_, _ = m.CallHook(arena, "on_battle_start", lua.LString(arena))
}

// OnPawnDied fires the on_pawn_died hook with a pawn snapshot table.
func (m *Manager) OnPawnDied(arena string, info PawnInfo) {
	m.mu.Lock()
	L, ok := m.states[arena]
	m.mu.Unlock()
	if !ok {
		return
	}
	_, _ = m.CallHook(arena, "on_pawn_died", pawnTable(L, info))
}

// OnDamage fires the on_damage hook.
func (m *Manager) OnDamage(arena, targetID, attackerID string, amount, remaining int) {
	_, _ = m.CallHook(arena, "on_damage",
		lua.LString(targetID),
		lua.LString(attackerID),
		lua.LNumber(amount),
		lua.LNumber(remaining),
	)
}

// AllowModifier asks the allow_modifier hook whether a modifier may be
// assigned to a pawn of the given AI type. An undefined hook, a missing VM,
// or a non-boolean return all permit the assignment.
func (m *Manager) AllowModifier(arena, modifierName, aiType string) bool {
	ret, _ := m.CallHook(arena, "allow_modifier",
		lua.LString(modifierName),
		lua.LString(aiType),
	)
	if b, ok := ret.(lua.LBool); ok {
		return bool(b)
	}
	return true
}

// pawnTable converts a PawnInfo to a Lua table.
func pawnTable(L *lua.LState, info PawnInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(info.ID))
	L.SetField(t, "name", lua.LString(info.Name))
	L.SetField(t, "ai_type", lua.LString(info.AIType))
	L.SetField(t, "modifier", lua.LString(info.Modifier))
	L.SetField(t, "hp", lua.LNumber(info.HP))
	L.SetField(t, "max_hp", lua.LNumber(info.MaxHP))
	return t
}
