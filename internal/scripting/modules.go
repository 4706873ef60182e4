package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the game.* Lua table into L:
//
//	game.log(msg)  — write a line to the structured log
//	game.pawn(id)  — snapshot table for a living pawn, or nil
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: the game global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	game := L.NewTable()

	L.SetField(game, "log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		m.logger.Info("script log", zap.String("message", msg))
		return 0
	}))

	L.SetField(game, "pawn", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.GetPawn == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.GetPawn(id)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(pawnTable(L, *info))
		return 1
	}))

	L.SetGlobal("game", game)
}
