package game

import (
	"errors"
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

var errNotAStep = errors.New("strategy must return a single orthogonal step")

// LuaStrategy runs a script that defines
//
//	function getNextDirection(enemy, target) return {Dx=..., Dy=...} end
//
// where enemy and target are {X=..., Y=...} tables.
type LuaStrategy struct {
	StrategyName string

	mu    sync.Mutex
	state *lua.LState
}

func NewLuaStrategy(name, definition string) (*LuaStrategy, error) {
	state := lua.NewState()
	if err := state.DoString(definition); err != nil {
		state.Close()
		return nil, fmt.Errorf("could not parse lua strategy %s: %w", name, err)
	}
	if state.GetGlobal("getNextDirection").Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("lua strategy %s does not define getNextDirection", name)
	}
	return &LuaStrategy{StrategyName: name, state: state}, nil
}

func LoadLuaStrategy(path string) (*LuaStrategy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy script %s: %w", path, err)
	}
	return NewLuaStrategy(path, string(b))
}

func (s *LuaStrategy) NextDirection(enemy, target Position) (Direction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.state.CallByParam(lua.P{
		Fn:      s.state.GetGlobal("getNextDirection"),
		NRet:    1,
		Protect: true,
	}, s.positionTable(enemy), s.positionTable(target))
	if err != nil {
		return Direction{}, fmt.Errorf("could not execute lua strategy %s: %w", s.StrategyName, err)
	}

	luaReturn := s.state.Get(-1)
	s.state.Pop(1)
	luaTable, ok := luaReturn.(*lua.LTable)
	if !ok {
		return Direction{}, fmt.Errorf("lua strategy %s returned %s, expected table", s.StrategyName, luaReturn.Type())
	}

	dir := convertLuaDirectionTableToGoStruct(luaTable)
	if !dir.IsStep() {
		return Direction{}, fmt.Errorf("lua strategy %s returned %+v: %w", s.StrategyName, dir, errNotAStep)
	}
	return dir, nil
}

func (s *LuaStrategy) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Close()
}

func (s *LuaStrategy) positionTable(p Position) *lua.LTable {
	tbl := s.state.NewTable()
	tbl.RawSetString("X", lua.LNumber(p.X))
	tbl.RawSetString("Y", lua.LNumber(p.Y))
	return tbl
}

func convertLuaDirectionTableToGoStruct(luaTbl *lua.LTable) Direction {
	result := Direction{}
	luaTbl.ForEach(func(key, value lua.LValue) {
		if key.Type() != lua.LTString {
			return
		}

		switch lua.LVAsString(key) {
		case "Dy":
			result.Dy = int(lua.LVAsNumber(value))
		case "Dx":
			result.Dx = int(lua.LVAsNumber(value))
		}
	})
	return result
}
