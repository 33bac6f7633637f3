// Package luawatch provides an optional, scriptable implementation of the
// bus's DebugHook interface (spec.md §4.3: "Each timed read/write
// consults an optional debugger hook before the access"). It is grounded
// on IntuitionAmiga-IntuitionEngine's dependency on
// github.com/yuin/gopher-lua for engine scripting, applied here to
// conditional watchpoints instead: a user-supplied Lua script defines an
// on_access(addr, width, is_write) function, and returning a truthy value
// sets the bus's Halted flag. Unlike an unreachable open-bus state, which
// exits the process, this only asks the caller to stop driving the bus.
//
// Hook is never in the hot path unless a caller explicitly constructs
// one; the access engine treats a nil DebugHook as a no-op (spec.md
// §4.3: "if the debugger is absent, this is a no-op").
package luawatch

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Hook runs a Lua script's on_access callback on every timed bus access.
type Hook struct {
	state *lua.LState
	fn    *lua.LFunction
}

// New loads script (Lua source text) and looks up its on_access global.
// A script with no on_access defined is valid; OnAccess then always
// returns false.
func New(script string) (*Hook, error) {
	l := lua.NewState()
	if err := l.DoString(script); err != nil {
		l.Close()
		return nil, fmt.Errorf("luawatch: loading script: %w", err)
	}

	h := &Hook{state: l}
	if fn, ok := l.GetGlobal("on_access").(*lua.LFunction); ok {
		h.fn = fn
	}
	return h, nil
}

// Close releases the underlying Lua state.
func (h *Hook) Close() { h.state.Close() }

// OnAccess implements the bus's DebugHook interface.
func (h *Hook) OnAccess(addr uint32, width int, isWrite bool) bool {
	if h.fn == nil {
		return false
	}

	h.state.Push(h.fn)
	h.state.Push(lua.LNumber(addr))
	h.state.Push(lua.LNumber(width))
	h.state.Push(lua.LBool(isWrite))

	if err := h.state.PCall(3, 1, nil); err != nil {
		// A scripting error is swallowed, not fatal: OnAccess reports no
		// halt, so a broken watchpoint script can't take the emulator down.
		return false
	}
	ret := h.state.Get(-1)
	h.state.Pop(1)

	return lua.LVAsBool(ret)
}
