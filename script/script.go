// Package script exposes a tiny Lua surface over a tube.Core so the
// scenarios in spec.md §8 can be written as standalone .lua files and
// replayed against a live Core without recompiling. Grounded on the
// teacher engine's use of github.com/yuin/gopher-lua for scriptable runtime
// behaviour (go.mod requires it, though the engine embeds it more broadly
// than this package needs).
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/beebtube/tubeula"
)

// Runner replays Lua scenario scripts against a single Core.
type Runner struct {
	core  *tube.Core
	state *lua.LState
}

// NewRunner creates a Runner bound to core and registers the exerciser
// functions listed on register.
func NewRunner(core *tube.Core) *Runner {
	r := &Runner{core: core, state: lua.NewState()}
	r.register()
	return r
}

// Close releases the underlying Lua state.
func (r *Runner) Close() {
	r.state.Close()
}

// Run executes the script in src against the bound Core.
func (r *Runner) Run(src string) error {
	if err := r.state.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// register installs the host_write/parasite_write/expect/reset surface.
//
//	host_write(addr, val)      -- a host bus cycle writing val to addr (0..7)
//	host_read(addr)            -- a host bus cycle reading addr; returns nothing,
//	                               use snapshot() to inspect the result
//	parasite_write(addr, val)  -- a parasite-side write
//	parasite_read(addr)        -- returns the byte the parasite CPU would see
//	reset()                    -- Core.SoftReset()
//	snapshot()                 -- returns the 8 register bytes as a Lua table
//	expect(addr, want)         -- errors out of the script if snapshot()[addr] != want
func (r *Runner) register() {
	L := r.state
	L.SetGlobal("host_write", L.NewFunction(func(L *lua.LState) int {
		addr := int(L.CheckNumber(1))
		val := byte(L.CheckNumber(2))
		r.core.HostWrite(addr, val)
		return 0
	}))
	L.SetGlobal("host_read", L.NewFunction(func(L *lua.LState) int {
		r.core.HostRead(int(L.CheckNumber(1)))
		return 0
	}))
	L.SetGlobal("parasite_write", L.NewFunction(func(L *lua.LState) int {
		addr := int(L.CheckNumber(1))
		val := byte(L.CheckNumber(2))
		r.core.ParasiteWrite(addr, val)
		return 0
	}))
	L.SetGlobal("parasite_read", L.NewFunction(func(L *lua.LState) int {
		addr := int(L.CheckNumber(1))
		L.Push(lua.LNumber(r.core.ParasiteRead(addr)))
		return 1
	}))
	L.SetGlobal("reset", L.NewFunction(func(L *lua.LState) int {
		r.core.SoftReset()
		return 0
	}))
	L.SetGlobal("snapshot", L.NewFunction(func(L *lua.LState) int {
		snap := r.core.Snapshot()
		t := L.NewTable()
		for i, b := range snap {
			t.RawSetInt(i, lua.LNumber(b))
		}
		L.Push(t)
		return 1
	}))
	L.SetGlobal("expect", L.NewFunction(func(L *lua.LState) int {
		addr := int(L.CheckNumber(1))
		want := byte(L.CheckNumber(2))
		snap := r.core.Snapshot()
		if snap[addr] != want {
			L.RaiseError("expect(%d): got %#x, want %#x", addr, snap[addr], want)
		}
		return 0
	}))
}
