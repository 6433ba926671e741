// Package script builds the Lua interpreter each session runs: a fresh
// *lua.LState with the host-introspection primitives (memory read/write,
// mmap family, process maps/threads, disassembly, hex tools) bound as
// globals, per spec.md's builtin primitive catalogue.
package script

import (
	"math/bits"

	lua "github.com/yuin/gopher-lua"
)

// Runtime holds the per-session state the builtins that publish to the
// console need. Builtins that don't need console access are registered as
// plain functions instead of methods.
type Runtime struct {
	console *Console
}

// New creates a Runtime bound to the given console.
func New(console *Console) *Runtime {
	return &Runtime{console: console}
}

// NewState constructs a fresh Lua interpreter with every builtin
// registered as a global, ready for a session to feed input into.
func (r *Runtime) NewState() *lua.LState {
	L := lua.NewState()
	r.Register(L)
	return L
}

// Register binds every builtin primitive and constant onto L's globals.
func (r *Runtime) Register(L *lua.LState) {
	L.SetGlobal("log", L.NewFunction(r.luaLog))
	L.SetGlobal("help", L.NewFunction(r.luaHelp))
	L.SetGlobal("hexdump", L.NewFunction(r.luaHexdump))
	L.SetGlobal("decomp", L.NewFunction(r.luaDecomp))
	L.SetGlobal("procmaps", L.NewFunction(r.luaProcmaps))
	L.SetGlobal("threads", L.NewFunction(r.luaThreads))

	L.SetGlobal("exit", L.NewFunction(luaExit))
	L.SetGlobal("read", L.NewFunction(luaRead))
	L.SetGlobal("write", L.NewFunction(luaWrite))
	L.SetGlobal("find", L.NewFunction(luaFind))
	L.SetGlobal("x", L.NewFunction(luaHex))
	L.SetGlobal("b", L.NewFunction(luaBytes))
	L.SetGlobal("mmap", L.NewFunction(luaMmap))
	L.SetGlobal("munmap", L.NewFunction(luaMunmap))
	L.SetGlobal("mprotect", L.NewFunction(luaMprotect))
	L.SetGlobal("sigsegv", L.NewFunction(luaSigsegv))

	registerConstants(L)
}

func registerConstants(L *lua.LState) {
	L.SetGlobal("PROT_NONE", lua.LNumber(0x0))
	L.SetGlobal("PROT_READ", lua.LNumber(0x1))
	L.SetGlobal("PROT_WRITE", lua.LNumber(0x2))
	L.SetGlobal("PROT_EXEC", lua.LNumber(0x4))
	L.SetGlobal("PROT_ALL", lua.LNumber(0x1|0x2|0x4))
	L.SetGlobal("MAP_ANON", lua.LNumber(0x20))
	L.SetGlobal("MAP_PRIVATE", lua.LNumber(0x02))
}

// hostBitness reports the native pointer width (32 or 64), the default
// decomp() disassembles against.
func hostBitness() int {
	return bits.UintSize
}

// checkAddr reads argument n as an address. Lua numbers are float64; Linux
// user-space addresses fit within a float64's exact integer range, so the
// conversion never loses precision.
func checkAddr(L *lua.LState, n int) uintptr {
	return uintptr(L.CheckNumber(n))
}

// addrValue converts an address back to a Lua number for return values.
func addrValue(addr uintptr) lua.LValue {
	return lua.LNumber(addr)
}
