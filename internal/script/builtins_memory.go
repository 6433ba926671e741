package script

import (
	"github.com/behrlich/luatap/internal/memtools"
	lua "github.com/yuin/gopher-lua"
)

// luaRead implements read(addr, size): returns size raw bytes starting at
// addr as a Lua string. No validity check is performed on addr; an
// out-of-bounds read faults the host process exactly as it would in C.
func luaRead(L *lua.LState) int {
	addr := checkAddr(L, 1)
	size := L.CheckInt(2)
	if size < 0 {
		L.RaiseError("read: size must be non-negative, got %d", size)
		return 0
	}
	data := memtools.Read(addr, size)
	L.Push(lua.LString(data))
	return 1
}

// luaWrite implements write(addr, bytes): writes bytes (a Lua string or a
// table of byte integers) starting at addr, returning the number of bytes
// written.
func luaWrite(L *lua.LState) int {
	addr := checkAddr(L, 1)
	data := checkByteSequence(L, 2)
	n := memtools.Write(addr, data)
	L.Push(lua.LNumber(n))
	return 1
}

// luaFind implements find(ptr, len, match, [first]): scans
// [ptr, ptr+len) for occurrences of match (a Lua string or a table of byte
// integers), returning a table of matching addresses. When first is
// truthy, only the first match is returned.
func luaFind(L *lua.LState) int {
	start := checkAddr(L, 1)
	size := L.CheckInt(2)
	pattern := checkByteSequence(L, 3)
	first := L.OptBool(4, false)

	matches := memtools.Find(start, size, pattern, first)
	tbl := L.NewTable()
	for _, addr := range matches {
		tbl.Append(addrValue(addr))
	}
	L.Push(tbl)
	return 1
}
