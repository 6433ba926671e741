package script

import (
	"fmt"
	"strings"

	"github.com/behrlich/luatap/internal/logging"
	"github.com/behrlich/luatap/internal/procfs"
	lua "github.com/yuin/gopher-lua"
)

// luaProcmaps implements procmaps([ret]): with ret truthy, returns an array
// of {perms, address, offset, size, path} records; otherwise publishes a
// formatted listing (one map per line) to the console and returns the
// count.
func (r *Runtime) luaProcmaps(L *lua.LState) int {
	ret := L.OptBool(1, false)

	maps, err := procfs.Maps()
	if err != nil {
		L.RaiseError("procmaps: %s", err.Error())
		return 0
	}

	if ret {
		tbl := L.NewTable()
		for _, m := range maps {
			rec := L.NewTable()
			rec.RawSetString("perms", lua.LString(m.Perms))
			rec.RawSetString("address", addrValue(m.Address))
			rec.RawSetString("offset", lua.LNumber(m.Offset))
			rec.RawSetString("size", lua.LNumber(m.Size()))
			rec.RawSetString("path", lua.LString(m.Path))
			tbl.Append(rec)
		}
		L.Push(tbl)
		return 1
	}

	var b strings.Builder
	for _, m := range maps {
		fmt.Fprintf(&b, "%s %08X..%08X +%x (%db)  %s (%d)\n",
			m.Perms, m.Address, m.End, m.Offset, m.Size(), m.Path, m.Inode)
	}
	r.console.Send(b.String())
	L.Push(lua.LNumber(len(maps)))
	return 1
}

// luaThreads implements threads([ret]): with ret truthy, returns an array
// of {pid, name, state, fdsize} records; otherwise publishes a formatted
// listing to the console and returns the count. Threads whose status file
// could not be read are skipped with a warning logged at debug level
// rather than failing the whole call.
func (r *Runtime) luaThreads(L *lua.LState) int {
	ret := L.OptBool(1, false)

	tasks, warnings := procfs.Tasks()
	for _, w := range warnings {
		logging.Debug("skipping unreadable task", "error", w)
	}

	if ret {
		tbl := L.NewTable()
		for _, t := range tasks {
			rec := L.NewTable()
			rec.RawSetString("pid", lua.LNumber(t.Pid))
			rec.RawSetString("name", lua.LString(t.Name))
			rec.RawSetString("state", lua.LString(t.State))
			rec.RawSetString("fdsize", lua.LNumber(t.FDSize))
			tbl.Append(rec)
		}
		L.Push(tbl)
		return 1
	}

	var b strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&b, " * [%d] %s %s | %d fd)\n", t.Pid, t.State, t.Name, t.FDSize)
	}
	r.console.Send(b.String())
	L.Push(lua.LNumber(len(tasks)))
	return 1
}
