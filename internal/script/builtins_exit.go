package script

import (
	"os"

	lua "github.com/yuin/gopher-lua"
)

// luaExit implements exit([code]): immediately terminates the host
// process. It does not return.
func luaExit(L *lua.LState) int {
	code := L.OptInt(1, 0)
	os.Exit(code)
	return 0
}
