// Command luatapso builds the LD_PRELOAD-able shared object. All of the
// actual work happens in the root luatap package's init(), triggered the
// moment the dynamic loader maps this object into the host process; this
// file exists only because -buildmode=c-shared requires a main package
// with at least one //export'd symbol.
package main

// #include <stdlib.h>
import "C"

import (
	_ "github.com/behrlich/luatap"
)

// LuatapStatus reports whether the agent has been loaded. It exists so the
// shared object exposes at least one callable C symbol; the agent itself
// needs no explicit start call.
//
//export LuatapStatus
func LuatapStatus() C.int {
	return 1
}

func main() {}
