package script

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/behrlich/luatap/internal/logging"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/sys/unix"
)

// sigsegvState tracks whether the process-wide SIGSEGV hook installed by
// sigsegv() is active. The hook is process-wide (a Go process has one
// signal disposition per signal number, shared across every goroutine and
// every session), so this state lives at package scope rather than per
// Runtime.
var (
	sigsegvActive atomic.Bool
	sigsegvOnce   sync.Once
	sigsegvCh     chan os.Signal
)

// luaSigsegv implements sigsegv([set]): called with no arguments, returns
// whether the hook is currently installed; called with a boolean, installs
// or removes the hook and returns the new state.
//
// The original behavior this replaces is "log the fault and resume
// execution at the faulting instruction", which a Go process cannot do
// safely: the Go runtime installs its own SIGSEGV handler for stack-growth
// probing, and an arbitrary fault can land on any OS thread regardless of
// which goroutine is scheduled there. Instead, the installed handler logs
// the fault and then restores the default disposition and re-raises,
// terminating the process the way an unhandled SIGSEGV normally would.
func luaSigsegv(L *lua.LState) int {
	if L.GetTop() == 0 {
		L.Push(lua.LBool(sigsegvActive.Load()))
		return 1
	}

	want := L.ToBool(1)
	if want {
		installSigsegvHook()
	} else {
		removeSigsegvHook()
	}
	L.Push(lua.LBool(sigsegvActive.Load()))
	return 1
}

func installSigsegvHook() {
	if !sigsegvActive.CompareAndSwap(false, true) {
		return
	}
	sigsegvOnce.Do(func() {
		sigsegvCh = make(chan os.Signal, 1)
		go func() {
			for range sigsegvCh {
				logging.Error("caught SIGSEGV, terminating")
				signal.Stop(sigsegvCh)
				_ = unix.Kill(os.Getpid(), unix.SIGSEGV)
				return
			}
		}()
	})
	signal.Notify(sigsegvCh, unix.SIGSEGV)
}

func removeSigsegvHook() {
	if !sigsegvActive.CompareAndSwap(true, false) {
		return
	}
	signal.Stop(sigsegvCh)
}
