package script

import (
	"syscall"

	"github.com/behrlich/luatap/internal/apperror"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/sys/unix"
)

// knownProtMask and knownMapFlagsMask are the bits the agent's globals
// document (PROT_NONE/READ/WRITE/EXEC and MAP_ANON/MAP_PRIVATE); anything
// outside them is truncated silently, matching the source's permissive
// handling of garbage caller input rather than rejecting it outright.
const (
	knownProtMask     = unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
	knownMapFlagsMask = unix.MAP_ANON | unix.MAP_PRIVATE
)

// luaMmap implements mmap([a], l, [p], [f], [d], [o]): a raw mmap(2) call.
// Defaults match an anonymous, read-write, private mapping at an
// OS-chosen address: a=0, p=PROT_READ|PROT_WRITE, f=MAP_ANON|MAP_PRIVATE,
// d=-1, o=0. A length of 0 returns 0 without calling mmap at all: a known
// buggy quirk of the source, kept rather than fixed.
func luaMmap(L *lua.LState) int {
	addr := uintptr(L.OptNumber(1, 0))
	length := L.CheckInt(2)
	if length == 0 {
		L.Push(addrValue(0))
		return 1
	}
	prot := L.OptInt(3, unix.PROT_READ|unix.PROT_WRITE) & knownProtMask
	flags := L.OptInt(4, unix.MAP_ANON|unix.MAP_PRIVATE) & knownMapFlagsMask
	fd := L.OptInt(5, -1)
	offset := L.OptInt64(6, 0)

	ret, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		addr,
		uintptr(length),
		uintptr(prot),
		uintptr(flags),
		uintptr(fd),
		uintptr(offset),
	)
	if errno != 0 {
		raiseErrno(L, "mmap", errno)
		return 0
	}
	L.Push(addrValue(ret))
	return 1
}

// luaMunmap implements munmap(ptr, len).
func luaMunmap(L *lua.LState) int {
	addr := checkAddr(L, 1)
	length := L.CheckInt(2)

	_, _, errno := unix.Syscall(unix.SYS_MUNMAP, addr, uintptr(length), 0)
	if errno != 0 {
		raiseErrno(L, "munmap", errno)
		return 0
	}
	L.Push(lua.LNil)
	return 1
}

// luaMprotect implements mprotect(ptr, len, prot). prot is truncated to the
// known PROT_* bits before the syscall.
func luaMprotect(L *lua.LState) int {
	addr := checkAddr(L, 1)
	length := L.CheckInt(2)
	prot := L.CheckInt(3) & knownProtMask

	_, _, errno := unix.Syscall(unix.SYS_MPROTECT, addr, uintptr(length), uintptr(prot))
	if errno != 0 {
		raiseErrno(L, "mprotect", errno)
		return 0
	}
	L.Push(lua.LNil)
	return 1
}

func raiseErrno(L *lua.LState, op string, errno unix.Errno) {
	e := apperror.FromErrno(op, syscall.Errno(errno))
	L.RaiseError("%s", e.Error())
}
