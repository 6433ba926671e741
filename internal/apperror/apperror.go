// Package apperror is the structured error type shared by the root agent
// package and the scripting runtime; it lives here (rather than on the
// root package directly) so that internal/script can construct the same
// error shape without importing the root package and creating an import
// cycle.
package apperror

import (
	"errors"
	"fmt"
	"syscall"
)

// Error is a structured agent error with context and errno mapping. It is
// the error type wrapped into a Lua runtime error at the builtin boundary:
// errors map to an interpreter-level runtime error with a human-readable
// message, they do not crash the session.
type Error struct {
	Op    string        // operation that failed (e.g. "mmap", "procmaps")
	Code  Code          // high-level error category
	Errno syscall.Errno // kernel errno (0 if not applicable)
	Msg   string        // human-readable message
	Inner error         // wrapped error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Errno != 0 {
		return fmt.Sprintf("luatap: %s: %s (errno=%d)", e.Op, msg, e.Errno)
	}
	if e.Op != "" {
		return fmt.Sprintf("luatap: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("luatap: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is supports matching on error category alone.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// Code represents a high-level error category.
type Code string

const (
	CodeInvalidParameters  Code = "invalid parameters"
	CodePermissionDenied   Code = "permission denied"
	CodeInsufficientMemory Code = "insufficient memory"
	CodeIOError            Code = "I/O error"
	CodeUnsupported        Code = "not supported"
	CodeFaultAddress       Code = "faulting address"
)

// New creates a new structured error with no errno attached.
func New(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// FromErrno wraps a raw syscall errno from a memory-mapping primitive
// (mmap/munmap/mprotect) into a structured, categorized error.
func FromErrno(op string, errno syscall.Errno) *Error {
	return &Error{
		Op:    op,
		Code:  mapErrnoToCode(errno),
		Errno: errno,
		Msg:   errno.Error(),
	}
}

// Wrap wraps an arbitrary error (e.g. from /proc parsing) with operation
// context, preserving errno categorization when possible.
func Wrap(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ue, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: ue.Code, Errno: ue.Errno, Msg: ue.Msg, Inner: ue.Inner}
	}
	var errno syscall.Errno
	if errors.As(inner, &errno) {
		return FromErrno(op, errno)
	}
	return &Error{Op: op, Code: CodeIOError, Msg: inner.Error(), Inner: inner}
}

func mapErrnoToCode(errno syscall.Errno) Code {
	switch errno {
	case syscall.EINVAL, syscall.E2BIG:
		return CodeInvalidParameters
	case syscall.ENOSYS, syscall.EOPNOTSUPP:
		return CodeUnsupported
	case syscall.EPERM, syscall.EACCES:
		return CodePermissionDenied
	case syscall.ENOMEM:
		return CodeInsufficientMemory
	case syscall.EFAULT:
		return CodeFaultAddress
	default:
		return CodeIOError
	}
}

// IsCode checks if an error matches a specific error code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
