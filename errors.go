package luatap

import (
	"syscall"

	"github.com/behrlich/luatap/internal/apperror"
)

// Error is a structured agent error with context and errno mapping. It is
// the error type wrapped into a Lua runtime error at the builtin boundary:
// errors map to an interpreter-level runtime error with a human-readable
// message, they do not crash the session. The type itself lives in
// internal/apperror so that internal/script can build the same error
// shape without importing this package.
type Error = apperror.Error

// ErrorCode represents a high-level error category.
type ErrorCode = apperror.Code

const (
	ErrCodeInvalidParameters  = apperror.CodeInvalidParameters
	ErrCodePermissionDenied   = apperror.CodePermissionDenied
	ErrCodeInsufficientMemory = apperror.CodeInsufficientMemory
	ErrCodeIOError            = apperror.CodeIOError
	ErrCodeUnsupported        = apperror.CodeUnsupported
	ErrCodeFaultAddress       = apperror.CodeFaultAddress
)

// NewError creates a new structured error with no errno attached.
func NewError(op string, code ErrorCode, msg string) *Error { return apperror.New(op, code, msg) }

// NewErrnoError wraps a raw syscall errno from a memory-mapping primitive
// (mmap/munmap/mprotect) into a structured, categorized error.
func NewErrnoError(op string, errno syscall.Errno) *Error {
	return apperror.FromErrno(op, errno)
}

// WrapError wraps an arbitrary error (e.g. from /proc parsing) with agent
// context, preserving errno categorization when possible.
func WrapError(op string, inner error) *Error { return apperror.Wrap(op, inner) }

// IsCode checks if an error matches a specific error code.
func IsCode(err error, code ErrorCode) bool { return apperror.IsCode(err, code) }
