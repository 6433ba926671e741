package apperror

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrnoUnknownMapsToIOError(t *testing.T) {
	err := FromErrno("read", syscall.EIO)
	require.Equal(t, CodeIOError, err.Code)
}

func TestErrorStringIncludesErrno(t *testing.T) {
	err := FromErrno("mmap", syscall.EINVAL)
	assert.Contains(t, err.Error(), "errno=22")
}

func TestIsMatchesOnCodeNotErrno(t *testing.T) {
	a := FromErrno("mmap", syscall.EACCES)
	b := FromErrno("mprotect", syscall.EPERM)
	assert.True(t, a.Is(b), "errors with the same category should match via Is, regardless of errno or op")
}
