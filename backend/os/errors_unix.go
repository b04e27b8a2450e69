//go:build !windows

package os

import (
	"errors"
	"syscall"
)

// isNotDir reports whether err was caused by a file standing where a directory is expected.
func isNotDir(err error) bool {
	return errors.Is(err, syscall.ENOTDIR)
}
