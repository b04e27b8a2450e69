// Package utils holds path and error helpers shared by the store and its backends.
package utils

import (
	"io"
	"path"
	"strings"
)

// CopyMinBufferSize is the minimum buffer size used by CopyBuffered, in bytes.
const CopyMinBufferSize = 262144

// RemoveTrailingSlash removes trailing slash, if any
func RemoveTrailingSlash(p string) string {
	return strings.TrimRight(p, "/")
}

// RemoveLeadingSlash removes leading slash, if any
func RemoveLeadingSlash(p string) string {
	return strings.TrimLeft(p, "/")
}

// EnsureTrailingSlash adds a trailing slash if it is missing. Only / is used since these are store
// paths, never Windows OS paths.
func EnsureTrailingSlash(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// EnsureLeadingSlash is like EnsureTrailingSlash except that it adds the leading slash if needed.
func EnsureLeadingSlash(dir string) string {
	if strings.HasPrefix(dir, "/") {
		return dir
	}
	return "/" + dir
}

// CleanPath normalizes p to a single leading slash and no trailing slash. Repeated and empty
// segments collapse. The empty path and "/" both normalize to "/".
func CleanPath(p string) string {
	return path.Clean("/" + p)
}

// JoinPath joins the elements into one clean absolute path.
func JoinPath(elem ...string) string {
	return CleanPath(path.Join(elem...))
}

// ParentPath returns the clean parent of p. The parent of "/" is "/".
func ParentPath(p string) string {
	return path.Dir(CleanPath(p))
}

// BaseName returns the last element of the clean path p. The base name of "/" is "/".
func BaseName(p string) string {
	return path.Base(CleanPath(p))
}

// IsSpecialName reports whether name is one of the directory self/parent references.
func IsSpecialName(name string) bool {
	return name == "." || name == ".."
}

// CopyBuffered is a wrapper around io.CopyBuffer. bufferSize is in bytes and values below
// CopyMinBufferSize result in a buffer of CopyMinBufferSize bytes.
func CopyBuffered(writer io.Writer, reader io.Reader, bufferSize int) (int64, error) {
	if bufferSize < CopyMinBufferSize {
		bufferSize = CopyMinBufferSize
	}
	return io.CopyBuffer(writer, reader, make([]byte, bufferSize))
}
