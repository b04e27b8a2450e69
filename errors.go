package remotestore

import "fmt"

// Error is a type that allows for error constants below
type Error string

// Error returns a string representation of the error
func (e Error) Error() string { return string(e) }

const (
	// ErrNotFound - object or folder does not exist
	ErrNotFound = Error("object does not exist")

	// ErrExists - object already exists and the write mode or move does not allow replacing it
	ErrExists = Error("object already exists")

	// ErrInvalidCredential - the access credential was rejected by the store
	ErrInvalidCredential = Error("access credential is invalid")

	// ErrInvalidName - remote file names may not be empty, ".", ".." or contain a slash
	ErrInvalidName = Error("remote file name is invalid")

	// ErrInvalidPath - remote sub paths may not contain ".." segments or leave the store root
	ErrInvalidPath = Error("remote path is outside the store root")
)

// AuthError reports an invalid or expired credential. The user must re-authenticate.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// StorageError is a generic transport or backend failure for an operation on a path.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MoveError reports a failed remote rename, kept apart from StorageError so callers can
// special-case it.
type MoveError struct {
	Source string
	Target string
	Err    error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("could not move %s to %s: %v", e.Source, e.Target, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

func storageErr(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}
