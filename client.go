package remotestore

import (
	"context"
	"io"
)

// WriteMode selects how Put treats an existing object at the target path.
type WriteMode int

const (
	// WriteModeAdd fails with ErrExists when the target already exists.
	WriteModeAdd WriteMode = iota
	// WriteModeOverwrite replaces any existing object.
	WriteModeOverwrite
)

func (m WriteMode) String() string {
	if m == WriteModeOverwrite {
		return "overwrite"
	}
	return "add"
}

// AccountInfo identifies the account a client is authenticated as.
type AccountInfo struct {
	ID    string
	Name  string
	Email string
}

// EntryInfo describes a single object or folder.
type EntryInfo struct {
	Name     string
	IsFile   bool
	IsFolder bool
}

// ListPage is one page of a folder listing. When HasMore is true, Cursor is passed to
// ListFolderContinue to fetch the next page.
type ListPage struct {
	Entries []EntryInfo
	Cursor  string
	HasMore bool
}

// ObjectStoreClient is the capability a RemoteStore needs from an external store. All paths are
// absolute, slash separated and carry no trailing slash; "/" is the store root and is always a
// folder. Implementations must be safe for concurrent use.
type ObjectStoreClient interface {
	// Identity verifies the credential and returns the account it belongs to. An invalid
	// credential is reported as an error wrapping ErrInvalidCredential.
	Identity(ctx context.Context) (AccountInfo, error)

	// CreateFolder creates the folder and any missing parents. Creating an existing folder is
	// not an error.
	CreateFolder(ctx context.Context, path string) error

	// Stat returns information about path, or an error wrapping ErrNotFound.
	Stat(ctx context.Context, path string) (EntryInfo, error)

	// Put writes the content of r to path. WriteModeAdd fails with ErrExists if path exists.
	Put(ctx context.Context, path string, mode WriteMode, r io.Reader) error

	// Get opens path for reading. The caller must close the returned reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Move renames src to dst. dst must not exist.
	Move(ctx context.Context, src, dst string) error

	// Delete removes path, returning an error wrapping ErrNotFound if it does not exist.
	Delete(ctx context.Context, path string) error

	// ListFolder returns the first page of the direct children of path.
	ListFolder(ctx context.Context, path string) (*ListPage, error)

	// ListFolderContinue returns the page following cursor.
	ListFolderContinue(ctx context.Context, cursor string) (*ListPage, error)
}
