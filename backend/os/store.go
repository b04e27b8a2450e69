package os

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"sort"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "file"

const name = "os"

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// Store implements remotestore.ObjectStoreClient on the local filesystem. Store paths are
// resolved below a base directory, so "/" is the base directory itself.
type Store struct {
	base string
}

// NewStore returns a Store anchored at base. An empty base anchors at the filesystem root.
func NewStore(base string) *Store {
	if base == "" {
		base = string(filepath.Separator)
	}
	return &Store{base: filepath.Clean(base)}
}

// Name returns "os"
func (s *Store) Name() string {
	return name
}

// Base returns the directory store paths are resolved against.
func (s *Store) Base() string {
	return s.base
}

func (s *Store) resolve(p string) string {
	return filepath.Join(s.base, filepath.FromSlash(utils.CleanPath(p)))
}

// Identity returns the user running the process.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return remotestore.AccountInfo{}, err
	}

	u, err := user.Current()
	if err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(err)
	}
	return remotestore.AccountInfo{ID: u.Uid, Name: u.Username}, nil
}

// CreateFolder creates the directory p and its missing parents.
func (s *Store) CreateFolder(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return utils.WrapCreateFolderError(mapError(os.MkdirAll(s.resolve(p), dirPerm)))
}

// Stat returns the entry at p.
func (s *Store) Stat(ctx context.Context, p string) (remotestore.EntryInfo, error) {
	if err := ctx.Err(); err != nil {
		return remotestore.EntryInfo{}, err
	}

	info, err := os.Stat(s.resolve(p))
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(mapError(err))
	}
	return entry(utils.BaseName(p), info.IsDir()), nil
}

// Put writes the content of r to p, creating its parent directories.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.resolve(p)
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return utils.WrapPutError(mapError(err))
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if mode == remotestore.WriteModeAdd {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(target, flags, filePerm)
	if err != nil {
		return utils.WrapPutError(mapError(err))
	}

	if _, err := utils.CopyBuffered(f, r, 0); err != nil {
		_ = f.Close()
		if mode == remotestore.WriteModeAdd {
			_ = os.Remove(target)
		}
		return utils.WrapPutError(err)
	}
	return utils.WrapPutError(f.Close())
}

// Get opens the file at p.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := s.resolve(p)
	info, err := os.Stat(target)
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	if info.IsDir() {
		return nil, utils.WrapGetError(fmt.Errorf("%s is a folder", p))
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	return f, nil
}

// Move renames src to dst, creating the parents of dst.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, to := s.resolve(src), s.resolve(dst)
	if _, err := os.Lstat(from); err != nil {
		return utils.WrapMoveError(mapError(err))
	}
	if _, err := os.Lstat(to); err == nil {
		return utils.WrapMoveError(remotestore.ErrExists)
	}
	if err := os.MkdirAll(filepath.Dir(to), dirPerm); err != nil {
		return utils.WrapMoveError(mapError(err))
	}
	return utils.WrapMoveError(mapError(os.Rename(from, to)))
}

// Delete removes p and everything below it.
func (s *Store) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if utils.CleanPath(p) == "/" {
		return utils.WrapDeleteError(errors.New("cannot delete the store root"))
	}

	target := s.resolve(p)
	if _, err := os.Lstat(target); err != nil {
		return utils.WrapDeleteError(mapError(err))
	}
	return utils.WrapDeleteError(os.RemoveAll(target))
}

// ListFolder returns all entries of the directory p in a single page.
func (s *Store) ListFolder(ctx context.Context, p string) (*remotestore.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := s.resolve(p)
	info, err := os.Stat(target)
	if err != nil {
		return nil, utils.WrapListError(mapError(err))
	}
	if !info.IsDir() {
		return nil, utils.WrapListError(remotestore.ErrNotFound)
	}

	dirEntries, err := os.ReadDir(target)
	if err != nil {
		return nil, utils.WrapListError(mapError(err))
	}

	page := &remotestore.ListPage{}
	for _, de := range dirEntries {
		if !de.IsDir() && !de.Type().IsRegular() {
			continue
		}
		page.Entries = append(page.Entries, entry(de.Name(), de.IsDir()))
	}
	sort.Slice(page.Entries, func(i, j int) bool { return page.Entries[i].Name < page.Entries[j].Name })
	return page, nil
}

// ListFolderContinue always fails since ListFolder never returns more than one page.
func (s *Store) ListFolderContinue(_ context.Context, cursor string) (*remotestore.ListPage, error) {
	return nil, utils.WrapListError(fmt.Errorf("unexpected listing cursor %q", cursor))
}

func entry(name string, isDir bool) remotestore.EntryInfo {
	return remotestore.EntryInfo{Name: name, IsFile: !isDir, IsFolder: isDir}
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case errors.Is(err, fs.ErrExist), isNotDir(err):
		return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
	default:
		return err
	}
}

func init() {
	backend.Register(Scheme, func(_ context.Context, authority string, _ backend.Settings) (remotestore.ObjectStoreClient, error) {
		if authority != "" {
			return nil, fmt.Errorf("file locations do not take an authority, got %q", authority)
		}
		return NewStore(""), nil
	})
}
