package remotestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/c2fo/remotestore/utils"
)

const (
	// tempPrefix is prepended to the name of an upload while it is in flight
	tempPrefix = "temp-"

	writeProbePrefix = ".remotestore-write-test-"

	// DefaultRepoFileName is the name of the repository descriptor at the root.
	DefaultRepoFileName = "syncany"

	defaultConcurrency = 4
)

// ConnectionState tells whether Connect has validated a session.
type ConnectionState int

const (
	// Disconnected is the initial state and the state after Disconnect.
	Disconnected ConnectionState = iota
	// Connected is entered after a successful Connect.
	Connected
)

func (s ConnectionState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// RemoteStore maps repository files onto an ObjectStoreClient. A RemoteStore is not safe for
// concurrent use; callers serialize access or use one instance per goroutine.
type RemoteStore struct {
	client       ObjectStoreClient
	layout       NamespaceLayout
	logger       *zap.Logger
	parser       NameParser
	tempDir      string
	repoFileName string
	concurrency  int
	state        ConnectionState
}

// New returns a RemoteStore rooted at root on client.
func New(client ObjectStoreClient, root string, opts ...StoreOption) *RemoteStore {
	s := &RemoteStore{
		client:       client,
		layout:       NewNamespaceLayout(root),
		logger:       zap.NewNop(),
		parser:       ParseRemoteFile,
		repoFileName: DefaultRepoFileName,
		concurrency:  defaultConcurrency,
	}
	applyStoreOptions(s, opts...)
	return s
}

// Client returns the underlying ObjectStoreClient.
func (s *RemoteStore) Client() ObjectStoreClient {
	return s.client
}

// Layout returns the namespace layout derived from the configured root.
func (s *RemoteStore) Layout() NamespaceLayout {
	return s.layout
}

// State returns the current connection state.
func (s *RemoteStore) State() ConnectionState {
	return s.state
}

// Connect validates the credential by fetching the account identity.
func (s *RemoteStore) Connect(ctx context.Context) error {
	info, err := s.client.Identity(ctx)
	if err != nil {
		s.logger.Error("unable to connect", zap.Error(err))
		if errors.Is(err, ErrInvalidCredential) {
			return &AuthError{Err: err}
		}
		return storageErr("connect", "", err)
	}

	s.logger.Info("using account", zap.String("account", info.Name))
	s.state = Connected
	return nil
}

// Disconnect releases the session. The clients are stateless so this only resets the state.
func (s *RemoteStore) Disconnect() {
	s.state = Disconnected
}

// Init connects and prepares the repository folders. If the root does not exist it is created
// when createIfMissing is true; otherwise Init fails with a StorageError wrapping ErrNotFound and
// creates nothing. Category folders are created concurrently and the first failure cancels the
// rest. Init always disconnects before returning.
func (s *RemoteStore) Init(ctx context.Context, createIfMissing bool) error {
	if err := s.Connect(ctx); err != nil {
		return err
	}
	defer s.Disconnect()

	root := s.layout.Root()
	if !s.TestTargetExists(ctx) {
		if !createIfMissing {
			return storageErr("init", root, ErrNotFound)
		}
		if err := s.client.CreateFolder(ctx, root); err != nil {
			return storageErr("init: create root", root, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, folder := range s.layout.Folders() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return storageErr("init: create folder", folder, err)
			}
			if err := s.client.CreateFolder(gctx, folder); err != nil {
				return storageErr("init: create folder", folder, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Download fetches remote into localDest. The content lands in a temporary file first, which then
// replaces localDest. Names "." and ".." are skipped without touching the store.
func (s *RemoteStore) Download(ctx context.Context, remote RemoteFile, localDest string) error {
	if utils.IsSpecialName(remote.Name) {
		return nil
	}

	remotePath := s.layout.FullPath(remote)
	if err := remote.Validate(); err != nil {
		return storageErr("download", remotePath, err)
	}

	dir := s.tempDir
	if dir == "" {
		dir = filepath.Dir(localDest)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(localDest)+".*.tmp")
	if err != nil {
		return storageErr("download", remotePath, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	s.logger.Debug("downloading to temp file", zap.String("remote", remotePath), zap.String("temp", tmpName))

	if err := s.fetch(ctx, remotePath, tmp); err != nil {
		_ = tmp.Close()
		s.logger.Error("error while downloading file", zap.String("remote", remotePath), zap.Error(err))
		return storageErr("download", remotePath, err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("download", remotePath, err)
	}

	s.logger.Debug("renaming temp file", zap.String("temp", tmpName), zap.String("local", localDest))

	if err := os.Remove(localDest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageErr("download", remotePath, err)
	}
	if err := moveFile(tmpName, localDest); err != nil {
		return storageErr("download", remotePath, err)
	}
	return nil
}

func (s *RemoteStore) fetch(ctx context.Context, remotePath string, w *os.File) error {
	rc, err := s.client.Get(ctx, remotePath)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	_, err = utils.CopyBuffered(w, rc, 0)
	return err
}

// Upload writes localSrc to a temporary path next to the final one and then moves it into place,
// so a partially written object never shows up at the final path. A crash between the two steps
// leaves a temp- object behind that CleanTemporary removes.
func (s *RemoteStore) Upload(ctx context.Context, localSrc string, remote RemoteFile) error {
	remotePath := s.layout.FullPath(remote)
	if err := remote.Validate(); err != nil {
		return storageErr("upload", remotePath, err)
	}
	tempPath := utils.JoinPath(s.layout.FolderPath(remote), tempPrefix+remote.Name)

	f, err := os.Open(localSrc)
	if err != nil {
		return storageErr("upload", remotePath, err)
	}
	defer func() { _ = f.Close() }()

	s.logger.Debug("uploading to temp file", zap.String("local", localSrc), zap.String("temp", tempPath))

	if err := s.client.Put(ctx, tempPath, WriteModeAdd, f); err != nil {
		s.logger.Error("could not upload file", zap.String("local", localSrc), zap.String("remote", remotePath), zap.Error(err))
		if !errors.Is(err, ErrExists) {
			s.removeTemp(ctx, tempPath)
		}
		return storageErr("upload", tempPath, err)
	}

	s.logger.Debug("renaming temp file", zap.String("temp", tempPath), zap.String("remote", remotePath))

	if err := s.client.Move(ctx, tempPath, remotePath); err != nil {
		s.logger.Error("could not move uploaded file into place", zap.String("remote", remotePath), zap.Error(err))
		s.removeTemp(ctx, tempPath)
		return storageErr("upload", remotePath, err)
	}
	return nil
}

// removeTemp deletes the temp object of a failed upload. An already missing object is fine.
func (s *RemoteStore) removeTemp(ctx context.Context, tempPath string) {
	if err := s.client.Delete(ctx, tempPath); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn("temp file left behind", zap.String("temp", tempPath), zap.Error(err))
	}
}

// Delete removes remote. A file that does not exist counts as deleted.
func (s *RemoteStore) Delete(ctx context.Context, remote RemoteFile) (bool, error) {
	remotePath := s.layout.FullPath(remote)
	if err := remote.Validate(); err != nil {
		return false, storageErr("delete", remotePath, err)
	}

	err := s.client.Delete(ctx, remotePath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		s.logger.Info("file does not exist, doing nothing", zap.String("remote", remotePath))
		return true, nil
	default:
		s.logger.Error("could not delete file", zap.String("remote", remotePath), zap.Error(err))
		return false, storageErr("delete", remotePath, err)
	}
}

// Move renames source to target on the store. Failures are reported as *MoveError.
func (s *RemoteStore) Move(ctx context.Context, source, target RemoteFile) error {
	sourcePath := s.layout.FullPath(source)
	targetPath := s.layout.FullPath(target)

	err := source.Validate()
	if err == nil {
		err = target.Validate()
	}
	if err == nil {
		err = s.client.Move(ctx, sourcePath, targetPath)
	}
	if err != nil {
		s.logger.Error("could not rename file", zap.String("source", sourcePath), zap.String("target", targetPath), zap.Error(err))
		return &MoveError{Source: sourcePath, Target: targetPath, Err: err}
	}
	return nil
}

// List returns the files of category keyed by name. Names that do not follow the category's
// naming pattern are skipped. A missing category folder yields an empty map.
func (s *RemoteStore) List(ctx context.Context, category Category) (map[string]RemoteFile, error) {
	folder := s.layout.PathFor(category)

	entries, err := s.listEntries(ctx, folder)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]RemoteFile{}, nil
		}
		s.logger.Error("unable to list folder", zap.String("path", folder), zap.Error(err))
		return nil, storageErr("list", folder, err)
	}

	files := make(map[string]RemoteFile, len(entries))
	for _, e := range entries {
		if !e.IsFile {
			continue
		}
		f, err := s.parser(category, e.Name)
		if err != nil {
			s.logger.Debug("skipping file with unexpected name", zap.String("path", folder),
				zap.String("name", e.Name), zap.Error(err))
			continue
		}
		files[e.Name] = f
	}
	return files, nil
}

// ListPath lists the files and folders directly below p, which is relative to the root. Paths
// that leave the root fail with a StorageError wrapping ErrInvalidPath.
func (s *RemoteStore) ListPath(ctx context.Context, p string) (map[string]FileType, error) {
	folder, err := s.layout.Resolve(p)
	if err != nil {
		return nil, storageErr("list", p, err)
	}
	s.logger.Debug("listing folder", zap.String("path", folder))

	entries, err := s.listEntries(ctx, folder)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]FileType{}, nil
		}
		s.logger.Error("unable to list folder", zap.String("path", folder), zap.Error(err))
		return nil, storageErr("list", folder, err)
	}

	contents := make(map[string]FileType, len(entries))
	for _, e := range entries {
		switch {
		case e.IsFile:
			contents[e.Name] = FileTypeFile
		case e.IsFolder:
			contents[e.Name] = FileTypeFolder
		}
	}
	return contents, nil
}

// CreatePath creates the folder p, relative to the root, with any missing parents. An existing
// folder counts as created.
func (s *RemoteStore) CreatePath(ctx context.Context, p string) (bool, error) {
	folder, err := s.layout.Resolve(p)
	if err != nil {
		return false, storageErr("create path", p, err)
	}
	s.logger.Debug("creating folder", zap.String("path", folder))

	if err := s.client.CreateFolder(ctx, folder); err != nil {
		s.logger.Error("unable to create remote path", zap.String("path", folder), zap.Error(err))
		return false, storageErr("create path", folder, err)
	}
	return true, nil
}

// RemoveFolder deletes the folder p, relative to the root, with everything in it. The root itself
// and paths outside it are never deleted.
func (s *RemoteStore) RemoveFolder(ctx context.Context, p string) bool {
	folder, err := s.layout.Resolve(p)
	if err != nil {
		s.logger.Error("refusing to delete remote path", zap.String("path", p), zap.Error(err))
		return false
	}
	if folder == s.layout.Root() {
		s.logger.Error("refusing to delete the store root", zap.String("path", folder))
		return false
	}
	s.logger.Debug("deleting folder", zap.String("path", folder))

	if err := s.client.Delete(ctx, folder); err != nil {
		s.logger.Error("unable to delete remote path", zap.String("path", folder), zap.Error(err))
		return false
	}
	return true
}

// listEntries follows the listing cursor of folder until it is exhausted.
func (s *RemoteStore) listEntries(ctx context.Context, folder string) ([]EntryInfo, error) {
	page, err := s.client.ListFolder(ctx, folder)
	if err != nil {
		return nil, err
	}

	entries := page.Entries
	for page.HasMore {
		page, err = s.client.ListFolderContinue(ctx, page.Cursor)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Entries...)
	}
	return entries, nil
}

// TestTargetExists reports whether the root exists as a folder.
func (s *RemoteStore) TestTargetExists(ctx context.Context) bool {
	root := s.layout.Root()
	info, err := s.client.Stat(ctx, root)
	if err != nil {
		s.logger.Warn("testTargetExists: target does not exist, error occurred", zap.String("path", root), zap.Error(err))
		return false
	}
	if !info.IsFolder {
		s.logger.Info("testTargetExists: target does not exist", zap.String("path", root))
		return false
	}
	s.logger.Info("testTargetExists: target does exist", zap.String("path", root))
	return true
}

// TestTargetCanWrite creates and deletes a zero-byte object at the root.
func (s *RemoteStore) TestTargetCanWrite(ctx context.Context) bool {
	if !s.TestTargetExists(ctx) {
		s.logger.Info("testTargetCanWrite: can not write, target does not exist")
		return false
	}

	probe := utils.JoinPath(s.layout.Root(), writeProbePrefix+uuid.NewString())
	if err := s.client.Put(ctx, probe, WriteModeAdd, strings.NewReader("")); err != nil {
		s.logger.Info("testTargetCanWrite: can not write to target", zap.Error(err))
		return false
	}
	if err := s.client.Delete(ctx, probe); err != nil {
		s.logger.Info("testTargetCanWrite: can not delete test file", zap.String("path", probe), zap.Error(err))
		return false
	}

	s.logger.Info("testTargetCanWrite: can write, test file created/deleted successfully")
	return true
}

// TestTargetCanCreate reports whether the parent of the root exists, in which case the root can
// be created.
func (s *RemoteStore) TestTargetCanCreate(ctx context.Context) bool {
	parent := utils.ParentPath(s.layout.Root())
	info, err := s.client.Stat(ctx, parent)
	if err != nil {
		s.logger.Info("testTargetCanCreate: can not create target", zap.String("parent", parent), zap.Error(err))
		return false
	}
	if !info.IsFolder {
		s.logger.Info("testTargetCanCreate: can not create target, parent is not a folder", zap.String("parent", parent))
		return false
	}
	s.logger.Info("testTargetCanCreate: can create target", zap.String("parent", parent))
	return true
}

// TestRepoFileExists reports whether the repository descriptor exists as a file.
func (s *RemoteStore) TestRepoFileExists(ctx context.Context) bool {
	repoPath := s.layout.FullPath(RemoteFile{Category: Repo, Name: s.repoFileName})
	info, err := s.client.Stat(ctx, repoPath)
	if err != nil {
		s.logger.Info("testRepoFileExists: error when checking repo file", zap.String("path", repoPath), zap.Error(err))
		return false
	}
	if !info.IsFile {
		s.logger.Info("testRepoFileExists: repo file does not exist", zap.String("path", repoPath))
		return false
	}
	s.logger.Info("testRepoFileExists: repo file exists", zap.String("path", repoPath))
	return true
}

// CleanTemporary removes the leftovers of interrupted uploads and write probes and returns how
// many objects it deleted. An object counts as a leftover when it is named temp-<name>, <name> is a
// valid file of a category stored in the same folder, and temp-<name> itself is not. Leftovers of
// Temp category uploads are therefore kept because they are valid Temp files. It must not run
// while uploads are in progress.
func (s *RemoteStore) CleanTemporary(ctx context.Context) (int, error) {
	folders := append([]string{s.layout.Root()}, s.layout.Folders()...)

	var removed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, folder := range folders {
		g.Go(func() error {
			entries, err := s.listEntries(gctx, folder)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil
				}
				return storageErr("clean temporary", folder, err)
			}

			for _, e := range entries {
				if !e.IsFile || !s.isLeftover(folder, e.Name) {
					continue
				}
				p := utils.JoinPath(folder, e.Name)
				if err := s.client.Delete(gctx, p); err != nil && !errors.Is(err, ErrNotFound) {
					return storageErr("clean temporary", p, err)
				}
				s.logger.Info("removed orphaned temp file", zap.String("path", p))
				removed.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	return int(removed.Load()), err
}

func (s *RemoteStore) isLeftover(folder, name string) bool {
	if folder == s.layout.Root() && strings.HasPrefix(name, writeProbePrefix) {
		return true
	}
	rest, ok := strings.CutPrefix(name, tempPrefix)
	if !ok {
		return false
	}
	cats := s.layout.categoriesAt(folder)
	for _, c := range cats {
		if _, err := s.parser(c, name); err == nil {
			return false
		}
	}
	for _, c := range cats {
		if _, err := s.parser(c, rest); err == nil {
			return true
		}
	}
	return false
}

// moveFile renames src to dst, copying across devices when a rename is not possible.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := utils.CopyBuffered(out, in, 0); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
