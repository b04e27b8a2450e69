package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	_sftp "github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/options"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "sftp"

const name = "Secure File Transfer Protocol"

// codes of SSH_FXP_STATUS replies, see draft-ietf-secsh-filexfer-13 section 9.1
const (
	statusNoSuchFile        = 2
	statusFileAlreadyExists = 11
)

// Store implements remotestore.ObjectStoreClient over an SFTP session. Store paths are absolute
// paths on the server. The SSH connection is opened on first use and kept until Close.
type Store struct {
	authority utils.Authority
	options   Options
	logger    *zap.Logger

	mu        sync.Mutex
	client    *_sftp.Client
	sshClient *ssh.Client
}

// NewStore returns a Store for authority, ie "user@host.com:22". No connection is made until the
// first operation.
func NewStore(authority string, opts ...options.Option[Store]) (*Store, error) {
	auth, err := utils.NewAuthority(authority)
	if err != nil {
		return nil, fmt.Errorf("invalid sftp authority %q: %w", authority, err)
	}

	s := &Store{
		authority: auth,
		logger:    zap.NewNop(),
	}
	options.ApplyOptions(s, opts...)
	return s, nil
}

// Name returns "Secure File Transfer Protocol"
func (s *Store) Name() string {
	return name
}

// Authority returns the authority the store connects to, without its password.
func (s *Store) Authority() utils.Authority {
	return s.authority
}

// Client returns the SFTP client, connecting when necessary.
func (s *Store) Client(ctx context.Context) (*_sftp.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	opts := s.options
	if opts.Password == "" && s.authority.Password() != "" {
		opts.Password = s.authority.Password()
	}

	s.logger.Debug("connecting", zap.Stringer("authority", s.authority))
	client, sshClient, err := getClient(ctx, s.authority, opts)
	if err != nil {
		if isAuthError(err) {
			return nil, fmt.Errorf("%w: %w", remotestore.ErrInvalidCredential, err)
		}
		return nil, err
	}
	s.client = client
	s.sshClient = sshClient
	return s.client, nil
}

// Close ends the SFTP session and its SSH connection. A later operation reconnects.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.client != nil {
		errs = append(errs, s.client.Close())
		s.client = nil
	}
	if s.sshClient != nil {
		errs = append(errs, s.sshClient.Close())
		s.sshClient = nil
	}
	return errors.Join(errs...)
}

// Identity connects to the server and returns the login.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	client, err := s.Client(ctx)
	if err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(err)
	}
	if _, err := client.Getwd(); err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(mapError(err))
	}
	return remotestore.AccountInfo{ID: s.authority.String(), Name: s.authority.User()}, nil
}

// CreateFolder creates the directory p and its missing parents.
func (s *Store) CreateFolder(ctx context.Context, p string) error {
	client, err := s.Client(ctx)
	if err != nil {
		return utils.WrapCreateFolderError(err)
	}
	return utils.WrapCreateFolderError(s.mkdirAll(client, utils.CleanPath(p)))
}

func (s *Store) mkdirAll(client *_sftp.Client, p string) error {
	if info, err := client.Stat(p); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is a file: %w", p, remotestore.ErrExists)
		}
		return nil
	}
	return mapError(client.MkdirAll(p))
}

// Stat returns the entry at p.
func (s *Store) Stat(ctx context.Context, p string) (remotestore.EntryInfo, error) {
	client, err := s.Client(ctx)
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(err)
	}

	p = utils.CleanPath(p)
	info, err := client.Stat(p)
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(mapError(err))
	}
	return entry(utils.BaseName(p), info), nil
}

// Put writes r to p, creating missing parents. In add mode the file is opened with O_EXCL.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	client, err := s.Client(ctx)
	if err != nil {
		return utils.WrapPutError(err)
	}

	p = utils.CleanPath(p)
	if mode == remotestore.WriteModeAdd {
		if _, err := client.Stat(p); err == nil {
			return utils.WrapPutError(fmt.Errorf("%s: %w", p, remotestore.ErrExists))
		}
	}
	if err := s.mkdirAll(client, utils.ParentPath(p)); err != nil {
		return utils.WrapPutError(err)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if mode == remotestore.WriteModeAdd {
		flags |= os.O_EXCL
	} else {
		flags |= os.O_TRUNC
	}

	s.logger.Debug("uploading file", zap.String("path", p), zap.Stringer("mode", mode))
	f, err := client.OpenFile(p, flags)
	if err != nil {
		if mode == remotestore.WriteModeAdd {
			// servers before version 5 of the protocol report O_EXCL conflicts as a generic failure
			if _, statErr := client.Stat(p); statErr == nil {
				return utils.WrapPutError(fmt.Errorf("%s: %w: %w", p, remotestore.ErrExists, err))
			}
		}
		return utils.WrapPutError(mapError(err))
	}

	if _, err := f.ReadFrom(&contextReader{ctx: ctx, r: r}); err != nil {
		_ = f.Close()
		if mode == remotestore.WriteModeAdd {
			_ = client.Remove(p)
		}
		return utils.WrapPutError(mapError(err))
	}
	if err := f.Close(); err != nil {
		return utils.WrapPutError(mapError(err))
	}

	fileMode, err := s.options.GetFileMode()
	if err != nil {
		return utils.WrapPutError(err)
	}
	if fileMode != nil {
		if err := client.Chmod(p, *fileMode); err != nil {
			return utils.WrapPutError(mapError(err))
		}
	}
	return nil
}

// Get opens p for reading.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	client, err := s.Client(ctx)
	if err != nil {
		return nil, utils.WrapGetError(err)
	}

	p = utils.CleanPath(p)
	info, err := client.Stat(p)
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	if info.IsDir() {
		return nil, utils.WrapGetError(fmt.Errorf("%s is a folder: %w", p, remotestore.ErrNotFound))
	}

	f, err := client.Open(p)
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	return f, nil
}

// Move renames src to dst, creating the missing parents of dst.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	client, err := s.Client(ctx)
	if err != nil {
		return utils.WrapMoveError(err)
	}

	src, dst = utils.CleanPath(src), utils.CleanPath(dst)
	if _, err := client.Stat(dst); err == nil {
		return utils.WrapMoveError(fmt.Errorf("%s: %w", dst, remotestore.ErrExists))
	}
	if _, err := client.Stat(src); err != nil {
		return utils.WrapMoveError(mapError(err))
	}
	if err := s.mkdirAll(client, utils.ParentPath(dst)); err != nil {
		return utils.WrapMoveError(err)
	}

	s.logger.Debug("renaming", zap.String("from", src), zap.String("to", dst))
	return utils.WrapMoveError(mapError(client.Rename(src, dst)))
}

// Delete removes p, and everything below it when p is a directory.
func (s *Store) Delete(ctx context.Context, p string) error {
	p = utils.CleanPath(p)
	if p == "/" {
		return utils.WrapDeleteError(errors.New("refusing to delete the server root"))
	}

	client, err := s.Client(ctx)
	if err != nil {
		return utils.WrapDeleteError(err)
	}

	info, err := client.Stat(p)
	if err != nil {
		return utils.WrapDeleteError(mapError(err))
	}
	return utils.WrapDeleteError(s.removeAll(ctx, client, p, info))
}

func (s *Store) removeAll(ctx context.Context, client *_sftp.Client, p string, info fs.FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !info.IsDir() {
		return mapError(client.Remove(p))
	}

	children, err := client.ReadDir(p)
	if err != nil {
		return mapError(err)
	}
	for _, child := range children {
		if utils.IsSpecialName(child.Name()) {
			continue
		}
		if err := s.removeAll(ctx, client, path.Join(p, child.Name()), child); err != nil {
			return err
		}
	}
	return mapError(client.RemoveDirectory(p))
}

// ListFolder returns the direct children of p in a single page.
func (s *Store) ListFolder(ctx context.Context, p string) (*remotestore.ListPage, error) {
	client, err := s.Client(ctx)
	if err != nil {
		return nil, utils.WrapListError(err)
	}

	p = utils.CleanPath(p)
	infos, err := client.ReadDir(p)
	if err != nil {
		return nil, utils.WrapListError(mapError(err))
	}

	page := &remotestore.ListPage{Entries: make([]remotestore.EntryInfo, 0, len(infos))}
	for _, info := range infos {
		if utils.IsSpecialName(info.Name()) {
			continue
		}
		page.Entries = append(page.Entries, entry(info.Name(), info))
	}
	sort.Slice(page.Entries, func(i, j int) bool {
		return page.Entries[i].Name < page.Entries[j].Name
	})
	return page, nil
}

// ListFolderContinue always fails: ListFolder returns complete listings.
func (s *Store) ListFolderContinue(_ context.Context, cursor string) (*remotestore.ListPage, error) {
	return nil, utils.WrapListError(fmt.Errorf("unexpected cursor %q: %w", cursor, remotestore.ErrInvalidName))
}

func entry(name string, info fs.FileInfo) remotestore.EntryInfo {
	return remotestore.EntryInfo{
		Name:     name,
		IsFile:   info.Mode().IsRegular(),
		IsFolder: info.IsDir(),
	}
}

// contextReader stops an upload once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
	}

	var statusErr *_sftp.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case statusNoSuchFile:
			return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
		case statusFileAlreadyExists:
			return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
		}
	}
	return err
}

func init() {
	backend.Register(Scheme, func(_ context.Context, authority string, settings backend.Settings) (remotestore.ObjectStoreClient, error) {
		// the access token is the password, keys and known_hosts come from REMOTESTORE_SFTP_* variables
		return NewStore(authority, WithOptions(Options{Password: settings.AccessToken}), WithLogger(settings.LoggerOrNop()))
	})
}
