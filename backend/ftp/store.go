package ftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strings"
	"sync"

	_ftp "github.com/jlaffaye/ftp"
	"go.uber.org/zap"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/backend/ftp/types"
	"github.com/c2fo/remotestore/options"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "ftp"

const name = "File Transfer Protocol"

// reply codes of RFC 959
const (
	statusNotLoggedIn     = 530
	statusFileUnavailable = 550
)

var defaultClientGetter = getClient

// Store implements remotestore.ObjectStoreClient over an FTP control connection. Store paths are
// absolute paths on the server. Commands are serialized; a reader returned by Get holds the
// connection until it is closed.
type Store struct {
	authority utils.Authority
	options   Options
	logger    *zap.Logger

	mu     sync.Mutex
	client types.Client
	dialed bool
}

// NewStore returns a Store for authority, ie "user@host.com:21". No connection is made until the
// first operation.
func NewStore(authority string, opts ...options.Option[Store]) (*Store, error) {
	auth, err := utils.NewAuthority(authority)
	if err != nil {
		return nil, fmt.Errorf("invalid ftp authority %q: %w", authority, err)
	}

	s := &Store{
		authority: auth,
		logger:    zap.NewNop(),
	}
	options.ApplyOptions(s, opts...)
	return s, nil
}

// Name returns "File Transfer Protocol"
func (s *Store) Name() string {
	return name
}

// Authority returns the authority the store connects to, without its password.
func (s *Store) Authority() utils.Authority {
	return s.authority
}

// do runs fn with the connected client while holding the command lock.
func (s *Store) do(ctx context.Context, fn func(types.Client) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	err = fn(client)
	s.dropBroken(err)
	return err
}

// connect must be called with the lock held.
func (s *Store) connect(ctx context.Context) (types.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.client != nil {
		return s.client, nil
	}

	opts := s.options
	if opts.Password == "" && s.authority.Password() != "" {
		opts.Password = s.authority.Password()
	}

	s.logger.Debug("connecting", zap.Stringer("authority", s.authority))
	client, err := defaultClientGetter(ctx, s.authority, opts)
	if err != nil {
		return nil, mapError(err)
	}
	s.client = client
	s.dialed = true
	return client, nil
}

// dropBroken forgets a dialed connection after a transport failure so the next command redials.
// Must be called with the lock held.
func (s *Store) dropBroken(err error) {
	if err == nil || !s.dialed {
		return
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) || errors.Is(err, remotestore.ErrNotFound) || errors.Is(err, remotestore.ErrExists) {
		return
	}
	s.logger.Debug("dropping connection", zap.Error(err))
	_ = s.client.Quit()
	s.client = nil
}

// Close sends QUIT and forgets the connection. A later operation reconnects.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Quit()
	s.client = nil
	return err
}

// Identity logs in and returns the login.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	err := s.do(ctx, func(c types.Client) error {
		_, err := c.CurrentDir()
		return mapError(err)
	})
	if err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(err)
	}
	user := fetchUsername(s.authority, s.options)
	return remotestore.AccountInfo{ID: user + "@" + fetchHostPortString(s.authority), Name: user}, nil
}

// CreateFolder creates the directory p and its missing parents.
func (s *Store) CreateFolder(ctx context.Context, p string) error {
	return utils.WrapCreateFolderError(s.do(ctx, func(c types.Client) error {
		return mkdirAll(c, utils.CleanPath(p))
	}))
}

func mkdirAll(c types.Client, p string) error {
	if p == "/" {
		return nil
	}
	entry, err := stat(c, p)
	switch {
	case err == nil && entry.Type == _ftp.EntryTypeFolder:
		return nil
	case err == nil:
		return fmt.Errorf("%s is a file: %w", p, remotestore.ErrExists)
	case !errors.Is(err, remotestore.ErrNotFound):
		return err
	}

	if err := mkdirAll(c, utils.ParentPath(p)); err != nil {
		return err
	}
	return mapError(c.MakeDir(p))
}

// stat finds p in the listing of its parent. MLST is optional in FTP, LIST is not.
func stat(c types.Client, p string) (*_ftp.Entry, error) {
	if p == "/" {
		return &_ftp.Entry{Name: "/", Type: _ftp.EntryTypeFolder}, nil
	}

	entries, err := c.List(utils.ParentPath(p))
	if err != nil {
		return nil, mapError(err)
	}
	base := utils.BaseName(p)
	for _, e := range entries {
		if e.Name == base {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", p, remotestore.ErrNotFound)
}

// Stat returns the entry at p.
func (s *Store) Stat(ctx context.Context, p string) (remotestore.EntryInfo, error) {
	p = utils.CleanPath(p)
	var info remotestore.EntryInfo
	err := s.do(ctx, func(c types.Client) error {
		e, err := stat(c, p)
		if err != nil {
			return err
		}
		info = entryInfo(utils.BaseName(p), e)
		return nil
	})
	return info, utils.WrapStatError(err)
}

// Put stores r at p, creating missing parents. FTP has no conditional store, so add mode checks for
// an existing file first while holding the connection.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	p = utils.CleanPath(p)
	return utils.WrapPutError(s.do(ctx, func(c types.Client) error {
		if mode == remotestore.WriteModeAdd {
			_, err := stat(c, p)
			if err == nil {
				return fmt.Errorf("%s: %w", p, remotestore.ErrExists)
			}
			if !errors.Is(err, remotestore.ErrNotFound) {
				return err
			}
		}
		if err := mkdirAll(c, utils.ParentPath(p)); err != nil {
			return err
		}

		s.logger.Debug("uploading file", zap.String("path", p), zap.Stringer("mode", mode))
		return mapError(c.Stor(p, &contextReader{ctx: ctx, r: r}))
	}))
}

// Get starts a download of p. No other command runs on the store until the reader is closed.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	p = utils.CleanPath(p)

	s.mu.Lock()
	client, err := s.connect(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, utils.WrapGetError(err)
	}

	e, err := stat(client, p)
	if err == nil && e.Type == _ftp.EntryTypeFolder {
		err = fmt.Errorf("%s is a folder: %w", p, remotestore.ErrNotFound)
	}
	var r io.ReadCloser
	if err == nil {
		r, err = client.Retr(p)
		err = mapError(err)
	}
	if err != nil {
		s.dropBroken(err)
		s.mu.Unlock()
		return nil, utils.WrapGetError(err)
	}
	return newDataConn(r, s.mu.Unlock), nil
}

// Move renames src to dst, creating the missing parents of dst.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	src, dst = utils.CleanPath(src), utils.CleanPath(dst)
	return utils.WrapMoveError(s.do(ctx, func(c types.Client) error {
		_, err := stat(c, dst)
		if err == nil {
			return fmt.Errorf("%s: %w", dst, remotestore.ErrExists)
		}
		if !errors.Is(err, remotestore.ErrNotFound) {
			return err
		}
		if _, err := stat(c, src); err != nil {
			return err
		}
		if err := mkdirAll(c, utils.ParentPath(dst)); err != nil {
			return err
		}

		s.logger.Debug("renaming", zap.String("from", src), zap.String("to", dst))
		return mapError(c.Rename(src, dst))
	}))
}

// Delete removes p, and everything below it when p is a directory.
func (s *Store) Delete(ctx context.Context, p string) error {
	p = utils.CleanPath(p)
	if p == "/" {
		return utils.WrapDeleteError(errors.New("refusing to delete the server root"))
	}

	return utils.WrapDeleteError(s.do(ctx, func(c types.Client) error {
		e, err := stat(c, p)
		if err != nil {
			return err
		}
		if e.Type == _ftp.EntryTypeFolder {
			return mapError(c.RemoveDirRecur(p))
		}
		return mapError(c.Delete(p))
	}))
}

// ListFolder returns the direct children of p in a single page.
func (s *Store) ListFolder(ctx context.Context, p string) (*remotestore.ListPage, error) {
	p = utils.CleanPath(p)
	page := &remotestore.ListPage{}
	err := s.do(ctx, func(c types.Client) error {
		e, err := stat(c, p)
		if err != nil {
			return err
		}
		if e.Type != _ftp.EntryTypeFolder {
			return fmt.Errorf("%s is a file: %w", p, remotestore.ErrNotFound)
		}

		entries, err := c.List(p)
		if err != nil {
			return mapError(err)
		}
		page.Entries = make([]remotestore.EntryInfo, 0, len(entries))
		for _, e := range entries {
			if utils.IsSpecialName(e.Name) || strings.Contains(e.Name, "/") {
				continue
			}
			page.Entries = append(page.Entries, entryInfo(e.Name, e))
		}
		return nil
	})
	if err != nil {
		return nil, utils.WrapListError(err)
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

func entryInfo(name string, e *_ftp.Entry) remotestore.EntryInfo {
	return remotestore.EntryInfo{
		Name:     name,
		IsFile:   e.Type != _ftp.EntryTypeFolder,
		IsFolder: e.Type == _ftp.EntryTypeFolder,
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

	var protoErr *textproto.Error
	if !errors.As(err, &protoErr) {
		return err
	}
	switch protoErr.Code {
	case statusFileUnavailable:
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case statusNotLoggedIn:
		return fmt.Errorf("%w: %w", remotestore.ErrInvalidCredential, err)
	default:
		return err
	}
}

func init() {
	backend.Register(Scheme, func(_ context.Context, authority string, settings backend.Settings) (remotestore.ObjectStoreClient, error) {
		// the access token is the password, other settings come from REMOTESTORE_FTP_* variables
		return NewStore(authority, WithOptions(Options{Password: settings.AccessToken}), WithLogger(settings.LoggerOrNop()))
	})
}
