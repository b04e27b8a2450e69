package mem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/options"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "mem"

const name = "In-Memory Store"

type node struct {
	isFolder bool
	data     []byte
}

// Store implements remotestore.ObjectStoreClient in memory. Folders are explicit entries and
// every write creates the missing parents of its path.
type Store struct {
	mu       sync.RWMutex
	nodes    map[string]*node
	pageSize int
}

// NewStore returns an empty Store holding only the root folder.
func NewStore(opts ...options.Option[Store]) *Store {
	s := &Store{
		nodes: map[string]*node{"/": {isFolder: true}},
	}
	options.ApplyOptions(s, opts...)
	return s
}

// WithPageSize makes ListFolder return pages of at most n entries. By default a folder is listed
// in one page.
func WithPageSize(n int) options.Option[Store] {
	return options.Func("pageSize", func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	})
}

// Name returns "In-Memory Store"
func (s *Store) Name() string {
	return name
}

// Identity always succeeds.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return remotestore.AccountInfo{}, err
	}
	return remotestore.AccountInfo{ID: Scheme, Name: name}, nil
}

// CreateFolder creates p and its missing parents.
func (s *Store) CreateFolder(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return utils.WrapCreateFolderError(s.mkdirAll(utils.CleanPath(p)))
}

// mkdirAll must be called with the write lock held.
func (s *Store) mkdirAll(p string) error {
	if n, ok := s.nodes[p]; ok {
		if !n.isFolder {
			return fmt.Errorf("%s is a file: %w", p, remotestore.ErrExists)
		}
		return nil
	}
	if err := s.mkdirAll(utils.ParentPath(p)); err != nil {
		return err
	}
	s.nodes[p] = &node{isFolder: true}
	return nil
}

// Stat returns the entry at p.
func (s *Store) Stat(ctx context.Context, p string) (remotestore.EntryInfo, error) {
	if err := ctx.Err(); err != nil {
		return remotestore.EntryInfo{}, err
	}

	p = utils.CleanPath(p)
	s.mu.RLock()
	n, ok := s.nodes[p]
	s.mu.RUnlock()
	if !ok {
		return remotestore.EntryInfo{}, utils.WrapStatError(remotestore.ErrNotFound)
	}
	return entry(p, n), nil
}

// Put stores the content of r at p.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return utils.WrapPutError(err)
	}

	p = utils.CleanPath(p)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.nodes[p]; ok && (n.isFolder || mode == remotestore.WriteModeAdd) {
		return utils.WrapPutError(remotestore.ErrExists)
	}
	if err := s.mkdirAll(utils.ParentPath(p)); err != nil {
		return utils.WrapPutError(err)
	}
	s.nodes[p] = &node{data: data}
	return nil
}

// Get returns a reader over a copy of the content at p.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p = utils.CleanPath(p)
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[p]
	if !ok {
		return nil, utils.WrapGetError(remotestore.ErrNotFound)
	}
	if n.isFolder {
		return nil, utils.WrapGetError(fmt.Errorf("%s is a folder", p))
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(n.data))), nil
}

// Move renames src, and everything below it, to dst.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, dst = utils.CleanPath(src), utils.CleanPath(dst)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[src]; !ok || src == "/" {
		return utils.WrapMoveError(remotestore.ErrNotFound)
	}
	if _, ok := s.nodes[dst]; ok {
		return utils.WrapMoveError(remotestore.ErrExists)
	}
	if strings.HasPrefix(dst, src+"/") {
		return utils.WrapMoveError(fmt.Errorf("cannot move %s below itself", src))
	}
	if err := s.mkdirAll(utils.ParentPath(dst)); err != nil {
		return utils.WrapMoveError(err)
	}

	for _, p := range s.subtree(src) {
		s.nodes[dst+strings.TrimPrefix(p, src)] = s.nodes[p]
		delete(s.nodes, p)
	}
	return nil
}

// Delete removes p and everything below it.
func (s *Store) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p = utils.CleanPath(p)
	if p == "/" {
		return utils.WrapDeleteError(fmt.Errorf("cannot delete the store root"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[p]; !ok {
		return utils.WrapDeleteError(remotestore.ErrNotFound)
	}
	for _, k := range s.subtree(p) {
		delete(s.nodes, k)
	}
	return nil
}

// subtree returns p and every path below it. It must be called with the lock held.
func (s *Store) subtree(p string) []string {
	paths := []string{p}
	for k := range s.nodes {
		if strings.HasPrefix(k, p+"/") {
			paths = append(paths, k)
		}
	}
	return paths
}

// ListFolder returns the first page of the children of p.
func (s *Store) ListFolder(ctx context.Context, p string) (*remotestore.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p = utils.CleanPath(p)
	s.mu.RLock()
	n, ok := s.nodes[p]
	s.mu.RUnlock()
	if !ok || !n.isFolder {
		return nil, utils.WrapListError(remotestore.ErrNotFound)
	}
	return s.page(p, 0), nil
}

// ListFolderContinue returns the page following cursor.
func (s *Store) ListFolderContinue(ctx context.Context, cursor string) (*remotestore.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	folder, token, err := backend.DecodeCursor(cursor)
	if err != nil {
		return nil, utils.WrapListError(err)
	}
	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return nil, utils.WrapListError(fmt.Errorf("malformed listing cursor %q", cursor))
	}
	return s.page(folder, offset), nil
}

func (s *Store) page(folder string, offset int) *remotestore.ListPage {
	s.mu.RLock()
	var entries []remotestore.EntryInfo
	for k, n := range s.nodes {
		if k != "/" && utils.ParentPath(k) == folder {
			entries = append(entries, entry(k, n))
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	page := &remotestore.ListPage{}
	if offset >= len(entries) {
		return page
	}
	end := len(entries)
	if s.pageSize > 0 && offset+s.pageSize < end {
		end = offset + s.pageSize
		page.HasMore = true
		page.Cursor = backend.EncodeCursor(folder, strconv.Itoa(end))
	}
	page.Entries = entries[offset:end]
	return page
}

func entry(p string, n *node) remotestore.EntryInfo {
	return remotestore.EntryInfo{
		Name:     utils.BaseName(p),
		IsFile:   !n.isFolder,
		IsFolder: n.isFolder,
	}
}

var (
	volumesMu sync.Mutex
	volumes   = map[string]*Store{}
)

// Volume returns the process wide Store for authority, creating it on first use. Separate opens of
// the same mem location share their content.
func Volume(authority string) *Store {
	volumesMu.Lock()
	defer volumesMu.Unlock()

	s, ok := volumes[authority]
	if !ok {
		s = NewStore()
		volumes[authority] = s
	}
	return s
}

func init() {
	backend.Register(Scheme, func(_ context.Context, authority string, _ backend.Settings) (remotestore.ObjectStoreClient, error) {
		return Volume(authority), nil
	})
}
