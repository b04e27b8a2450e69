package gs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/options"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "gs"

const name = "Google Cloud Storage"

var errBucketRequired = errors.New("gs bucket name is required")

// Store implements remotestore.ObjectStoreClient for a single Cloud Storage bucket.
type Store struct {
	bucket  string
	client  *storage.Client
	options Options
	logger  *zap.Logger
}

// NewStore initializer for Store struct. Without WithClient, a client is created from the
// options, falling back to the default Google credentials.
func NewStore(ctx context.Context, bucket string, opts ...options.Option[Store]) (*Store, error) {
	if bucket == "" {
		return nil, errBucketRequired
	}

	s := &Store{
		bucket: bucket,
		logger: zap.NewNop(),
	}
	options.ApplyOptions(s, opts...)

	if s.client == nil {
		client, err := storage.NewClient(ctx, clientOptions(s.options)...)
		if err != nil {
			return nil, err
		}
		s.client = client
	}
	return s, nil
}

// Name returns "Google Cloud Storage"
func (s *Store) Name() string {
	return name
}

// Bucket returns the bucket the store works in.
func (s *Store) Bucket() string {
	return s.bucket
}

func (s *Store) handle() *storage.BucketHandle {
	return s.client.Bucket(s.bucket)
}

// Identity checks that the credential may read the bucket attributes. The bucket stands in for
// the account.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	attrs, err := s.handle().Attrs(ctx)
	if err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(mapError(err))
	}
	return remotestore.AccountInfo{ID: attrs.Name, Name: attrs.Name}, nil
}

// CreateFolder writes the folder marker of p. Parents are implied by the object prefix.
func (s *Store) CreateFolder(ctx context.Context, p string) error {
	p = utils.CleanPath(p)
	if p == "/" {
		return nil
	}

	exists, err := s.fileExists(ctx, backend.ObjectKey(p))
	if err != nil {
		return utils.WrapCreateFolderError(err)
	}
	if exists {
		return utils.WrapCreateFolderError(remotestore.ErrExists)
	}

	s.logger.Debug("creating folder marker", zap.String("bucket", s.bucket), zap.String("path", p))
	return utils.WrapCreateFolderError(s.write(ctx, s.handle().Object(backend.FolderMarker(p)), strings.NewReader("")))
}

// Stat reports a file for an object named like p, and a folder when any object has p as prefix.
func (s *Store) Stat(ctx context.Context, p string) (remotestore.EntryInfo, error) {
	p = utils.CleanPath(p)
	if p == "/" {
		return remotestore.EntryInfo{Name: "/", IsFolder: true}, nil
	}

	exists, err := s.fileExists(ctx, backend.ObjectKey(p))
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(err)
	}
	if exists {
		return remotestore.EntryInfo{Name: utils.BaseName(p), IsFile: true}, nil
	}

	isFolder, err := s.hasPrefix(ctx, backend.FolderPrefix(p))
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(err)
	}
	if !isFolder {
		return remotestore.EntryInfo{}, utils.WrapStatError(remotestore.ErrNotFound)
	}
	return remotestore.EntryInfo{Name: utils.BaseName(p), IsFolder: true}, nil
}

// Put uploads r to p. In add mode the write is conditional on the object not existing.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	key := backend.ObjectKey(p)
	obj := s.handle().Object(key)

	if mode == remotestore.WriteModeAdd {
		exists, err := s.fileExists(ctx, key)
		if err != nil {
			return utils.WrapPutError(err)
		}
		if exists {
			return utils.WrapPutError(remotestore.ErrExists)
		}
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	s.logger.Debug("uploading object", zap.String("bucket", s.bucket), zap.String("key", key), zap.Stringer("mode", mode))
	return utils.WrapPutError(s.write(ctx, obj, r))
}

func (s *Store) write(ctx context.Context, obj *storage.ObjectHandle, r io.Reader) error {
	// cancelling ctx aborts the upload without committing the object
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(ctx)
	if _, err := utils.CopyBuffered(w, r, 0); err != nil {
		cancel()
		_ = w.Close()
		return err
	}
	return mapError(w.Close())
}

// Get opens the object at p. The caller must close the reader.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	reader, err := s.handle().Object(backend.ObjectKey(p)).NewReader(ctx)
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	return reader, nil
}

// Move copies src to dst and deletes src. A folder is moved object by object.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	_, err := s.Stat(ctx, dst)
	switch {
	case err == nil:
		return utils.WrapMoveError(fmt.Errorf("%w: %s", remotestore.ErrExists, dst))
	case !errors.Is(err, remotestore.ErrNotFound):
		return utils.WrapMoveError(err)
	}

	info, err := s.Stat(ctx, src)
	if err != nil {
		return utils.WrapMoveError(err)
	}

	if info.IsFile {
		return utils.WrapMoveError(s.moveObject(ctx, backend.ObjectKey(src), backend.ObjectKey(dst)))
	}

	srcPrefix, dstPrefix := backend.FolderPrefix(src), backend.FolderPrefix(dst)
	keys, err := s.objectsWithPrefix(ctx, srcPrefix)
	if err != nil {
		return utils.WrapMoveError(err)
	}
	for _, key := range keys {
		if err := s.moveObject(ctx, key, dstPrefix+strings.TrimPrefix(key, srcPrefix)); err != nil {
			return utils.WrapMoveError(err)
		}
	}
	return nil
}

func (s *Store) moveObject(ctx context.Context, srcKey, dstKey string) error {
	s.logger.Debug("copying object", zap.String("bucket", s.bucket), zap.String("from", srcKey), zap.String("to", dstKey))

	srcObj := s.handle().Object(srcKey)
	dstObj := s.handle().Object(dstKey).If(storage.Conditions{DoesNotExist: true})
	if _, err := dstObj.CopierFrom(srcObj).Run(ctx); err != nil {
		return mapError(err)
	}
	return mapError(srcObj.Delete(ctx))
}

// Delete removes the object at p, or every object below p when it is a folder.
func (s *Store) Delete(ctx context.Context, p string) error {
	p = utils.CleanPath(p)
	if p == "/" {
		return utils.WrapDeleteError(errors.New("refusing to delete the bucket root"))
	}

	info, err := s.Stat(ctx, p)
	if err != nil {
		return utils.WrapDeleteError(err)
	}
	if info.IsFile {
		return utils.WrapDeleteError(mapError(s.handle().Object(backend.ObjectKey(p)).Delete(ctx)))
	}

	keys, err := s.objectsWithPrefix(ctx, backend.FolderPrefix(p))
	if err != nil {
		return utils.WrapDeleteError(err)
	}
	s.logger.Debug("deleting objects", zap.String("bucket", s.bucket), zap.String("path", p), zap.Int("count", len(keys)))
	for _, key := range keys {
		err := mapError(s.handle().Object(key).Delete(ctx))
		if err != nil && !errors.Is(err, remotestore.ErrNotFound) {
			return utils.WrapDeleteError(err)
		}
	}
	return nil
}

// ListFolder returns the first page of the direct children of p.
func (s *Store) ListFolder(ctx context.Context, p string) (*remotestore.ListPage, error) {
	p = utils.CleanPath(p)
	page, results, err := s.list(ctx, p, "")
	if err != nil {
		return nil, utils.WrapListError(err)
	}
	// an existing folder always has at least its marker or one object below it
	if p != "/" && results == 0 {
		return nil, utils.WrapListError(remotestore.ErrNotFound)
	}
	return page, nil
}

// ListFolderContinue returns the page following cursor.
func (s *Store) ListFolderContinue(ctx context.Context, cursor string) (*remotestore.ListPage, error) {
	folder, token, err := backend.DecodeCursor(cursor)
	if err != nil {
		return nil, utils.WrapListError(err)
	}
	page, _, err := s.list(ctx, folder, token)
	if err != nil {
		return nil, utils.WrapListError(err)
	}
	return page, nil
}

// list returns one page of folder and the number of raw results it was built from.
func (s *Store) list(ctx context.Context, folder, token string) (*remotestore.ListPage, int, error) {
	prefix := backend.FolderPrefix(folder)
	it := s.handle().Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})

	var attrs []*storage.ObjectAttrs
	next, err := iterator.NewPager(it, s.options.pageSize(), token).NextPage(&attrs)
	if err != nil {
		return nil, 0, mapError(err)
	}

	page := &remotestore.ListPage{}
	for _, a := range attrs {
		if a.Prefix != "" {
			if folderName := backend.ChildFolderName(prefix, a.Prefix); folderName != "" {
				page.Entries = append(page.Entries, remotestore.EntryInfo{Name: folderName, IsFolder: true})
			}
			continue
		}
		if fileName, ok := backend.ChildName(prefix, a.Name); ok {
			page.Entries = append(page.Entries, remotestore.EntryInfo{Name: fileName, IsFile: true})
		}
	}

	if next != "" {
		page.HasMore = true
		page.Cursor = backend.EncodeCursor(folder, next)
	}
	return page, len(attrs), nil
}

func (s *Store) fileExists(ctx context.Context, key string) (bool, error) {
	_, err := s.handle().Object(key).Attrs(ctx)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, remotestore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) hasPrefix(ctx context.Context, prefix string) (bool, error) {
	it := s.handle().Objects(ctx, &storage.Query{Prefix: prefix})
	_, err := it.Next()
	switch {
	case errors.Is(err, iterator.Done):
		return false, nil
	case err != nil:
		return false, mapError(err)
	default:
		return true, nil
	}
}

func (s *Store) objectsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	it := s.handle().Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return keys, nil
		}
		if err != nil {
			return nil, mapError(err)
		}
		keys = append(keys, attrs.Name)
	}
}

// mapError translates Cloud Storage errors into the remotestore sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case http.StatusPreconditionFailed, http.StatusConflict:
		return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", remotestore.ErrInvalidCredential, err)
	default:
		return err
	}
}

func init() {
	backend.Register(Scheme, func(ctx context.Context, authority string, settings backend.Settings) (remotestore.ObjectStoreClient, error) {
		return NewStore(ctx, authority, WithLogger(settings.LoggerOrNop()))
	})
}
