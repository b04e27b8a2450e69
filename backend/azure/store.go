package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/options"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "az"

const name = "Azure Blob Storage"

// defaultPageSize is the number of listing results requested per page.
const defaultPageSize = 1000

var errNoContainer = errors.New("azure container name is required")

// Store implements remotestore.ObjectStoreClient for a single Azure Blob Storage container.
type Store struct {
	containerName string
	client        Client
	options       *Options
	pageSize      int32
	logger        *zap.Logger
}

// NewStore initializer for Store struct. Without WithClient, a client is built from the options, which default to
// the REMOTESTORE_AZURE_* environment variables.
func NewStore(containerName string, opts ...options.Option[Store]) (*Store, error) {
	if containerName == "" {
		return nil, errNoContainer
	}

	s := &Store{
		containerName: containerName,
		pageSize:      defaultPageSize,
		logger:        zap.NewNop(),
	}
	options.ApplyOptions(s, opts...)

	if s.client == nil {
		if s.options == nil {
			s.options = NewOptions()
		}
		client, err := NewClient(s.options, containerName)
		if err != nil {
			return nil, err
		}
		s.client = client
	}
	return s, nil
}

// Name returns "Azure Blob Storage"
func (s *Store) Name() string {
	return name
}

// Container returns the container the store works in.
func (s *Store) Container() string {
	return s.containerName
}

// Identity checks that the credential may read the container properties. The container stands in for the account.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	if err := s.client.ContainerProperties(ctx); err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(mapError(err))
	}
	return remotestore.AccountInfo{ID: s.containerName, Name: s.containerName}, nil
}

// CreateFolder writes the folder marker blob of p. Parents are implied by the name prefix.
func (s *Store) CreateFolder(ctx context.Context, p string) error {
	p = utils.CleanPath(p)
	if p == "/" {
		return nil
	}

	exists, err := s.blobExists(ctx, backend.ObjectKey(p))
	if err != nil {
		return utils.WrapCreateFolderError(err)
	}
	if exists {
		return utils.WrapCreateFolderError(remotestore.ErrExists)
	}

	s.logger.Debug("creating folder marker", zap.String("container", s.containerName), zap.String("path", p))
	return utils.WrapCreateFolderError(mapError(s.client.Upload(ctx, backend.FolderMarker(p), strings.NewReader(""), false)))
}

// Stat reports a file for a blob named like p, and a folder when any blob has p as prefix.
func (s *Store) Stat(ctx context.Context, p string) (remotestore.EntryInfo, error) {
	p = utils.CleanPath(p)
	if p == "/" {
		return remotestore.EntryInfo{Name: "/", IsFolder: true}, nil
	}

	exists, err := s.blobExists(ctx, backend.ObjectKey(p))
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(err)
	}
	if exists {
		return remotestore.EntryInfo{Name: utils.BaseName(p), IsFile: true}, nil
	}

	page, err := s.client.List(ctx, backend.FolderPrefix(p), "", "", 1)
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(mapError(err))
	}
	if len(page.Blobs) == 0 {
		return remotestore.EntryInfo{}, utils.WrapStatError(remotestore.ErrNotFound)
	}
	return remotestore.EntryInfo{Name: utils.BaseName(p), IsFolder: true}, nil
}

// Put uploads r to p. In add mode the upload is conditional on the blob not existing.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	key := backend.ObjectKey(p)

	if mode == remotestore.WriteModeAdd {
		exists, err := s.blobExists(ctx, key)
		if err != nil {
			return utils.WrapPutError(err)
		}
		if exists {
			return utils.WrapPutError(remotestore.ErrExists)
		}
	}

	s.logger.Debug("uploading blob", zap.String("container", s.containerName), zap.String("key", key), zap.Stringer("mode", mode))
	return utils.WrapPutError(mapError(s.client.Upload(ctx, key, r, mode == remotestore.WriteModeAdd)))
}

// Get opens the blob at p. The caller must close the reader.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	reader, err := s.client.Download(ctx, backend.ObjectKey(p))
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	return reader, nil
}

// Move copies src to dst and deletes src. A folder is moved blob by blob.
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
		return utils.WrapMoveError(s.moveBlob(ctx, backend.ObjectKey(src), backend.ObjectKey(dst)))
	}

	srcPrefix, dstPrefix := backend.FolderPrefix(src), backend.FolderPrefix(dst)
	keys, err := s.blobsWithPrefix(ctx, srcPrefix)
	if err != nil {
		return utils.WrapMoveError(err)
	}
	for _, key := range keys {
		if err := s.moveBlob(ctx, key, dstPrefix+strings.TrimPrefix(key, srcPrefix)); err != nil {
			return utils.WrapMoveError(err)
		}
	}
	return nil
}

func (s *Store) moveBlob(ctx context.Context, srcKey, dstKey string) error {
	s.logger.Debug("copying blob", zap.String("container", s.containerName), zap.String("from", srcKey), zap.String("to", dstKey))

	if err := s.client.Copy(ctx, srcKey, dstKey); err != nil {
		return mapError(err)
	}
	return mapError(s.client.Delete(ctx, srcKey))
}

// Delete removes the blob at p, or every blob below p when it is a folder.
func (s *Store) Delete(ctx context.Context, p string) error {
	p = utils.CleanPath(p)
	if p == "/" {
		return utils.WrapDeleteError(errors.New("refusing to delete the container root"))
	}

	info, err := s.Stat(ctx, p)
	if err != nil {
		return utils.WrapDeleteError(err)
	}
	if info.IsFile {
		return utils.WrapDeleteError(mapError(s.client.Delete(ctx, backend.ObjectKey(p))))
	}

	keys, err := s.blobsWithPrefix(ctx, backend.FolderPrefix(p))
	if err != nil {
		return utils.WrapDeleteError(err)
	}
	s.logger.Debug("deleting blobs", zap.String("container", s.containerName), zap.String("path", p), zap.Int("count", len(keys)))
	for _, key := range keys {
		err := mapError(s.client.Delete(ctx, key))
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
	// an existing folder always has at least its marker or one blob below it
	if p != "/" && results == 0 {
		return nil, utils.WrapListError(remotestore.ErrNotFound)
	}
	return page, nil
}

// ListFolderContinue returns the page following cursor.
func (s *Store) ListFolderContinue(ctx context.Context, cursor string) (*remotestore.ListPage, error) {
	folder, marker, err := backend.DecodeCursor(cursor)
	if err != nil {
		return nil, utils.WrapListError(err)
	}
	page, _, err := s.list(ctx, folder, marker)
	if err != nil {
		return nil, utils.WrapListError(err)
	}
	return page, nil
}

// list returns one page of folder and the number of raw results it was built from.
func (s *Store) list(ctx context.Context, folder, marker string) (*remotestore.ListPage, int, error) {
	prefix := backend.FolderPrefix(folder)
	result, err := s.client.List(ctx, prefix, "/", marker, s.pageSize)
	if err != nil {
		return nil, 0, mapError(err)
	}

	page := &remotestore.ListPage{}
	for _, p := range result.Prefixes {
		if folderName := backend.ChildFolderName(prefix, p); folderName != "" {
			page.Entries = append(page.Entries, remotestore.EntryInfo{Name: folderName, IsFolder: true})
		}
	}
	for _, key := range result.Blobs {
		if fileName, ok := backend.ChildName(prefix, key); ok {
			page.Entries = append(page.Entries, remotestore.EntryInfo{Name: fileName, IsFile: true})
		}
	}

	if result.NextMarker != "" {
		page.HasMore = true
		page.Cursor = backend.EncodeCursor(folder, result.NextMarker)
	}
	return page, len(result.Blobs) + len(result.Prefixes), nil
}

func (s *Store) blobExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Properties(ctx, key)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, remotestore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) blobsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	marker := ""
	for {
		result, err := s.client.List(ctx, prefix, "", marker, s.pageSize)
		if err != nil {
			return nil, mapError(err)
		}
		keys = append(keys, result.Blobs...)
		if result.NextMarker == "" {
			return keys, nil
		}
		marker = result.NextMarker
	}
}

// mapError translates Azure storage error codes into the remotestore sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound, bloberror.ResourceNotFound):
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case bloberror.HasCode(err, bloberror.BlobAlreadyExists, bloberror.ConditionNotMet):
		return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
	case bloberror.HasCode(err, bloberror.AuthenticationFailed, bloberror.AuthorizationFailure,
		bloberror.InvalidAuthenticationInfo, bloberror.AuthorizationPermissionMismatch):
		return fmt.Errorf("%w: %w", remotestore.ErrInvalidCredential, err)
	}

	// HEAD responses carry no error code
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return err
	}
	switch respErr.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", remotestore.ErrInvalidCredential, err)
	default:
		return err
	}
}

func init() {
	backend.Register(Scheme, func(_ context.Context, authority string, settings backend.Settings) (remotestore.ObjectStoreClient, error) {
		return NewStore(authority, WithLogger(settings.LoggerOrNop()))
	})
}
