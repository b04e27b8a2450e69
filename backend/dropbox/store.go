package dropbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"go.uber.org/zap"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/options"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "dbx"

const name = "Dropbox"

var errAccessTokenRequired = errors.New("access token is required for Dropbox authentication")

// Store implements remotestore.ObjectStoreClient for Dropbox.
type Store struct {
	client  Client
	options Options
	logger  *zap.Logger
}

// NewStore initializer for Store struct. Without WithClient, a client is built from the access token
// given by WithAccessToken or the REMOTESTORE_DROPBOX_ACCESS_TOKEN environment variable.
func NewStore(opts ...options.Option[Store]) (*Store, error) {
	s := &Store{
		options: NewOptions(),
		logger:  zap.NewNop(),
	}

	options.ApplyOptions(s, opts...)

	if s.client == nil {
		token := s.options.AccessToken
		if token == "" {
			token = os.Getenv("REMOTESTORE_DROPBOX_ACCESS_TOKEN")
		}
		if token == "" {
			return nil, errAccessTokenRequired
		}
		s.client = NewSDKClient(token)
	}

	return s, nil
}

// Name returns "Dropbox"
func (s *Store) Name() string {
	return name
}

// Identity returns the account of the access token.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return remotestore.AccountInfo{}, err
	}

	account, err := s.client.GetCurrentAccount()
	if err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(mapError(err))
	}

	info := remotestore.AccountInfo{ID: account.AccountId, Email: account.Email}
	if account.Name != nil {
		info.Name = account.Name.DisplayName
	}
	return info, nil
}

// CreateFolder creates the folder at p. An existing folder is not an error.
func (s *Store) CreateFolder(ctx context.Context, p string) error {
	p = utils.CleanPath(p)
	if p == "/" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Debug("creating folder", zap.String("path", p))
	_, err := s.client.CreateFolderV2(files.NewCreateFolderArg(p))
	if err != nil && !strings.Contains(err.Error(), "conflict/folder") {
		return utils.WrapCreateFolderError(mapError(err))
	}
	return nil
}

// Stat returns the metadata of p.
func (s *Store) Stat(ctx context.Context, p string) (remotestore.EntryInfo, error) {
	p = utils.CleanPath(p)
	if p == "/" {
		// GetMetadata does not support the root folder
		return remotestore.EntryInfo{Name: "/", IsFolder: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return remotestore.EntryInfo{}, err
	}

	metadata, err := s.client.GetMetadata(files.NewGetMetadataArg(p))
	if err != nil {
		return remotestore.EntryInfo{}, utils.WrapStatError(mapError(err))
	}

	info, ok := toEntry(metadata)
	if !ok {
		return remotestore.EntryInfo{}, utils.WrapStatError(remotestore.ErrNotFound)
	}
	return info, nil
}

// Put uploads the content of r to p. Content that fits in one chunk is sent with a single upload,
// anything larger goes through an upload session.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	p = utils.CleanPath(p)
	if err := ctx.Err(); err != nil {
		return err
	}

	commit := files.NewCommitInfo(p)
	commit.Mode = writeMode(mode)

	chunk := make([]byte, s.options.ChunkSize)
	n, err := io.ReadFull(r, chunk)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return utils.WrapPutError(err)
	}

	if int64(n) < s.options.ChunkSize {
		s.logger.Debug("uploading file", zap.String("path", p), zap.Int("size", n))
		uploadArg := files.NewUploadArg(p)
		uploadArg.Mode = commit.Mode
		_, err := s.client.Upload(uploadArg, bytes.NewReader(chunk[:n]))
		return utils.WrapPutError(mapError(err))
	}

	return utils.WrapPutError(s.chunkedUpload(ctx, commit, chunk, r))
}

// chunkedUpload uploads first and the rest of r using an upload session.
func (s *Store) chunkedUpload(ctx context.Context, commit *files.CommitInfo, first []byte, r io.Reader) error {
	s.logger.Debug("starting upload session", zap.String("path", commit.Path))

	result, err := s.client.UploadSessionStart(&files.UploadSessionStartArg{}, bytes.NewReader(first))
	if err != nil {
		return mapError(err)
	}

	cursor := &files.UploadSessionCursor{
		SessionId: result.SessionId,
		Offset:    uint64(len(first)),
	}

	chunk := make([]byte, s.options.ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := io.ReadFull(r, chunk)
		if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
			return readErr
		}
		if n == 0 {
			break
		}

		err := s.client.UploadSessionAppendV2(&files.UploadSessionAppendArg{Cursor: cursor}, bytes.NewReader(chunk[:n]))
		if err != nil {
			return mapError(err)
		}
		cursor.Offset += uint64(n)

		if readErr != nil {
			break
		}
	}

	_, err = s.client.UploadSessionFinish(&files.UploadSessionFinishArg{
		Cursor: cursor,
		Commit: commit,
	}, nil)
	return mapError(err)
}

// Get downloads p. The caller must close the reader.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	p = utils.CleanPath(p)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, reader, err := s.client.Download(files.NewDownloadArg(p))
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	return reader, nil
}

// Move renames src to dst. Dropbox creates the missing parents of dst.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.MoveV2(&files.RelocationArg{
		RelocationPath: files.RelocationPath{
			FromPath: utils.CleanPath(src),
			ToPath:   utils.CleanPath(dst),
		},
	})
	return utils.WrapMoveError(mapError(err))
}

// Delete removes the file or folder at p.
func (s *Store) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.DeleteV2(files.NewDeleteArg(utils.CleanPath(p)))
	return utils.WrapDeleteError(mapError(err))
}

// ListFolder returns the first page of the entries of folder p.
func (s *Store) ListFolder(ctx context.Context, p string) (*remotestore.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listPath := utils.CleanPath(p)
	if listPath == "/" {
		// the API addresses the root as the empty path
		listPath = ""
	}

	result, err := s.client.ListFolder(files.NewListFolderArg(listPath))
	if err != nil {
		return nil, utils.WrapListError(mapError(err))
	}
	return toPage(result), nil
}

// ListFolderContinue returns the page following cursor.
func (s *Store) ListFolderContinue(ctx context.Context, cursor string) (*remotestore.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.client.ListFolderContinue(files.NewListFolderContinueArg(cursor))
	if err != nil {
		return nil, utils.WrapListError(mapError(err))
	}
	return toPage(result), nil
}

func toPage(result *files.ListFolderResult) *remotestore.ListPage {
	page := &remotestore.ListPage{Cursor: result.Cursor, HasMore: result.HasMore}
	for _, entry := range result.Entries {
		if info, ok := toEntry(entry); ok {
			page.Entries = append(page.Entries, info)
		}
	}
	return page
}

func toEntry(metadata files.IsMetadata) (remotestore.EntryInfo, bool) {
	switch m := metadata.(type) {
	case *files.FileMetadata:
		return remotestore.EntryInfo{Name: m.Name, IsFile: true}, true
	case *files.FolderMetadata:
		return remotestore.EntryInfo{Name: m.Name, IsFolder: true}, true
	default:
		// deleted entries
		return remotestore.EntryInfo{}, false
	}
}

func writeMode(mode remotestore.WriteMode) *files.WriteMode {
	if mode == remotestore.WriteModeOverwrite {
		return &files.WriteMode{Tagged: dropbox.Tagged{Tag: "overwrite"}}
	}
	return &files.WriteMode{Tagged: dropbox.Tagged{Tag: "add"}}
}

// mapError translates Dropbox error summaries into the remotestore sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	// Dropbox returns errors with "path/not_found" or "not_found" in the message
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "invalid_access_token"), strings.Contains(errStr, "expired_access_token"):
		return fmt.Errorf("%w: %w", remotestore.ErrInvalidCredential, err)
	case strings.Contains(errStr, "not_found"):
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case strings.Contains(errStr, "conflict"):
		return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
	default:
		return err
	}
}

func init() {
	backend.Register(Scheme, func(_ context.Context, _ string, settings backend.Settings) (remotestore.ObjectStoreClient, error) {
		return NewStore(WithAccessToken(settings.AccessToken), WithLogger(settings.LoggerOrNop()))
	})
}
