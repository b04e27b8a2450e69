package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/options"
	"github.com/c2fo/remotestore/utils"
)

// Scheme defines the store type.
const Scheme = "s3"

const name = "AWS S3"

// maximum number of keys accepted by a single DeleteObjects call
const deleteBatchSize = 1000

var errBucketRequired = errors.New("s3 bucket name is required")

// Store implements remotestore.ObjectStoreClient for a single S3 bucket.
type Store struct {
	bucket   string
	client   Client
	uploader Uploader
	options  Options
	logger   *zap.Logger
}

// NewStore initializer for Store struct. Without WithClient, a client is built from the options
// merged with the REMOTESTORE_S3_* environment variables, falling back to the default AWS
// credential chain.
func NewStore(bucket string, opts ...options.Option[Store]) (*Store, error) {
	if bucket == "" {
		return nil, errBucketRequired
	}

	s := &Store{
		bucket: bucket,
		logger: zap.NewNop(),
	}
	options.ApplyOptions(s, opts...)

	if s.client == nil {
		s.options = OptionsFromEnv(s.options)
		client, err := GetClient(context.Background(), s.options)
		if err != nil {
			return nil, err
		}
		s.client = client
	}
	if s.uploader == nil {
		s.uploader = newUploader(s.client, s.options.UploadPartitionSize)
	}

	return s, nil
}

// Name returns "AWS S3"
func (s *Store) Name() string {
	return name
}

// Bucket returns the bucket the store works in.
func (s *Store) Bucket() string {
	return s.bucket
}

// Identity checks that the credential may access the bucket. S3 has no account lookup, so the
// bucket stands in for the account.
func (s *Store) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return remotestore.AccountInfo{}, utils.WrapIdentityError(mapError(err))
	}
	return remotestore.AccountInfo{ID: s.bucket, Name: s.bucket}, nil
}

// CreateFolder writes the folder marker of p. Parents are implied by the key prefix.
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
	_, err = s.client.PutObject(ctx, s.putInput(backend.FolderMarker(p), bytes.NewReader(nil)))
	return utils.WrapCreateFolderError(mapError(err))
}

// Stat reports a file for an object at the key of p, and a folder when any key has p as prefix.
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

// Put uploads r to p. In add mode the upload is conditional on the key being absent.
func (s *Store) Put(ctx context.Context, p string, mode remotestore.WriteMode, r io.Reader) error {
	key := backend.ObjectKey(p)
	input := s.putInput(key, r)

	if mode == remotestore.WriteModeAdd {
		exists, err := s.fileExists(ctx, key)
		if err != nil {
			return utils.WrapPutError(err)
		}
		if exists {
			return utils.WrapPutError(remotestore.ErrExists)
		}
		input.IfNoneMatch = aws.String("*")
	}

	s.logger.Debug("uploading object", zap.String("bucket", s.bucket), zap.String("key", key), zap.Stringer("mode", mode))
	_, err := s.uploader.Upload(ctx, input)
	return utils.WrapPutError(mapError(err))
}

// Get opens the object at p. The caller must close the reader.
func (s *Store) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(backend.ObjectKey(p)),
	})
	if err != nil {
		return nil, utils.WrapGetError(mapError(err))
	}
	return out.Body, nil
}

// Move copies src to dst and removes src. A folder is moved object by object.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	info, err := s.Stat(ctx, dst)
	switch {
	case err == nil:
		return utils.WrapMoveError(fmt.Errorf("%w: %s is a %s", remotestore.ErrExists, dst, kind(info)))
	case !errors.Is(err, remotestore.ErrNotFound):
		return utils.WrapMoveError(err)
	}

	info, err = s.Stat(ctx, src)
	if err != nil {
		return utils.WrapMoveError(err)
	}

	if info.IsFile {
		return utils.WrapMoveError(s.moveObject(ctx, backend.ObjectKey(src), backend.ObjectKey(dst)))
	}

	srcPrefix, dstPrefix := backend.FolderPrefix(src), backend.FolderPrefix(dst)
	keys, err := s.keysWithPrefix(ctx, srcPrefix)
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

	input := &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource(s.bucket, srcKey)),
	}
	if s.options.ACL != "" {
		input.ACL = s.options.ACL
	}
	if !s.options.DisableServerSideEncryption {
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	}
	if _, err := s.client.CopyObject(ctx, input); err != nil {
		return mapError(err)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(srcKey),
	})
	return mapError(err)
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
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(backend.ObjectKey(p)),
		})
		return utils.WrapDeleteError(mapError(err))
	}

	keys, err := s.keysWithPrefix(ctx, backend.FolderPrefix(p))
	if err != nil {
		return utils.WrapDeleteError(err)
	}
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		s.logger.Debug("deleting objects", zap.String("bucket", s.bucket), zap.Int("count", len(objects)))
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return utils.WrapDeleteError(mapError(err))
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return utils.WrapDeleteError(fmt.Errorf("could not delete %d objects, first %s: %s",
				len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message)))
		}
	}
	return nil
}

// ListFolder returns the first page of the direct children of p.
func (s *Store) ListFolder(ctx context.Context, p string) (*remotestore.ListPage, error) {
	p = utils.CleanPath(p)
	page, keys, err := s.list(ctx, p, "")
	if err != nil {
		return nil, utils.WrapListError(err)
	}
	// an existing folder always has at least its marker or one key below it
	if p != "/" && keys == 0 {
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

// list returns one page of folder and the number of raw keys and prefixes it was built from.
func (s *Store) list(ctx context.Context, folder, token string) (*remotestore.ListPage, int, error) {
	prefix := backend.FolderPrefix(folder)
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, 0, mapError(err)
	}

	page := &remotestore.ListPage{}
	for _, cp := range out.CommonPrefixes {
		if folderName := backend.ChildFolderName(prefix, aws.ToString(cp.Prefix)); folderName != "" {
			page.Entries = append(page.Entries, remotestore.EntryInfo{Name: folderName, IsFolder: true})
		}
	}
	for _, obj := range out.Contents {
		if fileName, ok := backend.ChildName(prefix, aws.ToString(obj.Key)); ok {
			page.Entries = append(page.Entries, remotestore.EntryInfo{Name: fileName, IsFile: true})
		}
	}

	if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
		page.HasMore = true
		page.Cursor = backend.EncodeCursor(folder, aws.ToString(out.NextContinuationToken))
	}
	return page, len(out.Contents) + len(out.CommonPrefixes), nil
}

func (s *Store) putInput(key string, body io.Reader) *s3.PutObjectInput {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if s.options.ACL != "" {
		input.ACL = s.options.ACL
	}
	if !s.options.DisableServerSideEncryption {
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	}
	return input
}

func (s *Store) fileExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
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
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, mapError(err)
	}
	return len(out.Contents) > 0, nil
}

func (s *Store) keysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, mapError(err)
		}
		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			return keys, nil
		}
		input.ContinuationToken = out.NextContinuationToken
	}
}

func copySource(bucket, key string) string {
	return (&url.URL{Path: bucket + "/" + key}).EscapedPath()
}

func kind(info remotestore.EntryInfo) string {
	if info.IsFolder {
		return "folder"
	}
	return "file"
}

// mapError translates S3 API error codes into the remotestore sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case "NotFound", "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %w", remotestore.ErrNotFound, err)
	case "PreconditionFailed", "ConditionalRequestConflict":
		return fmt.Errorf("%w: %w", remotestore.ErrExists, err)
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken", "Forbidden", "AccessDenied":
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
