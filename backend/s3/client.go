package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client defines the subset of S3 API methods used by this backend.
// *s3.Client implements it.
type Client interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, opts ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, opts ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Uploader streams object content. *manager.Uploader implements it.
type Uploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// putObjectUploader sends the whole body with a single PutObject. It is used when the client
// cannot do multipart uploads.
type putObjectUploader struct {
	client Client
}

func (u putObjectUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	out, err := u.client.PutObject(ctx, in)
	if err != nil {
		return nil, err
	}
	return &manager.UploadOutput{ETag: out.ETag, VersionID: out.VersionId}, nil
}

func newUploader(client Client, partSize int64) Uploader {
	api, ok := client.(manager.UploadAPIClient)
	if !ok {
		return putObjectUploader{client: client}
	}
	return manager.NewUploader(api, func(u *manager.Uploader) {
		if partSize > 0 {
			u.PartSize = partSize
		}
	})
}
