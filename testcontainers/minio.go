package testcontainers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/backend/s3"
)

const (
	minioRegion = "dummy"
	minioBucket = "miniobucket"
)

func registerMinio(t *testing.T) string {
	ctx := context.Background()
	is := require.New(t)

	ctr, err := minio.Run(ctx, "minio/minio:latest", testcontainers.WithName("remotestore-minio"))
	testcontainers.CleanupContainer(t, ctr)
	is.NoError(err)

	ep, err := ctr.ConnectionString(ctx)
	is.NoError(err)

	cfg, err := config.LoadDefaultConfig(ctx)
	is.NoError(err)

	cli := awss3.NewFromConfig(cfg, func(opts *awss3.Options) {
		opts.Region = minioRegion
		opts.UsePathStyle = true
		opts.BaseEndpoint = aws.String("http://" + ep)
		opts.Credentials = credentials.NewStaticCredentialsProvider(ctr.Username, ctr.Password, "")
	})
	_, err = cli.CreateBucket(ctx, &awss3.CreateBucketInput{Bucket: aws.String(minioBucket)})
	is.NoError(err)

	store, err := s3.NewStore(minioBucket, s3.WithClient(cli), s3.WithOptions(s3.Options{DisableServerSideEncryption: true}))
	is.NoError(err)

	uri := "s3://" + minioBucket + "/"
	backend.Register(uri, fixed(store))
	return uri
}

// fixed is an opener that always returns client.
func fixed(client remotestore.ObjectStoreClient) backend.Opener {
	return func(context.Context, string, backend.Settings) (remotestore.ObjectStoreClient, error) {
		return client, nil
	}
}
