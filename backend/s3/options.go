package s3

import (
	"context"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Options holds s3-specific options.
type Options struct {
	AccessKeyID                 string                `json:"accessKeyId,omitempty"`
	SecretAccessKey             string                `json:"secretAccessKey,omitempty"`
	SessionToken                string                `json:"sessionToken,omitempty"`
	Region                      string                `json:"region,omitempty"`
	RoleARN                     string                `json:"roleARN,omitempty"`
	Endpoint                    string                `json:"endpoint,omitempty"`
	ACL                         types.ObjectCannedACL `json:"acl,omitempty"`
	ForcePathStyle              bool                  `json:"forcePathStyle,omitempty"`
	DisableServerSideEncryption bool                  `json:"disableServerSideEncryption,omitempty"`
	MaxRetries                  int                   `json:"maxRetries,omitempty"`
	UploadPartitionSize         int64                 `json:"uploadPartitionSize,omitempty"` // Partition size in bytes used to multipart upload of large files using manager.Uploader
}

// OptionsFromEnv fills the fields left empty in opts from REMOTESTORE_S3_* environment variables.
func OptionsFromEnv(opts Options) Options {
	setString := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	setString(&opts.AccessKeyID, "REMOTESTORE_S3_ACCESS_KEY_ID")
	setString(&opts.SecretAccessKey, "REMOTESTORE_S3_SECRET_ACCESS_KEY")
	setString(&opts.SessionToken, "REMOTESTORE_S3_SESSION_TOKEN")
	setString(&opts.Region, "REMOTESTORE_S3_REGION")
	setString(&opts.RoleARN, "REMOTESTORE_S3_ROLE_ARN")
	setString(&opts.Endpoint, "REMOTESTORE_S3_ENDPOINT")

	if !opts.ForcePathStyle {
		opts.ForcePathStyle, _ = strconv.ParseBool(os.Getenv("REMOTESTORE_S3_FORCE_PATH_STYLE"))
	}
	return opts
}

// GetClient setup S3 client
func GetClient(ctx context.Context, opt Options) (*s3.Client, error) {
	// setup default config
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	// return client instance
	return s3.NewFromConfig(awsConfig, func(opts *s3.Options) {
		if opt.Region != "" {
			opts.Region = opt.Region
		}

		// set filepath for minio users
		opts.UsePathStyle = opt.ForcePathStyle

		// use specific endpoint, otherwise, will use aws "default endpoint resolver" based on region
		if opt.Endpoint != "" {
			opts.BaseEndpoint = aws.String(opt.Endpoint)
		}

		if opt.MaxRetries > 0 {
			opts.Retryer = retry.AddWithMaxAttempts(retry.NewStandard(), opt.MaxRetries)
		}

		switch {
		case opt.AccessKeyID != "" && opt.SecretAccessKey != "" && opt.RoleARN != "":
			// assume the role with the static credentials of another account
			static := credentials.NewStaticCredentialsProvider(opt.AccessKeyID, opt.SecretAccessKey, opt.SessionToken)
			stsClient := sts.NewFromConfig(awsConfig, func(o *sts.Options) {
				o.Credentials = static
				if opt.Region != "" {
					o.Region = opt.Region
				}
			})
			opts.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(stsClient, opt.RoleARN))
		case opt.AccessKeyID != "" && opt.SecretAccessKey != "":
			opts.Credentials = credentials.NewStaticCredentialsProvider(
				opt.AccessKeyID,
				opt.SecretAccessKey,
				opt.SessionToken,
			)
		case opt.RoleARN != "":
			opts.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(sts.NewFromConfig(awsConfig), opt.RoleARN))
		}
	}), nil
}
