package dropbox

import (
	"go.uber.org/zap"

	"github.com/c2fo/remotestore/options"
)

// Options holds configuration options for the Dropbox Store.
type Options struct {
	// AccessToken is the OAuth2 access token for Dropbox API authentication.
	AccessToken string

	// ChunkSize is the size of chunks for uploading large files (default: 4MB).
	// Content larger than one chunk is uploaded using chunked sessions.
	ChunkSize int64
}

// NewOptions creates Options with default values.
func NewOptions() Options {
	return Options{
		ChunkSize: 4 * 1024 * 1024, // 4MB default chunk size
	}
}

const (
	optionNameAccessToken = "accessToken"
	optionNameChunkSize   = "chunkSize"
	optionNameClient      = "client"
	optionNameLogger      = "logger"
)

// WithAccessToken sets the OAuth2 access token for Dropbox API authentication.
func WithAccessToken(token string) options.Option[Store] {
	return &accessTokenOpt{token: token}
}

type accessTokenOpt struct {
	token string
}

func (o *accessTokenOpt) Apply(s *Store) {
	s.options.AccessToken = o.token
}

func (o *accessTokenOpt) OptionName() string {
	return optionNameAccessToken
}

// WithChunkSize sets the chunk size for uploading large files. Non-positive sizes are ignored.
// Default is 4MB.
func WithChunkSize(size int64) options.Option[Store] {
	return &chunkSizeOpt{size: size}
}

type chunkSizeOpt struct {
	size int64
}

func (o *chunkSizeOpt) Apply(s *Store) {
	if o.size > 0 {
		s.options.ChunkSize = o.size
	}
}

func (o *chunkSizeOpt) OptionName() string {
	return optionNameChunkSize
}

// WithClient sets a custom Dropbox client. Useful for testing or when you need
// to provide a pre-configured client.
func WithClient(client Client) options.Option[Store] {
	return &clientOpt{client: client}
}

type clientOpt struct {
	client Client
}

func (o *clientOpt) Apply(s *Store) {
	s.client = o.client
}

func (o *clientOpt) OptionName() string {
	return optionNameClient
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *zap.Logger) options.Option[Store] {
	return options.Func(optionNameLogger, func(s *Store) {
		if l != nil {
			s.logger = l
		}
	})
}
