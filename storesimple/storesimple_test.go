package storesimple

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/backend/mem"
)

func TestStoreSimple(t *testing.T) {
	suite.Run(t, new(storeSimpleSuite))
}

type storeSimpleSuite struct {
	suite.Suite
}

func (s *storeSimpleSuite) TestParseURI() {
	tests := []struct {
		uri, message, scheme, authority, path string
		err                                   error
	}{
		{
			uri:     "",
			err:     ErrBlankURI,
			message: "cannot use an empty uri",
		},
		{
			uri:     "asdf@asdf.com",
			err:     ErrMissingScheme,
			message: "email address is not a uri",
		},
		{
			uri:     "1",
			err:     ErrMissingScheme,
			message: "integer is not a uri",
		},
		{
			uri:     "host.com/path",
			err:     ErrMissingScheme,
			message: "missing scheme",
		},
		{
			uri:     "/some/path/to/repo",
			err:     ErrMissingScheme,
			message: "path-only is not a uri",
		},
		{
			uri:     "s3://",
			err:     ErrMissingAuthority,
			message: "scheme only is not a uri without authority",
		},
		{
			uri:     "\u007f",
			err:     errors.New("net/url: invalid control character in URL"),
			message: "invalid char causes parse error",
		},
		{
			uri:       "fake://host.com/path/to/repo",
			message:   "valid uri for fake scheme",
			scheme:    "fake",
			authority: "host.com",
			path:      "/path/to/repo",
		},
		{
			uri:       "dbx:///backups/repo",
			message:   "valid dropbox uri, no authority required",
			scheme:    "dbx",
			authority: "",
			path:      "/backups/repo",
		},
		{
			uri:       "dbx://",
			message:   "dropbox root",
			scheme:    "dbx",
			authority: "",
			path:      "/",
		},
		{
			uri:       "file:///path/to/repo",
			message:   "valid file uri, no authority required",
			scheme:    "file",
			authority: "",
			path:      "/path/to/repo",
		},
		{
			uri:       "mem://namespace/path/to/repo",
			message:   "valid mem uri with namespace(authority)",
			scheme:    "mem",
			authority: "namespace",
			path:      "/path/to/repo",
		},
		{
			uri:       "s3://mybucket/path/to/repo",
			message:   "valid s3 uri",
			scheme:    "s3",
			authority: "mybucket",
			path:      "/path/to/repo",
		},
		{
			uri:       "gs://mybucket/path/to/repo",
			message:   "valid gs uri",
			scheme:    "gs",
			authority: "mybucket",
			path:      "/path/to/repo",
		},
		{
			uri:       "az://mycontainer/path/to/repo",
			message:   "valid azure uri",
			scheme:    "az",
			authority: "mycontainer",
			path:      "/path/to/repo",
		},
		{
			uri:       "sftp://user@host.com:22/path/to/repo",
			message:   "valid sftp uri, with port",
			scheme:    "sftp",
			authority: "user@host.com:22",
			path:      "/path/to/repo",
		},
		{
			uri:       `sftp://domain.com%5Cuser@host.com:22/path/to/repo`,
			message:   "valid sftp uri, with percent-encoded char",
			scheme:    "sftp",
			authority: `domain.com%5Cuser@host.com:22`,
			path:      "/path/to/repo",
		},
		{
			uri:     `sftp://domain.com\user@host.com:22/path/to/repo`,
			err:     errors.New("net/url: invalid userinfo"),
			message: `invalid sftp uri, with raw reserved char \`,
		},
	}

	for _, test := range tests {
		s.Run(test.message, func() {
			scheme, authority, path, err := parseURI(test.uri)
			if test.err != nil {
				s.Error(err, test.message)
				if errors.Is(err, test.err) {
					s.True(errors.Is(err, test.err), test.message)
				} else {
					// this is necessary since we can't recreate sentinel errors from url.Parse() to do errors.Is() comparison
					s.Contains(err.Error(), test.err.Error(), test.message)
				}
			} else {
				s.NoError(err, test.message)
				s.Equal(test.scheme, scheme, test.message)
				s.Equal(test.authority, authority, test.message)
				s.Equal(test.path, path, test.message)
			}
		})
	}
}

type namedClient struct {
	*mem.Store
	RegName string
}

// namedOpener returns an opener whose clients we can introspect to see which registration served a URI
func namedOpener(name string) backend.Opener {
	return func(context.Context, string, backend.Settings) (remotestore.ObjectStoreClient, error) {
		return &namedClient{Store: mem.NewStore(), RegName: name}, nil
	}
}

func (s *storeSimpleSuite) TestParseSupportedURI() {
	backend.Register("s3://mybucket/", namedOpener("bucket1"))
	backend.Register("s3://otherbucket/", namedOpener("bucket2"))
	backend.Register("s3://mybucket/path/", namedOpener("path"))
	s.T().Cleanup(func() {
		backend.Unregister("s3://mybucket/")
		backend.Unregister("s3://otherbucket/")
		backend.Unregister("s3://mybucket/path/")
	})

	tests := []struct {
		uri, message, authority, path, regFS string
	}{
		{
			uri:       "s3://mybucket/",
			message:   "registered bucket1",
			authority: "mybucket",
			path:      "/",
			regFS:     "bucket1",
		},
		{
			uri:       "s3://otherbucket/",
			message:   "registered bucket2",
			authority: "otherbucket",
			path:      "/",
			regFS:     "bucket2",
		},
		{
			uri:       "s3://mybucket/unregistered/path/",
			message:   "registered bucket, unregistered path",
			authority: "mybucket",
			path:      "/unregistered/path/",
			regFS:     "bucket1",
		},
		{
			uri:       "s3://mybucket/path/and/more/path/",
			message:   "registered bucket, registered path with more unregistered path",
			authority: "mybucket",
			path:      "/path/and/more/path/",
			regFS:     "path",
		},
	}

	for _, test := range tests {
		s.Run(test.message, func() {
			opener, authority, path, err := parseSupportedURI(test.uri)
			s.Require().NoError(err, test.message)
			s.Equal(test.authority, authority, test.message)
			s.Equal(test.path, path, test.message)

			client, err := opener(context.Background(), authority, backend.Settings{})
			s.Require().NoError(err)
			if c, ok := client.(*namedClient); ok {
				s.Equal(test.regFS, c.RegName, test.message)
			} else {
				s.Fail("should have returned the named client", test.message)
			}
		})
	}
}

func (s *storeSimpleSuite) TestSchemeIsNotAPrefix() {
	backend.Register("s", namedOpener("s"))
	s.T().Cleanup(func() { backend.Unregister("s") })

	_, _, _, err := parseSupportedURI("sftp-ish://host/path")
	s.ErrorIs(err, ErrRegFsNotFound, "a bare scheme only matches itself")
}

func (s *storeSimpleSuite) TestNewClient() {
	client, err := NewClient(context.Background(), "mem://storesimple-client/", Settings{})
	s.Require().NoError(err)
	s.Same(mem.Volume("storesimple-client"), client, "mem locations share their volume")

	_, err = NewClient(context.Background(), "unknown://host/path", Settings{})
	s.ErrorIs(err, ErrRegFsNotFound)

	_, err = NewClient(context.Background(), "", Settings{})
	s.ErrorIs(err, ErrBlankURI)
}

func (s *storeSimpleSuite) TestNewStore() {
	ctx := context.Background()
	store, err := NewStore(ctx, "mem://storesimple-store/backups/repo", Settings{})
	s.Require().NoError(err)
	s.Equal("/backups/repo", store.Layout().Root())

	s.Require().NoError(store.Init(ctx, true))
	info, err := mem.Volume("storesimple-store").Stat(ctx, "/backups/repo/multichunks")
	s.Require().NoError(err)
	s.True(info.IsFolder)

	_, err = NewStore(ctx, "s3://", Settings{})
	s.ErrorIs(err, ErrMissingAuthority)
}
