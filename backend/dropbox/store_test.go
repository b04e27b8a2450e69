package dropbox

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/users"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend/dropbox/mocks"
)

type StoreTestSuite struct {
	suite.Suite
	mockClient *mocks.Client
	store      *Store
	ctx        context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.mockClient = mocks.NewClient(s.T())
	var err error
	s.store, err = NewStore(WithClient(s.mockClient), WithChunkSize(8))
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TestNewStoreRequiresToken() {
	s.T().Setenv("REMOTESTORE_DROPBOX_ACCESS_TOKEN", "")
	_, err := NewStore()
	s.ErrorIs(err, errAccessTokenRequired)

	st, err := NewStore(WithAccessToken("token"))
	s.Require().NoError(err)
	s.NotNil(st.client)
	s.Equal("Dropbox", st.Name())
}

func (s *StoreTestSuite) TestIdentity() {
	s.Run("Success", func() {
		s.mockClient.EXPECT().GetCurrentAccount().Return(&users.FullAccount{
			Account: users.Account{
				AccountId: "dbid:123",
				Name:      &users.Name{DisplayName: "Jane Doe"},
				Email:     "jane@example.com",
			},
		}, nil).Once()

		info, err := s.store.Identity(s.ctx)
		s.Require().NoError(err)
		s.Equal(remotestore.AccountInfo{ID: "dbid:123", Name: "Jane Doe", Email: "jane@example.com"}, info)
	})

	s.Run("Error - invalid token", func() {
		s.mockClient.EXPECT().GetCurrentAccount().Return(nil, errors.New("invalid_access_token/..")).Once()

		_, err := s.store.Identity(s.ctx)
		s.ErrorIs(err, remotestore.ErrInvalidCredential)
	})
}

func (s *StoreTestSuite) TestCreateFolder() {
	s.Run("Success", func() {
		s.mockClient.EXPECT().
			CreateFolderV2(mock.MatchedBy(func(arg *files.CreateFolderArg) bool {
				return arg.Path == "/backup/multichunks"
			})).
			Return(&files.CreateFolderResult{}, nil).
			Once()

		s.NoError(s.store.CreateFolder(s.ctx, "/backup//multichunks/"))
	})

	s.Run("Success - folder already exists", func() {
		s.mockClient.EXPECT().CreateFolderV2(mock.Anything).
			Return(nil, errors.New("path/conflict/folder/..")).Once()

		s.NoError(s.store.CreateFolder(s.ctx, "/backup"))
	})

	s.Run("Error - file in the way", func() {
		s.mockClient.EXPECT().CreateFolderV2(mock.Anything).
			Return(nil, errors.New("path/conflict/file/..")).Once()

		s.ErrorIs(s.store.CreateFolder(s.ctx, "/backup"), remotestore.ErrExists)
	})

	s.Run("Success - root needs no call", func() {
		s.NoError(s.store.CreateFolder(s.ctx, "/"))
	})
}

func (s *StoreTestSuite) TestStat() {
	s.Run("Success - file", func() {
		s.mockClient.EXPECT().
			GetMetadata(mock.MatchedBy(func(arg *files.GetMetadataArg) bool {
				return arg.Path == "/backup/syncany"
			})).
			Return(&files.FileMetadata{Metadata: files.Metadata{Name: "syncany"}}, nil).
			Once()

		info, err := s.store.Stat(s.ctx, "/backup/syncany")
		s.Require().NoError(err)
		s.True(info.IsFile)
		s.Equal("syncany", info.Name)
	})

	s.Run("Success - folder", func() {
		s.mockClient.EXPECT().GetMetadata(mock.Anything).
			Return(&files.FolderMetadata{Metadata: files.Metadata{Name: "backup"}}, nil).Once()

		info, err := s.store.Stat(s.ctx, "/backup")
		s.Require().NoError(err)
		s.True(info.IsFolder)
	})

	s.Run("Error - not found", func() {
		s.mockClient.EXPECT().GetMetadata(mock.Anything).
			Return(nil, errors.New("path/not_found/")).Once()

		_, err := s.store.Stat(s.ctx, "/backup")
		s.ErrorIs(err, remotestore.ErrNotFound)
	})

	s.Run("Success - root", func() {
		info, err := s.store.Stat(s.ctx, "/")
		s.Require().NoError(err)
		s.True(info.IsFolder)
	})
}

func (s *StoreTestSuite) TestPutSingleUpload() {
	var uploaded string
	s.mockClient.EXPECT().
		Upload(mock.MatchedBy(func(arg *files.UploadArg) bool {
			return arg.Path == "/backup/temp-x" && arg.Mode.Tag == "add"
		}), mock.Anything).
		RunAndReturn(func(_ *files.UploadArg, r io.Reader) (*files.FileMetadata, error) {
			b, err := io.ReadAll(r)
			uploaded = string(b)
			return &files.FileMetadata{}, err
		}).
		Once()

	s.Require().NoError(s.store.Put(s.ctx, "/backup/temp-x", remotestore.WriteModeAdd, strings.NewReader("small")))
	s.Equal("small", uploaded)
}

func (s *StoreTestSuite) TestPutOverwriteConflict() {
	s.mockClient.EXPECT().
		Upload(mock.MatchedBy(func(arg *files.UploadArg) bool {
			return arg.Mode.Tag == "overwrite"
		}), mock.Anything).
		Return(nil, errors.New("path/conflict/file/")).
		Once()

	err := s.store.Put(s.ctx, "/backup/x", remotestore.WriteModeOverwrite, strings.NewReader("abc"))
	s.ErrorIs(err, remotestore.ErrExists)
}

func (s *StoreTestSuite) TestPutChunked() {
	// chunk size is 8 so this needs a start, one append and the finish
	content := "0123456789abcdef-tail"
	var got strings.Builder
	collect := func(r io.Reader) {
		b, _ := io.ReadAll(r)
		got.Write(b)
	}

	s.mockClient.EXPECT().UploadSessionStart(mock.Anything, mock.Anything).
		RunAndReturn(func(_ *files.UploadSessionStartArg, r io.Reader) (*files.UploadSessionStartResult, error) {
			collect(r)
			return &files.UploadSessionStartResult{SessionId: "session"}, nil
		}).Once()

	var offsets []uint64
	s.mockClient.EXPECT().UploadSessionAppendV2(mock.Anything, mock.Anything).
		RunAndReturn(func(arg *files.UploadSessionAppendArg, r io.Reader) error {
			offsets = append(offsets, arg.Cursor.Offset)
			collect(r)
			return nil
		}).Twice()

	s.mockClient.EXPECT().
		UploadSessionFinish(mock.MatchedBy(func(arg *files.UploadSessionFinishArg) bool {
			return arg.Cursor.SessionId == "session" &&
				arg.Cursor.Offset == uint64(len(content)) &&
				arg.Commit.Path == "/backup/big"
		}), mock.Anything).
		Return(&files.FileMetadata{}, nil).
		Once()

	s.Require().NoError(s.store.Put(s.ctx, "/backup/big", remotestore.WriteModeAdd, strings.NewReader(content)))
	s.Equal(content, got.String())
	s.Equal([]uint64{8, 16}, offsets)
}

func (s *StoreTestSuite) TestGet() {
	s.mockClient.EXPECT().
		Download(mock.MatchedBy(func(arg *files.DownloadArg) bool {
			return arg.Path == "/backup/syncany"
		})).
		Return(&files.FileMetadata{}, io.NopCloser(strings.NewReader("repo")), nil).
		Once()

	rc, err := s.store.Get(s.ctx, "/backup/syncany")
	s.Require().NoError(err)
	b, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal("repo", string(b))
	s.NoError(rc.Close())

	s.mockClient.EXPECT().Download(mock.Anything).Return(nil, nil, errors.New("path/not_found/")).Once()
	_, err = s.store.Get(s.ctx, "/backup/nope")
	s.ErrorIs(err, remotestore.ErrNotFound)
}

func (s *StoreTestSuite) TestMove() {
	s.mockClient.EXPECT().
		MoveV2(mock.MatchedBy(func(arg *files.RelocationArg) bool {
			return arg.FromPath == "/backup/temp-x" && arg.ToPath == "/backup/x"
		})).
		Return(&files.RelocationResult{}, nil).
		Once()
	s.NoError(s.store.Move(s.ctx, "/backup/temp-x", "/backup/x"))

	s.mockClient.EXPECT().MoveV2(mock.Anything).Return(nil, errors.New("to/conflict/file/")).Once()
	s.ErrorIs(s.store.Move(s.ctx, "/a", "/b"), remotestore.ErrExists)
}

func (s *StoreTestSuite) TestDelete() {
	s.mockClient.EXPECT().
		DeleteV2(mock.MatchedBy(func(arg *files.DeleteArg) bool {
			return arg.Path == "/backup/x"
		})).
		Return(&files.DeleteResult{}, nil).
		Once()
	s.NoError(s.store.Delete(s.ctx, "/backup/x"))

	s.mockClient.EXPECT().DeleteV2(mock.Anything).Return(nil, errors.New("path_lookup/not_found/")).Once()
	s.ErrorIs(s.store.Delete(s.ctx, "/backup/x"), remotestore.ErrNotFound)
}

func (s *StoreTestSuite) TestListFolder() {
	s.mockClient.EXPECT().
		ListFolder(mock.MatchedBy(func(arg *files.ListFolderArg) bool {
			return arg.Path == "/backup/multichunks"
		})).
		Return(&files.ListFolderResult{
			Entries: []files.IsMetadata{
				&files.FileMetadata{Metadata: files.Metadata{Name: "multichunk-aa"}},
				&files.FolderMetadata{Metadata: files.Metadata{Name: "sub"}},
				&files.DeletedMetadata{Metadata: files.Metadata{Name: "gone"}},
			},
			Cursor:  "c1",
			HasMore: true,
		}, nil).
		Once()

	page, err := s.store.ListFolder(s.ctx, "/backup/multichunks")
	s.Require().NoError(err)
	s.Equal([]remotestore.EntryInfo{
		{Name: "multichunk-aa", IsFile: true},
		{Name: "sub", IsFolder: true},
	}, page.Entries)
	s.True(page.HasMore)
	s.Equal("c1", page.Cursor)

	s.mockClient.EXPECT().
		ListFolderContinue(mock.MatchedBy(func(arg *files.ListFolderContinueArg) bool {
			return arg.Cursor == "c1"
		})).
		Return(&files.ListFolderResult{
			Entries: []files.IsMetadata{&files.FileMetadata{Metadata: files.Metadata{Name: "multichunk-bb"}}},
		}, nil).
		Once()

	page, err = s.store.ListFolderContinue(s.ctx, "c1")
	s.Require().NoError(err)
	s.Len(page.Entries, 1)
	s.False(page.HasMore)
}

func (s *StoreTestSuite) TestListRootUsesEmptyPath() {
	s.mockClient.EXPECT().
		ListFolder(mock.MatchedBy(func(arg *files.ListFolderArg) bool {
			return arg.Path == ""
		})).
		Return(&files.ListFolderResult{}, nil).
		Once()

	page, err := s.store.ListFolder(s.ctx, "/")
	s.Require().NoError(err)
	s.Empty(page.Entries)
}

func (s *StoreTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.store.Identity(ctx)
	s.ErrorIs(err, context.Canceled)
	s.ErrorIs(s.store.Delete(ctx, "/x"), context.Canceled)
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
