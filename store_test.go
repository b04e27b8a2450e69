package remotestore_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend/mem"
	"github.com/c2fo/remotestore/mocks"
)

type storeSuite struct {
	suite.Suite
	ctx    context.Context
	client *mocks.ObjectStoreClient
	logs   *observer.ObservedLogs
	store  *remotestore.RemoteStore
	local  string
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	s.client = mocks.NewObjectStoreClient(s.T())
	core, logs := observer.New(zap.DebugLevel)
	s.logs = logs
	s.local = s.T().TempDir()
	s.store = remotestore.New(s.client, "/backup", remotestore.WithLogger(zap.New(core)), remotestore.WithConcurrency(1))
}

func (s *storeSuite) writeLocal(name, content string) string {
	p := filepath.Join(s.local, name)
	s.Require().NoError(os.WriteFile(p, []byte(content), 0o600))
	return p
}

func (s *storeSuite) TestConnect() {
	s.client.EXPECT().Identity(mock.Anything).
		Return(remotestore.AccountInfo{ID: "1", Name: "Jane"}, nil).Once()

	s.Require().NoError(s.store.Connect(s.ctx))
	s.Equal(remotestore.Connected, s.store.State())
	s.Equal(1, s.logs.FilterMessage("using account").FilterField(zap.String("account", "Jane")).Len())

	s.store.Disconnect()
	s.store.Disconnect()
	s.Equal(remotestore.Disconnected, s.store.State())
	s.Equal("disconnected", s.store.State().String())
}

func (s *storeSuite) TestConnectInvalidCredential() {
	s.client.EXPECT().Identity(mock.Anything).
		Return(remotestore.AccountInfo{}, remotestore.ErrInvalidCredential).Once()

	err := s.store.Connect(s.ctx)
	var authErr *remotestore.AuthError
	s.Require().ErrorAs(err, &authErr)
	s.Equal(remotestore.Disconnected, s.store.State())
}

func (s *storeSuite) TestConnectTransportError() {
	s.client.EXPECT().Identity(mock.Anything).
		Return(remotestore.AccountInfo{}, errors.New("connection reset")).Once()

	err := s.store.Connect(s.ctx)
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("connect", storageErr.Op)
}

func (s *storeSuite) TestInitMissingRootWithoutCreate() {
	s.client.EXPECT().Identity(mock.Anything).Return(remotestore.AccountInfo{}, nil).Once()
	s.client.EXPECT().Stat(mock.Anything, "/backup").
		Return(remotestore.EntryInfo{}, remotestore.ErrNotFound).Once()

	err := s.store.Init(s.ctx, false)
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.ErrorIs(err, remotestore.ErrNotFound)
	s.Equal(remotestore.Disconnected, s.store.State())
	s.client.AssertNotCalled(s.T(), "CreateFolder", mock.Anything, mock.Anything)
}

func (s *storeSuite) TestInitCreatesEverything() {
	s.client.EXPECT().Identity(mock.Anything).Return(remotestore.AccountInfo{}, nil).Once()
	s.client.EXPECT().Stat(mock.Anything, "/backup").
		Return(remotestore.EntryInfo{}, remotestore.ErrNotFound).Once()

	var created []string
	s.client.EXPECT().CreateFolder(mock.Anything, mock.Anything).
		Run(func(_ context.Context, p string) { created = append(created, p) }).
		Return(nil).Times(6)

	s.Require().NoError(s.store.Init(s.ctx, true))
	s.Equal([]string{
		"/backup",
		"/backup/multichunks",
		"/backup/databases",
		"/backup/actions",
		"/backup/transactions",
		"/backup/temporary",
	}, created)
	s.Equal(remotestore.Disconnected, s.store.State())
}

func (s *storeSuite) TestInitFailureStopsFolderCreation() {
	s.client.EXPECT().Identity(mock.Anything).Return(remotestore.AccountInfo{}, nil).Once()
	s.client.EXPECT().Stat(mock.Anything, "/backup").
		Return(remotestore.EntryInfo{Name: "backup", IsFolder: true}, nil).Once()
	s.client.EXPECT().CreateFolder(mock.Anything, "/backup/multichunks").
		Return(errors.New("quota exceeded")).Once()

	err := s.store.Init(s.ctx, true)
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("/backup/multichunks", storageErr.Path)
	s.client.AssertNumberOfCalls(s.T(), "CreateFolder", 1)
	s.Equal(remotestore.Disconnected, s.store.State())
}

func (s *storeSuite) TestDownloadSpecialNames() {
	for _, name := range []string{".", ".."} {
		err := s.store.Download(s.ctx, remotestore.RemoteFile{Category: remotestore.Multichunk, Name: name}, filepath.Join(s.local, "x"))
		s.NoError(err)
	}
	s.NoFileExists(filepath.Join(s.local, "x"))
}

func (s *storeSuite) TestDownload() {
	dest := s.writeLocal("dest", "old content")
	s.client.EXPECT().Get(mock.Anything, "/backup/multichunks/multichunk-ab").
		Return(io.NopCloser(strings.NewReader("new content")), nil).Once()

	f := remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab"}
	s.Require().NoError(s.store.Download(s.ctx, f, dest))

	b, err := os.ReadFile(dest)
	s.Require().NoError(err)
	s.Equal("new content", string(b))
	s.onlyFile("dest")
}

func (s *storeSuite) TestDownloadToTempDir() {
	tempDir := s.T().TempDir()
	st := remotestore.New(s.client, "/backup", remotestore.WithTempDir(tempDir))
	s.client.EXPECT().Get(mock.Anything, "/backup/syncany").
		Return(io.NopCloser(strings.NewReader("repo")), nil).Once()

	dest := filepath.Join(s.local, "repo")
	s.Require().NoError(st.Download(s.ctx, remotestore.RemoteFile{Category: remotestore.Repo, Name: "syncany"}, dest))

	b, err := os.ReadFile(dest)
	s.Require().NoError(err)
	s.Equal("repo", string(b))

	entries, err := os.ReadDir(tempDir)
	s.Require().NoError(err)
	s.Empty(entries, "temp file is moved away")
}

func (s *storeSuite) TestDownloadFailureKeepsDestination() {
	dest := s.writeLocal("dest", "old content")
	s.client.EXPECT().Get(mock.Anything, mock.Anything).
		Return(nil, remotestore.ErrNotFound).Once()

	err := s.store.Download(s.ctx, remotestore.RemoteFile{Category: remotestore.Database, Name: "database-a-0000000001"}, dest)
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.ErrorIs(err, remotestore.ErrNotFound)

	b, readErr := os.ReadFile(dest)
	s.Require().NoError(readErr)
	s.Equal("old content", string(b))
	s.onlyFile("dest")
}

func (s *storeSuite) TestUpload() {
	src := s.writeLocal("chunk", "payload")
	var uploaded string
	put := s.client.EXPECT().
		Put(mock.Anything, "/backup/multichunks/temp-multichunk-ab", remotestore.WriteModeAdd, mock.Anything).
		Run(func(_ context.Context, _ string, _ remotestore.WriteMode, r io.Reader) {
			b, _ := io.ReadAll(r)
			uploaded = string(b)
		}).
		Return(nil).Once()
	s.client.EXPECT().
		Move(mock.Anything, "/backup/multichunks/temp-multichunk-ab", "/backup/multichunks/multichunk-ab").
		Return(nil).Once().NotBefore(put)

	f := remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab"}
	s.Require().NoError(s.store.Upload(s.ctx, src, f))
	s.Equal("payload", uploaded)
}

func (s *storeSuite) TestUploadSubPath() {
	src := s.writeLocal("chunk", "payload")
	s.client.EXPECT().
		Put(mock.Anything, "/backup/multichunks/ab/temp-multichunk-ab", remotestore.WriteModeAdd, mock.Anything).
		Return(nil).Once()
	s.client.EXPECT().
		Move(mock.Anything, "/backup/multichunks/ab/temp-multichunk-ab", "/backup/multichunks/ab/multichunk-ab").
		Return(nil).Once()

	f := remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab", SubPath: "ab"}
	s.NoError(s.store.Upload(s.ctx, src, f))
}

func (s *storeSuite) TestUploadMoveFailure() {
	src := s.writeLocal("chunk", "payload")
	s.client.EXPECT().Put(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.client.EXPECT().Move(mock.Anything, mock.Anything, mock.Anything).Return(remotestore.ErrExists).Once()
	s.client.EXPECT().Delete(mock.Anything, "/backup/multichunks/temp-multichunk-ab").Return(nil).Once()

	err := s.store.Upload(s.ctx, src, remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab"})
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.ErrorIs(err, remotestore.ErrExists)
	var moveErr *remotestore.MoveError
	s.False(errors.As(err, &moveErr), "upload failures are storage errors")
}

func (s *storeSuite) TestUploadPutFailureRemovesTemp() {
	src := s.writeLocal("chunk", "payload")
	s.client.EXPECT().Put(mock.Anything, "/backup/multichunks/temp-multichunk-ab", remotestore.WriteModeAdd, mock.Anything).
		Return(errors.New("connection reset")).Once()
	s.client.EXPECT().Delete(mock.Anything, "/backup/multichunks/temp-multichunk-ab").
		Return(remotestore.ErrNotFound).Once()

	err := s.store.Upload(s.ctx, src, remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab"})
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("/backup/multichunks/temp-multichunk-ab", storageErr.Path)
	s.Zero(s.logs.FilterMessage("temp file left behind").Len())
}

func (s *storeSuite) TestUploadExistingTempIsKept() {
	src := s.writeLocal("chunk", "payload")
	s.client.EXPECT().Put(mock.Anything, "/backup/multichunks/temp-multichunk-ab", remotestore.WriteModeAdd, mock.Anything).
		Return(remotestore.ErrExists).Once()

	err := s.store.Upload(s.ctx, src, remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab"})
	s.ErrorIs(err, remotestore.ErrExists)
	s.client.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *storeSuite) TestSubPathOutsideRoot() {
	src := s.writeLocal("chunk", "payload")
	escaped := remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab", SubPath: "../../../evil"}
	inside := remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab"}

	var storageErr *remotestore.StorageError
	err := s.store.Upload(s.ctx, src, escaped)
	s.Require().ErrorAs(err, &storageErr)
	s.ErrorIs(err, remotestore.ErrInvalidPath)

	err = s.store.Download(s.ctx, escaped, filepath.Join(s.local, "dest"))
	s.Require().ErrorAs(err, &storageErr)
	s.ErrorIs(err, remotestore.ErrInvalidPath)
	s.NoFileExists(filepath.Join(s.local, "dest"))

	ok, err := s.store.Delete(s.ctx, escaped)
	s.False(ok)
	s.ErrorIs(err, remotestore.ErrInvalidPath)

	var moveErr *remotestore.MoveError
	err = s.store.Move(s.ctx, inside, escaped)
	s.Require().ErrorAs(err, &moveErr)
	s.ErrorIs(err, remotestore.ErrInvalidPath)
	err = s.store.Move(s.ctx, escaped, inside)
	s.ErrorIs(err, remotestore.ErrInvalidPath)
}

func (s *storeSuite) TestUploadMissingLocalFile() {
	err := s.store.Upload(s.ctx, filepath.Join(s.local, "nope"), remotestore.RemoteFile{Category: remotestore.Repo, Name: "syncany"})
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *storeSuite) TestUploadInvalidName() {
	err := s.store.Upload(s.ctx, s.writeLocal("x", "x"), remotestore.RemoteFile{Category: remotestore.Repo, Name: "../escape"})
	s.ErrorIs(err, remotestore.ErrInvalidName)
}

func (s *storeSuite) TestDelete() {
	f := remotestore.RemoteFile{Category: remotestore.Action, Name: "action-up-a-1"}

	s.client.EXPECT().Delete(mock.Anything, "/backup/actions/action-up-a-1").Return(nil).Once()
	ok, err := s.store.Delete(s.ctx, f)
	s.Require().NoError(err)
	s.True(ok)

	s.client.EXPECT().Delete(mock.Anything, "/backup/actions/action-up-a-1").
		Return(remotestore.ErrNotFound).Once()
	ok, err = s.store.Delete(s.ctx, f)
	s.Require().NoError(err)
	s.True(ok, "missing file counts as deleted")

	s.client.EXPECT().Delete(mock.Anything, "/backup/actions/action-up-a-1").
		Return(errors.New("forbidden")).Once()
	ok, err = s.store.Delete(s.ctx, f)
	s.False(ok)
	var storageErr *remotestore.StorageError
	s.ErrorAs(err, &storageErr)
}

func (s *storeSuite) TestMove() {
	src := remotestore.RemoteFile{Category: remotestore.Database, Name: "database-a-0000000001"}
	dst := remotestore.RemoteFile{Category: remotestore.Database, Name: "database-a-0000000002"}

	s.client.EXPECT().Move(mock.Anything, "/backup/databases/database-a-0000000001", "/backup/databases/database-a-0000000002").
		Return(nil).Once()
	s.Require().NoError(s.store.Move(s.ctx, src, dst))

	s.client.EXPECT().Move(mock.Anything, mock.Anything, mock.Anything).
		Return(remotestore.ErrNotFound).Once()
	err := s.store.Move(s.ctx, src, dst)
	var moveErr *remotestore.MoveError
	s.Require().ErrorAs(err, &moveErr)
	s.Equal("/backup/databases/database-a-0000000001", moveErr.Source)
	s.Equal("/backup/databases/database-a-0000000002", moveErr.Target)
	s.ErrorIs(err, remotestore.ErrNotFound)
}

func (s *storeSuite) TestListFollowsCursor() {
	s.client.EXPECT().ListFolder(mock.Anything, "/backup/multichunks").
		Return(&remotestore.ListPage{
			Entries: []remotestore.EntryInfo{
				{Name: "multichunk-01", IsFile: true},
				{Name: "multichunk-02", IsFile: true},
				{Name: "multichunk-03", IsFile: true},
			},
			Cursor:  "next",
			HasMore: true,
		}, nil).Once()
	s.client.EXPECT().ListFolderContinue(mock.Anything, "next").
		Return(&remotestore.ListPage{
			Entries: []remotestore.EntryInfo{
				{Name: "multichunk-04", IsFile: true},
				{Name: "multichunk-05", IsFile: true},
			},
		}, nil).Once()

	files, err := s.store.List(s.ctx, remotestore.Multichunk)
	s.Require().NoError(err)
	s.Len(files, 5)
	s.Equal(remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-05"}, files["multichunk-05"])
}

func (s *storeSuite) TestListSkipsFoldersAndForeignNames() {
	s.client.EXPECT().ListFolder(mock.Anything, "/backup/databases").
		Return(&remotestore.ListPage{
			Entries: []remotestore.EntryInfo{
				{Name: "database-a-0000000001", IsFile: true},
				{Name: "cleanup-1", IsFile: true},
				{Name: "temp-database-a-0000000002", IsFile: true},
				{Name: "database-b-0000000003", IsFolder: true},
			},
		}, nil).Once()

	files, err := s.store.List(s.ctx, remotestore.Database)
	s.Require().NoError(err)
	s.Len(files, 1)
	s.Contains(files, "database-a-0000000001")
	s.Equal(2, s.logs.FilterMessage("skipping file with unexpected name").Len())
}

func (s *storeSuite) TestListMissingFolder() {
	s.client.EXPECT().ListFolder(mock.Anything, "/backup/transactions").
		Return(nil, remotestore.ErrNotFound).Once()

	files, err := s.store.List(s.ctx, remotestore.Transaction)
	s.Require().NoError(err)
	s.NotNil(files)
	s.Empty(files)
}

func (s *storeSuite) TestListError() {
	s.client.EXPECT().ListFolder(mock.Anything, mock.Anything).
		Return(&remotestore.ListPage{HasMore: true, Cursor: "c"}, nil).Once()
	s.client.EXPECT().ListFolderContinue(mock.Anything, "c").
		Return(nil, errors.New("expired cursor")).Once()

	_, err := s.store.List(s.ctx, remotestore.Action)
	var storageErr *remotestore.StorageError
	s.ErrorAs(err, &storageErr)
}

func (s *storeSuite) TestCustomNameParser() {
	st := remotestore.New(s.client, "/backup", remotestore.WithNameParser(func(c remotestore.Category, name string) (remotestore.RemoteFile, error) {
		return remotestore.RemoteFile{Category: c, Name: strings.ToUpper(name)}, nil
	}))
	s.client.EXPECT().ListFolder(mock.Anything, "/backup/temporary").
		Return(&remotestore.ListPage{Entries: []remotestore.EntryInfo{{Name: "whatever", IsFile: true}}}, nil).Once()

	files, err := st.List(s.ctx, remotestore.Temp)
	s.Require().NoError(err)
	s.Equal("WHATEVER", files["whatever"].Name)
}

func (s *storeSuite) TestProbes() {
	s.Run("target exists", func() {
		s.client.EXPECT().Stat(mock.Anything, "/backup").
			Return(remotestore.EntryInfo{IsFolder: true}, nil).Once()
		s.True(s.store.TestTargetExists(s.ctx))

		s.client.EXPECT().Stat(mock.Anything, "/backup").
			Return(remotestore.EntryInfo{IsFile: true}, nil).Once()
		s.False(s.store.TestTargetExists(s.ctx), "a file is not a target")

		s.client.EXPECT().Stat(mock.Anything, "/backup").
			Return(remotestore.EntryInfo{}, errors.New("boom")).Once()
		s.False(s.store.TestTargetExists(s.ctx))
	})

	s.Run("can create", func() {
		s.client.EXPECT().Stat(mock.Anything, "/").
			Return(remotestore.EntryInfo{IsFolder: true}, nil).Once()
		s.True(s.store.TestTargetCanCreate(s.ctx))
	})

	s.Run("repo file", func() {
		s.client.EXPECT().Stat(mock.Anything, "/backup/syncany").
			Return(remotestore.EntryInfo{IsFile: true}, nil).Once()
		s.True(s.store.TestRepoFileExists(s.ctx))

		s.client.EXPECT().Stat(mock.Anything, "/backup/syncany").
			Return(remotestore.EntryInfo{}, remotestore.ErrNotFound).Once()
		s.False(s.store.TestRepoFileExists(s.ctx))
	})

	s.Run("can write", func() {
		var probe string
		s.client.EXPECT().Stat(mock.Anything, "/backup").
			Return(remotestore.EntryInfo{IsFolder: true}, nil).Once()
		s.client.EXPECT().Put(mock.Anything, mock.Anything, remotestore.WriteModeAdd, mock.Anything).
			Run(func(_ context.Context, p string, _ remotestore.WriteMode, _ io.Reader) { probe = p }).
			Return(nil).Once()
		s.client.EXPECT().Delete(mock.Anything, mock.Anything).
			Run(func(_ context.Context, p string) { s.Equal(probe, p) }).
			Return(nil).Once()
		s.True(s.store.TestTargetCanWrite(s.ctx))
		s.True(strings.HasPrefix(probe, "/backup/.remotestore-write-test-"), probe)

		s.client.EXPECT().Stat(mock.Anything, "/backup").
			Return(remotestore.EntryInfo{IsFolder: true}, nil).Once()
		s.client.EXPECT().Put(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("read only")).Once()
		s.False(s.store.TestTargetCanWrite(s.ctx))
	})
}

func (s *storeSuite) TestCustomRepoFileName() {
	st := remotestore.New(s.client, "/", remotestore.WithRepoFileName("repo"))
	s.client.EXPECT().Stat(mock.Anything, "/repo").
		Return(remotestore.EntryInfo{IsFile: true}, nil).Once()
	s.True(st.TestRepoFileExists(s.ctx))
}

func (s *storeSuite) TestListPath() {
	s.client.EXPECT().ListFolder(mock.Anything, "/backup/multichunks").
		Return(&remotestore.ListPage{
			Entries: []remotestore.EntryInfo{
				{Name: "multichunk-01", IsFile: true},
				{Name: "ab", IsFolder: true},
			},
		}, nil).Once()

	contents, err := s.store.ListPath(s.ctx, "multichunks")
	s.Require().NoError(err)
	s.Equal(map[string]remotestore.FileType{
		"multichunk-01": remotestore.FileTypeFile,
		"ab":            remotestore.FileTypeFolder,
	}, contents)

	s.client.EXPECT().ListFolder(mock.Anything, "/backup/missing").
		Return(nil, remotestore.ErrNotFound).Once()
	contents, err = s.store.ListPath(s.ctx, "missing")
	s.Require().NoError(err)
	s.Empty(contents)

	s.client.EXPECT().ListFolder(mock.Anything, "/backup/broken").
		Return(nil, errors.New("boom")).Once()
	_, err = s.store.ListPath(s.ctx, "broken")
	var se *remotestore.StorageError
	s.Require().ErrorAs(err, &se)
	s.Equal("/backup/broken", se.Path)
}

func (s *storeSuite) TestListPathOutsideRoot() {
	for _, p := range []string{"..", "multichunks/../..", "../backup-other"} {
		_, err := s.store.ListPath(s.ctx, p)
		var storageErr *remotestore.StorageError
		s.Require().ErrorAs(err, &storageErr, p)
		s.ErrorIs(err, remotestore.ErrInvalidPath, p)
	}
}

func (s *storeSuite) TestCreatePath() {
	s.client.EXPECT().CreateFolder(mock.Anything, "/backup/multichunks/ab").Return(nil).Once()
	ok, err := s.store.CreatePath(s.ctx, "multichunks/ab/")
	s.Require().NoError(err)
	s.True(ok)

	s.client.EXPECT().CreateFolder(mock.Anything, "/backup/multichunks/cd").Return(errors.New("quota exceeded")).Once()
	ok, err = s.store.CreatePath(s.ctx, "multichunks/cd")
	s.False(ok)
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("/backup/multichunks/cd", storageErr.Path)

	ok, err = s.store.CreatePath(s.ctx, "../sibling")
	s.False(ok)
	s.ErrorIs(err, remotestore.ErrInvalidPath)
}

func (s *storeSuite) TestRemoveFolder() {
	s.client.EXPECT().Delete(mock.Anything, "/backup/multichunks/ab").Return(nil).Once()
	s.True(s.store.RemoveFolder(s.ctx, "multichunks/ab"))

	s.client.EXPECT().Delete(mock.Anything, "/backup/multichunks/ab").Return(remotestore.ErrNotFound).Once()
	s.False(s.store.RemoveFolder(s.ctx, "multichunks/ab"))
}

func (s *storeSuite) TestRemoveFolderRefusesRootAndAbove() {
	for _, p := range []string{"", "/", ".", "..", "multichunks/../..", "multichunks/.."} {
		s.False(s.store.RemoveFolder(s.ctx, p), p)
	}
	s.client.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *storeSuite) TestInitCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.client.EXPECT().Identity(mock.Anything).Return(remotestore.AccountInfo{}, nil).Once()
	s.client.EXPECT().Stat(mock.Anything, "/backup").
		Return(remotestore.EntryInfo{Name: "backup", IsFolder: true}, nil).Once()

	err := s.store.Init(ctx, true)
	var storageErr *remotestore.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("init: create folder", storageErr.Op)
	s.ErrorIs(err, context.Canceled)
	s.client.AssertNotCalled(s.T(), "CreateFolder", mock.Anything, mock.Anything)
}

// onlyFile asserts that name is the single entry of the local directory.
func (s *storeSuite) onlyFile(name string) {
	entries, err := os.ReadDir(s.local)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(name, entries[0].Name())
}

func TestStore(t *testing.T) {
	suite.Run(t, new(storeSuite))
}

// cleanTemporarySuite runs against the in-memory backend to check what counts as a leftover.
type cleanTemporarySuite struct {
	suite.Suite
	ctx    context.Context
	client *mem.Store
	store  *remotestore.RemoteStore
}

func (s *cleanTemporarySuite) SetupTest() {
	s.ctx = context.Background()
	s.client = mem.NewStore(mem.WithPageSize(2))
	s.store = remotestore.New(s.client, "/backup")
	s.Require().NoError(s.store.Init(s.ctx, true))
}

func (s *cleanTemporarySuite) put(p string) {
	s.Require().NoError(s.client.Put(s.ctx, p, remotestore.WriteModeAdd, strings.NewReader("x")))
}

func (s *cleanTemporarySuite) exists(p string) bool {
	_, err := s.client.Stat(s.ctx, p)
	return err == nil
}

func (s *cleanTemporarySuite) TestCleanTemporary() {
	leftovers := []string{
		"/backup/multichunks/temp-multichunk-ff",
		"/backup/databases/temp-database-a-0000000001",
		"/backup/databases/temp-cleanup-4",
		"/backup/temp-syncany",
		"/backup/.remotestore-write-test-1234",
	}
	kept := []string{
		"/backup/multichunks/multichunk-ff",
		"/backup/multichunks/temp-database-a-0000000001",
		"/backup/actions/temp-unknown",
		"/backup/databases/sub/temp-cleanup-5",
		"/backup/temporary/temp-real",
		// a valid Temp file that also reads as the temp upload of temp-1
		"/backup/temporary/temp-temp-1",
	}
	for _, p := range append(append([]string{}, leftovers...), kept...) {
		s.put(p)
	}

	removed, err := s.store.CleanTemporary(s.ctx)
	s.Require().NoError(err)
	s.Equal(len(leftovers), removed)

	for _, p := range leftovers {
		s.False(s.exists(p), p)
	}
	for _, p := range kept {
		s.True(s.exists(p), p)
	}

	removed, err = s.store.CleanTemporary(s.ctx)
	s.Require().NoError(err)
	s.Zero(removed, "second run has nothing to do")
}

func (s *cleanTemporarySuite) TestRoundTrip() {
	local := s.T().TempDir()
	src := filepath.Join(local, "src")
	s.Require().NoError(os.WriteFile(src, []byte("round trip"), 0o600))

	f := remotestore.RemoteFile{Category: remotestore.Transaction, Name: "transaction-1"}
	s.Require().NoError(s.store.Upload(s.ctx, src, f))

	dest := filepath.Join(local, "dest")
	s.Require().NoError(s.store.Download(s.ctx, f, dest))
	b, err := os.ReadFile(dest)
	s.Require().NoError(err)
	s.Equal("round trip", string(b))

	s.False(s.exists("/backup/transactions/temp-transaction-1"))
}

func (s *cleanTemporarySuite) TestPathsStayBelowRoot() {
	s.put("/other/keep")
	nested := remotestore.New(s.client, "/backup/repo")
	s.Require().NoError(nested.Init(s.ctx, true))
	s.put("/backup/sibling/keep")

	src := filepath.Join(s.T().TempDir(), "src")
	s.Require().NoError(os.WriteFile(src, []byte("x"), 0o600))
	f := remotestore.RemoteFile{Category: remotestore.Multichunk, Name: "multichunk-ab", SubPath: "../../../evil"}
	s.ErrorIs(nested.Upload(s.ctx, src, f), remotestore.ErrInvalidPath)
	s.False(s.exists("/evil/multichunk-ab"))

	s.False(nested.RemoveFolder(s.ctx, ".."))
	s.False(nested.RemoveFolder(s.ctx, ""))
	s.True(s.exists("/backup/sibling/keep"))
	s.True(s.exists("/other/keep"))
	s.True(nested.TestTargetExists(s.ctx))
}

func TestCleanTemporary(t *testing.T) {
	suite.Run(t, new(cleanTemporarySuite))
}
