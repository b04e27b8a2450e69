package sftp

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/iotest"

	_sftp "github.com/pkg/sftp"
	"github.com/stretchr/testify/suite"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/backend/testsuite"
)

type storeTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *storeTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *storeTestSuite) TestNewStore() {
	store, err := NewStore("bob:secret@sftp.example.com:2222")
	s.Require().NoError(err)
	s.Equal("bob@sftp.example.com:2222", store.Authority().String(), "password is not part of the authority string")
	s.Equal(name, store.Name())

	_, err = NewStore("")
	s.Error(err, "authority is required")
}

func (s *storeTestSuite) TestIdentity() {
	store := newMemStore(s.T())
	info, err := store.Identity(s.ctx)
	s.Require().NoError(err)
	s.Equal("tester@localhost:2022", info.ID)
	s.Equal("tester", info.Name)
}

func (s *storeTestSuite) TestCreateFolderOverFile() {
	store := newMemStore(s.T())
	s.Require().NoError(testsuite.WriteString(s.ctx, store, "/dir/f", remotestore.WriteModeAdd, "x"))

	err := store.CreateFolder(s.ctx, "/dir/f")
	s.ErrorIs(err, remotestore.ErrExists)
}

func (s *storeTestSuite) TestPutCreatesParents() {
	store := newMemStore(s.T())
	s.Require().NoError(testsuite.WriteString(s.ctx, store, "/a/b/c/f", remotestore.WriteModeAdd, "deep"))

	info, err := store.Stat(s.ctx, "/a/b")
	s.Require().NoError(err)
	s.True(info.IsFolder)
}

func (s *storeTestSuite) TestPutWithFilePermissions() {
	store := newMemStore(s.T(), Options{FilePermissions: ptr("0640")})
	s.NoError(testsuite.WriteString(s.ctx, store, "/perm", remotestore.WriteModeAdd, "x"))

	bad := newMemStore(s.T(), Options{FilePermissions: ptr("rw-r-----")})
	s.Error(testsuite.WriteString(s.ctx, bad, "/perm", remotestore.WriteModeOverwrite, "x"))
}

func (s *storeTestSuite) TestPutCanceled() {
	store := newMemStore(s.T())
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := store.Put(ctx, "/canceled", remotestore.WriteModeOverwrite, strings.NewReader("data"))
	s.ErrorIs(err, context.Canceled)
}

func (s *storeTestSuite) TestPutFailureRemovesPartialFile() {
	store := newMemStore(s.T())
	readErr := errors.New("source went away")

	err := store.Put(s.ctx, "/partial", remotestore.WriteModeAdd, iotest.ErrReader(readErr))
	s.Require().Error(err)
	_, err = store.Stat(s.ctx, "/partial")
	s.ErrorIs(err, remotestore.ErrNotFound)

	s.NoError(testsuite.WriteString(s.ctx, store, "/partial", remotestore.WriteModeAdd, "retry"), "a retry is not blocked")
}

func (s *storeTestSuite) TestGetFolder() {
	store := newMemStore(s.T())
	s.Require().NoError(store.CreateFolder(s.ctx, "/folder"))

	_, err := store.Get(s.ctx, "/folder")
	s.ErrorIs(err, remotestore.ErrNotFound)
}

func (s *storeTestSuite) TestMoveCreatesParents() {
	store := newMemStore(s.T())
	s.Require().NoError(testsuite.WriteString(s.ctx, store, "/src", remotestore.WriteModeAdd, "moved"))
	s.Require().NoError(store.Move(s.ctx, "/src", "/new/parent/dst"))

	content, err := testsuite.ReadString(s.ctx, store, "/new/parent/dst")
	s.Require().NoError(err)
	s.Equal("moved", content)
}

func (s *storeTestSuite) TestDeleteRoot() {
	store := newMemStore(s.T())
	s.Error(store.Delete(s.ctx, "/"))
}

func (s *storeTestSuite) TestListFolderContinue() {
	store := newMemStore(s.T())
	page, err := store.ListFolder(s.ctx, "/")
	s.Require().NoError(err)
	s.False(page.HasMore)

	_, err = store.ListFolderContinue(s.ctx, "anything")
	s.Error(err)
}

func (s *storeTestSuite) TestMapError() {
	s.NoError(mapError(nil))
	s.ErrorIs(mapError(&fs.PathError{Op: "stat", Path: "/x", Err: fs.ErrNotExist}), remotestore.ErrNotFound)
	s.ErrorIs(mapError(fs.ErrExist), remotestore.ErrExists)
	s.ErrorIs(mapError(&_sftp.StatusError{Code: statusNoSuchFile}), remotestore.ErrNotFound)
	s.ErrorIs(mapError(&_sftp.StatusError{Code: statusFileAlreadyExists}), remotestore.ErrExists)

	other := errors.New("boom")
	s.Equal(other, mapError(other))
}

func (s *storeTestSuite) TestIsAuthError() {
	s.True(isAuthError(errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password]")))
	s.False(isAuthError(errors.New("dial tcp: lookup badhost: no such host")))
	s.False(isAuthError(nil))
}

func (s *storeTestSuite) TestRegistered() {
	s.NotNil(backend.Backend(Scheme))
}

func TestStore(t *testing.T) {
	suite.Run(t, new(storeTestSuite))
}
