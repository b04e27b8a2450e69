package testsuite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c2fo/remotestore"
)

// RunStoreTests drives a RemoteStore rooted at root over client through a full repository
// lifecycle. root must not exist beforehand and is removed afterwards.
func RunStoreTests(t *testing.T, client remotestore.ObjectStoreClient, root string) {
	t.Helper()

	ctx := context.Background()
	store := remotestore.New(client, root)
	layout := store.Layout()
	t.Cleanup(func() {
		if err := client.Delete(ctx, layout.Root()); err != nil {
			t.Logf("warning: error deleting store root %s: %v", layout.Root(), err)
		}
	})

	local := t.TempDir()
	writeLocal := func(name, content string) string {
		p := filepath.Join(local, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}

	t.Run("InitWithoutCreate", func(t *testing.T) {
		require.False(t, store.TestTargetExists(ctx))
		err := store.Init(ctx, false)
		require.ErrorIs(t, err, remotestore.ErrNotFound)
		require.False(t, store.TestTargetExists(ctx), "nothing is created")
	})

	t.Run("Init", func(t *testing.T) {
		require.True(t, store.TestTargetCanCreate(ctx))
		require.NoError(t, store.Init(ctx, true))
		require.Equal(t, remotestore.Disconnected, store.State())

		for _, folder := range layout.Folders() {
			info, err := client.Stat(ctx, folder)
			require.NoError(t, err, folder)
			require.True(t, info.IsFolder, folder)
		}
		require.True(t, store.TestTargetExists(ctx))
		require.True(t, store.TestTargetCanWrite(ctx))
		require.NoError(t, store.Init(ctx, false), "init is repeatable")
	})

	require.NoError(t, store.Connect(ctx))
	require.Equal(t, remotestore.Connected, store.State())

	chunk, err := remotestore.NewRemoteFile(remotestore.Multichunk, "multichunk-0a1b2c")
	require.NoError(t, err)

	t.Run("UploadDownload", func(t *testing.T) {
		require.NoError(t, store.Upload(ctx, writeLocal("chunk", "chunk data"), chunk))

		dest := filepath.Join(local, "chunk.out")
		require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o600))
		require.NoError(t, store.Download(ctx, chunk, dest))

		b, err := os.ReadFile(dest)
		require.NoError(t, err)
		require.Equal(t, "chunk data", string(b))

		leftovers, err := filepath.Glob(filepath.Join(local, ".chunk.out.*"))
		require.NoError(t, err)
		require.Empty(t, leftovers, "download temp file is removed")
	})

	t.Run("UploadExisting", func(t *testing.T) {
		err := store.Upload(ctx, writeLocal("chunk2", "other"), chunk)
		require.Error(t, err)
		var storageErr *remotestore.StorageError
		require.ErrorAs(t, err, &storageErr)

		_, err = client.Stat(ctx, layout.PathFor(remotestore.Multichunk)+"/temp-"+chunk.Name)
		require.ErrorIs(t, err, remotestore.ErrNotFound, "temp object of the failed upload is removed")
	})

	t.Run("RepoFile", func(t *testing.T) {
		require.False(t, store.TestRepoFileExists(ctx))
		repo, err := remotestore.NewRemoteFile(remotestore.Repo, remotestore.DefaultRepoFileName)
		require.NoError(t, err)
		require.NoError(t, store.Upload(ctx, writeLocal("repo", "repo"), repo))
		require.True(t, store.TestRepoFileExists(ctx))
	})

	t.Run("List", func(t *testing.T) {
		db1, _ := remotestore.NewRemoteFile(remotestore.Database, "database-A-0000000001")
		db2, _ := remotestore.NewRemoteFile(remotestore.Database, "database-B-0000000002")
		cleanup, _ := remotestore.NewRemoteFile(remotestore.Cleanup, "cleanup-7")
		for _, f := range []remotestore.RemoteFile{db1, db2, cleanup} {
			require.NoError(t, store.Upload(ctx, writeLocal(f.Name, f.Name), f))
		}

		dbs, err := store.List(ctx, remotestore.Database)
		require.NoError(t, err)
		require.Len(t, dbs, 2, "cleanup files share the folder but not the pattern")
		require.Equal(t, db1, dbs[db1.Name])

		cleanups, err := store.List(ctx, remotestore.Cleanup)
		require.NoError(t, err)
		require.Len(t, cleanups, 1)

		contents, err := store.ListPath(ctx, "databases")
		require.NoError(t, err)
		require.Len(t, contents, 3)
		require.Equal(t, remotestore.FileTypeFile, contents["cleanup-7"])

		rootContents, err := store.ListPath(ctx, "")
		require.NoError(t, err)
		require.Equal(t, remotestore.FileTypeFolder, rootContents["multichunks"])
		require.Equal(t, remotestore.FileTypeFile, rootContents[remotestore.DefaultRepoFileName])
	})

	t.Run("Move", func(t *testing.T) {
		src, _ := remotestore.NewRemoteFile(remotestore.Action, "action-up-A-1")
		dst, _ := remotestore.NewRemoteFile(remotestore.Action, "action-up-A-2")
		require.NoError(t, store.Upload(ctx, writeLocal(src.Name, "action"), src))
		require.NoError(t, store.Move(ctx, src, dst))

		actions, err := store.List(ctx, remotestore.Action)
		require.NoError(t, err)
		require.Contains(t, actions, dst.Name)
		require.NotContains(t, actions, src.Name)

		var moveErr *remotestore.MoveError
		require.ErrorAs(t, store.Move(ctx, src, dst), &moveErr)
	})

	t.Run("Delete", func(t *testing.T) {
		ok, err := store.Delete(ctx, chunk)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = store.Delete(ctx, chunk)
		require.NoError(t, err)
		require.True(t, ok, "deleting a missing file succeeds")
	})

	t.Run("CleanTemporary", func(t *testing.T) {
		orphan := layout.PathFor(remotestore.Transaction) + "/temp-transaction-abc"
		unrelated := layout.PathFor(remotestore.Transaction) + "/temp-notes"
		require.NoError(t, WriteString(ctx, client, orphan, remotestore.WriteModeAdd, "partial"))
		require.NoError(t, WriteString(ctx, client, unrelated, remotestore.WriteModeAdd, "keep"))

		removed, err := store.CleanTemporary(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, removed)

		_, err = client.Stat(ctx, orphan)
		require.ErrorIs(t, err, remotestore.ErrNotFound)
		_, err = client.Stat(ctx, unrelated)
		require.NoError(t, err, "names that are no leftover of an upload stay")
	})

	t.Run("CreatePath", func(t *testing.T) {
		for range 2 {
			ok, err := store.CreatePath(ctx, "multichunks/2024/01")
			require.NoError(t, err)
			require.True(t, ok, "creating an existing path succeeds")
		}

		_, err := store.CreatePath(ctx, "../outside")
		require.ErrorIs(t, err, remotestore.ErrInvalidPath)
		require.False(t, store.RemoveFolder(ctx, ".."))
		require.False(t, store.RemoveFolder(ctx, ""), "the root is never removed")
	})

	t.Run("RemoveFolder", func(t *testing.T) {
		require.True(t, store.RemoveFolder(ctx, "transactions"))
		files, err := store.List(ctx, remotestore.Transaction)
		require.NoError(t, err)
		require.Empty(t, files, "missing category folder lists empty")
		require.False(t, store.RemoveFolder(ctx, "transactions"))
	})

	store.Disconnect()
	require.Equal(t, remotestore.Disconnected, store.State())
}
