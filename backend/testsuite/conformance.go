package testsuite

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/utils"
)

// ConformanceOptions tunes RunConformanceTests for stores with known gaps.
type ConformanceOptions struct {
	// Root is the folder the tests run in. It is deleted afterwards. Defaults to /remotestore-conformance.
	Root string
	// SkipIdentity skips the Identity check for stores without a meaningful account.
	SkipIdentity bool
	// SkipConcurrency skips the concurrent write test for stores that serialize poorly.
	SkipConcurrency bool
}

const defaultConformanceRoot = "/remotestore-conformance"

// RunConformanceTests checks that client behaves like the ObjectStoreClient contract describes.
func RunConformanceTests(t *testing.T, client remotestore.ObjectStoreClient, opts ConformanceOptions) {
	t.Helper()

	ctx := context.Background()
	root := opts.Root
	if root == "" {
		root = defaultConformanceRoot
	}
	root = utils.CleanPath(root)
	p := func(elem ...string) string {
		return utils.JoinPath(append([]string{root}, elem...)...)
	}

	require.NoError(t, client.CreateFolder(ctx, root))
	t.Cleanup(func() {
		if err := client.Delete(ctx, root); err != nil {
			t.Logf("warning: error deleting test root %s: %v", root, err)
		}
	})

	if !opts.SkipIdentity {
		t.Run("Identity", func(t *testing.T) {
			_, err := client.Identity(ctx)
			require.NoError(t, err)
		})
	}

	t.Run("StatRoot", func(t *testing.T) {
		info, err := client.Stat(ctx, "/")
		require.NoError(t, err)
		require.True(t, info.IsFolder, "store root is a folder")
	})

	t.Run("CreateFolder", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("a", "b", "c")))
		require.NoError(t, client.CreateFolder(ctx, p("a", "b", "c")), "creating an existing folder succeeds")

		for _, f := range []string{p("a"), p("a", "b"), p("a", "b", "c")} {
			info, err := client.Stat(ctx, f)
			require.NoError(t, err, f)
			require.True(t, info.IsFolder, f)
			require.False(t, info.IsFile, f)
		}
	})

	t.Run("PutGetStat", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("files")))
		require.NoError(t, WriteString(ctx, client, p("files", "one"), remotestore.WriteModeAdd, "first"))

		info, err := client.Stat(ctx, p("files", "one"))
		require.NoError(t, err)
		require.True(t, info.IsFile)
		require.Equal(t, "one", info.Name)

		content, err := ReadString(ctx, client, p("files", "one"))
		require.NoError(t, err)
		require.Equal(t, "first", content)
	})

	t.Run("PutAddExisting", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("add")))
		require.NoError(t, WriteString(ctx, client, p("add", "f"), remotestore.WriteModeAdd, "v1"))

		err := WriteString(ctx, client, p("add", "f"), remotestore.WriteModeAdd, "v2")
		require.ErrorIs(t, err, remotestore.ErrExists)

		content, err := ReadString(ctx, client, p("add", "f"))
		require.NoError(t, err)
		require.Equal(t, "v1", content, "failed add leaves content untouched")
	})

	t.Run("PutOverwrite", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("overwrite")))
		require.NoError(t, WriteString(ctx, client, p("overwrite", "f"), remotestore.WriteModeOverwrite, "v1"))
		require.NoError(t, WriteString(ctx, client, p("overwrite", "f"), remotestore.WriteModeOverwrite, "v2"))

		content, err := ReadString(ctx, client, p("overwrite", "f"))
		require.NoError(t, err)
		require.Equal(t, "v2", content)
	})

	t.Run("PutEmpty", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("empty")))
		require.NoError(t, WriteString(ctx, client, p("empty", "zero"), remotestore.WriteModeAdd, ""))

		content, err := ReadString(ctx, client, p("empty", "zero"))
		require.NoError(t, err)
		require.Empty(t, content)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := client.Stat(ctx, p("missing"))
		require.ErrorIs(t, err, remotestore.ErrNotFound)

		_, err = client.Get(ctx, p("missing"))
		require.ErrorIs(t, err, remotestore.ErrNotFound)

		require.ErrorIs(t, client.Delete(ctx, p("missing")), remotestore.ErrNotFound)

		_, err = client.ListFolder(ctx, p("missing"))
		require.ErrorIs(t, err, remotestore.ErrNotFound)
	})

	t.Run("Move", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("move")))
		require.NoError(t, WriteString(ctx, client, p("move", "temp-x"), remotestore.WriteModeAdd, "payload"))
		require.NoError(t, client.Move(ctx, p("move", "temp-x"), p("move", "x")))

		_, err := client.Stat(ctx, p("move", "temp-x"))
		require.ErrorIs(t, err, remotestore.ErrNotFound, "source is gone")

		content, err := ReadString(ctx, client, p("move", "x"))
		require.NoError(t, err)
		require.Equal(t, "payload", content)

		require.NoError(t, WriteString(ctx, client, p("move", "y"), remotestore.WriteModeAdd, "other"))
		require.ErrorIs(t, client.Move(ctx, p("move", "y"), p("move", "x")), remotestore.ErrExists)

		require.ErrorIs(t, client.Move(ctx, p("move", "nope"), p("move", "z")), remotestore.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("delete", "sub")))
		require.NoError(t, WriteString(ctx, client, p("delete", "f"), remotestore.WriteModeAdd, "x"))
		require.NoError(t, WriteString(ctx, client, p("delete", "sub", "g"), remotestore.WriteModeAdd, "y"))

		require.NoError(t, client.Delete(ctx, p("delete", "f")))
		_, err := client.Stat(ctx, p("delete", "f"))
		require.ErrorIs(t, err, remotestore.ErrNotFound)

		require.NoError(t, client.Delete(ctx, p("delete")), "folders are deleted with their content")
		_, err = client.Stat(ctx, p("delete", "sub", "g"))
		require.ErrorIs(t, err, remotestore.ErrNotFound)
		_, err = client.Stat(ctx, p("delete"))
		require.ErrorIs(t, err, remotestore.ErrNotFound)
	})

	t.Run("ListFolder", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("list", "sub")))
		var want []string
		for i := 0; i < 5; i++ {
			n := fmt.Sprintf("file-%d", i)
			want = append(want, n)
			require.NoError(t, WriteString(ctx, client, p("list", n), remotestore.WriteModeAdd, n))
		}
		require.NoError(t, WriteString(ctx, client, p("list", "sub", "nested"), remotestore.WriteModeAdd, "n"))

		entries, err := CollectEntries(ctx, client, p("list"))
		require.NoError(t, err)

		var files, folders []string
		for _, e := range entries {
			switch {
			case e.IsFile:
				files = append(files, e.Name)
			case e.IsFolder:
				folders = append(folders, e.Name)
			}
		}
		sort.Strings(files)
		require.Equal(t, want, files, "nested files are not listed")
		require.Equal(t, []string{"sub"}, folders)

		entries, err = CollectEntries(ctx, client, p("list", "sub"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "nested", entries[0].Name)
	})

	t.Run("ListEmptyFolder", func(t *testing.T) {
		require.NoError(t, client.CreateFolder(ctx, p("void")))
		entries, err := CollectEntries(ctx, client, p("void"))
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	if !opts.SkipConcurrency {
		t.Run("ConcurrentPut", func(t *testing.T) {
			require.NoError(t, client.CreateFolder(ctx, p("concurrent")))

			g, gctx := errgroup.WithContext(ctx)
			for i := 0; i < 8; i++ {
				g.Go(func() error {
					n := fmt.Sprintf("c-%d", i)
					return WriteString(gctx, client, p("concurrent", n), remotestore.WriteModeAdd, n)
				})
			}
			require.NoError(t, g.Wait())

			entries, err := CollectEntries(ctx, client, p("concurrent"))
			require.NoError(t, err)
			require.Len(t, entries, 8)
		})
	}
}

// WriteString puts content at p.
func WriteString(ctx context.Context, client remotestore.ObjectStoreClient, p string, mode remotestore.WriteMode, content string) error {
	return client.Put(ctx, p, mode, strings.NewReader(content))
}
