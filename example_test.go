package remotestore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend/mem"
)

func Example() {
	ctx := context.Background()
	store := remotestore.New(mem.NewStore(), "/backup")
	if err := store.Init(ctx, true); err != nil {
		fmt.Println(err)
		return
	}

	dir, err := os.MkdirTemp("", "remotestore-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer func() { _ = os.RemoveAll(dir) }()

	src := filepath.Join(dir, "chunk")
	if err := os.WriteFile(src, []byte("chunk data"), 0o600); err != nil {
		fmt.Println(err)
		return
	}

	f, _ := remotestore.NewRemoteFile(remotestore.Multichunk, "multichunk-abc123")
	if err := store.Upload(ctx, src, f); err != nil {
		fmt.Println(err)
		return
	}

	files, _ := store.List(ctx, remotestore.Multichunk)
	for name := range files {
		fmt.Println(name)
	}
	fmt.Println(store.Layout().FullPath(f))

	// Output:
	// multichunk-abc123
	// /backup/multichunks/multichunk-abc123
}

func ExampleStorageError() {
	store := remotestore.New(mem.NewStore(), "/missing")

	err := store.Init(context.Background(), false)

	var se *remotestore.StorageError
	if errors.As(err, &se) {
		fmt.Println(se.Op, se.Path)
	}
	fmt.Println(errors.Is(err, remotestore.ErrNotFound))

	// Output:
	// init /missing
	// true
}
