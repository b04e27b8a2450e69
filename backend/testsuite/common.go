package testsuite

import (
	"context"
	"io"

	"github.com/c2fo/remotestore"
)

// ReadString returns the whole content at p.
func ReadString(ctx context.Context, client remotestore.ObjectStoreClient, p string) (string, error) {
	rc, err := client.Get(ctx, p)
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CollectEntries lists folder p, following the cursor until the last page.
func CollectEntries(ctx context.Context, client remotestore.ObjectStoreClient, p string) ([]remotestore.EntryInfo, error) {
	page, err := client.ListFolder(ctx, p)
	if err != nil {
		return nil, err
	}

	entries := page.Entries
	for page.HasMore {
		page, err = client.ListFolderContinue(ctx, page.Cursor)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Entries...)
	}
	return entries, nil
}
