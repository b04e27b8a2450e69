/*
Package os is a remotestore.ObjectStoreClient on the local filesystem.

Usage

Rely on github.com/c2fo/remotestore/backend

	import(
	    "github.com/c2fo/remotestore/backend"
	    _ "github.com/c2fo/remotestore/backend/os"
	)

	func UseStore() error {
	    client, err := backend.Open(ctx, os.Scheme, "", backend.Settings{})
	    ...
	}

Or call directly:

	import _os "github.com/c2fo/remotestore/backend/os"

	func DoSomething() {
	    client := _os.NewStore("/mnt/backups")
	    store := remotestore.New(client, "/repo")
	    ...
	}

Clients opened through the backend registry are anchored at the filesystem root, so file:///mnt/backups/repo keeps a
repository in /mnt/backups/repo.

See Also

See: https://golang.org/pkg/os/
*/
package os
