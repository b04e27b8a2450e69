/*
Package remotestore maps the files of a backup/sync repository onto an external object or file store.

Repository files are addressed by a Category and a name. A NamespaceLayout turns them into paths below a configured
root:

	/<root>/multichunks/multichunk-<hex>
	/<root>/databases/database-<client>-<version>
	/<root>/databases/cleanup-<number>
	/<root>/actions/action-<type>-<client>-<number>
	/<root>/transactions/transaction-<id>
	/<root>/temporary/temp-<id>
	/<root>/syncany
	/<root>/master

Usage

A RemoteStore needs an ObjectStoreClient. Clients live in the backend packages and are usually obtained through
storesimple, which picks a backend from a location URI:

	client, err := storesimple.NewClient(ctx, "dbx:///", storesimple.Settings{AccessToken: token})
	if err != nil {
		return err
	}
	store := remotestore.New(client, "/backup", remotestore.WithLogger(logger))

	if err := store.Init(ctx, true); err != nil {
		return err
	}

	f, _ := remotestore.NewRemoteFile(remotestore.Multichunk, "multichunk-abc123")
	if err := store.Upload(ctx, "/tmp/chunk", f); err != nil {
		return err
	}

Uploads go to temp-<name> in the target folder first and are then moved into place, so readers never see a partial
object. Downloads land in a local temp file which then replaces the destination.

SubPath values and the paths given to CreatePath, ListPath and RemoveFolder are relative to the root and may not
contain ".." segments.

Errors

Errors from store operations are *StorageError, *MoveError or *AuthError and wrap one of the sentinel errors
(ErrNotFound, ErrExists, ErrInvalidCredential, ErrInvalidName, ErrInvalidPath) where the cause is known. Use errors.Is and errors.As.

Concurrency

A RemoteStore is not safe for concurrent use. Init and CleanTemporary fan out over the client internally, so every
ObjectStoreClient must be safe for concurrent use.
*/
package remotestore
