// Package dropbox implements remotestore.ObjectStoreClient for Dropbox.
//
// # Usage
//
// Rely on github.com/c2fo/remotestore/backend
//
//	import(
//	    "github.com/c2fo/remotestore/backend"
//	    _ "github.com/c2fo/remotestore/backend/dropbox"
//	)
//
//	func UseStore() error {
//	    client, err := backend.Open(ctx, dropbox.Scheme, "", backend.Settings{AccessToken: token})
//	    ...
//	}
//
// Or call directly:
//
//	import "github.com/c2fo/remotestore/backend/dropbox"
//
//	func DoSomething() error {
//	    client, err := dropbox.NewStore(
//	        dropbox.WithAccessToken("your-oauth-token"),
//	    )
//	    if err != nil {
//	        return err
//	    }
//	    store := remotestore.New(client, "/backup")
//	    ...
//	}
//
// # Authentication
//
// Dropbox requires an OAuth2 access token. Obtaining one is left to the caller. The token is read from
// WithAccessToken or, when that is empty, from REMOTESTORE_DROPBOX_ACCESS_TOKEN.
//
// # Limitations
//
// 1. Upload Size Limit: Simple uploads are limited to 150MB. Content larger than one chunk is sent with
// chunked upload sessions (4MB chunks by default).
//
// 2. Case Insensitive Paths: Dropbox paths are case-insensitive but case-preserving.
// /path/File.txt and /path/file.txt refer to the same file.
//
// 3. No Context Support: the SDK does not accept a context. Cancellation is checked before each call and
// between upload chunks.
package dropbox
