/*
Package backend provides a means of allowing store clients to self-register on load via an init() call to
backend.Register("scheme", opener)

In this way, a caller can simply load the backends it needs (and ONLY those needed) and open clients by scheme:

	package main

	// import backend and each backend you intend to use
	import(
	    "github.com/c2fo/remotestore/backend"
	    _ "github.com/c2fo/remotestore/backend/dropbox"
	    _ "github.com/c2fo/remotestore/backend/s3"
	)

	func main() {
	    client, err := backend.Open(ctx, "dbx", "", backend.Settings{AccessToken: token})
	    if err != nil {
	        panic(err)
	    }

	    store := remotestore.New(client, "/backup")
	    ...
	}

Development

To create your own backend, create a package that implements remotestore.ObjectStoreClient and ensure it registers
itself on load:

	package myexoticstore

	func init() {
	    backend.Register("exs", func(ctx context.Context, authority string, s backend.Settings) (remotestore.ObjectStoreClient, error) {
	        return NewClient(authority, s.AccessToken)
	    })
	}

Run the conformance suite in backend/testsuite against it.

The helpers in this package are shared by the bucket based backends (s3, gs, azure). They model folders as zero-byte
"<path>/" marker objects and encode listing cursors as "<folder>\n<continuation token>".
*/
package backend
