/*
Package mem is an in-memory remotestore.ObjectStoreClient.

Usage

Rely on github.com/c2fo/remotestore/backend

	import(
	    "github.com/c2fo/remotestore/backend"
	    _ "github.com/c2fo/remotestore/backend/mem"
	)

	func UseStore() error {
	    client, err := backend.Open(ctx, mem.Scheme, "volume", backend.Settings{})
	    ...
	}

Or call directly:

	import "github.com/c2fo/remotestore/backend/mem"

	func DoSomething() {
	    client := mem.NewStore(mem.WithPageSize(100))
	    store := remotestore.New(client, "/backup")
	    ...
	}

Clients opened through the backend registry share one Store per authority for the life of the process.
*/
package mem
