/*
Package azure stores a RemoteStore repository in a Microsoft Azure Blob Storage container.

Folders are zero-byte "<name>/" marker blobs. A folder also exists implicitly while any blob has its prefix. Moves are
a server side copy followed by a delete.

# Usage

Rely on github.com/c2fo/remotestore/backend, where the container is the URI authority:

	import(
	    "github.com/c2fo/remotestore/backend"
	    _ "github.com/c2fo/remotestore/backend/azure"
	)

	func UseStore(ctx context.Context) error {
	    client, err := backend.Open(ctx, "az", "mycontainer", backend.Settings{})
	    ...
	}

Or call directly:

	import "github.com/c2fo/remotestore/backend/azure"

	func DoSomething() {
	    // to pass in client options
	    store, err := azure.NewStore("mycontainer",
	        azure.WithOptions(azure.Options{
	            AccountName: "...",
	            AccountKey:  "...",
	        }),
	    )

	    // to pass specific client, for instance the in-memory mock client
	    store, err = azure.NewStore("mycontainer", azure.WithClient(azure.NewMockAzureClient()))
	}

# Authentication

Authentication, by default, occurs when NewStore builds the client. It uses the first of:

 1. A service principal from REMOTESTORE_AZURE_TENANT_ID, REMOTESTORE_AZURE_CLIENT_ID and
    REMOTESTORE_AZURE_CLIENT_SECRET.
 2. A shared key from REMOTESTORE_AZURE_STORAGE_ACCOUNT and REMOTESTORE_AZURE_STORAGE_ACCESS_KEY.
 3. Anonymous access.

REMOTESTORE_AZURE_SERVICE_URL points the client at another endpoint, for instance Azurite.
*/
package azure
