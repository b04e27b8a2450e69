/*
Package gs stores a RemoteStore repository in a Google Cloud Storage bucket.

Folders are zero-byte "<name>/" marker objects, the same objects the Cloud Console creates for
folders. A folder also exists implicitly while any object has its prefix.

# Usage

Rely on github.com/c2fo/remotestore/backend, where the bucket is the URI authority:

	import(
	    "github.com/c2fo/remotestore/backend"
	    _ "github.com/c2fo/remotestore/backend/gs"
	)

	func UseStore(ctx context.Context) error {
	    client, err := backend.Open(ctx, "gs", "mybucket", backend.Settings{})
	    ...
	}

Or call directly:

	import "github.com/c2fo/remotestore/backend/gs"

	func DoSomething(ctx context.Context) {
	    // to pass in client options
	    store, err := gs.NewStore(ctx, "mybucket",
	        gs.WithOptions(
	            gs.Options{
	                CredentialFile: "/root/.gcloud/account.json",
	                Scopes:         []string{"ScopeReadOnly"},
	                //default scope is "ScopeFullControl"
	            },
	        ),
	    )

	    // to pass specific client, for instance no-auth client
	    client, _ := storage.NewClient(ctx, option.WithoutAuthentication())
	    store, err = gs.NewStore(ctx, "mybucket", gs.WithClient(client))
	}

# Authentication

Authentication, by default, occurs automatically when NewStore builds the client. It looks for credentials in the
following places, preferring the first location found:

 1. A JSON file whose path is specified by the GOOGLE_APPLICATION_CREDENTIALS environment variable
 2. A JSON file in a location known to the gcloud command-line tool.
    On Windows, this is %APPDATA%/gcloud/application_default_credentials.json.
    On other systems, $HOME/.config/gcloud/application_default_credentials.json.
 3. On Google App Engine it uses the appengine.AccessToken function.
 4. On Google Compute Engine and Google App Engine Managed VMs, it fetches credentials from the metadata server.

REMOTESTORE_GS_CREDENTIAL_FILE and REMOTESTORE_GS_ENDPOINT fill the matching options when unset.

See https://cloud.google.com/docs/authentication/production for more auth info

# See Also

See: https://github.com/googleapis/google-cloud-go/tree/master/storage
*/
package gs
