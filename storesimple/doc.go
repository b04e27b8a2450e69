/*
Package storesimple builds clients and stores of any registered backend from a location URI:
  - Dropbox:              dbx:///backups/repo
  - Local OS:             file:///var/backups/repo
  - In memory:            mem://scratch/repo
  - Amazon S3:            s3://mybucket/backups/repo
  - Google Cloud Storage: gs://mybucket/backups/repo
  - Azure Blob Storage:   az://mycontainer/backups/repo
  - SFTP:                 sftp://user@host.com:22/home/user/repo
  - FTP:                  ftp://user@host.com:21/repo

Usage

	import "github.com/c2fo/remotestore/storesimple"

	func DoSomething(ctx context.Context, token string) error {
		store, err := storesimple.NewStore(ctx, "dbx:///backups/repo", storesimple.Settings{AccessToken: token})
		if err != nil {
			return err
		}
		return store.Init(ctx, true)
	}

The access token of Settings is handed to the backend: Dropbox uses it as the OAuth bearer token, SFTP and FTP as
the password. The other backends authenticate through their own environment, see the backend docs.

Registering a backend under a URI prefix, ie backend.Register("s3://mybucket/", opener), gives that bucket its own
opener. The longest registered prefix wins.
*/
package storesimple
