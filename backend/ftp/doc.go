/*
Package ftp is the FTP backend of remotestore.

# Usage

Rely on github.com/c2fo/remotestore/backend

	import(
		"github.com/c2fo/remotestore/backend"
		_ "github.com/c2fo/remotestore/backend/ftp"
	)

	func UseStore(ctx context.Context) error {
		client, err := backend.Open(ctx, "ftp", "myuser@server.com:21", backend.Settings{AccessToken: password})
		...
	}

Or call directly:

	import "github.com/c2fo/remotestore/backend/ftp"

	func DoSomething(ctx context.Context) error {
		store, err := ftp.NewStore("myuser@server.com:21",
			ftp.WithOptions(ftp.Options{Protocol: "FTPES"}),
		)
		if err != nil {
			return err
		}
		defer store.Close()

		rs := remotestore.New(store, "/backups/repo")
		...
	}

Store paths are absolute paths on the server.

FTP runs one command at a time on its control connection, so the store serializes every operation. A reader
returned by Get holds the connection until it is closed: close it before issuing the next operation from the same
goroutine.

Add mode uploads check for an existing file before STOR. FTP has no conditional store, so a concurrent writer on
another connection can still win between the check and the upload.

# Authentication

The connection is made lazily by the first operation and kept until Close. A transport failure drops the
connection and the next operation redials. A login rejected with reply 530 is reported as
remotestore.ErrInvalidCredential.

## USERNAME

	 scheme             host
	 __/             ___/____  port
	/  \            /        \ /\
	ftp://someuser@server.com:21/path/to/repo
	       \____________________/ \__________/
	       \______/       \              \
	           /     authority section   store root
	     username

Username precedence is Options.UserName, the authority, the environmental variable *REMOTESTORE_FTP_USERNAME* and
finally "anonymous".

## PASSWORD

Passwords may be passed via Options.Password, via the access token of backend.Settings, in the authority userinfo
or via the environmental variable *REMOTESTORE_FTP_PASSWORD*.  If no password is provided, default is "anonymous".

# Protocol

The ftp backend supports the following FTP protocols: FTP (unencrypted), FTPS (implicit TLS), and FTPES (explicit
TLS).  Protocol can be set by env var *REMOTESTORE_FTP_PROTOCOL* or in Options.Protocol.  Options values take
precedence over env vars.

By default, FTPS and FTPES use the following TLS configuration but can be overridden with Options.TLSConfig:

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ClientSessionCache: tls.NewLRUClientSessionCache(0),
		ServerName:         hostname,
	}

Setting *REMOTESTORE_FTP_INSECURE_SKIP_VERIFY* to true disables certificate verification of the default
configuration.

# Other Options

DebugWriter *io.Writer* - captures FTP command details to any writer.

DialTimeout *time.Duration* - sets timeout for connecting only.

DisableEPSV *bool - Extended Passive mode (EPSV) is attempted by default. Set to true, or set
*REMOTESTORE_FTP_DISABLE_EPSV*, to use regular Passive mode (PASV).
*/
package ftp
