/*
Package sftp is the SFTP backend of remotestore.

Usage

Rely on github.com/c2fo/remotestore/backend

	import(
		"github.com/c2fo/remotestore/backend"
		_ "github.com/c2fo/remotestore/backend/sftp"
	)

	func UseStore(ctx context.Context) error {
		client, err := backend.Open(ctx, "sftp", "myuser@server.com:22", backend.Settings{AccessToken: password})
		...
	}

Or call directly:

	import "github.com/c2fo/remotestore/backend/sftp"

	func DoSomething(ctx context.Context) error {
		store, err := sftp.NewStore("myuser@server.com:22",
			sftp.WithOptions(sftp.Options{
				KeyFilePath:   "/home/Bob/.ssh/id_rsa",
				KeyPassphrase: "s3cr3t",
			}),
		)
		if err != nil {
			return err
		}
		defer store.Close()

		rs := remotestore.New(store, "/home/myuser/backups")
		...
	}

Store paths are absolute paths on the server.

Authentication

The SSH connection is made lazily by the first operation and stays open until Close. A later operation after Close
reconnects. A password rejected by the server is reported as remotestore.ErrInvalidCredential.

USERNAME

User may only be set in the URI authority section.

	     scheme             host
	     __/             ___/____  port
	    /  \            /        \ /\
	    sftp://someuser@server.com:22/path/to/repo
	           \____________________/ \__________/
	           \______/       \              \
	               /     authority section   store root
	         username

PASSWORD/PASSPHRASE

Passwords may be passed via Options.Password, via the access token of backend.Settings or via the environmental
variable REMOTESTORE_SFTP_PASSWORD.

SSH keys may be passed via Options.KeyFilePath and (optionally) Options.KeyPassphrase.  They can also be passed via
environmental variables REMOTESTORE_SFTP_KEYFILE and REMOTESTORE_SFTP_KEYFILE_PASSPHRASE, respectively.

KNOWN HOSTS

Known hosts ensures that the server you're connecting to hasn't been somehow redirected to another server.
Handling for this can be accomplished via:
1. Options.KnownHostsString which accepts a string.
2. Options.KnownHostsFile or environmental variable REMOTESTORE_SFTP_KNOWN_HOSTS_FILE which accepts a path to a
   known_hosts file.
3. Options.KnownHostsCallback which allows you to specify any ssh.HostKeyCallback.  Environmental variable
   REMOTESTORE_SFTP_INSECURE_KNOWN_HOSTS will set this callback function to ssh.InsecureIgnoreHostKey which may be
   helpful for testing but should not be used in production.
4. Defaults to trying to find and use <homedir>/.ssh/known_hosts.  For unix, system-wide location
   /etc/ssh/ssh_known_hosts is also checked.

OTHER OPTIONS

HostKeyAlgorithms, Ciphers, MACs and KeyExchanges replace the defaults of the same name when set.
Example:
`"keyExchanges":["diffie-hellman-group-a256", "ecdh-sha2-nistp256"]`

FilePermissions is applied with chmod to every uploaded file, ie "0640".
*/
package sftp
