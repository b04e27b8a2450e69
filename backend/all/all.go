// Package all imports all remotestore backends.
package all

import (
	_ "github.com/c2fo/remotestore/backend/azure"   // register az backend
	_ "github.com/c2fo/remotestore/backend/dropbox" // register dbx backend
	_ "github.com/c2fo/remotestore/backend/ftp"     // register ftp backend
	_ "github.com/c2fo/remotestore/backend/gs"      // register gs backend
	_ "github.com/c2fo/remotestore/backend/mem"     // register mem backend
	_ "github.com/c2fo/remotestore/backend/os"      // register file backend
	_ "github.com/c2fo/remotestore/backend/s3"      // register s3 backend
	_ "github.com/c2fo/remotestore/backend/sftp"    // register sftp backend
)
