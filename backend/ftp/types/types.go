// Package types holds the FTP command connection contract shared by the ftp backend and its mocks.
package types

import (
	"io"

	_ftp "github.com/jlaffaye/ftp"
)

// Client is the subset of *ftp.ServerConn commands the ftp backend issues. Retr returns a plain
// reader so the data connection can be faked.
type Client interface {
	Login(user string, password string) error
	Quit() error
	CurrentDir() (string, error)
	List(p string) ([]*_ftp.Entry, error)
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Retr(path string) (io.ReadCloser, error)
	Rename(from, to string) error
	Delete(path string) error
	RemoveDirRecur(path string) error
}
