package ftp

import (
	"io"
	"sync"

	_ftp "github.com/jlaffaye/ftp"
)

// serverConn adapts *ftp.ServerConn to types.Client.
type serverConn struct {
	*_ftp.ServerConn
}

func (c serverConn) Retr(path string) (io.ReadCloser, error) {
	resp, err := c.ServerConn.Retr(path)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// dataConn is an open RETR transfer. FTP runs one command at a time on the control connection,
// so the store lock stays held until the transfer is closed.
type dataConn struct {
	r       io.ReadCloser
	release func()
	once    sync.Once
	closed  bool
}

func newDataConn(r io.ReadCloser, release func()) *dataConn {
	return &dataConn{r: r, release: release}
}

func (dc *dataConn) Read(buf []byte) (int, error) {
	if dc.closed {
		return 0, readClosedDataconn
	}
	return dc.r.Read(buf)
}

// Close ends the transfer and reads the final server reply. Only the first call has an effect.
func (dc *dataConn) Close() error {
	var err error
	dc.once.Do(func() {
		dc.closed = true
		err = dc.r.Close()
		dc.release()
	})
	return err
}
