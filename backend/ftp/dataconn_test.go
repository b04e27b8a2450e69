package ftp

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type dataConnSuite struct {
	suite.Suite
}

func TestDataConn(t *testing.T) {
	suite.Run(t, new(dataConnSuite))
}

type closeRecorder struct {
	io.Reader
	closed int
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed++
	return c.err
}

func (s *dataConnSuite) TestReadAndClose() {
	r := &closeRecorder{Reader: strings.NewReader("payload")}
	released := 0
	dc := newDataConn(r, func() { released++ })

	b, err := io.ReadAll(dc)
	s.NoError(err)
	s.Equal("payload", string(b))

	s.NoError(dc.Close())
	s.NoError(dc.Close(), "second close is a no-op")
	s.Equal(1, r.closed)
	s.Equal(1, released, "connection is released once")

	_, err = dc.Read(make([]byte, 1))
	s.ErrorIs(err, readClosedDataconn)
}

func (s *dataConnSuite) TestCloseError() {
	r := &closeRecorder{Reader: strings.NewReader(""), err: errors.New("426 transfer aborted")}
	released := false
	dc := newDataConn(r, func() { released = true })

	s.EqualError(dc.Close(), "426 transfer aborted")
	s.True(released, "connection is released even when the transfer failed")
}
