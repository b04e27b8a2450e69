package utils_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/remotestore/utils"
)

type authoritySuite struct {
	suite.Suite
}

func (s *authoritySuite) TestNewAuthority() {
	tests := []struct {
		authority string
		host      string
		port      uint16
		user      string
		password  string
		str       string
		hasError  bool
		message   string
	}{
		{authority: "host.com", host: "host.com", str: "host.com", message: "host only"},
		{authority: "host.com:2222", host: "host.com", port: 2222, str: "host.com:2222", message: "host and port"},
		{authority: "bob@host.com", host: "host.com", user: "bob", str: "bob@host.com", message: "user and host"},
		{authority: "bob:secret@host.com:21", host: "host.com", port: 21, user: "bob", password: "secret",
			str: "bob@host.com:21", message: "password is never rendered"},
		{authority: "", hasError: true, message: "empty authority"},
		{authority: "host.com:99999", hasError: true, message: "port out of range"},
	}

	for _, test := range tests {
		s.Run(test.message, func() {
			a, err := utils.NewAuthority(test.authority)
			if test.hasError {
				s.Error(err)
				return
			}
			s.Require().NoError(err)
			s.Equal(test.host, a.Host())
			s.Equal(test.port, a.Port())
			s.Equal(test.user, a.User())
			s.Equal(test.password, a.Password())
			s.Equal(test.str, a.String())
		})
	}
}

func (s *authoritySuite) TestHostPort() {
	a, err := utils.NewAuthority("host.com")
	s.Require().NoError(err)
	s.Equal("host.com:22", a.HostPort(22))

	a, err = utils.NewAuthority("host.com:2022")
	s.Require().NoError(err)
	s.Equal("host.com:2022", a.HostPort(22))
}

func TestAuthority(t *testing.T) {
	suite.Run(t, new(authoritySuite))
}
