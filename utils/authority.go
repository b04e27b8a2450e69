package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

/*
   URI parlance (see https://www.rfc-editor.org/rfc/rfc3986.html#section-3.2):

       foo://example.com:8042/over/there?name=ferret#nose
       \_/   \______________/\_________/ \_________/ \__/
        |           |            |            |        |
     scheme     authority       path        query   fragment

   Where:
     authority   = [ userinfo "@" ] host [ ":" port ]
*/

// Authority represents host, port and userinfo (user/pass) in a URI
type Authority struct {
	host     string
	port     uint16
	user     string
	password string
}

// NewAuthority parses an authority string such as "user:pass@host.com:22".
func NewAuthority(authority string) (Authority, error) {
	if authority == "" {
		return Authority{}, errors.New("authority string may not be empty")
	}

	u, err := url.Parse("scheme://" + authority)
	if err != nil {
		return Authority{}, err
	}

	a := Authority{host: u.Hostname()}
	if portStr := u.Port(); portStr != "" {
		val, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return Authority{}, err
		}
		a.port = uint16(val)
	}
	if u.User != nil {
		a.user = u.User.Username()
		a.password, _ = u.User.Password()
	}
	return a, nil
}

// Host returns the host portion of an authority
func (a Authority) Host() string {
	return a.host
}

// Port returns the port portion of an authority, 0 when absent
func (a Authority) Port() uint16 {
	return a.port
}

// User returns the username of the userinfo, possibly empty
func (a Authority) User() string {
	return a.user
}

// Password returns the password of the userinfo, possibly empty
func (a Authority) Password() string {
	return a.password
}

// HostPort returns "host:port", using defaultPort when the authority has none.
func (a Authority) HostPort(defaultPort uint16) string {
	port := a.port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", a.host, port)
}

// String returns the authority without the password, per
// https://tools.ietf.org/html/rfc3986#section-3.2.1
func (a Authority) String() string {
	hostPort := a.host
	if a.port != 0 {
		hostPort = fmt.Sprintf("%s:%d", a.host, a.port)
	}
	if a.user != "" {
		return a.user + "@" + hostPort
	}
	return hostPort
}
