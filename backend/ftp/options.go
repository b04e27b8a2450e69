package ftp

import (
	"context"
	"crypto/tls"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ftp "github.com/jlaffaye/ftp"

	"github.com/c2fo/remotestore/backend/ftp/types"
	"github.com/c2fo/remotestore/utils"
)

const (
	defaultPort      = 21
	defaultUsername  = "anonymous"
	defaultPassword  = "anonymous"
	protocolFTP      = "FTP"
	protocolFTPS     = "FTPS"
	protocolFTPES    = "FTPES"
	envUsername      = "REMOTESTORE_FTP_USERNAME"
	envPassword      = "REMOTESTORE_FTP_PASSWORD" //nolint:gosec
	envProtocol      = "REMOTESTORE_FTP_PROTOCOL"
	envDisableEPSV   = "REMOTESTORE_FTP_DISABLE_EPSV"
	envInsecureTLS   = "REMOTESTORE_FTP_INSECURE_SKIP_VERIFY"
	defaultTLSMinVer = tls.VersionTLS12
)

// Options holds ftp-specific options.  Currently only client options are used.
type Options struct {
	UserName    string        // env var REMOTESTORE_FTP_USERNAME
	Password    string        // env var REMOTESTORE_FTP_PASSWORD
	Protocol    string        // env var REMOTESTORE_FTP_PROTOCOL (FTP[default], FTPS, FTPES)
	DisableEPSV *bool         // env var REMOTESTORE_FTP_DISABLE_EPSV
	TLSConfig   *tls.Config   // defaults to TLS 1.2+ verified against the host name
	DebugWriter io.Writer     // receives the raw command conversation, password included
	DialTimeout time.Duration // defaults to the library timeout
}

func getClient(ctx context.Context, authority utils.Authority, opts Options) (types.Client, error) {
	c, err := _ftp.Dial(fetchHostPortString(authority), fetchDialOptions(ctx, authority, opts)...)
	if err != nil {
		return nil, err
	}
	if err := c.Login(fetchUsername(authority, opts), fetchPassword(opts)); err != nil {
		_ = c.Quit()
		return nil, err
	}
	return serverConn{c}, nil
}

// fetchUsername prefers Options, then the authority userinfo, then the environment.
func fetchUsername(auth utils.Authority, opts Options) string {
	switch {
	case opts.UserName != "":
		return opts.UserName
	case auth.User() != "":
		return auth.User()
	case os.Getenv(envUsername) != "":
		return os.Getenv(envUsername)
	default:
		return defaultUsername
	}
}

// fetchPassword prefers Options, then the environment, even when set to an empty value.
func fetchPassword(opts Options) string {
	if opts.Password != "" {
		return opts.Password
	}
	if pw, ok := os.LookupEnv(envPassword); ok {
		return pw
	}
	return defaultPassword
}

func fetchHostPortString(auth utils.Authority) string {
	return auth.HostPort(defaultPort)
}

func isDisableOption(opts Options) bool {
	if opts.DisableEPSV != nil {
		return *opts.DisableEPSV
	}
	disable, err := strconv.ParseBool(os.Getenv(envDisableEPSV))
	return err == nil && disable
}

func fetchTLSConfig(auth utils.Authority, opts Options) *tls.Config {
	if opts.TLSConfig != nil {
		return opts.TLSConfig
	}
	insecure, _ := strconv.ParseBool(os.Getenv(envInsecureTLS))
	return &tls.Config{
		MinVersion:         defaultTLSMinVer,
		InsecureSkipVerify: insecure, //nolint:gosec // opt-in through the environment
		ClientSessionCache: tls.NewLRUClientSessionCache(0),
		ServerName:         auth.Host(),
	}
}

// fetchProtocol prefers Options, then the environment, even when set to an empty value.
func fetchProtocol(opts Options) string {
	if opts.Protocol != "" {
		return opts.Protocol
	}
	if p, ok := os.LookupEnv(envProtocol); ok {
		return p
	}
	return protocolFTP
}

func fetchDialOptions(ctx context.Context, auth utils.Authority, opts Options) []_ftp.DialOption {
	// always use context, disable EPSV if requested
	dialOptions := []_ftp.DialOption{
		_ftp.DialWithContext(ctx),
		_ftp.DialWithDisabledEPSV(isDisableOption(opts)),
	}

	switch strings.ToUpper(fetchProtocol(opts)) {
	case protocolFTPS:
		dialOptions = append(dialOptions, _ftp.DialWithTLS(fetchTLSConfig(auth, opts)))
	case protocolFTPES:
		dialOptions = append(dialOptions, _ftp.DialWithExplicitTLS(fetchTLSConfig(auth, opts)))
	}

	if opts.DebugWriter != nil {
		dialOptions = append(dialOptions, _ftp.DialWithDebugOutput(opts.DebugWriter))
	}
	if opts.DialTimeout > 0 {
		dialOptions = append(dialOptions, _ftp.DialWithTimeout(opts.DialTimeout))
	}
	return dialOptions
}
