package sftp

import (
	"context"
	"fmt"
	"net"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	_sftp "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/c2fo/remotestore/utils"
)

const systemWideKnownHosts = "/etc/ssh/ssh_known_hosts"

const (
	defaultPort        = 22
	defaultDialTimeout = 30 * time.Second
)

// Options holds sftp-specific options.  Currently only client options are used.
type Options struct {
	Password           string              `json:"password,omitempty"`         // env var REMOTESTORE_SFTP_PASSWORD
	KeyFilePath        string              `json:"keyFilePath,omitempty"`      // env var REMOTESTORE_SFTP_KEYFILE
	KeyPassphrase      string              `json:"keyPassphrase,omitempty"`    // env var REMOTESTORE_SFTP_KEYFILE_PASSPHRASE
	KnownHostsFile     string              `json:"knownHostsFile,omitempty"`   // env var REMOTESTORE_SFTP_KNOWN_HOSTS_FILE
	KnownHostsString   string              `json:"knownHostsString,omitempty"` //
	KnownHostsCallback ssh.HostKeyCallback `json:"-"`                          // env var REMOTESTORE_SFTP_INSECURE_KNOWN_HOSTS
	HostKeyAlgorithms  []string            `json:"hostKeyAlgorithms,omitempty"`
	Ciphers            []string            `json:"ciphers,omitempty"`
	KeyExchanges       []string            `json:"keyExchanges,omitempty"`
	MACs               []string            `json:"macs,omitempty"`
	FilePermissions    *string             `json:"filePermissions,omitempty"` // Octal string of the mode applied to uploaded files, ie "0644"
	DialTimeout        time.Duration       `json:"dialTimeout,omitempty"`
}

var defaultSSHConfig = &ssh.ClientConfig{
	HostKeyAlgorithms: []string{
		"rsa-sha2-256-cert-v01@openssh.com",
		"rsa-sha2-512-cert-v01@openssh.com",
		"ecdsa-sha2-nistp256-cert-v01@openssh.com",
		"ssh-ed25519-cert-v01@openssh.com",
		"ecdsa-sha2-nistp256",
		"ssh-ed25519",
		"rsa-sha2-256",
		"rsa-sha2-512",
	},
	Config: ssh.Config{
		Ciphers: []string{
			"aes128-gcm@openssh.com",
			"aes256-gcm@openssh.com",
			"chacha20-poly1305@openssh.com",
			"aes128-ctr",
			"aes192-ctr",
			"aes256-ctr",
		},
		MACs: []string{
			"hmac-sha2-256-etm@openssh.com",
			"hmac-sha2-512-etm@openssh.com",
			"hmac-sha2-256",
			"hmac-sha2-512",
		},
		KeyExchanges: []string{
			"curve25519-sha256",
			"curve25519-sha256@libssh.org",
			"ecdh-sha2-nistp256",
			"ecdh-sha2-nistp384",
			"diffie-hellman-group16-sha512",
			"diffie-hellman-group14-sha256",
		},
	},
}

// GetFileMode parses FilePermissions. Nil means uploads keep the server default mode.
func (o *Options) GetFileMode() (*os.FileMode, error) {
	if o.FilePermissions == nil {
		return nil, nil
	}
	value, err := strconv.ParseUint(*o.FilePermissions, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid file permissions %q: %w", *o.FilePermissions, err)
	}
	mode := os.FileMode(value)
	return &mode, nil
}

// Note that OPENSSH private key format is supported when encrypted (with passphrase) since x/crypto 0.0.0-2021.
// To force creation of PEM format(instead of OPENSSH format), use ssh-keygen -m PEM

func getClient(ctx context.Context, auth utils.Authority, opts Options) (*_sftp.Client, *ssh.Client, error) {
	// setup Authentication
	authMethods, err := getAuthMethods(opts)
	if err != nil {
		return nil, nil, err
	}

	// get callback for handling known_hosts man-in-the-middle checks
	hostKeyCallback, err := getHostKeyCallback(opts)
	if err != nil {
		return nil, nil, err
	}

	// Define the Client Config
	config := getSShConfig(opts)
	config.User = auth.User()
	config.Auth = authMethods
	config.HostKeyCallback = hostKeyCallback

	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	config.Timeout = timeout

	dialer := &net.Dialer{Timeout: timeout}
	addr := auth.HostPort(defaultPort)
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := _sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, nil, err
	}

	return client, sshClient, nil
}

// getSShConfig returns the algorithm settings of opts on top of defaultSSHConfig.
func getSShConfig(opts Options) *ssh.ClientConfig {
	config := &ssh.ClientConfig{
		HostKeyAlgorithms: defaultSSHConfig.HostKeyAlgorithms,
		Config:            defaultSSHConfig.Config,
	}
	if opts.HostKeyAlgorithms != nil {
		config.HostKeyAlgorithms = opts.HostKeyAlgorithms
	}
	if opts.Ciphers != nil {
		config.Ciphers = opts.Ciphers
	}
	if opts.MACs != nil {
		config.MACs = opts.MACs
	}
	if opts.KeyExchanges != nil {
		config.KeyExchanges = opts.KeyExchanges
	}
	return config
}

// getHostKeyCallback gets host key callback for all known_hosts files
func getHostKeyCallback(opts Options) (ssh.HostKeyCallback, error) {
	var knownHostsFiles []string
	switch {

	// use explicit callback in Options
	case opts.KnownHostsCallback != nil:
		return opts.KnownHostsCallback, nil

	case opts.KnownHostsString != "":
		_, _, hostKey, _, _, err := ssh.ParseKnownHosts([]byte(opts.KnownHostsString))
		if err != nil {
			return nil, err
		}
		return ssh.FixedHostKey(hostKey), nil

	// use explicit known_hosts file path, ie, /home/bob/.ssh/known_hosts
	case opts.KnownHostsFile != "":
		// check first to prevent auto-vivification of file
		found, err := foundFile(opts.KnownHostsFile)
		if err != nil {
			return nil, err
		}
		if found {
			knownHostsFiles = append(knownHostsFiles, opts.KnownHostsFile)
			break
		}
		// use env var if explicit file wasn't found
		fallthrough

	// use env var known_hosts file path
	case os.Getenv("REMOTESTORE_SFTP_KNOWN_HOSTS_FILE") != "":
		if f := os.Getenv("REMOTESTORE_SFTP_KNOWN_HOSTS_FILE"); f != "" {
			found, err := foundFile(f)
			if err != nil {
				return nil, err
			}
			if found {
				knownHostsFiles = append(knownHostsFiles, f)
				break
			}
		}
		// use insecure setting if env var file wasn't found
		fallthrough

	case os.Getenv("REMOTESTORE_SFTP_INSECURE_KNOWN_HOSTS") != "":
		if os.Getenv("REMOTESTORE_SFTP_INSECURE_KNOWN_HOSTS") != "" {
			return ssh.InsecureIgnoreHostKey(), nil // #nosec - explicitly requested through the environment
		}
		fallthrough

	// use user/system-wide known_hosts paths (as defined by OpenSSH https://man.openbsd.org/ssh)
	default:
		var err error
		knownHostsFiles, err = findHomeSystemKnownHosts(knownHostsFiles)
		if err != nil {
			return nil, err
		}
	}

	// get host key callback for all known_hosts files
	return knownhosts.New(knownHostsFiles...)
}

func findHomeSystemKnownHosts(knownHostsFiles []string) ([]string, error) {
	// add ~/.ssh/known_hosts
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}
	homeKnownHostsPath := utils.EnsureLeadingSlash(path.Join(home, ".ssh/known_hosts"))

	// check file existence first to prevent auto-vivification of file
	found, err := foundFile(homeKnownHostsPath)
	if err != nil {
		return nil, err
	}
	if found {
		knownHostsFiles = append(knownHostsFiles, homeKnownHostsPath)
	}

	// add /etc/ssh/ssh_known_hosts for unix-like systems.  SSH doesn't exist natively on Windows and each
	// implementation has a different location for known_hosts. Better to specify in KnownHostsFile for Windows
	if runtime.GOOS != "windows" {
		found, err := foundFile(systemWideKnownHosts)
		if err != nil {
			return nil, err
		}
		if found {
			knownHostsFiles = append(knownHostsFiles, systemWideKnownHosts)
		}
	}
	return knownHostsFiles, nil
}

func foundFile(file string) (bool, error) {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			// file does not exist
			return false, nil
		}
		// other error
		return false, err
	}
	return true, nil
}

func getAuthMethods(opts Options) ([]ssh.AuthMethod, error) {
	auth := make([]ssh.AuthMethod, 0)

	// explicitly set password from opts, then from env if any
	pw := os.Getenv("REMOTESTORE_SFTP_PASSWORD")
	if opts.Password != "" {
		pw = opts.Password
	}
	if pw != "" {
		auth = append(auth, ssh.Password(pw))
	}

	// setup key-based auth from env, if any
	keyfile := os.Getenv("REMOTESTORE_SFTP_KEYFILE")
	if opts.KeyFilePath != "" {
		keyfile = opts.KeyFilePath
	}
	if keyfile != "" {
		// gather passphrase, if any
		passphrase := os.Getenv("REMOTESTORE_SFTP_KEYFILE_PASSPHRASE")
		if opts.KeyPassphrase != "" {
			passphrase = opts.KeyPassphrase
		}

		secretKey, err := getKeyFile(keyfile, passphrase)
		if err != nil {
			return []ssh.AuthMethod{}, err
		}
		auth = append(auth, ssh.PublicKeys(secretKey))
	}

	return auth, nil
}

func getKeyFile(file, passphrase string) (ssh.Signer, error) {
	buf, err := os.ReadFile(file) //nolint:gosec
	if err != nil {
		return nil, err
	}
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(buf, []byte(passphrase))
	}
	return ssh.ParsePrivateKey(buf)
}

// isAuthError reports whether err is the ssh handshake rejecting every auth method.
func isAuthError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "unable to authenticate")
}
