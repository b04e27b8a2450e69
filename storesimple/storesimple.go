package storesimple

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend"
	_ "github.com/c2fo/remotestore/backend/all" // register all backends
)

var (
	ErrMissingAuthority = errors.New("unable to determine uri authority ([user@]host[:port] or bucket) for network-based scheme")
	ErrMissingScheme    = errors.New("unable to determine uri scheme")
	ErrRegFsNotFound    = errors.New("no matching registered backend found")
	ErrBlankURI         = errors.New("uri is blank")
)

// Settings carries what a location URI can not: the access token and the logger.
type Settings = backend.Settings

// schemes whose locations need no authority
var authorityOptional = map[string]bool{
	"file": true,
	"mem":  true,
	"dbx":  true,
}

// NewClient is a convenience function that builds the ObjectStoreClient of the backend matching uri. The path of
// uri is ignored.
func NewClient(ctx context.Context, uri string, settings Settings) (remotestore.ObjectStoreClient, error) {
	opener, authority, _, err := parseSupportedURI(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to create client for uri %q: %w", uri, err)
	}

	client, err := opener(ctx, authority, settings)
	if err != nil {
		return nil, fmt.Errorf("unable to create client for uri %q: %w", uri, err)
	}
	return client, nil
}

// NewStore is a convenience function that builds a RemoteStore rooted at the path of uri, ie
// "s3://mybucket/backups/laptop" stores the repository below /backups/laptop of mybucket.
func NewStore(ctx context.Context, uri string, settings Settings, opts ...remotestore.StoreOption) (*remotestore.RemoteStore, error) {
	opener, authority, path, err := parseSupportedURI(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to create store for uri %q: %w", uri, err)
	}

	client, err := opener(ctx, authority, settings)
	if err != nil {
		return nil, fmt.Errorf("unable to create store for uri %q: %w", uri, err)
	}
	if settings.Logger != nil {
		// later options win, so an explicit WithLogger still applies
		opts = append([]remotestore.StoreOption{remotestore.WithLogger(settings.Logger)}, opts...)
	}
	return remotestore.New(client, path, opts...), nil
}

// parseURI attempts to parse a URI and validate that it returns required results
func parseURI(uri string) (scheme, authority, path string, err error) {
	// return early if blank uri
	if uri == "" {
		err = ErrBlankURI
		return
	}

	// parse URI
	var u *url.URL
	u, err = url.Parse(uri)
	if err != nil {
		err = fmt.Errorf("unknown url.Parse error: %w", err)
		return
	}

	// validate schema
	scheme = u.Scheme
	if u.Scheme == "" {
		err = ErrMissingScheme
		return
	}

	// validate authority
	authority = u.Host
	path = u.Path
	if path == "" {
		path = "/"
	}

	if u.User.String() != "" {
		authority = fmt.Sprintf("%s@%s", u.User, u.Host)
	}
	if authority == "" && !authorityOptional[scheme] {
		return "", "", "", ErrMissingAuthority
	}

	return
}

// parseSupportedURI picks the opener registered under the longest name matching uri. Names are either a scheme, ie
// "s3", or a URI prefix, ie "s3://mybucket/path/", so a bucket or path can be given its own configuration:
//
// 's3://mybucket/path/' - URI: 's3://mybucket/path/repo'  (path-level match)
// 's3://mybucket/'      - URI: 's3://mybucket/other/'     (bucket-level match)
// 's3'                  - URI: 's3://otherbucket/repo'    (scheme-level match, only)
func parseSupportedURI(uri string) (backend.Opener, string, string, error) {
	scheme, authority, path, err := parseURI(uri)
	if err != nil {
		return nil, "", "", err
	}

	var longest string
	for _, name := range backend.RegisteredBackends() {
		matches := name == scheme || (strings.Contains(name, "://") && strings.HasPrefix(uri, name))
		if matches && len(name) > len(longest) {
			longest = name
		}
	}

	if longest == "" {
		return nil, "", "", fmt.Errorf("%w: %s", ErrRegFsNotFound, scheme)
	}
	return backend.Backend(longest), authority, path, nil
}
