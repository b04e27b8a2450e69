package gs

import (
	"os"

	"google.golang.org/api/option"
)

// defaultPageSize is the number of listing results requested per page.
const defaultPageSize = 1000

// Options holds Google Cloud Storage -specific options.
type Options struct {
	APIKey                string   `json:"apiKey,omitempty"`
	CredentialFile        string   `json:"credentialFilePath,omitempty"`
	Endpoint              string   `json:"endpoint,omitempty"`
	Scopes                []string `json:"scopes,omitempty"`
	WithoutAuthentication bool     `json:"withoutAuthentication,omitempty"`
	PageSize              int      `json:"pageSize,omitempty"`
}

// clientOptions converts opts into client options. Empty fields fall back to the
// REMOTESTORE_GS_CREDENTIAL_FILE and REMOTESTORE_GS_ENDPOINT environment variables.
func clientOptions(opts Options) []option.ClientOption {
	googleClientOpts := []option.ClientOption{}

	if opts.CredentialFile == "" {
		opts.CredentialFile = os.Getenv("REMOTESTORE_GS_CREDENTIAL_FILE")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = os.Getenv("REMOTESTORE_GS_ENDPOINT")
	}

	switch {
	case opts.WithoutAuthentication:
		googleClientOpts = append(googleClientOpts, option.WithoutAuthentication())
	case opts.APIKey != "":
		googleClientOpts = append(googleClientOpts, option.WithAPIKey(opts.APIKey))
	case opts.CredentialFile != "":
		googleClientOpts = append(googleClientOpts, option.WithCredentialsFile(opts.CredentialFile))
	}
	if opts.Endpoint != "" {
		googleClientOpts = append(googleClientOpts, option.WithEndpoint(opts.Endpoint))
	}
	if len(opts.Scopes) > 0 {
		googleClientOpts = append(googleClientOpts, option.WithScopes(opts.Scopes...))
	}
	return googleClientOpts
}

func (o Options) pageSize() int {
	if o.PageSize > 0 {
		return o.PageSize
	}
	return defaultPageSize
}
