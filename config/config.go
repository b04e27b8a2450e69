// Package config loads the settings of a remotestore location from a YAML file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/c2fo/remotestore/logging"
	"github.com/c2fo/remotestore/utils"
)

const (
	EnvLocation    = "REMOTESTORE_LOCATION"
	EnvAccessToken = "REMOTESTORE_ACCESS_TOKEN" //nolint:gosec
	EnvPath        = "REMOTESTORE_PATH"
	EnvLogLevel    = "REMOTESTORE_LOG_LEVEL"
	EnvLogFormat   = "REMOTESTORE_LOG_FORMAT"
	EnvMetricsAddr = "REMOTESTORE_METRICS_ADDR"
)

const redacted = "********"

var ErrMissingLocation = errors.New("location is required")

// Settings selects a store and its repository root.
type Settings struct {
	// Location is a backend URI, ie "dbx:///", "s3://bucket" or "sftp://user@host:22".
	Location string `yaml:"location"`
	// AccessToken is the credential handed to the backend. It must never be logged.
	AccessToken string `yaml:"accessToken"`
	// Path is the repository root. It replaces the path of Location when set.
	Path string `yaml:"path"`

	LogLevel    string `yaml:"logLevel"`
	LogFormat   string `yaml:"logFormat"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// Load reads file, when not empty, and applies the REMOTESTORE_* environment on top. A leading "~" in file is
// expanded to the home directory.
func Load(file string) (*Settings, error) {
	s := &Settings{}
	if file != "" {
		expanded, err := homedir.Expand(file)
		if err != nil {
			return nil, fmt.Errorf("expanding config path %q: %w", file, err)
		}
		b, err := os.ReadFile(expanded) //nolint:gosec
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if s, err = Parse(bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", expanded, err)
		}
	}
	s.ApplyEnv()
	return s, nil
}

// Parse decodes YAML settings. Unknown keys are an error.
func Parse(r io.Reader) (*Settings, error) {
	s := &Settings{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return s, nil
}

// ApplyEnv overrides every field whose environment variable is set and not empty.
func (s *Settings) ApplyEnv() {
	override(&s.Location, EnvLocation)
	override(&s.AccessToken, EnvAccessToken)
	override(&s.Path, EnvPath)
	override(&s.LogLevel, EnvLogLevel)
	override(&s.LogFormat, EnvLogFormat)
	override(&s.MetricsAddr, EnvMetricsAddr)
}

func override(field *string, env string) {
	if v := os.Getenv(env); v != "" {
		*field = v
	}
}

// Validate reports missing or malformed settings.
func (s *Settings) Validate() error {
	if s.Location == "" {
		return ErrMissingLocation
	}
	if _, err := url.Parse(s.Location); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// StoreURI returns Location with its path replaced by Path, when Path is set.
func (s *Settings) StoreURI() (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	if s.Path == "" {
		return s.Location, nil
	}
	u, err := url.Parse(s.Location)
	if err != nil {
		return "", err
	}
	u.Path = utils.CleanPath(s.Path)
	return u.String(), nil
}

// Logging returns the logging configuration of s.
func (s *Settings) Logging() logging.Config {
	return logging.Config{Level: s.LogLevel, Format: s.LogFormat}
}

// String describes s with the access token redacted.
func (s Settings) String() string {
	token := ""
	if s.AccessToken != "" {
		token = redacted
	}
	return fmt.Sprintf("location=%s path=%s accessToken=%s", s.Location, s.Path, token)
}

// GoString keeps the access token out of %#v.
func (s Settings) GoString() string {
	return "config.Settings{" + s.String() + "}"
}
