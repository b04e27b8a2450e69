package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type configSuite struct {
	suite.Suite
	dir string
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(configSuite))
}

func (s *configSuite) SetupTest() {
	s.dir = s.T().TempDir()
	for _, env := range []string{EnvLocation, EnvAccessToken, EnvPath, EnvLogLevel, EnvLogFormat, EnvMetricsAddr} {
		s.T().Setenv(env, "")
	}
}

func (s *configSuite) writeConfig(content string) string {
	p := filepath.Join(s.dir, "remotestore.yaml")
	s.Require().NoError(os.WriteFile(p, []byte(content), 0o600))
	return p
}

func (s *configSuite) TestLoadFile() {
	p := s.writeConfig(`
location: dbx:///
accessToken: sl.secret
path: /backup
logLevel: debug
`)
	settings, err := Load(p)
	s.Require().NoError(err)
	s.Equal("dbx:///", settings.Location)
	s.Equal("sl.secret", settings.AccessToken)
	s.Equal("/backup", settings.Path)
	s.Equal("debug", settings.Logging().Level)
}

func (s *configSuite) TestEnvOverridesFile() {
	p := s.writeConfig("location: dbx:///\npath: /backup\n")
	s.T().Setenv(EnvLocation, "s3://bucket")
	s.T().Setenv(EnvAccessToken, "from-env")

	settings, err := Load(p)
	s.Require().NoError(err)
	s.Equal("s3://bucket", settings.Location)
	s.Equal("from-env", settings.AccessToken)
	s.Equal("/backup", settings.Path, "unset env keeps the file value")
}

func (s *configSuite) TestLoadEnvOnly() {
	s.T().Setenv(EnvLocation, "mem://scratch")
	settings, err := Load("")
	s.Require().NoError(err)
	s.Equal("mem://scratch", settings.Location)
}

func (s *configSuite) TestLoadErrors() {
	_, err := Load(filepath.Join(s.dir, "missing.yaml"))
	s.Error(err)

	_, err = Load(s.writeConfig("location: dbx:///\ntoken: typo\n"))
	s.Error(err, "unknown keys are rejected")
}

func (s *configSuite) TestParseEmpty() {
	settings, err := Parse(strings.NewReader(""))
	s.Require().NoError(err)
	s.Equal(&Settings{}, settings)
}

func (s *configSuite) TestValidate() {
	s.ErrorIs((&Settings{}).Validate(), ErrMissingLocation)
	s.Error((&Settings{Location: "dbx:///", LogLevel: "loud"}).Validate())
	s.NoError((&Settings{Location: "dbx:///"}).Validate())
}

func (s *configSuite) TestStoreURI() {
	tests := []struct {
		settings Settings
		want     string
	}{
		{settings: Settings{Location: "dbx:///"}, want: "dbx:///"},
		{settings: Settings{Location: "dbx:///", Path: "backup"}, want: "dbx:///backup"},
		{settings: Settings{Location: "s3://bucket/old", Path: "/new/root/"}, want: "s3://bucket/new/root"},
		{settings: Settings{Location: "sftp://bob@host:22", Path: "/home/bob/repo"}, want: "sftp://bob@host:22/home/bob/repo"},
	}
	for _, tt := range tests {
		s.Run(tt.want, func() {
			got, err := tt.settings.StoreURI()
			s.Require().NoError(err)
			s.Equal(tt.want, got)
		})
	}

	_, err := (&Settings{}).StoreURI()
	s.ErrorIs(err, ErrMissingLocation)
}

func (s *configSuite) TestTokenRedacted() {
	settings := Settings{Location: "dbx:///", AccessToken: "sl.very-secret"}
	for _, out := range []string{settings.String(), fmt.Sprintf("%v", settings), fmt.Sprintf("%+v", settings), fmt.Sprintf("%#v", settings)} {
		s.NotContains(out, "sl.very-secret")
	}
	s.Contains(settings.String(), redacted)
}
