package azure

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/stretchr/testify/suite"
)

type mockTokenCredential struct{}

func (mockTokenCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{}, errors.New("mock token")
}

func MockTokenCredentialFactory(_, _, _ string) (azcore.TokenCredential, error) {
	return mockTokenCredential{}, nil
}

type OptionsTestSuite struct {
	suite.Suite
}

func (s *OptionsTestSuite) TestNewOptions() {
	s.T().Setenv("REMOTESTORE_AZURE_STORAGE_ACCOUNT", "account")
	s.T().Setenv("REMOTESTORE_AZURE_SERVICE_URL", "http://127.0.0.1:10000/account")

	o := NewOptions()
	s.Require().NotNil(o)
	s.Equal("account", o.AccountName)

	u, err := o.serviceURL()
	s.Require().NoError(err)
	s.Equal("http://127.0.0.1:10000/account", u)
}

func (s *OptionsTestSuite) TestServiceURL() {
	u, err := (&Options{AccountName: "foo"}).serviceURL()
	s.Require().NoError(err)
	s.Equal("https://foo.blob.core.windows.net", u)

	_, err = (&Options{}).serviceURL()
	s.Error(err, "account name or service URL is required")
}

func (s *OptionsTestSuite) TestCredentials_ServiceAccount() {
	options := Options{
		AccountName:            "foo",
		TenantID:               "foo",
		ClientID:               "foo",
		ClientSecret:           "foo",
		tokenCredentialFactory: MockTokenCredentialFactory,
	}

	credential, err := options.Credential()
	s.NoError(err, "service account vars are present so no error")
	s.NotNil(credential, "expect a non-nil credential when service account vars are set")
	s.Implements((*azcore.TokenCredential)(nil), credential, "credentials type should be TokenCredential")
}

func (s *OptionsTestSuite) TestCredentials_StorageAccount() {
	options := Options{
		AccountName:            "foo",
		AccountKey:             base64.StdEncoding.EncodeToString([]byte("bar")),
		tokenCredentialFactory: MockTokenCredentialFactory,
	}

	credential, err := options.Credential()
	s.NoError(err, "service account vars are present so no error")
	s.NotNil(credential, "expect a non-nil credential when service account vars are set")
	s.IsType((*azblob.SharedKeyCredential)(nil), credential, "credentials type should be SharedKeyCredential")
}

func (s *OptionsTestSuite) TestCredentials_Anon() {
	options := Options{
		AccountName:            "foo",
		tokenCredentialFactory: MockTokenCredentialFactory,
	}

	credential, err := options.Credential()
	s.NoError(err, "anon vars are present so no error")
	s.Nil(credential, "when no env vars are set we should get a nil credential")
}

func (s *OptionsTestSuite) TestNewClient() {
	client, err := NewClient(&Options{
		AccountName: "testaccount",
		AccountKey:  "dGVzdGtleQ==", // "testkey" base64 encoded
	}, "repo")
	s.Require().NoError(err)
	s.Equal("https://testaccount.blob.core.windows.net/repo", client.container.URL())
}

func TestOptions(t *testing.T) {
	suite.Run(t, new(OptionsTestSuite))
}
