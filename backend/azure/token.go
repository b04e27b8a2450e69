package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// TokenCredentialFactory creates azure.TokenCredentials.  This function is provided to allow for mocking in unit tests.
type TokenCredentialFactory func(tenantID, clientID, clientSecret string) (azcore.TokenCredential, error)

// DefaultTokenCredentialFactory knows how to make azcore.TokenCredential structs for OAuth authentication. With no
// service principal fields set, the credential is read from the AZURE_* environment variables.
func DefaultTokenCredentialFactory(tenantID, clientID, clientSecret string) (azcore.TokenCredential, error) {
	if tenantID == "" && clientID == "" && clientSecret == "" {
		return azidentity.NewEnvironmentCredential(nil)
	}
	return azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
}
