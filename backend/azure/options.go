package azure

import (
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Options contains options necessary for the azure backend
type Options struct {
	// ServiceURL holds the blob service endpoint. Defaults to https://<AccountName>.blob.core.windows.net
	ServiceURL string

	// AccountName holds the Azure Blob Storage account name for authentication
	AccountName string

	// AccountKey holds the Azure Blob Storage account key for authentication
	AccountKey string

	// TenantID holds the Azure Service Account tenant id for authentication
	TenantID string

	// ClientID holds the Azure Service Account client id for authentication
	ClientID string

	// ClientSecret holds the Azure Service Account client secret for authentication
	ClientSecret string

	tokenCredentialFactory TokenCredentialFactory
}

// NewOptions creates a new Options struct by populating values from environment variables.
//
// Env Vars:
//
//	*REMOTESTORE_AZURE_SERVICE_URL
//	*REMOTESTORE_AZURE_STORAGE_ACCOUNT
//	*REMOTESTORE_AZURE_STORAGE_ACCESS_KEY
//	*REMOTESTORE_AZURE_TENANT_ID
//	*REMOTESTORE_AZURE_CLIENT_ID
//	*REMOTESTORE_AZURE_CLIENT_SECRET
func NewOptions() *Options {
	return &Options{
		ServiceURL:             os.Getenv("REMOTESTORE_AZURE_SERVICE_URL"),
		AccountName:            os.Getenv("REMOTESTORE_AZURE_STORAGE_ACCOUNT"),
		AccountKey:             os.Getenv("REMOTESTORE_AZURE_STORAGE_ACCESS_KEY"),
		TenantID:               os.Getenv("REMOTESTORE_AZURE_TENANT_ID"),
		ClientID:               os.Getenv("REMOTESTORE_AZURE_CLIENT_ID"),
		ClientSecret:           os.Getenv("REMOTESTORE_AZURE_CLIENT_SECRET"),
		tokenCredentialFactory: DefaultTokenCredentialFactory,
	}
}

// Credential returns an azcore.TokenCredential for a service principal, an *azblob.SharedKeyCredential for a storage
// account key, or nil for anonymous access.
func (o *Options) Credential() (any, error) {
	// Check to see if we have service account credentials
	if o.TenantID != "" && o.ClientID != "" && o.ClientSecret != "" {
		factory := o.tokenCredentialFactory
		if factory == nil {
			factory = DefaultTokenCredentialFactory
		}
		return factory(o.TenantID, o.ClientID, o.ClientSecret)
	}

	// Check to see if we have storage account credentials
	if o.AccountName != "" && o.AccountKey != "" {
		return azblob.NewSharedKeyCredential(o.AccountName, o.AccountKey)
	}

	// Anonymous access
	return nil, nil
}

func (o *Options) serviceURL() (string, error) {
	if o.ServiceURL != "" {
		return o.ServiceURL, nil
	}
	if o.AccountName == "" {
		return "", fmt.Errorf("azure storage account name or service URL is required")
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net", o.AccountName), nil
}
