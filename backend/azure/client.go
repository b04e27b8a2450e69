package azure

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// copyPollInterval is the wait between checks of a pending server side copy.
const copyPollInterval = 500 * time.Millisecond

// ListResult is one page of blob names below a prefix.
type ListResult struct {
	// Blobs holds the full names of the blobs on the page.
	Blobs []string
	// Prefixes holds the virtual directories on the page, each ending in the delimiter.
	Prefixes []string
	// NextMarker continues the listing. It is empty on the last page.
	NextMarker string
}

// The Client interface contains methods that perform specific operations on one Azure Blob Storage container.  This
// interface is here so we can write mocks over the actual functionality.
type Client interface {
	// ContainerProperties returns an error if the container cannot be read with the client's credential.
	ContainerProperties(ctx context.Context) error

	// Properties should return a BlobProperties struct for the blob named key.  If the blob is not found an error
	// should be returned.
	Properties(ctx context.Context, key string) (*BlobProperties, error)

	// Upload should create or replace the blob named key with the content of r. With ifNoneMatch set, an existing
	// blob is left alone and an error is returned.
	Upload(ctx context.Context, key string, r io.Reader, ifNoneMatch bool) error

	// Download should return a reader for the blob named key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Copy should copy the blob named srcKey to dstKey and wait for the copy to finish
	Copy(ctx context.Context, srcKey, dstKey string) error

	// List should return one page of the blobs below prefix. An empty delimiter lists the whole tree.
	List(ctx context.Context, prefix, delimiter, marker string, maxResults int32) (*ListResult, error)

	// Delete should delete the blob named key and its snapshots.
	Delete(ctx context.Context, key string) error
}

// DefaultClient is the main implementation that actually makes the calls to Azure Blob Storage
type DefaultClient struct {
	container *container.Client
}

// NewClient initializes a new DefaultClient for containerName
func NewClient(options *Options, containerName string) (*DefaultClient, error) {
	serviceURL, err := options.serviceURL()
	if err != nil {
		return nil, err
	}
	containerURL, err := url.JoinPath(serviceURL, containerName)
	if err != nil {
		return nil, err
	}

	credential, err := options.Credential()
	if err != nil {
		return nil, err
	}

	var cli *container.Client
	switch cred := credential.(type) {
	case *azblob.SharedKeyCredential:
		cli, err = container.NewClientWithSharedKeyCredential(containerURL, cred, nil)
	case azcore.TokenCredential:
		cli, err = container.NewClient(containerURL, cred, nil)
	default:
		cli, err = container.NewClientWithNoCredential(containerURL, nil)
	}
	if err != nil {
		return nil, err
	}
	return &DefaultClient{container: cli}, nil
}

// NewClientFromContainer wraps an existing container client.
func NewClientFromContainer(cli *container.Client) *DefaultClient {
	return &DefaultClient{container: cli}
}

// ContainerProperties fetches the container properties, only to check access.
func (a *DefaultClient) ContainerProperties(ctx context.Context) error {
	_, err := a.container.GetProperties(ctx, nil)
	return err
}

// Properties fetches the properties for the blob named key
func (a *DefaultClient) Properties(ctx context.Context, key string) (*BlobProperties, error) {
	resp, err := a.container.NewBlobClient(key).GetProperties(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewBlobProperties(resp), nil
}

// Upload streams r into a block blob
func (a *DefaultClient) Upload(ctx context.Context, key string, r io.Reader, ifNoneMatch bool) error {
	opts := &blockblob.UploadStreamOptions{}
	if ifNoneMatch {
		opts.AccessConditions = &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfNoneMatch: to.Ptr(azcore.ETagAny)},
		}
	}
	_, err := a.container.NewBlockBlobClient(key).UploadStream(ctx, r, opts)
	return err
}

// Download returns an io.ReadCloser for the blob named key
func (a *DefaultClient) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := a.container.NewBlobClient(key).DownloadStream(ctx, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Copy starts a server side copy of srcKey to dstKey and polls until it is no longer pending.
func (a *DefaultClient) Copy(ctx context.Context, srcKey, dstKey string) error {
	src := a.container.NewBlobClient(srcKey)
	dst := a.container.NewBlobClient(dstKey)

	resp, err := dst.StartCopyFromURL(ctx, src.URL(), nil)
	if err != nil {
		return err
	}

	status := resp.CopyStatus
	for status != nil && *status == blob.CopyStatusTypePending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(copyPollInterval):
		}
		props, err := dst.GetProperties(ctx, nil)
		if err != nil {
			return err
		}
		status = props.CopyStatus
	}

	if status == nil || *status == blob.CopyStatusTypeSuccess {
		return nil
	}
	return fmt.Errorf("copy of %s to %s ended with status %s", srcKey, dstKey, *status)
}

// List returns one page of blob names below prefix
func (a *DefaultClient) List(ctx context.Context, prefix, delimiter, marker string, maxResults int32) (*ListResult, error) {
	var markerPtr *string
	if marker != "" {
		markerPtr = to.Ptr(marker)
	}
	var maxPtr *int32
	if maxResults > 0 {
		maxPtr = to.Ptr(maxResults)
	}

	result := &ListResult{}
	if delimiter == "" {
		pager := a.container.NewListBlobsFlatPager(&container.ListBlobsFlatOptions{
			Prefix:     to.Ptr(prefix),
			Marker:     markerPtr,
			MaxResults: maxPtr,
		})
		if !pager.More() {
			return result, nil
		}
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Segment.BlobItems {
			result.Blobs = append(result.Blobs, deref(item.Name))
		}
		result.NextMarker = deref(resp.NextMarker)
		return result, nil
	}

	pager := a.container.NewListBlobsHierarchyPager(delimiter, &container.ListBlobsHierarchyOptions{
		Prefix:     to.Ptr(prefix),
		Marker:     markerPtr,
		MaxResults: maxPtr,
	})
	if !pager.More() {
		return result, nil
	}
	resp, err := pager.NextPage(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range resp.Segment.BlobItems {
		result.Blobs = append(result.Blobs, deref(item.Name))
	}
	for _, p := range resp.Segment.BlobPrefixes {
		result.Prefixes = append(result.Prefixes, deref(p.Name))
	}
	result.NextMarker = deref(resp.NextMarker)
	return result, nil
}

// Delete deletes the blob named key along with its snapshots.
func (a *DefaultClient) Delete(ctx context.Context, key string) error {
	_, err := a.container.NewBlobClient(key).Delete(ctx, &blob.DeleteOptions{
		DeleteSnapshots: to.Ptr(blob.DeleteSnapshotsOptionTypeInclude),
	})
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
