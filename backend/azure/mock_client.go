package azure

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// MockAzureClient is an in-memory implementation of Client. Failures are reported with the error codes the blob
// service uses.
type MockAzureClient struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// ContainerError, when set, is returned by ContainerProperties
	ContainerError error
}

// NewMockAzureClient returns an empty MockAzureClient
func NewMockAzureClient() *MockAzureClient {
	return &MockAzureClient{blobs: map[string][]byte{}}
}

// ContainerProperties returns the value of ContainerError
func (a *MockAzureClient) ContainerProperties(context.Context) error {
	return a.ContainerError
}

// Properties returns the size of the blob named key
func (a *MockAzureClient) Properties(_ context.Context, key string) (*BlobProperties, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, ok := a.blobs[key]
	if !ok {
		return nil, MockResponseError(http.StatusNotFound, bloberror.BlobNotFound)
	}
	size := int64(len(data))
	return &BlobProperties{Size: &size}, nil
}

// Upload stores the content of r under key
func (a *MockAzureClient) Upload(_ context.Context, key string, r io.Reader, ifNoneMatch bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.blobs[key]; ok && ifNoneMatch {
		return MockResponseError(http.StatusConflict, bloberror.BlobAlreadyExists)
	}
	a.blobs[key] = data
	return nil
}

// Download returns a reader over the blob named key
func (a *MockAzureClient) Download(_ context.Context, key string) (io.ReadCloser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, ok := a.blobs[key]
	if !ok {
		return nil, MockResponseError(http.StatusNotFound, bloberror.BlobNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Copy duplicates srcKey as dstKey
func (a *MockAzureClient) Copy(_ context.Context, srcKey, dstKey string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, ok := a.blobs[srcKey]
	if !ok {
		return MockResponseError(http.StatusNotFound, bloberror.BlobNotFound)
	}
	a.blobs[dstKey] = bytes.Clone(data)
	return nil
}

// List pages through the sorted blob names below prefix. The marker is the offset of the page.
func (a *MockAzureClient) List(_ context.Context, prefix, delimiter, marker string, maxResults int32) (*ListResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var names []string
	seen := map[string]bool{}
	for key := range a.blobs {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		if delimiter != "" {
			if i := strings.Index(rest, delimiter); i >= 0 {
				dir := prefix + rest[:i+len(delimiter)]
				if !seen[dir] {
					seen[dir] = true
					names = append(names, dir)
				}
				continue
			}
		}
		names = append(names, key)
	}
	sort.Strings(names)

	offset := 0
	if marker != "" {
		n, err := strconv.Atoi(marker)
		if err != nil {
			return nil, MockResponseError(http.StatusBadRequest, bloberror.Code("InvalidQueryParameterValue"))
		}
		offset = min(n, len(names))
	}
	end := len(names)
	if maxResults > 0 {
		end = min(offset+int(maxResults), len(names))
	}

	result := &ListResult{}
	for _, n := range names[offset:end] {
		if seen[n] {
			result.Prefixes = append(result.Prefixes, n)
		} else {
			result.Blobs = append(result.Blobs, n)
		}
	}
	if end < len(names) {
		result.NextMarker = strconv.Itoa(end)
	}
	return result, nil
}

// Delete removes the blob named key
func (a *MockAzureClient) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.blobs[key]; !ok {
		return MockResponseError(http.StatusNotFound, bloberror.BlobNotFound)
	}
	delete(a.blobs, key)
	return nil
}

// MockResponseError builds the error the blob service returns for status and code
func MockResponseError(status int, code bloberror.Code) error {
	return &azcore.ResponseError{
		ErrorCode:  string(code),
		StatusCode: status,
		RawResponse: &http.Response{
			Status:     http.StatusText(status),
			StatusCode: status,
			Header:     http.Header{"x-ms-error-code": []string{string(code)}},
			Body:       http.NoBody,
			Request: &http.Request{
				Method: http.MethodGet,
				URL:    &url.URL{Scheme: "https", Host: "mock.blob.core.windows.net"},
			},
		},
	}
}
