package gs

import (
	"context"
	"testing"

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/stretchr/testify/require"

	"github.com/c2fo/remotestore/backend/testsuite"
)

const conformanceBucket = "remotestore-conformance"

func newFakeStore(t *testing.T, objects ...fakestorage.Object) *Store {
	t.Helper()

	server := fakestorage.NewServer(objects)
	t.Cleanup(server.Stop)
	if len(objects) == 0 {
		// initial objects create their bucket
		server.CreateBucketWithOpts(fakestorage.CreateBucketOpts{Name: conformanceBucket})
	}

	store, err := NewStore(context.Background(), conformanceBucket, WithClient(server.Client()))
	require.NoError(t, err)
	return store
}

// TestConformance runs the conformance test suite against an in-process fake Cloud Storage server.
func TestConformance(t *testing.T) {
	testsuite.RunConformanceTests(t, newFakeStore(t), testsuite.ConformanceOptions{})
}

// TestStoreConformance drives a RemoteStore over the fake server.
func TestStoreConformance(t *testing.T) {
	testsuite.RunStoreTests(t, newFakeStore(t), "/remotestore-store")
}
