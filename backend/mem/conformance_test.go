package mem

import (
	"testing"

	"github.com/c2fo/remotestore/backend/testsuite"
)

// TestConformance runs the conformance test suite against the in-memory backend.
// No environment variables are required as this backend operates entirely in memory.
func TestConformance(t *testing.T) {
	testsuite.RunConformanceTests(t, NewStore(), testsuite.ConformanceOptions{})
}

// TestPagedConformance runs the suite with pages small enough to force cursors on every listing.
func TestPagedConformance(t *testing.T) {
	testsuite.RunConformanceTests(t, NewStore(WithPageSize(2)), testsuite.ConformanceOptions{})
}

// TestStoreConformance drives a RemoteStore over the in-memory backend.
func TestStoreConformance(t *testing.T) {
	testsuite.RunStoreTests(t, NewStore(WithPageSize(2)), "/remotestore-store")
}
