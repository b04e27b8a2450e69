//go:build remotestoreintegration

package ftp

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c2fo/remotestore/backend/testsuite"
)

// TestServerConformance runs the conformance test suite against a real FTP server.
//
// Required environment variables:
//   - REMOTESTORE_FTP_HOST: FTP server authority (e.g., "user@localhost:21")
//
// Optional environment variables:
//   - REMOTESTORE_FTP_TEST_PATH: Base path for tests (default: "/remotestore-integration")
//   - REMOTESTORE_FTP_USERNAME, REMOTESTORE_FTP_PASSWORD, REMOTESTORE_FTP_PROTOCOL, REMOTESTORE_FTP_DISABLE_EPSV
func TestServerConformance(t *testing.T) {
	host := os.Getenv("REMOTESTORE_FTP_HOST")
	if host == "" {
		t.Skip("REMOTESTORE_FTP_HOST not set, skipping FTP conformance tests")
	}

	testPath := os.Getenv("REMOTESTORE_FTP_TEST_PATH")
	if testPath == "" {
		testPath = "/remotestore-integration"
	}

	store, err := NewStore(host)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	testsuite.RunConformanceTests(t, store, testsuite.ConformanceOptions{Root: testPath})
}
