package testsuite

import (
	"testing"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/utils"
)

// RunLocationTests runs the conformance and store tests below base on client. Each runs in its own child folder of
// base, which is left in place.
func RunLocationTests(t *testing.T, client remotestore.ObjectStoreClient, base string, opts ConformanceOptions) {
	t.Helper()

	opts.Root = utils.JoinPath(base, "conformance")
	t.Run("Conformance", func(t *testing.T) {
		RunConformanceTests(t, client, opts)
	})
	t.Run("Store", func(t *testing.T) {
		RunStoreTests(t, client, utils.JoinPath(base, "store"))
	})
}
