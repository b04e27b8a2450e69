/*
Package testsuite is meant to be run by implementors of backends to ensure that the behaviors of their client match
the expected behavior of the remotestore.ObjectStoreClient interface.

RunConformanceTests checks the client contract directly. RunStoreTests drives a remotestore.RemoteStore over the
client through init, upload, download, listing, moves, deletes and temp file cleanup. RunLocationTests runs both
under separate folders of one location.

The integration runner in this package tests real stores. Note you may need to pass additional environmental
variables for authentication.

	REMOTESTORE_INTEGRATION_LOCATIONS="file:///tmp/remotestore_test/;s3://remotestore-test/;dbx:///" \
	REMOTESTORE_ACCESS_TOKEN=... \
	AWS_REGION=us-west-2 \
	go test -tags remotestoreintegration ./backend/testsuite
*/
package testsuite
