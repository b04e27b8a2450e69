/*
Package testcontainers runs the backend conformance tests against servers that emulate popular storage services. It
uses the local Docker daemon to start them:

	cd testcontainers && go test ./...
*/
package testcontainers
