package testcontainers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/c2fo/remotestore/backend"
	"github.com/c2fo/remotestore/backend/ftp"
)

const (
	vsftpdPort     = "21/tcp"
	vsftpdUsername = "admin"
	vsftpdPassword = "dummy"
)

func registerVSFTPD(t *testing.T) string {
	ctx := context.Background()
	is := require.New(t)

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:         "remotestore-vsftpd",
			Image:        "fauria/vsftpd:latest",
			ExposedPorts: []string{"21", "21100-21110:21100-21110"},
			Env:          map[string]string{"FTP_PASS": vsftpdPassword},
			WaitingFor:   wait.ForListeningPort(vsftpdPort),
		},
		Started: true,
	}
	ctr, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, ctr)
	is.NoError(err)

	host, err := ctr.Host(ctx)
	is.NoError(err)

	port, err := ctr.MappedPort(ctx, vsftpdPort)
	is.NoError(err)

	authority := fmt.Sprintf("%s@%s:%s", vsftpdUsername, host, port.Port())
	store, err := ftp.NewStore(authority, ftp.WithOptions(ftp.Options{Password: vsftpdPassword}))
	is.NoError(err)
	t.Cleanup(func() { _ = store.Close() })

	uri := "ftp://" + authority + "/"
	backend.Register(uri, fixed(store))
	return uri
}
