package testcontainers

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/backend/testsuite"
	"github.com/c2fo/remotestore/storesimple"
)

type location struct {
	client remotestore.ObjectStoreClient
	base   string
	opts   testsuite.ConformanceOptions
}

type backendTestSuite struct {
	suite.Suite
	locations map[string]location
}

func (s *backendTestSuite) SetupSuite() {
	registers := map[string]func(*testing.T) string{
		"mem":        registerMem,
		"os":         registerOS,
		"atmoz":      registerAtmoz,
		"azurite":    registerAzurite,
		"gcsserver":  registerGCSServer,
		"localstack": registerLocalStack,
		"minio":      registerMinio,
		"vsftpd":     registerVSFTPD,
	}

	var (
		mu   sync.Mutex
		uris = make(map[string]string, len(registers))
		wg   sync.WaitGroup
	)
	for name, register := range registers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uri := register(s.T())
			mu.Lock()
			uris[name] = uri
			mu.Unlock()
		}()
	}
	wg.Wait()

	ctx := context.Background()
	s.locations = make(map[string]location, len(uris))
	for name, uri := range uris {
		client, err := storesimple.NewClient(ctx, uri, storesimple.Settings{})
		s.Require().NoError(err)

		u, err := url.Parse(uri)
		s.Require().NoError(err)

		s.locations[name] = location{
			client: client,
			base:   u.Path,
			opts: testsuite.ConformanceOptions{
				SkipConcurrency: u.Scheme == "ftp",
			},
		}
	}
}

func registerMem(*testing.T) string {
	return "mem://test/"
}

func registerOS(t *testing.T) string {
	return fmt.Sprintf("file://%s/", filepath.ToSlash(t.TempDir()))
}

// TestBackends runs the conformance tests for each emulated store
func (s *backendTestSuite) TestBackends() {
	for name, loc := range s.locations {
		s.Run(name, func() {
			testsuite.RunLocationTests(s.T(), loc.client, loc.base, loc.opts)
		})
	}
}

func TestBackends(t *testing.T) {
	suite.Run(t, new(backendTestSuite))
}
