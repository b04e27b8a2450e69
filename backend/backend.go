package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/c2fo/remotestore"
)

// Settings carries the connection parameters that are not part of a location URI.
type Settings struct {
	// AccessToken is the bearer credential for token based stores. It must never be logged.
	AccessToken string
	// Logger receives diagnostics from the client. Nil means no logging.
	Logger *zap.Logger
}

// LoggerOrNop returns s.Logger, or a no-op logger when it is unset.
func (s Settings) LoggerOrNop() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Opener builds a client for the authority ([user@]host[:port] or bucket) of a location URI.
type Opener func(ctx context.Context, authority string, settings Settings) (remotestore.ObjectStoreClient, error)

var mmu sync.RWMutex
var m map[string]Opener

// Register a new opener for scheme in the backend map
func Register(scheme string, o Opener) {
	mmu.Lock()
	m[scheme] = o
	mmu.Unlock()
}

// Unregister unregisters a scheme from backend map
func Unregister(scheme string) {
	mmu.Lock()
	delete(m, scheme)
	mmu.Unlock()
}

// UnregisterAll unregisters all schemes from backend map
func UnregisterAll() {
	// mainly for tests
	mmu.Lock()
	m = make(map[string]Opener)
	mmu.Unlock()
}

// Backend returns the opener registered for scheme, or nil
func Backend(scheme string) Opener {
	mmu.RLock()
	defer mmu.RUnlock()
	return m[scheme]
}

// Open builds a client with the opener registered for scheme.
func Open(ctx context.Context, scheme, authority string, settings Settings) (remotestore.ObjectStoreClient, error) {
	o := Backend(scheme)
	if o == nil {
		return nil, fmt.Errorf("no backend registered for scheme %q", scheme)
	}
	return o(ctx, authority, settings)
}

// RegisteredBackends returns a sorted array of registered schemes
func RegisteredBackends() []string {
	var f []string
	mmu.RLock()
	for k := range m {
		f = append(f, k)
	}
	mmu.RUnlock()
	sort.Strings(f)
	return f
}

func init() {
	m = make(map[string]Opener)
}
