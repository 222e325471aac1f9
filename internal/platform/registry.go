package platform

import (
	"errors"
	"sync"

	"jvscan/internal/java"
)

// ErrRegistryUnavailable is returned by SystemRegistry on hosts without a
// Windows registry
var ErrRegistryUnavailable = errors.New("windows registry is not available on this platform")

// Hive selects a registry root key
type Hive int

const (
	LocalMachine Hive = iota
	CurrentUser
)

func (h Hive) String() string {
	if h == CurrentUser {
		return "HKCU"
	}
	return "HKLM"
}

// Registry is the read-only registry surface the Windows probe needs
type Registry interface {
	ReadString(hive Hive, path, name string) (string, error)
	ReadSubKeys(hive Hive, path string) ([]string, error)
}

// registryCache memoizes registry-derived runtimes per base path for the
// lifetime of the probe. Writes are idempotent, so a racing recompute just
// overwrites an equal value.
type registryCache struct {
	mu      sync.Mutex
	entries map[string][]java.Runtime
}

func newRegistryCache() *registryCache {
	return &registryCache{entries: make(map[string][]java.Runtime)}
}

func (c *registryCache) get(basePath string) ([]java.Runtime, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[basePath]
	return r, ok
}

func (c *registryCache) put(basePath string, runtimes []java.Runtime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[basePath] = runtimes
}
