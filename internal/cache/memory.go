package cache

import (
	"fmt"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

type memoryCache struct {
	// mu serialises Incr's read-modify-write; the LRU itself is already safe.
	mu    sync.Mutex
	inner *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict func(string, []byte)
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) {
			cfg.OnEvict(key, value)
		}
	}
	return &memoryCache{
		inner: lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL),
	}, nil
}

func (m *memoryCache) Get(key string) ([]byte, bool) {
	return m.inner.Get(key)
}

func (m *memoryCache) Set(key string, value []byte) {
	m.inner.Add(key, value)
}

func (m *memoryCache) Incr(key string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current uint64
	if raw, ok := m.inner.Get(key); ok {
		n, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cache: value under %q is not a counter: %w", key, err)
		}
		current = n
	}
	current++
	m.inner.Add(key, []byte(strconv.FormatUint(current, 10)))
	return current, nil
}

func (m *memoryCache) Len() int {
	return m.inner.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
