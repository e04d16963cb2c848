package cache

// instrumentedCache records hit, miss and increment counters for a group and
// exposes the live entry count through a collector queried at scrape time.
type instrumentedCache struct {
	inner Cache
	group string
}

func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	registerEntriesCollector(group, inner.Len)
	return &instrumentedCache{inner: inner, group: group}
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		HitsTotal.WithLabelValues(c.group).Inc()
	} else {
		MissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok
}

func (c *instrumentedCache) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func (c *instrumentedCache) Incr(key string) (uint64, error) {
	n, err := c.inner.Incr(key)
	if err != nil {
		IncrementsTotal.WithLabelValues(c.group, "error").Inc()
		return 0, err
	}
	IncrementsTotal.WithLabelValues(c.group, "ok").Inc()
	return n, nil
}

func (c *instrumentedCache) Len() int {
	return c.inner.Len()
}

// Close unregisters the entries collector and closes the underlying cache.
func (c *instrumentedCache) Close() error {
	unregisterEntriesCollector(c.group)
	return c.inner.Close()
}
