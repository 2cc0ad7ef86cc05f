package dataset

import (
	"fmt"
	"os"
	"sync"
)

// Cache memoizes parsed datasets by content fingerprint. Re-analyzing an
// unchanged source skips the CSV parse entirely. There is no invalidation
// beyond a fingerprint mismatch; recomputing is always safe.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Dataset
}

// NewCache creates an empty dataset cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Dataset)}
}

// Parse returns the cached dataset for these bytes, parsing on first sight.
func (c *Cache) Parse(data []byte) (*Dataset, error) {
	key := Fingerprint(data)

	c.mu.RLock()
	ds, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return ds, nil
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = ds
	c.mu.Unlock()

	return ds, nil
}

// Load reads a file and returns the cached dataset for its current content.
// A changed file produces a new fingerprint and therefore a fresh parse.
func (c *Cache) Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset cache: %w", err)
	}
	return c.Parse(data)
}

// Get returns a previously parsed dataset by fingerprint.
func (c *Cache) Get(fingerprint string) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.entries[fingerprint]
	return ds, ok
}

// Len reports how many datasets are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
