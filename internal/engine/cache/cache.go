// Package cache provides the in-process TTL cache used by every
// external-data accessor. Entries expire lazily on read and eviction is
// FIFO by creation time, which keeps behavior predictable under churn.
package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	createdAt time.Time
	expiresAt time.Time
	hits      int
}

// Cache is safe for concurrent use. All state transitions happen under one
// mutex; loaders run outside it.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxEntries int
	now        func() time.Time
}

// New creates a cache holding at most maxEntries values. maxEntries <= 0
// means unbounded.
func New(maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Key builds a canonical cache key from a capability name and its
// parameters. Keys are order-independent: identical parameter sets always
// produce identical keys.
func Key(name string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		v, err := json.Marshal(params[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%q", fmt.Sprint(params[k])))
		}
		b.WriteString("|" + k + "=" + string(v))
	}
	return b.String()
}

// Get returns the cached value for key. An entry past its expiry counts as
// a miss and is evicted by this read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	e.hits++
	return e.value, true
}

// Set stores value under key for ttl. When the cache is full, the entry
// with the oldest creation time is evicted first.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = &entry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// GetOrSet returns the cached value or runs loader and caches its result.
//
// There is no single-flight de-duplication: concurrent misses for the same
// key each invoke loader. Some loaders have side effects (search-attempt
// counters), so coalescing here would change observable behavior; callers
// needing at-most-one execution must wrap GetOrSet themselves.
func (c *Cache) GetOrSet(key string, ttl time.Duration, loader func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := loader()
	if err != nil {
		return nil, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

// Len returns the current number of entries, counting expired ones that
// have not been read yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits returns the hit count recorded for key, for diagnostics.
func (c *Cache) Hits(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.hits
	}
	return 0
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.createdAt.Before(oldest) {
			oldestKey = k
			oldest = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
