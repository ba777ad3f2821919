package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(maxEntries int) (*Cache, *time.Time) {
	c := New(maxEntries)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	return c, &current
}

func TestGetSetRoundTrip(t *testing.T) {
	c, _ := newTestCache(10)

	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestExpiredEntryIsAMissAndEvicted(t *testing.T) {
	c, clock := newTestCache(10)

	c.Set("k", "v", time.Minute)
	*clock = clock.Add(2 * time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted by the read")
}

func TestEntryValidJustBeforeExpiry(t *testing.T) {
	c, clock := newTestCache(10)

	c.Set("k", "v", time.Minute)
	*clock = clock.Add(time.Minute)

	_, ok := c.Get("k")
	assert.True(t, ok, "entry expires strictly after its TTL elapses")
}

func TestFIFOEvictionRemovesOldest(t *testing.T) {
	c, clock := newTestCache(2)

	c.Set("first", 1, time.Hour)
	*clock = clock.Add(time.Second)
	c.Set("second", 2, time.Hour)
	*clock = clock.Add(time.Second)
	c.Set("third", 3, time.Hour)

	_, ok := c.Get("first")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("second")
	assert.True(t, ok)
	_, ok = c.Get("third")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c, clock := newTestCache(2)

	c.Set("a", 1, time.Hour)
	*clock = clock.Add(time.Second)
	c.Set("b", 2, time.Hour)
	*clock = clock.Add(time.Second)
	c.Set("a", 3, time.Hour)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestKeyIsOrderIndependent(t *testing.T) {
	k1 := Key("search", map[string]any{"query": "back pain", "max": 5})
	k2 := Key("search", map[string]any{"max": 5, "query": "back pain"})
	assert.Equal(t, k1, k2)

	k3 := Key("search", map[string]any{"query": "knee pain", "max": 5})
	assert.NotEqual(t, k1, k3)

	k4 := Key("other", map[string]any{"query": "back pain", "max": 5})
	assert.NotEqual(t, k1, k4)
}

func TestGetOrSetInvokesLoaderOnlyOnMiss(t *testing.T) {
	c, _ := newTestCache(10)

	loads := 0
	loader := func() (any, error) {
		loads++
		return "value", nil
	}

	v, err := c.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, loads)
}

func TestGetOrSetDoesNotCacheLoaderErrors(t *testing.T) {
	c, _ := newTestCache(10)

	boom := errors.New("lookup failed")
	_, err := c.GetOrSet("k", time.Minute, func() (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	v, err := c.GetOrSet("k", time.Minute, func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestHitsCountsReads(t *testing.T) {
	c, _ := newTestCache(10)

	c.Set("k", "v", time.Minute)
	assert.Equal(t, 0, c.Hits("k"))

	c.Get("k")
	c.Get("k")
	assert.Equal(t, 2, c.Hits("k"))
	assert.Equal(t, 0, c.Hits("missing"))
}
