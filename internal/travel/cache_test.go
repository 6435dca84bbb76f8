package travel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	data    []byte
	loadErr error
	saveErr error
	saves   int
}

func (m *memBackend) Load() ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data, nil
}

func (m *memBackend) Save(data []byte) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func TestCacheKey_Normalizes(t *testing.T) {
	assert.Equal(t, "12 oak st|40 elm ave", CacheKey("  12 Oak St", "40 ELM Ave  "))
	assert.Equal(t, CacheKey("A", "B"), CacheKey("a ", " b"))
	assert.NotEqual(t, CacheKey("a", "b"), CacheKey("b", "a"))
}

func TestCache_PersistsAndReloads(t *testing.T) {
	backend := &memBackend{}
	cache := NewCache(backend, DefaultExpiry, nil)

	key := CacheKey("a", "b")
	cache.Put(key, Entry{Route: Route{DurationMinutes: 11, DistanceMiles: 3.5}, Timestamp: base})
	assert.Equal(t, 1, backend.saves)

	reloaded := NewCache(backend, DefaultExpiry, nil)
	got, ok := reloaded.Get(key)
	require.True(t, ok)
	assert.Equal(t, key, got.Key)
	assert.Equal(t, 11.0, got.Route.DurationMinutes)
	assert.True(t, got.Timestamp.Equal(base))
}

func TestCache_LoadFailureStartsEmpty(t *testing.T) {
	cache := NewCache(&memBackend{loadErr: errors.New("disk gone")}, DefaultExpiry, nil)
	assert.Equal(t, 0, cache.Len())

	corrupt := NewCache(&memBackend{data: []byte("{not json")}, DefaultExpiry, nil)
	assert.Equal(t, 0, corrupt.Len())
}

func TestCache_SaveFailureKeepsInMemoryCopy(t *testing.T) {
	cache := NewCache(&memBackend{saveErr: errors.New("read-only")}, DefaultExpiry, nil)
	cache.Put("k", Entry{Timestamp: base})

	_, ok := cache.Get("k")
	assert.True(t, ok)
}

func TestCache_SweepExpired(t *testing.T) {
	backend := &memBackend{}
	cache := NewCache(backend, DefaultExpiry, nil)
	cache.Put("old", Entry{Timestamp: base.Add(-8 * 24 * time.Hour)})
	cache.Put("recent", Entry{Timestamp: base.Add(-2 * time.Hour)})

	removed := cache.SweepExpired(base)

	assert.Equal(t, 1, removed)
	_, ok := cache.Get("old")
	assert.False(t, ok)
	_, ok = cache.Get("recent")
	assert.True(t, ok)
	assert.Equal(t, 3, backend.saves)

	assert.Equal(t, 0, cache.SweepExpired(base))
	assert.Equal(t, 3, backend.saves, "no-op sweep must not rewrite the backend")
}

func TestCache_EntriesSortedAndClear(t *testing.T) {
	cache := NewCache(nil, DefaultExpiry, nil)
	cache.Put("b|c", Entry{Timestamp: base})
	cache.Put("a|b", Entry{Timestamp: base})

	entries := cache.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a|b", entries[0].Key)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

type resetBackend struct {
	memBackend
	resets int
}

func (r *resetBackend) Reset() error {
	r.resets++
	r.data = nil
	return nil
}

func TestCache_ClearResetsBackend(t *testing.T) {
	backend := &resetBackend{}
	cache := NewCache(backend, DefaultExpiry, nil)
	cache.Put("a|b", Entry{Timestamp: base})
	require.Equal(t, 1, backend.saves)

	cache.Clear()
	assert.Equal(t, 1, backend.resets)
	assert.Equal(t, 1, backend.saves, "reset replaces the empty save")
	assert.Equal(t, 0, NewCache(backend, DefaultExpiry, nil).Len())
}
