package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/christopherklint97/sitterload/internal/travel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestState(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetState("missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, db.SetState("k", "one"))
	require.NoError(t, db.SetState("k", "two"))
	v, err = db.GetState("k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	require.NoError(t, db.DeleteState("k"))
	v, err = db.GetState("k")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestIgnoreList(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.IgnoreEvent("evt-1", "Walk - Max"))
	require.NoError(t, db.IgnoreEvent("evt-2", "Drop-in"))
	require.NoError(t, db.IgnoreEvent("evt-1", "Walk - Max (renamed)"))

	ids, err := db.IgnoredIDs()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"evt-1": true, "evt-2": true}, ids)

	events, err := db.IgnoredEvents()
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		if e.EventID == "evt-1" {
			assert.Equal(t, "Walk - Max (renamed)", e.Title)
			assert.False(t, e.IgnoredAt.IsZero())
		}
	}

	removed, err := db.UnignoreEvent("evt-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = db.UnignoreEvent("evt-1")
	require.NoError(t, err)
	assert.False(t, removed)

	ids, err = db.IgnoredIDs()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"evt-2": true}, ids)

	assert.Error(t, db.IgnoreEvent("", "x"))
}

func TestIgnoreListSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenPath(path)
	require.NoError(t, err)
	require.NoError(t, db.IgnoreEvent("evt-1", "Walk"))
	require.NoError(t, db.Close())

	db, err = OpenPath(path)
	require.NoError(t, err)
	defer db.Close()
	ids, err := db.IgnoredIDs()
	require.NoError(t, err)
	assert.True(t, ids["evt-1"])
}

func TestStateBackend_TravelCacheRoundTrip(t *testing.T) {
	db := openTestDB(t)
	backend := StateBackend{DB: db, Key: TravelCacheKey}
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	c := travel.NewCache(backend, 0, nil)
	assert.Equal(t, 0, c.Len())
	c.Put("a|b", travel.Entry{Route: travel.Route{DurationMinutes: 12, DistanceMiles: 3}, Timestamp: now})

	reloaded := travel.NewCache(backend, 0, nil)
	e, ok := reloaded.Get("a|b")
	require.True(t, ok)
	assert.Equal(t, 12.0, e.Route.DurationMinutes)
	assert.True(t, now.Equal(e.Timestamp))
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	b := FileBackend{Path: path}

	data, err := b.Load()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, b.Save([]byte(`{"x":1}`)))
	data, err = b.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestCacheClear_DropsStateRow(t *testing.T) {
	db := openTestDB(t)
	backend := StateBackend{DB: db, Key: TravelCacheKey}

	cache := travel.NewCache(backend, travel.DefaultExpiry, nil)
	cache.Put("a|b", travel.Entry{Route: travel.Route{DurationMinutes: 12, DistanceMiles: 3}, Timestamp: time.Now()})
	v, err := db.GetState(TravelCacheKey)
	require.NoError(t, err)
	assert.NotEmpty(t, v)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM state WHERE key = ?", TravelCacheKey).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestCacheClear_RemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "travel_cache.json")
	cache := travel.NewCache(FileBackend{Path: path}, travel.DefaultExpiry, nil)
	cache.Put("a|b", travel.Entry{Route: travel.Route{DurationMinutes: 12, DistanceMiles: 3}, Timestamp: time.Now()})
	_, err := os.Stat(path)
	require.NoError(t, err)

	cache.Clear()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, FileBackend{Path: path}.Reset())
}
