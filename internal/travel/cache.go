package travel

import (
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is one cached origin/destination lookup.
type Entry struct {
	Key       string    `json:"key"`
	Route     Route     `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Age returns how old the entry is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Repository is the storage contract the estimator depends on.
type Repository interface {
	Get(key string) (Entry, bool)
	Put(key string, entry Entry)
	SweepExpired(now time.Time) int
}

// Backend persists the serialized cache. Implementations are best-effort;
// errors are logged by the cache and never surfaced to lookups.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Resetter is implemented by backends that can drop their stored blob
// outright. Clear uses it instead of saving an empty map.
type Resetter interface {
	Reset() error
}

// CacheKey normalizes an origin/destination pair into a cache key.
func CacheKey(origin, destination string) string {
	return normalizeAddress(origin) + "|" + normalizeAddress(destination)
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Cache is an in-memory map of route lookups mirrored to a Backend.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	backend Backend
	expiry  time.Duration
	logger  *slog.Logger
}

// NewCache loads any persisted entries from backend. A nil backend gives an
// in-memory cache; a failing or corrupt backend starts empty.
func NewCache(backend Backend, expiry time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	c := &Cache{
		entries: make(map[string]Entry),
		backend: backend,
		expiry:  expiry,
		logger:  logger,
	}
	c.load()
	return c
}

func (c *Cache) load() {
	if c.backend == nil {
		return
	}
	data, err := c.backend.Load()
	if err != nil {
		c.logger.Warn("travel cache load failed, starting empty", "error", err)
		return
	}
	if len(data) == 0 {
		return
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("travel cache is corrupt, starting empty", "error", err)
		return
	}
	for k, e := range entries {
		e.Key = k
		c.entries[k] = e
	}
	c.logger.Debug("travel cache loaded", "entries", len(c.entries))
}

// persist must be called with c.mu held.
func (c *Cache) persist() {
	if c.backend == nil {
		return
	}
	data, err := json.Marshal(c.entries)
	if err != nil {
		c.logger.Warn("travel cache marshal failed", "error", err)
		return
	}
	if err := c.backend.Save(data); err != nil {
		c.logger.Warn("travel cache save failed, keeping in-memory copy", "error", err)
	}
}

func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) Put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Key = key
	c.entries[key] = entry
	c.persist()
}

// SweepExpired evicts entries older than the expiry window and returns how
// many were removed.
func (c *Cache) SweepExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if e.Age(now) > c.expiry {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		c.persist()
		c.logger.Info("travel cache swept", "removed", removed, "remaining", len(c.entries))
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Entries returns a snapshot sorted by key.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if r, ok := c.backend.(Resetter); ok {
		if err := r.Reset(); err != nil {
			c.logger.Warn("travel cache reset failed", "error", err)
		}
		return
	}
	c.persist()
}
