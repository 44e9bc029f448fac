// Package cache implements the TTL-gated field cache that backs the status
// line. Each field ages independently; reads pull a fresh value through the
// supplied compute function only when the entry has expired or has been
// explicitly invalidated.
package cache

import (
	"sync"
	"time"

	"github.com/grovetools/statline/logging"
)

// Field names a single cached piece of status information.
type Field string

// Canonical fields known to the renderer.
const (
	FieldMode        Field = "mode"
	FieldFile        Field = "file"
	FieldGitBranch   Field = "git-branch"
	FieldDiagnostics Field = "diagnostics"
	FieldPosition    Field = "position"
	FieldLSPProgress Field = "lsp-progress"
)

// Fields lists every canonical field.
func Fields() []Field {
	return []Field{
		FieldMode,
		FieldFile,
		FieldGitBranch,
		FieldDiagnostics,
		FieldPosition,
		FieldLSPProgress,
	}
}

// entry holds one cached value. A zero lastRefresh is the "stale" sentinel:
// the value survives invalidation, only the age is reset.
type entry struct {
	value       string
	lastRefresh time.Time
	ttl         time.Duration
}

// Cache maps fields to independently aged entries. All methods are safe for
// concurrent use; host RPC callbacks arrive on their own goroutines.
type Cache struct {
	mu      sync.Mutex
	entries map[Field]*entry
	now     func() time.Time

	hits   uint64
	misses uint64
}

// New creates a cache with the given per-field TTLs. Fields missing from the
// map get a zero TTL, meaning every read recomputes.
func New(ttls map[Field]time.Duration) *Cache {
	c := &Cache{
		entries: make(map[Field]*entry),
		now:     time.Now,
	}
	for _, f := range Fields() {
		c.entries[f] = &entry{ttl: ttls[f]}
	}
	return c
}

// SetClock replaces the time source. Intended for tests.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the cached value for field, invoking compute first when the
// entry is stale. A compute error keeps the previous value (empty string if
// the field was never computed); staleness is tolerated, absence is not.
func (c *Cache) Get(field Field, compute func() (string, error)) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensure(field)
	now := c.now()
	if !e.lastRefresh.IsZero() && now.Sub(e.lastRefresh) <= e.ttl {
		c.hits++
		return e.value
	}

	c.misses++
	value, err := compute()
	if err != nil {
		logging.NewLogger("cache").WithError(err).WithField("field", field).
			Debug("compute failed, serving last known value")
		return e.value
	}
	e.value = value
	e.lastRefresh = now
	return e.value
}

// Peek returns the current value without refreshing it.
func (c *Cache) Peek(field Field) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensure(field).value
}

// Put writes a value directly, bypassing the compute path. Used by sources
// whose results arrive asynchronously, such as the branch poller.
func (c *Cache) Put(field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.ensure(field)
	e.value = value
	e.lastRefresh = c.now()
}

// Invalidate forces the next Get for field to recompute regardless of TTL.
// The stored value is retained so a failing recompute still has something to
// serve.
func (c *Cache) Invalidate(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure(field).lastRefresh = time.Time{}
}

// InvalidateAll marks every field stale. Used on theme changes where all
// styled output must repaint.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.lastRefresh = time.Time{}
	}
}

// SetTTL overrides the TTL for one field.
func (c *Cache) SetTTL(field Field, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure(field).ttl = ttl
}

// Stats reports hit/miss counters since creation.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses}
}

// Stats holds cache counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// ensure returns the entry for field, creating it for non-canonical names.
// Caller must hold c.mu.
func (c *Cache) ensure(field Field) *entry {
	e, ok := c.entries[field]
	if !ok {
		e = &entry{}
		c.entries[field] = e
	}
	return e
}
