package symcore

import (
	"strconv"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ============================================================
// Memoization of pure derived queries
// ============================================================

// DefaultCacheCapacity is the entry limit of the process-wide cache.
const DefaultCacheCapacity = 4096

type cacheKey struct {
	op   string
	hash uint64
}

type cacheEntry struct {
	node  Expr
	value interface{}
}

// entryStore holds the entries of a Cache. The bounded store is an LRU from
// golang-lru; the unbounded one is a locked map.
type entryStore interface {
	Get(key cacheKey) (*cacheEntry, bool)
	Add(key cacheKey, e *cacheEntry) bool
	Len() int
}

type mapStore struct {
	mu    sync.RWMutex
	items map[cacheKey]*cacheEntry
}

func (m *mapStore) Get(key cacheKey) (*cacheEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.items[key]
	return e, ok
}

func (m *mapStore) Add(key cacheKey, e *cacheEntry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = e
	return false
}

func (m *mapStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Cache is a bounded LRU memo table keyed by operation name and structural
// hash. Entries store the node they were computed for, so a hash collision
// is recomputed instead of served. Concurrent misses on the same key share
// one computation.
type Cache struct {
	capacity int
	mu       sync.RWMutex // guards store
	store    entryStore
	group    singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// CacheStats is a snapshot of the cache counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// NewCache returns a cache holding at most capacity entries. A capacity of
// zero or less leaves it unbounded.
func NewCache(capacity int) *Cache {
	c := &Cache{capacity: capacity}
	c.store = c.newStore()
	return c
}

func (c *Cache) newStore() entryStore {
	if c.capacity <= 0 {
		return &mapStore{items: make(map[cacheKey]*cacheEntry)}
	}
	l, err := lru.NewWithEvict[cacheKey, *cacheEntry](c.capacity, c.evicted)
	if err != nil {
		panic(err)
	}
	return l
}

func (c *Cache) evicted(key cacheKey, _ *cacheEntry) {
	c.evictions.Add(1)
	log().Debug("memo entry evicted", zap.String("op", key.op), zap.Uint64("hash", key.hash))
}

func (c *Cache) entries() entryStore {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

var defaultCache atomic.Pointer[Cache]

func init() {
	defaultCache.Store(NewCache(DefaultCacheCapacity))
}

// DefaultCache returns the cache used by the memoized kernel queries.
func DefaultCache() *Cache { return defaultCache.Load() }

// SetDefaultCache replaces the process-wide cache.
func SetDefaultCache(c *Cache) {
	if c == nil {
		c = NewCache(DefaultCacheCapacity)
	}
	defaultCache.Store(c)
}

// Memo returns the cached result of op on node, computing it on a miss.
// compute must be a pure function of node.
func (c *Cache) Memo(op string, node Expr, compute func() interface{}) interface{} {
	key := cacheKey{op: op, hash: node.Hash()}
	if v, ok := c.get(key, node); ok {
		c.hits.Add(1)
		return v
	}
	c.misses.Add(1)
	flight := op + ":" + strconv.FormatUint(key.hash, 16)
	v, _, _ := c.group.Do(flight, func() (interface{}, error) {
		if v, ok := c.get(key, node); ok {
			return entryResult{node: node, value: v}, nil
		}
		v := compute()
		c.put(key, node, v)
		return entryResult{node: node, value: v}, nil
	})
	r := v.(entryResult)
	if !equalExpr(r.node, node) {
		return compute()
	}
	return r.value
}

// entryResult carries the node a shared computation ran for, so a caller
// whose node only collides on the hash can tell.
type entryResult struct {
	node  Expr
	value interface{}
}

func (c *Cache) get(key cacheKey, node Expr) (interface{}, bool) {
	e, ok := c.entries().Get(key)
	if !ok || !equalExpr(e.node, node) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) put(key cacheKey, node Expr, value interface{}) {
	c.entries().Add(key, &cacheEntry{node: node, value: value})
}

// Len is the number of stored entries.
func (c *Cache) Len() int { return c.entries().Len() }

// Capacity is the entry limit given to NewCache.
func (c *Cache) Capacity() int { return c.capacity }

// Purge drops every entry and keeps the counters.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = c.newStore()
}

// Stats returns the current counters and size.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.Len(),
	}
}
