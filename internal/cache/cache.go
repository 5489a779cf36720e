package cache

import "sync"

// Cache is a thread-safe LRU cache with a hard entry limit. Adding an entry
// beyond the limit evicts the least recently used one.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	order   lruList[K, V]
	limit   int

	hits, misses, evictions uint64
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K, V]
}

// New creates a cache holding at most limit entries. A limit <= 0 means
// unlimited.
func New[K comparable, V any](limit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[K, V]),
		limit:   limit,
	}
}

// GetOrCreate returns the cached value or stores the result of create.
// create runs under the lock, so concurrent callers never create twice,
// and it must not call back into the cache.
// An error from create is returned and nothing is stored.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.order.MoveToFront(e.node)
		return e.value, nil
	}
	c.misses++
	value, err := create()
	if err != nil {
		return value, err
	}
	c.entries[key] = &entry[K, V]{value: value, node: c.order.PushFront(key)}

	for c.limit > 0 && len(c.entries) > c.limit {
		oldest, ok := c.order.RemoveOldest()
		if !ok {
			break
		}
		delete(c.entries, oldest)
		c.evictions++
	}
	return value, nil
}

// Clear removes every entry. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order.Clear()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.entries),
		Limit:     c.limit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Limit     int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
