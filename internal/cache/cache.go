// Package cache provides the bounded in-process byte cache shared by all
// requests. Entries are keyed by a 64-bit fingerprint of the source URL and
// evicted least-recently-used once the fixed capacity is reached.
package cache

import (
	"container/list"
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Key derives the cache fingerprint for a source URL. Distinct URLs hashing to
// the same key would share an entry; collisions are accepted and not guarded
// against.
func Key(url string) uint64 {
	return xxhash.Sum64String(url)
}

type entry struct {
	key  uint64
	data []byte
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// Cache is a fixed-capacity LRU map from URL fingerprints to raw source bytes.
//
// Concurrent misses on the same key are coalesced through a singleflight group,
// so at most one upstream fetch is in flight per key while fetches for
// unrelated keys proceed concurrently. The mutex guards only map and list
// mutation, never a network call.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[uint64]*list.Element

	group singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New returns a cache holding at most capacity entries. Capacity must be
// positive.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[uint64]*list.Element, capacity),
	}
}

// GetOrFetch returns the bytes stored under key, fetching them once on a miss.
// A successful fetch is stored, evicting the least-recently-used entry first if
// the cache is full; a failed fetch stores nothing and the error is returned to
// every coalesced waiter. Recency is bumped on hits and on inserts.
//
// The fetch runs on a context detached from the caller's: the result is shared
// by every coalesced waiter, so one caller going away must not abort it.
//
// Returned bytes are owned by the cache and must be treated as read-only.
func (c *Cache) GetOrFetch(ctx context.Context, key uint64, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if data, ok := c.get(key); ok {
		c.hits.Add(1)
		log.Debug().Uint64("key", key).Msg("cache hit")
		return data, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(strconv.FormatUint(key, 16), func() (any, error) {
		// A coalesced waiter may arrive after the winner already stored the
		// entry; re-check before fetching.
		if data, ok := c.get(key); ok {
			c.hits.Add(1)
			return data, nil
		}

		c.misses.Add(1)
		log.Debug().Uint64("key", key).Msg("cache miss, fetching source")
		data, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.put(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Len reports the current entry count, always at most the capacity.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Contains reports whether key currently has an entry, without touching
// recency.
func (c *Cache) Contains(key uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Snapshot returns current cache counters for metrics export.
func (c *Cache) Snapshot() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.Len(),
	}
}

func (c *Cache) get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(elem)
	return elem.Value.(*entry).data, true
}

func (c *Cache) put(key uint64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		// Lost a race between the double-check and the fetch; keep the
		// existing entry, a key maps to at most one value.
		c.ll.MoveToFront(elem)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[key] = c.ll.PushFront(&entry{key: key, data: data})
}

func (c *Cache) evictOldest() {
	elem := c.ll.Back()
	if elem == nil {
		return
	}
	c.ll.Remove(elem)
	delete(c.items, elem.Value.(*entry).key)
	c.evictions.Add(1)
}
