package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned by New when capacity is not positive.
var ErrInvalidCapacity = errors.New("cache capacity must be at least 1")

// Option configures an LRU at construction time.
type Option[K comparable, V any] func(*LRU[K, V])

// WithOnEvict registers fn to be called for every entry pushed out by
// capacity pressure. It runs synchronously inside Put, after the cache is
// consistent again. Delete and Clear do not trigger it.
func WithOnEvict[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.onEvict = fn
	}
}

// LRU is a fixed-capacity key-value cache that evicts the least recently
// used entry when a new key is inserted into a full cache.
//
// Any successful Get or Put promotes the key to most recently used.
//
// LRU is not safe for concurrent use. Wrap it with Synchronize (or build a
// Locked directly) when more than one goroutine owns it.
type LRU[K comparable, V any] struct {
	capacity int
	index    map[K]int // key -> arena slot
	order    recency[K, V]
	onEvict  func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// New constructs an empty cache holding at most capacity entries.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*LRU[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	c := &LRU[K, V]{
		capacity: capacity,
		index:    make(map[K]int, capacity),
		order:    newRecency[K, V](capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value for key and promotes it to most recently used.
// A missing key yields the zero value and false, with no side effects on
// recency.
//
// Complexity: O(1).
func (c *LRU[K, V]) Get(key K) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(i)
	return c.order.nodes[i].value, true
}

// Put inserts or overwrites key and promotes it to most recently used.
//
// Overwriting never evicts. Inserting a new key into a full cache first
// evicts the least recently used entry and reuses its slot.
//
// Complexity: O(1).
func (c *LRU[K, V]) Put(key K, value V) {
	if i, ok := c.index[key]; ok {
		c.order.nodes[i].value = value
		c.order.moveToFront(i)
		return
	}

	if len(c.index) < c.capacity {
		i := c.order.alloc(key, value)
		c.order.pushFront(i)
		c.index[key] = i
		return
	}

	// Full: recycle the tail slot for the new entry.
	i := c.order.tail
	old := c.order.nodes[i]
	c.order.unlink(i)
	delete(c.index, old.key)

	c.order.nodes[i].key = key
	c.order.nodes[i].value = value
	c.order.pushFront(i)
	c.index[key] = i
	c.evictions++

	if c.onEvict != nil {
		c.onEvict(old.key, old.value)
	}
}

// Peek returns the value for key without promoting it.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	if i, ok := c.index[key]; ok {
		return c.order.nodes[i].value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached, without promoting it.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Delete removes key if present and reports whether it was.
func (c *LRU[K, V]) Delete(key K) bool {
	i, ok := c.index[key]
	if !ok {
		return false
	}
	delete(c.index, key)
	c.order.unlink(i)
	c.order.release(i)
	return true
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return len(c.index)
}

// Cap returns the capacity fixed at construction.
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}

// Keys returns keys in MRU -> LRU order.
func (c *LRU[K, V]) Keys() []K {
	out := make([]K, 0, len(c.index))
	for i := c.order.head; i != nilSlot; i = c.order.nodes[i].next {
		out = append(out, c.order.nodes[i].key)
	}
	return out
}

// Clear removes every entry. Capacity and counters are kept.
func (c *LRU[K, V]) Clear() {
	clear(c.index)
	c.order.reset()
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       len(c.index),
		Capacity:  c.capacity,
	}
}
