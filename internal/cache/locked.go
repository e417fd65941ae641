package cache

import "sync"

// Locked serializes access to an LRU so it can be shared between goroutines.
//
// Get and Put both rewrite recency links, so they take the write lock.
// Only the non-promoting reads (Peek, Contains, Len, Keys, Stats) share the
// read lock.
type Locked[K comparable, V any] struct {
	mu  sync.RWMutex
	lru *LRU[K, V]
}

// NewLocked constructs a Locked around a fresh LRU.
func NewLocked[K comparable, V any](capacity int, opts ...Option[K, V]) (*Locked[K, V], error) {
	lru, err := New(capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Locked[K, V]{lru: lru}, nil
}

// Synchronize wraps an existing LRU. The caller must stop using lru directly.
func Synchronize[K comparable, V any](lru *LRU[K, V]) *Locked[K, V] {
	return &Locked[K, V]{lru: lru}
}

func (l *Locked[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lru.Get(key)
}

func (l *Locked[K, V]) Put(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lru.Put(key, value)
}

func (l *Locked[K, V]) Delete(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lru.Delete(key)
}

func (l *Locked[K, V]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lru.Clear()
}

func (l *Locked[K, V]) Peek(key K) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lru.Peek(key)
}

func (l *Locked[K, V]) Contains(key K) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lru.Contains(key)
}

func (l *Locked[K, V]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lru.Len()
}

// Cap needs no lock; capacity never changes.
func (l *Locked[K, V]) Cap() int {
	return l.lru.Cap()
}

func (l *Locked[K, V]) Keys() []K {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lru.Keys()
}

func (l *Locked[K, V]) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lru.Stats()
}
