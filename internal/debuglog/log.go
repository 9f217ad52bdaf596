// Package debuglog keeps the most recent N diagnostic entries for operators.
package debuglog

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the retention cap for debug scans and samples.
const DefaultCapacity = 50

// Log is a bounded, insertion-ordered buffer. Entries are only ever added, so
// the LRU eviction order is the insertion order and the oldest entry goes first.
type Log[T any] struct {
	mu    sync.Mutex
	cache *lru.Cache[uint64, T]
	seq   uint64
}

// New creates a log holding at most capacity entries. A non-positive capacity
// falls back to DefaultCapacity.
func New[T any](capacity int) *Log[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[uint64, T](capacity)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Log[T]{cache: cache}
}

// Add appends an entry, evicting the oldest one when full.
func (l *Log[T]) Add(entry T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.cache.Add(l.seq, entry)
}

// Entries returns the retained entries, most recent first.
func (l *Log[T]) Entries() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Keys are oldest to newest
	keys := l.cache.Keys()
	out := make([]T, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if v, ok := l.cache.Peek(keys[i]); ok {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of retained entries.
func (l *Log[T]) Len() int {
	return l.cache.Len()
}

// Clear drops every entry.
func (l *Log[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Purge()
}
