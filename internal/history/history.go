// Package history holds the accepted EXP readings of a tracking session and
// exports them.
package history

import (
	"sync"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// History is an append-only, ordered list of accepted readings.
type History struct {
	mu      sync.RWMutex
	entries []domain.ExpHistoryEntry
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Append adds an entry at the end.
func (h *History) Append(e domain.ExpHistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []domain.ExpHistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.ExpHistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Last returns the newest entry.
func (h *History) Last() (domain.ExpHistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.entries) == 0 {
		return domain.ExpHistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Reset drops every entry.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
