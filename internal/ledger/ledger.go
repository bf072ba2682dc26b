// Package ledger tracks which broadcast IDs have already been accepted, so a
// broadcast reappearing in a later feed page is never ingested twice. The set
// is seeded from the row store's keys at startup and extended in memory only;
// persistence rides on the store itself.
package ledger

import "sync"

// Ledger is a concurrency-safe set of accepted broadcast IDs.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// New creates a ledger seeded with the given IDs.
func New(ids []string) *Ledger {
	l := &Ledger{seen: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		l.seen[id] = struct{}{}
	}
	return l
}

// Seen reports whether id has been accepted before.
func (l *Ledger) Seen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

// Mark records id as accepted. Marking an already-marked ID is a no-op.
func (l *Ledger) Mark(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[id] = struct{}{}
}

// Len returns the number of accepted IDs.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
