// Package viewers tracks the connected-viewer registry behind the broadcast
// channel. Entries are added and removed only by connection lifecycle events;
// the rest of the relay reads the registry for observability.
package viewers

import (
	"sort"
	"sync"
	"time"
)

// Entry describes one connected viewer.
type Entry struct {
	ID          string    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
	Delivered   int64     `json:"delivered"` // events written to this connection
}

// Registry is an in-memory roster of live viewer connections.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Connect records a new viewer connection.
func (r *Registry) Connect(id, remoteAddr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &Entry{
		ID:          id,
		RemoteAddr:  remoteAddr,
		ConnectedAt: time.Now().UTC(),
	}
}

// Disconnect removes a viewer. Unknown ids are a no-op.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// RecordDelivery increments the delivered-event counter for a viewer.
func (r *Registry) RecordDelivery(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.Delivered++
	}
}

// Count returns the number of connected viewers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns a copy of all entries, oldest connection first.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}
