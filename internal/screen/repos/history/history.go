// Package history persists per-sender inbound message timestamps used by the
// SMS frequency tracker.
package history

import (
	"sort"
	"sync"
	"time"
)

// Store is the persistence contract for frequency history. Put replaces the
// full timestamp sequence for sender; an empty sequence removes it.
type Store interface {
	LoadAll() (map[string][]time.Time, error)
	Put(sender string, stamps []time.Time) error
	Close() error
}

// memoryStore keeps history for the life of the process only.
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]time.Time
}

// NewMemoryStore returns a Store that does not survive restarts.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]time.Time)}
}

func (m *memoryStore) LoadAll() (map[string][]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]time.Time, len(m.data))
	for k, v := range m.data {
		out[k] = append([]time.Time(nil), v...)
	}
	return out, nil
}

func (m *memoryStore) Put(sender string, stamps []time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(stamps) == 0 {
		delete(m.data, sender)
		return nil
	}
	m.data[sender] = append([]time.Time(nil), stamps...)
	return nil
}

func (m *memoryStore) Close() error { return nil }

// Prune returns the stamps strictly newer than now-window, oldest first.
func Prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	out := stamps[:0:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			out = append(out, ts)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// CountSince counts stamps strictly newer than now-window.
func CountSince(stamps []time.Time, now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	n := 0
	for _, ts := range stamps {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}
