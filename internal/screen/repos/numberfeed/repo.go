package numberfeed

import (
	"sync"

	"github.com/haukened/rr-screen/internal/screen/common/phone"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

// Bloom keys carry a marker so exact and prefix entries for the same digits
// stay distinct.
const (
	exactMarker  = "="
	prefixMarker = "^"
)

// repository implements Repository by composing a Store, a Bloom filter (via
// factory) and a DecisionCache.
type repository struct {
	mu      sync.RWMutex
	store   Store
	cache   DecisionCache
	bloom   BloomFilter
	factory BloomFactory
	fpRate  float64
}

// NewRepository constructs a Repository. fpRate is the target false-positive
// rate for the Bloom filter built on each update.
func NewRepository(store Store, cache DecisionCache, factory BloomFactory, fpRate float64) Repository {
	return &repository{store: store, cache: cache, factory: factory, fpRate: fpRate}
}

// Lookup reports whether sender is listed. On store errors it reports not
// listed, so a broken index never blocks traffic on its own.
func (r *repository) Lookup(sender string) domain.FeedMatch {
	s := phone.Canonical(sender)
	if !r.checkBloom(s) {
		return domain.NotListed()
	}
	if m, ok := r.checkCache(s); ok {
		return m
	}
	m := r.checkStore(s)
	r.updateCache(s, m)
	return m
}

// UpdateAll rebuilds the store, then swaps in a new bloom filter and purges
// the cache under lock.
func (r *repository) UpdateAll(entries []domain.FeedEntry, version uint64, updatedUnix int64) error {
	if err := r.store.RebuildAll(entries, version, updatedUnix); err != nil {
		return err
	}

	bf := r.factory.New(uint64(len(entries)), r.fpRate)
	for _, e := range entries {
		bf.Add(bloomKey(e.Number, e.Prefix))
	}

	r.mu.Lock()
	r.bloom = bf
	r.cache.Purge()
	r.mu.Unlock()
	return nil
}

func (r *repository) Stats() RepoStats {
	return RepoStats{Cache: r.cache.Stats(), Store: r.store.Stats()}
}

func bloomKey(number string, prefix bool) []byte {
	if prefix {
		return []byte(prefixMarker + number)
	}
	return []byte(exactMarker + number)
}

// checkBloom returns true if the store must be consulted. With no bloom
// loaded yet it defers to the store.
func (r *repository) checkBloom(s string) bool {
	r.mu.RLock()
	bf := r.bloom
	r.mu.RUnlock()
	if bf == nil {
		return true
	}
	if bf.MightContain(bloomKey(s, false)) {
		return true
	}
	for i := len(s); i > 0; i-- {
		if bf.MightContain(bloomKey(s[:i], true)) {
			return true
		}
	}
	return false
}

func (r *repository) checkCache(s string) (domain.FeedMatch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache.Get(s)
}

func (r *repository) checkStore(s string) domain.FeedMatch {
	e, ok, err := r.store.FirstMatch(s)
	if err != nil || !ok {
		return domain.NotListed()
	}
	return domain.FeedMatch{Listed: true, Entry: e.Number, Prefix: e.Prefix, Source: e.Source}
}

func (r *repository) updateCache(s string, m domain.FeedMatch) {
	r.mu.Lock()
	r.cache.Put(s, m)
	r.mu.Unlock()
}
