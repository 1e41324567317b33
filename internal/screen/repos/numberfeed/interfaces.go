// Package numberfeed indexes bulk spam-number feeds and answers whether a
// sender is listed. Reads go bloom → cache → store; writes rebuild the store
// and swap in a fresh bloom filter.
package numberfeed

import "github.com/haukened/rr-screen/internal/screen/domain"

// BloomFilter is the minimal interface the repository needs from Bloom filters.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory builds filters sized for a capacity and false-positive rate.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// DecisionCache caches feed matches by canonical sender.
type DecisionCache interface {
	Get(sender string) (domain.FeedMatch, bool)
	Put(sender string, m domain.FeedMatch)
	Len() int
	Purge()
	Stats() CacheStats
}

// Store is the persistent feed index.
// - FirstMatch: exact entry first, then the longest listed prefix
// - RebuildAll: atomically replace all entries and metadata
type Store interface {
	FirstMatch(sender string) (domain.FeedEntry, bool, error)
	RebuildAll(entries []domain.FeedEntry, version uint64, updatedUnix int64) error
	Stats() StoreStats
	Close() error
}

// Repository answers feed lookups for the screening services.
type Repository interface {
	Lookup(sender string) domain.FeedMatch
	UpdateAll(entries []domain.FeedEntry, version uint64, updatedUnix int64) error
	Stats() RepoStats
}
