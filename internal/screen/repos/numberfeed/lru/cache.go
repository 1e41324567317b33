package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/rr-screen/internal/screen/domain"
	"github.com/haukened/rr-screen/internal/screen/repos/numberfeed"
)

// decisionCache is an LRU-backed implementation of numberfeed.DecisionCache.
// It tracks hits, misses and evictions.
type decisionCache struct {
	lru       *lru.Cache[string, domain.FeedMatch]
	capacity  int
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache is a no-op DecisionCache used when size <= 0.
type disabledCache struct{}

// New creates a DecisionCache with the given capacity. If size <= 0, a
// disabled cache is returned that always misses.
func New(size int) (numberfeed.DecisionCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	dc := &decisionCache{capacity: size}
	// NewWithEvict also observes Purge-induced evictions.
	cache, err := lru.NewWithEvict(size, func(_ string, _ domain.FeedMatch) {
		atomic.AddUint64(&dc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	dc.lru = cache
	return dc, nil
}

func (c *decisionCache) Get(sender string) (domain.FeedMatch, bool) {
	if val, ok := c.lru.Get(sender); ok {
		atomic.AddUint64(&c.hits, 1)
		return val, true
	}
	atomic.AddUint64(&c.misses, 1)
	return domain.FeedMatch{}, false
}

func (c *decisionCache) Put(sender string, m domain.FeedMatch) {
	c.lru.Add(sender, m)
}

func (c *decisionCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Evictions are counted via the eviction callback.
func (c *decisionCache) Purge() { c.lru.Purge() }

func (c *decisionCache) Stats() numberfeed.CacheStats {
	return numberfeed.CacheStats{
		Capacity:  c.capacity,
		Size:      c.lru.Len(),
		Hits:      atomic.LoadUint64(&c.hits),
		Misses:    atomic.LoadUint64(&c.misses),
		Evictions: atomic.LoadUint64(&c.evictions),
	}
}

func (d *disabledCache) Get(string) (domain.FeedMatch, bool) { return domain.FeedMatch{}, false }

func (d *disabledCache) Put(string, domain.FeedMatch) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Purge() {}

func (d *disabledCache) Stats() numberfeed.CacheStats { return numberfeed.CacheStats{} }

var _ numberfeed.DecisionCache = (*decisionCache)(nil)
var _ numberfeed.DecisionCache = (*disabledCache)(nil)
