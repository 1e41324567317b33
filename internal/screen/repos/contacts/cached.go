package contacts

import (
	lru "github.com/hashicorp/golang-lru/v2"

	logpkg "github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/common/phone"
)

// Cached wraps a Resolver with an LRU of successful answers. A failing lookup
// is logged and reported as "not a contact" without an error; failures are
// not cached so the next lookup retries.
type Cached struct {
	inner  Resolver
	cache  *lru.Cache[string, bool]
	logger logpkg.Logger
}

// NewCached builds a Cached resolver. A size <= 0 disables caching but keeps
// the error mapping.
func NewCached(inner Resolver, size int, logger logpkg.Logger) (*Cached, error) {
	c := &Cached{inner: inner, logger: logger}
	if size > 0 {
		cache, err := lru.New[string, bool](size)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}
	return c, nil
}

func (c *Cached) IsContact(sender string) (bool, error) {
	key := phone.Canonical(sender)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
	}
	ok, err := c.inner.IsContact(key)
	if err != nil {
		c.logger.Warn(map[string]any{"sender": key, "error": err}, "contact lookup failed")
		return false, nil
	}
	if c.cache != nil {
		c.cache.Add(key, ok)
	}
	return ok, nil
}

// Purge drops every cached answer, e.g. after the address book changed.
func (c *Cached) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

var _ Resolver = (*Cached)(nil)
