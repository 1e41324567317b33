package numberfeed

import "github.com/haukened/rr-screen/internal/screen/domain"

// NoopRepository lists nothing. It is used when no feed directory is configured.
type NoopRepository struct{}

func (NoopRepository) Lookup(string) domain.FeedMatch { return domain.NotListed() }

func (NoopRepository) UpdateAll([]domain.FeedEntry, uint64, int64) error { return nil }

func (NoopRepository) Stats() RepoStats { return RepoStats{} }

var _ Repository = NoopRepository{}
