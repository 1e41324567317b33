package numberfeed

// CacheStats reports lightweight cache metrics.
type CacheStats struct {
	Capacity  int
	Size      int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// StoreStats reports store counts and metadata.
type StoreStats struct {
	Version     uint64
	UpdatedUnix int64
	ExactKeys   uint64
	PrefixKeys  uint64
}

// RepoStats combines cache and store metrics.
type RepoStats struct {
	Cache CacheStats
	Store StoreStats
}
