package bolt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/rr-screen/internal/screen/domain"
	"github.com/haukened/rr-screen/internal/screen/repos/numberfeed"
)

var (
	bucketExact  = []byte("exact")
	bucketPrefix = []byte("prefix")
	bucketMeta   = []byte("meta")

	keyVersion = []byte("version")
	keyUpdated = []byte("updated")
)

// boltStore implements numberfeed.Store using bbolt. Values hold the entry's
// addedAt (8 bytes, unix seconds) followed by its source.
type boltStore struct {
	db *bbolt.DB
}

type bucketCreator interface {
	CreateBucketIfNotExists(name []byte) (*bbolt.Bucket, error)
}

type bucketDeleter interface {
	DeleteBucket(name []byte) error
}

func ensureBuckets(tx bucketCreator) error {
	for _, name := range [][]byte{bucketExact, bucketPrefix, bucketMeta} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return fmt.Errorf("create bucket %s: %w", name, err)
		}
	}
	return nil
}

// ensureBucketsFn is a seam for tests.
var ensureBucketsFn = ensureBuckets

// deleteBuckets removes the named buckets, ignoring ones that do not exist.
func deleteBuckets(tx bucketDeleter, names ...[]byte) error {
	for _, name := range names {
		if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bberrors.ErrBucketNotFound) {
			return fmt.Errorf("delete bucket %s: %w", name, err)
		}
	}
	return nil
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (numberfeed.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error { return ensureBucketsFn(tx) }); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// FirstMatch returns the exact entry for sender if present, otherwise the
// longest prefix entry that sender starts with.
func (s *boltStore) FirstMatch(sender string) (domain.FeedEntry, bool, error) {
	var (
		entry domain.FeedEntry
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketExact); b != nil {
			if v := b.Get([]byte(sender)); v != nil {
				entry, found = decodeEntry(sender, false, v), true
				return nil
			}
		}
		b := tx.Bucket(bucketPrefix)
		if b == nil {
			return nil
		}
		for i := len(sender); i > 0; i-- {
			if v := b.Get([]byte(sender[:i])); v != nil {
				entry, found = decodeEntry(sender[:i], true, v), true
				return nil
			}
		}
		return nil
	})
	return entry, found, err
}

// RebuildAll replaces every entry and the metadata in a single transaction.
func (s *boltStore) RebuildAll(entries []domain.FeedEntry, version uint64, updatedUnix int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := deleteBuckets(tx, bucketExact, bucketPrefix, bucketMeta); err != nil {
			return err
		}
		if err := ensureBucketsFn(tx); err != nil {
			return err
		}
		exact, prefix := tx.Bucket(bucketExact), tx.Bucket(bucketPrefix)
		for _, e := range entries {
			b := exact
			if e.Prefix {
				b = prefix
			}
			if err := b.Put([]byte(e.Number), encodeEntry(e)); err != nil {
				return err
			}
		}
		meta := tx.Bucket(bucketMeta)
		if err := meta.Put(keyVersion, u64(version)); err != nil {
			return err
		}
		return meta.Put(keyUpdated, u64(uint64(updatedUnix)))
	})
}

func (s *boltStore) Stats() numberfeed.StoreStats {
	st := numberfeed.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketExact); b != nil {
			st.ExactKeys = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketPrefix); b != nil {
			st.PrefixKeys = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(keyVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(keyUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

func u64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func encodeEntry(e domain.FeedEntry) []byte {
	return append(u64(uint64(e.AddedAt.Unix())), e.Source...)
}

func decodeEntry(number string, prefix bool, v []byte) domain.FeedEntry {
	e := domain.FeedEntry{Number: number, Prefix: prefix}
	if len(v) >= 8 {
		e.AddedAt = time.Unix(int64(binary.BigEndian.Uint64(v[:8])), 0)
		e.Source = string(v[8:])
	}
	return e
}

var _ numberfeed.Store = (*boltStore)(nil)
