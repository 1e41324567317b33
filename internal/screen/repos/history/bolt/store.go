package bolt

import (
	"encoding/binary"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/rr-screen/internal/screen/repos/history"
)

var bucketHistory = []byte("history")

// boltStore implements history.Store using bbolt. Each sender key holds its
// timestamps as consecutive big-endian unix nanoseconds.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures the bucket exists.
func New(path string) (history.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHistory)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

func (s *boltStore) LoadAll() (map[string][]time.Time, error) {
	out := make(map[string][]time.Time)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			stamps, err := decodeStamps(v)
			if err != nil {
				return fmt.Errorf("history %q: %w", k, err)
			}
			out[string(k)] = stamps
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *boltStore) Put(sender string, stamps []time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if len(stamps) == 0 {
			return b.Delete([]byte(sender))
		}
		return b.Put([]byte(sender), encodeStamps(stamps))
	})
}

func encodeStamps(stamps []time.Time) []byte {
	buf := make([]byte, 8*len(stamps))
	for i, ts := range stamps {
		binary.BigEndian.PutUint64(buf[i*8:], uint64(ts.UnixNano()))
	}
	return buf
}

func decodeStamps(v []byte) ([]time.Time, error) {
	if len(v)%8 != 0 {
		return nil, fmt.Errorf("corrupt value of %d bytes", len(v))
	}
	out := make([]time.Time, 0, len(v)/8)
	for i := 0; i < len(v); i += 8 {
		out = append(out, time.Unix(0, int64(binary.BigEndian.Uint64(v[i:i+8]))))
	}
	return out, nil
}

var _ history.Store = (*boltStore)(nil)
