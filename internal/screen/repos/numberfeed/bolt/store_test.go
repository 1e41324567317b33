package bolt

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

type assertErr struct{}

func (assertErr) Error() string { return "assert error" }

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "feeds.db")
}

func openStore(t *testing.T) *boltStore {
	t.Helper()
	st, err := New(tempDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st.(*boltStore)
}

func TestBoltStore_FirstMatch_ExactAndPrefix(t *testing.T) {
	st := openStore(t)

	_, ok, err := st.FirstMatch("+15550100")
	require.NoError(t, err)
	assert.False(t, ok, "empty store must miss")

	now := time.Unix(1_700_000_000, 0)
	entries := []domain.FeedEntry{
		{Number: "+15550100", Source: "a.txt", AddedAt: now},
		{Number: "+1900", Prefix: true, Source: "b.txt", AddedAt: now},
		{Number: "+19005", Prefix: true, Source: "c.txt", AddedAt: now},
	}
	require.NoError(t, st.RebuildAll(entries, 3, now.Unix()))

	e, ok, err := st.FirstMatch("+15550100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, e.Prefix)
	assert.Equal(t, "a.txt", e.Source)
	assert.True(t, e.AddedAt.Equal(now))

	e, ok, err = st.FirstMatch("+19005550100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "+19005", e.Number, "longest prefix wins")
	assert.Equal(t, "c.txt", e.Source)

	e, ok, _ = st.FirstMatch("+19001230000")
	require.True(t, ok)
	assert.Equal(t, "+1900", e.Number)

	_, ok, _ = st.FirstMatch("+15550101")
	assert.False(t, ok)
}

func TestBoltStore_RebuildReplaces(t *testing.T) {
	st := openStore(t)
	now := time.Now()
	require.NoError(t, st.RebuildAll([]domain.FeedEntry{{Number: "+15550100", Source: "a", AddedAt: now}}, 1, now.Unix()))
	require.NoError(t, st.RebuildAll([]domain.FeedEntry{{Number: "+1555", Prefix: true, Source: "b", AddedAt: now}}, 2, now.Unix()))

	stats := st.Stats()
	assert.Equal(t, uint64(0), stats.ExactKeys)
	assert.Equal(t, uint64(1), stats.PrefixKeys)
	assert.Equal(t, uint64(2), stats.Version)
	assert.Equal(t, now.Unix(), stats.UpdatedUnix)

	e, ok, _ := st.FirstMatch("+15550100")
	require.True(t, ok)
	assert.True(t, e.Prefix)
}

type fakeBucketCreator struct{ errs map[string]error }

func (f fakeBucketCreator) CreateBucketIfNotExists(name []byte) (*bbolt.Bucket, error) {
	if err := f.errs[string(name)]; err != nil {
		return nil, err
	}
	return nil, nil
}

func TestNew_EnsureBucketsErrors(t *testing.T) {
	for _, fail := range [][]byte{bucketExact, bucketPrefix, bucketMeta} {
		t.Run(string(fail), func(t *testing.T) {
			old := ensureBucketsFn
			ensureBucketsFn = func(tx bucketCreator) error {
				return ensureBuckets(fakeBucketCreator{errs: map[string]error{string(fail): assertErr{}}})
			}
			defer func() { ensureBucketsFn = old }()

			st, err := New(tempDB(t))
			assert.Error(t, err)
			assert.Nil(t, st)
		})
	}
}

type bucketDeleterFunc func(name []byte) error

func (f bucketDeleterFunc) DeleteBucket(name []byte) error { return f(name) }

func TestDeleteBuckets(t *testing.T) {
	tests := []struct {
		name    string
		errs    map[string]error
		wantErr bool
	}{
		{"all deleted", nil, false},
		{"ignore not found", map[string]error{"a": bberrors.ErrBucketNotFound}, false},
		{"first fails", map[string]error{"a": assertErr{}}, true},
		{"second fails", map[string]error{"b": assertErr{}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls []string
			err := deleteBuckets(bucketDeleterFunc(func(name []byte) error {
				calls = append(calls, string(name))
				return tc.errs[string(name)]
			}), []byte("a"), []byte("b"))
			if tc.wantErr {
				assert.True(t, errors.Is(err, assertErr{}))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, calls)
		})
	}
}

func TestNew_OpenError(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "feeds.db"))
	assert.Error(t, err)
}

func TestDecodeEntry_ShortValue(t *testing.T) {
	e := decodeEntry("+1", true, []byte{1, 2})
	assert.Equal(t, "+1", e.Number)
	assert.True(t, e.AddedAt.IsZero())
	assert.Empty(t, e.Source)
}
