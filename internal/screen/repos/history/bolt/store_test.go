package bolt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bbolt "go.etcd.io/bbolt"
)

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}

func TestBoltStore_PutLoadSurvivesReopen(t *testing.T) {
	path := tempDB(t)
	st, err := New(path)
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base.Add(90 * time.Second)}
	require.NoError(t, st.Put("+15550100", stamps))
	require.NoError(t, st.Put("+15550101", []time.Time{base}))
	require.NoError(t, st.Close())

	st, err = New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	all, err := st.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	got := all["+15550100"]
	require.Len(t, got, 2)
	for i := range stamps {
		assert.True(t, stamps[i].Equal(got[i]), "stamp %d: %v != %v", i, stamps[i], got[i])
	}
}

func TestBoltStore_EmptyPutDeletes(t *testing.T) {
	st, err := New(tempDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Put("+15550100", []time.Time{time.Now()}))
	require.NoError(t, st.Put("+15550100", nil))
	all, err := st.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, all)

	// deleting an absent key is not an error
	assert.NoError(t, st.Put("+15550199", nil))
}

func TestBoltStore_CorruptValue(t *testing.T) {
	st, err := New(tempDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	bs := st.(*boltStore)
	require.NoError(t, bs.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHistory).Put([]byte("+15550100"), []byte{1, 2, 3})
	}))
	_, err = st.LoadAll()
	assert.Error(t, err)
}

func TestNew_BadPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "history.db"))
	assert.Error(t, err)
}

func TestEncodeDecodeStamps(t *testing.T) {
	in := []time.Time{time.Unix(0, 1), time.Unix(1700000000, 42)}
	out, err := decodeStamps(encodeStamps(in))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, in[0].Equal(out[0]))
	assert.True(t, in[1].Equal(out[1]))
}
