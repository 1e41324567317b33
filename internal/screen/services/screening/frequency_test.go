package screening

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/domain"
	"github.com/haukened/rr-screen/internal/screen/repos/history"
)

type failingHistory struct {
	loadErr error
	putErr  error
}

func (f failingHistory) LoadAll() (map[string][]time.Time, error) { return nil, f.loadErr }
func (f failingHistory) Put(string, []time.Time) error           { return f.putErr }
func (f failingHistory) Close() error                            { return nil }

func TestFrequencyTracker_HourlyLimit(t *testing.T) {
	tr := NewFrequencyTracker(nil, log.NewNoopLogger())
	limits := domain.FrequencyLimits{Enabled: true, MaxPerHour: 2, MaxPerDay: 20}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, tr.RecordAndCheck("+1", now, limits))
	assert.False(t, tr.RecordAndCheck("+1", now.Add(10*time.Minute), limits))
	assert.True(t, tr.RecordAndCheck("+1", now.Add(20*time.Minute), limits))
	assert.Len(t, tr.History("+1"), 3, "the exceeding message is recorded too")

	// an hour after the first two messages the hourly window has room again
	// but the third message still counts
	assert.False(t, tr.RecordAndCheck("+1", now.Add(70*time.Minute), limits))
	assert.True(t, tr.RecordAndCheck("+1", now.Add(75*time.Minute), limits))
}

func TestFrequencyTracker_DailyLimitAndPrune(t *testing.T) {
	tr := NewFrequencyTracker(history.NewMemoryStore(), log.NewNoopLogger())
	limits := domain.FrequencyLimits{Enabled: true, MaxPerHour: 100, MaxPerDay: 3}
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		assert.False(t, tr.RecordAndCheck("+1", start.Add(time.Duration(i)*2*time.Hour), limits))
	}
	assert.True(t, tr.RecordAndCheck("+1", start.Add(7*time.Hour), limits))

	// 25 hours later everything has aged out
	later := start.Add(32 * time.Hour)
	assert.False(t, tr.RecordAndCheck("+1", later, limits))
	assert.Equal(t, []time.Time{later}, tr.History("+1"))
}

func TestFrequencyTracker_DisabledIsNoop(t *testing.T) {
	tr := NewFrequencyTracker(nil, log.NewNoopLogger())
	limits := domain.FrequencyLimits{Enabled: false, MaxPerHour: 1, MaxPerDay: 1}
	for i := 0; i < 5; i++ {
		assert.False(t, tr.RecordAndCheck("+1", time.Now(), limits))
	}
	assert.Empty(t, tr.History("+1"))
}

func TestFrequencyTracker_PersistsAndReloads(t *testing.T) {
	store := history.NewMemoryStore()
	limits := domain.FrequencyLimits{Enabled: true, MaxPerHour: 2, MaxPerDay: 20}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tr := NewFrequencyTracker(store, log.NewNoopLogger())
	tr.RecordAndCheck("+1", now, limits)
	tr.RecordAndCheck("+1", now.Add(time.Minute), limits)

	reloaded := NewFrequencyTracker(store, log.NewNoopLogger())
	assert.Len(t, reloaded.History("+1"), 2)
	assert.True(t, reloaded.RecordAndCheck("+1", now.Add(2*time.Minute), limits))
}

func TestFrequencyTracker_StoreFailuresLogged(t *testing.T) {
	rec := &log.Recorder{}
	tr := NewFrequencyTracker(failingHistory{loadErr: errors.New("corrupt")}, rec)
	require.True(t, rec.Has("warn", "frequency history load failed, starting empty"))

	tr.store = failingHistory{putErr: errors.New("disk")}
	limits := domain.FrequencyLimits{Enabled: true, MaxPerHour: 1, MaxPerDay: 1}
	assert.False(t, tr.RecordAndCheck("+1", time.Now(), limits))
	assert.True(t, rec.Has("error", "frequency history save failed"))
	assert.Len(t, tr.History("+1"), 1, "in-memory history survives a failed save")
}

func TestIsQuietNow(t *testing.T) {
	wrap := domain.QuietHours{Enabled: true, Start: 22, End: 7}
	at := func(h int) time.Time { return time.Date(2024, 5, 1, h, 30, 0, 0, time.UTC) }

	assert.True(t, IsQuietNow(wrap, at(23)))
	assert.True(t, IsQuietNow(wrap, at(3)))
	assert.False(t, IsQuietNow(wrap, at(10)))
	assert.False(t, IsQuietNow(wrap, at(7)))

	day := domain.QuietHours{Enabled: true, Start: 9, End: 17}
	assert.True(t, IsQuietNow(day, at(9)))
	assert.False(t, IsQuietNow(day, at(17)))

	assert.False(t, IsQuietNow(domain.QuietHours{Enabled: true, Start: 5, End: 5}, at(5)))
	assert.False(t, IsQuietNow(domain.QuietHours{Enabled: false, Start: 0, End: 23}, at(12)))
}
