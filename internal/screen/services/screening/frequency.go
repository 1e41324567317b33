package screening

import (
	"time"

	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/domain"
	"github.com/haukened/rr-screen/internal/screen/repos/history"
)

// FrequencyTracker keeps a rolling 24 hour timestamp history per sender.
// It is not safe for concurrent use; SMSScreener serialises access.
type FrequencyTracker struct {
	history map[string][]time.Time
	store   history.Store
	logger  log.Logger
}

// NewFrequencyTracker loads existing history from store. A load failure is
// logged and the tracker starts empty.
func NewFrequencyTracker(store history.Store, logger log.Logger) *FrequencyTracker {
	if store == nil {
		store = history.NewMemoryStore()
	}
	t := &FrequencyTracker{history: make(map[string][]time.Time), store: store, logger: logger}
	loaded, err := store.LoadAll()
	if err != nil {
		logger.Warn(map[string]any{"error": err}, "frequency history load failed, starting empty")
		return t
	}
	for sender, stamps := range loaded {
		t.history[sender] = stamps
	}
	return t
}

// RecordAndCheck prunes sender's history to the last 24 hours, counts the
// prior messages in the hour and day windows, then records now. The current
// message is always recorded, so it counts toward later windows even when
// this call reports the limit exceeded. Disabled limits make it a no-op.
func (t *FrequencyTracker) RecordAndCheck(sender string, now time.Time, limits domain.FrequencyLimits) bool {
	if !limits.Enabled {
		return false
	}
	stamps := history.Prune(t.history[sender], now, domain.DayWindow)
	lastHour := history.CountSince(stamps, now, domain.HourWindow)
	lastDay := len(stamps)

	stamps = append(stamps, now)
	t.history[sender] = stamps
	if err := t.store.Put(sender, stamps); err != nil {
		t.logger.Error(map[string]any{"sender": sender, "error": err}, "frequency history save failed")
	}
	return limits.Exceeded(lastHour, lastDay)
}

// History returns a copy of the recorded timestamps for sender.
func (t *FrequencyTracker) History(sender string) []time.Time {
	return append([]time.Time(nil), t.history[sender]...)
}
