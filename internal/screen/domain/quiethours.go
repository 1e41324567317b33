package domain

import (
	"errors"
	"time"
)

// ErrInvalidHour is returned for an hour of day outside 0-23.
var ErrInvalidHour = errors.New("hour must be between 0 and 23")

const (
	DefaultQuietStart = 22
	DefaultQuietEnd   = 7
)

// QuietHours is a clock-hour window during which SMS are blocked. Start > End
// means the window spans midnight; Start == End is an empty window.
type QuietHours struct {
	Enabled bool
	Start   int
	End     int
}

// DefaultQuietHours returns the disabled 22:00-07:00 window.
func DefaultQuietHours() QuietHours {
	return QuietHours{Start: DefaultQuietStart, End: DefaultQuietEnd}
}

// ValidHour reports whether h is an hour of day.
func ValidHour(h int) bool { return h >= 0 && h <= 23 }

// Contains reports whether hour h falls inside [Start, End), ignoring Enabled.
func (q QuietHours) Contains(h int) bool {
	if q.Start <= q.End {
		return q.Start <= h && h < q.End
	}
	return h >= q.Start || h < q.End
}

// IsQuietAt reports whether now falls in an enabled quiet window. The hour is
// taken in now's own location.
func (q QuietHours) IsQuietAt(now time.Time) bool {
	if !q.Enabled {
		return false
	}
	return q.Contains(now.Hour())
}

// WithBounds returns a copy with the provided bounds applied. A nil bound
// keeps the current value; an out-of-range bound is ignored.
func (q QuietHours) WithBounds(start, end *int) QuietHours {
	if start != nil && ValidHour(*start) {
		q.Start = *start
	}
	if end != nil && ValidHour(*end) {
		q.End = *end
	}
	return q
}
