package domain

import "time"

const (
	DefaultMaxPerHour = 5
	DefaultMaxPerDay  = 20

	HourWindow = time.Hour
	DayWindow  = 24 * time.Hour
)

// FrequencyLimits caps inbound SMS per sender in rolling hour and day windows.
type FrequencyLimits struct {
	Enabled    bool
	MaxPerHour int
	MaxPerDay  int
}

// DefaultFrequencyLimits returns disabled limits of 5 per hour and 20 per day.
func DefaultFrequencyLimits() FrequencyLimits {
	return FrequencyLimits{MaxPerHour: DefaultMaxPerHour, MaxPerDay: DefaultMaxPerDay}
}

// Exceeded reports whether the prior counts already reach a limit.
func (f FrequencyLimits) Exceeded(lastHour, lastDay int) bool {
	return lastHour >= f.MaxPerHour || lastDay >= f.MaxPerDay
}

// WithCaps returns a copy with the provided caps applied. Nil or non-positive
// values keep the current cap.
func (f FrequencyLimits) WithCaps(perHour, perDay *int) FrequencyLimits {
	if perHour != nil && *perHour > 0 {
		f.MaxPerHour = *perHour
	}
	if perDay != nil && *perDay > 0 {
		f.MaxPerDay = *perDay
	}
	return f
}
