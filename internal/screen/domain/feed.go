package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/haukened/rr-screen/internal/screen/common/phone"
)

// FeedEntry is one number imported from a bulk spam-number feed.
//
// Notes:
// - Number is canonical (see phone.Canonical).
// - Prefix entries match any sender starting with Number.
// - Source identifies the feed file the entry came from.
type FeedEntry struct {
	Number  string
	Prefix  bool
	Source  string
	AddedAt time.Time
}

// NewFeedEntry constructs a FeedEntry and validates its fields.
func NewFeedEntry(number string, prefix bool, source string, addedAt time.Time) (FeedEntry, error) {
	e := FeedEntry{
		Number:  phone.Canonical(number),
		Prefix:  prefix,
		Source:  strings.TrimSpace(source),
		AddedAt: addedAt,
	}
	if err := e.Validate(); err != nil {
		return FeedEntry{}, err
	}
	return e, nil
}

// Validate checks the entry for required fields.
func (e FeedEntry) Validate() error {
	if !phone.Valid(e.Number) {
		return fmt.Errorf("feed entry number %q is not a valid sender", e.Number)
	}
	if e.Source == "" {
		return fmt.Errorf("feed entry source must not be empty")
	}
	if e.AddedAt.IsZero() {
		return fmt.Errorf("feed entry addedAt must be set")
	}
	return nil
}

// FeedMatch is the outcome of looking a sender up in the number feeds.
type FeedMatch struct {
	Listed bool
	Entry  string
	Prefix bool
	Source string
}

// NotListed returns an empty match.
func NotListed() FeedMatch { return FeedMatch{} }
