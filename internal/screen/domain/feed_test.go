package domain

import (
	"testing"
	"time"
)

func TestNewFeedEntry(t *testing.T) {
	now := time.Now()
	e, err := NewFeedEntry(" +1 900 ", true, "feeds/premium.txt", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Number != "+1900" || !e.Prefix || e.Source != "feeds/premium.txt" {
		t.Fatalf("unexpected entry %+v", e)
	}

	if _, err := NewFeedEntry("", false, "s", now); err == nil {
		t.Errorf("expected error for empty number")
	}
	if _, err := NewFeedEntry("+15550100", false, " ", now); err == nil {
		t.Errorf("expected error for empty source")
	}
	if _, err := NewFeedEntry("+15550100", false, "s", time.Time{}); err == nil {
		t.Errorf("expected error for zero AddedAt")
	}
	if NotListed().Listed {
		t.Errorf("NotListed() must not be listed")
	}
}
