package domain

import (
	"github.com/haukened/rr-screen/internal/screen/common/phone"
)

// ScreenList holds the state shared by both channels' rule stores.
//
// Invariant: a sender is never in both Blocked and Whitelist. Every mutation
// below preserves it.
type ScreenList struct {
	Active           bool
	BlockNonContacts bool
	Blocked          NumberSet
	Whitelist        NumberSet
}

func newScreenList() ScreenList {
	return ScreenList{Blocked: NumberSet{}, Whitelist: NumberSet{}}
}

// AddBlocked adds sender to the block list, evicting it from the whitelist.
// It reports false when the sender is not a usable identifier.
func (l *ScreenList) AddBlocked(sender string) bool {
	s := phone.Canonical(sender)
	if !phone.Valid(s) {
		return false
	}
	l.Whitelist.Remove(s)
	l.Blocked.Add(s)
	return true
}

// RemoveBlocked removes sender from the block list and reports whether it was present.
func (l *ScreenList) RemoveBlocked(sender string) bool {
	return l.Blocked.Remove(phone.Canonical(sender))
}

// AddWhitelisted adds sender to the whitelist, evicting it from the block list.
func (l *ScreenList) AddWhitelisted(sender string) bool {
	s := phone.Canonical(sender)
	if !phone.Valid(s) {
		return false
	}
	l.Blocked.Remove(s)
	l.Whitelist.Add(s)
	return true
}

// RemoveWhitelisted removes sender from the whitelist and reports whether it was present.
func (l *ScreenList) RemoveWhitelisted(sender string) bool {
	return l.Whitelist.Remove(phone.Canonical(sender))
}

// ToggleActive flips the master switch and returns the new state.
func (l *ScreenList) ToggleActive() bool {
	l.Active = !l.Active
	return l.Active
}

// ToggleBlockNonContacts flips contact-only mode and returns the new state.
func (l *ScreenList) ToggleBlockNonContacts() bool {
	l.BlockNonContacts = !l.BlockNonContacts
	return l.BlockNonContacts
}

func (l ScreenList) clone() ScreenList {
	return ScreenList{
		Active:           l.Active,
		BlockNonContacts: l.BlockNonContacts,
		Blocked:          l.Blocked.Clone(),
		Whitelist:        l.Whitelist.Clone(),
	}
}

// CallRules is the rule store for the call channel.
type CallRules struct {
	ScreenList
	Rules []CallRule
}

// DefaultCallRules returns screening off with empty lists.
func DefaultCallRules() CallRules {
	return CallRules{ScreenList: newScreenList()}
}

// AddRule appends a custom rule; rules are evaluated in insertion order.
func (c *CallRules) AddRule(r CallRule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.Rules = append(c.Rules, r)
	return nil
}

// FirstMatch returns the first custom rule that matches any of the given
// forms of a sender. Callers pass both the canonical and the as-dialled form
// so that "00" and "+" prefixed rules both apply.
func (c CallRules) FirstMatch(forms ...string) (CallRule, bool) {
	for _, r := range c.Rules {
		for _, f := range forms {
			if r.Matches(f) {
				return r, true
			}
		}
	}
	return CallRule{}, false
}

// Clone returns a deep copy safe to hand to other goroutines.
func (c CallRules) Clone() CallRules {
	return CallRules{ScreenList: c.ScreenList.clone(), Rules: append([]CallRule(nil), c.Rules...)}
}

// SMSRules is the rule store for the SMS channel.
type SMSRules struct {
	ScreenList
	Keywords   []KeywordFilter
	Quiet      QuietHours
	Limits     FrequencyLimits
	Categories CategorySet
}

// DefaultSMSRules returns screening off, empty lists, every category active,
// quiet hours 22-7 and limits 5/hour 20/day, both disabled.
func DefaultSMSRules() SMSRules {
	return SMSRules{
		ScreenList: newScreenList(),
		Quiet:      DefaultQuietHours(),
		Limits:     DefaultFrequencyLimits(),
		Categories: AllCategories(),
	}
}

// AddKeywordFilter appends a keyword filter. It reports false for an empty keyword.
func (s *SMSRules) AddKeywordFilter(keyword string, isSpam bool) bool {
	f, ok := NewKeywordFilter(keyword, isSpam)
	if !ok {
		return false
	}
	s.Keywords = append(s.Keywords, f)
	return true
}

// RemoveKeywordFilter drops every filter for keyword and reports whether any existed.
func (s *SMSRules) RemoveKeywordFilter(keyword string) bool {
	f, ok := NewKeywordFilter(keyword, true)
	if !ok {
		return false
	}
	kept := s.Keywords[:0]
	removed := false
	for _, k := range s.Keywords {
		if k.Keyword == f.Keyword {
			removed = true
			continue
		}
		kept = append(kept, k)
	}
	s.Keywords = kept
	return removed
}

// ToggleCategory flips a category. Unknown names return false and change nothing.
func (s *SMSRules) ToggleCategory(c Category) bool {
	if s.Categories == nil {
		s.Categories = CategorySet{}
	}
	return s.Categories.Toggle(c)
}

// IsCategoryActive reports whether c is enforced.
func (s SMSRules) IsCategoryActive(c Category) bool {
	return s.Categories.Has(c)
}

// SetQuietHours applies a partial update of the quiet window bounds.
func (s *SMSRules) SetQuietHours(start, end *int) {
	s.Quiet = s.Quiet.WithBounds(start, end)
}

// ToggleTimeRestrictions flips quiet hours, or sets them when enabled is non-nil.
func (s *SMSRules) ToggleTimeRestrictions(enabled *bool) bool {
	if enabled != nil {
		s.Quiet.Enabled = *enabled
	} else {
		s.Quiet.Enabled = !s.Quiet.Enabled
	}
	return s.Quiet.Enabled
}

// ToggleFrequencyLimits flips frequency limiting, or sets it when enabled is non-nil.
func (s *SMSRules) ToggleFrequencyLimits(enabled *bool) bool {
	if enabled != nil {
		s.Limits.Enabled = *enabled
	} else {
		s.Limits.Enabled = !s.Limits.Enabled
	}
	return s.Limits.Enabled
}

// SetFrequencyLimits applies a partial update of the caps.
func (s *SMSRules) SetFrequencyLimits(perHour, perDay *int) {
	s.Limits = s.Limits.WithCaps(perHour, perDay)
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s SMSRules) Clone() SMSRules {
	return SMSRules{
		ScreenList: s.ScreenList.clone(),
		Keywords:   append([]KeywordFilter(nil), s.Keywords...),
		Quiet:      s.Quiet,
		Limits:     s.Limits,
		Categories: s.Categories.Clone(),
	}
}
