package domain

import "sort"

// NumberSet is a set of canonical sender identifiers.
type NumberSet map[string]struct{}

// NewNumberSet builds a set from senders.
func NewNumberSet(senders ...string) NumberSet {
	s := make(NumberSet, len(senders))
	for _, n := range senders {
		s[n] = struct{}{}
	}
	return s
}

func (s NumberSet) Has(sender string) bool {
	_, ok := s[sender]
	return ok
}

// Add inserts sender and reports whether it was absent.
func (s NumberSet) Add(sender string) bool {
	if s.Has(sender) {
		return false
	}
	s[sender] = struct{}{}
	return true
}

// Remove deletes sender and reports whether it was present.
func (s NumberSet) Remove(sender string) bool {
	if !s.Has(sender) {
		return false
	}
	delete(s, sender)
	return true
}

// Sorted returns the members in lexical order.
func (s NumberSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s NumberSet) Clone() NumberSet {
	out := make(NumberSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}
