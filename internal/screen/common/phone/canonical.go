package phone

import "strings"

// visualSeparators are characters people type between digit groups.
var visualSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "\t", "")

// Strip trims surrounding whitespace and removes visual separators (spaces,
// dashes, dots, parentheses). Call rule values use this form since they are
// fragments of a number rather than full identifiers.
func Strip(s string) string {
	return visualSeparators.Replace(strings.TrimSpace(s))
}

// Canonical returns a sender identifier in canonical form:
// - Stripped as by Strip
// - A leading "00" international prefix rewritten to "+"
//
// Alphanumeric sender IDs (e.g. "ACME") keep their letters and case.
func Canonical(sender string) string {
	s := Strip(sender)
	if strings.HasPrefix(s, "00") && len(s) > 2 {
		s = "+" + s[2:]
	}
	return s
}

// Valid reports whether a canonical sender is usable as a key. It must be
// non-empty and contain only digits, letters and at most one leading '+'.
func Valid(sender string) bool {
	if sender == "" {
		return false
	}
	for i, r := range sender {
		switch {
		case r == '+' && i == 0:
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return sender != "+"
}
