package domain

import "strings"

// KeywordFilter is a user-authored content rule for the SMS channel. Keywords
// are stored lower-cased and matched as plain substrings.
type KeywordFilter struct {
	Keyword string
	IsSpam  bool
}

// NewKeywordFilter lower-cases and trims keyword. ok is false for an empty keyword.
func NewKeywordFilter(keyword string, isSpam bool) (KeywordFilter, bool) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return KeywordFilter{}, false
	}
	return KeywordFilter{Keyword: k, IsSpam: isSpam}, true
}

// Matches reports whether the filter flags lowered, which must already be lower-case.
func (f KeywordFilter) Matches(lowered string) bool {
	return f.IsSpam && strings.Contains(lowered, f.Keyword)
}
