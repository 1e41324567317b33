package domain

import "strings"

// Reason identifies which rule produced a block decision. The empty Reason
// accompanies allow decisions.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonBlockedNumber  Reason = "blocked_number"
	ReasonUnknownNumber  Reason = "unknown_number"
	ReasonCustomRule     Reason = "custom_rule"
	ReasonQuietHours     Reason = "quiet_hours"
	ReasonFrequencyLimit Reason = "frequency_limit"
	ReasonCustomKeyword  Reason = "custom_keyword"

	spamReasonPrefix = "spam_"
)

var reasonPhrases = map[Reason]string{
	ReasonBlockedNumber:  "blocked number",
	ReasonUnknownNumber:  "unknown number",
	ReasonCustomRule:     "matched custom rule",
	ReasonQuietHours:     "received during quiet hours",
	ReasonFrequencyLimit: "too many messages",
	ReasonCustomKeyword:  "matched blocked keyword",
}

// SpamReason builds the reason reported when a spam category matched.
func SpamReason(c Category) Reason {
	return Reason(spamReasonPrefix + string(c))
}

// IsSpam reports whether the reason came from a spam category.
func (r Reason) IsSpam() bool {
	return strings.HasPrefix(string(r), spamReasonPrefix)
}

// Category returns the spam category carried by a spam reason.
func (r Reason) Category() (Category, bool) {
	if !r.IsSpam() {
		return "", false
	}
	return Category(strings.TrimPrefix(string(r), spamReasonPrefix)), true
}

// Phrase renders the reason for user-facing notifications. Spam reasons read
// "detected <category words>".
func (r Reason) Phrase() string {
	if c, ok := r.Category(); ok {
		return "detected " + strings.ReplaceAll(string(c), "_", " ")
	}
	if p, ok := reasonPhrases[r]; ok {
		return p
	}
	return string(r)
}

func (r Reason) String() string { return string(r) }
