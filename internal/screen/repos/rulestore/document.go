package rulestore

import (
	"github.com/haukened/rr-screen/internal/screen/domain"
)

// SchemaVersion is written into every saved document. Documents without a
// version are treated as version 0 and read with the same rules.
const SchemaVersion = 1

type ruleDoc struct {
	Type  string `json:"type" validate:"required,oneof=prefix pattern"`
	Value string `json:"value" validate:"required"`
}

type callDocument struct {
	Version          int       `json:"version"`
	Active           bool      `json:"active"`
	Blocked          []string  `json:"blocked"`
	Whitelist        []string  `json:"whitelist"`
	Rules            []ruleDoc `json:"rules"`
	BlockNonContacts bool      `json:"block_non_contacts"`
}

type keywordDoc struct {
	Keyword string `json:"keyword" validate:"required"`
	IsSpam  bool   `json:"is_spam"`
}

type quietHoursDoc struct {
	Start int `json:"start" validate:"min=0,max=23"`
	End   int `json:"end" validate:"min=0,max=23"`
}

type timeRestrictionsDoc struct {
	Enabled    bool          `json:"enabled"`
	QuietHours quietHoursDoc `json:"quiet_hours"`
}

type frequencyLimitsDoc struct {
	Enabled    bool `json:"enabled"`
	MaxPerHour int  `json:"max_per_hour" validate:"min=1"`
	MaxPerDay  int  `json:"max_per_day" validate:"min=1"`
	// MessageHistory is kept for format compatibility; history lives in the
	// history store and this is always written empty.
	MessageHistory map[string]any `json:"message_history"`
}

type smsDocument struct {
	Version          int                 `json:"version"`
	Active           bool                `json:"active"`
	Blocked          []string            `json:"blocked"`
	Whitelist        []string            `json:"whitelist"`
	Keywords         []keywordDoc        `json:"keywords"`
	BlockNonContacts bool                `json:"block_non_contacts"`
	TimeRestrictions timeRestrictionsDoc `json:"time_restrictions"`
	FrequencyLimits  frequencyLimitsDoc  `json:"frequency_limits"`
	ActiveCategories []string            `json:"active_categories"`
}

func defaultCallDocument() callDocument {
	return newCallDocument(domain.DefaultCallRules())
}

func defaultSMSDocument() smsDocument {
	return newSMSDocument(domain.DefaultSMSRules())
}

func newCallDocument(r domain.CallRules) callDocument {
	rules := make([]ruleDoc, 0, len(r.Rules))
	for _, ru := range r.Rules {
		rules = append(rules, ruleDoc{Type: ru.Kind.String(), Value: ru.Value})
	}
	return callDocument{
		Version:          SchemaVersion,
		Active:           r.Active,
		Blocked:          r.Blocked.Sorted(),
		Whitelist:        r.Whitelist.Sorted(),
		Rules:            rules,
		BlockNonContacts: r.BlockNonContacts,
	}
}

func newSMSDocument(r domain.SMSRules) smsDocument {
	keywords := make([]keywordDoc, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		keywords = append(keywords, keywordDoc{Keyword: k.Keyword, IsSpam: k.IsSpam})
	}
	categories := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories.Ordered() {
		categories = append(categories, string(c))
	}
	return smsDocument{
		Version:          SchemaVersion,
		Active:           r.Active,
		Blocked:          r.Blocked.Sorted(),
		Whitelist:        r.Whitelist.Sorted(),
		Keywords:         keywords,
		BlockNonContacts: r.BlockNonContacts,
		TimeRestrictions: timeRestrictionsDoc{
			Enabled:    r.Quiet.Enabled,
			QuietHours: quietHoursDoc{Start: r.Quiet.Start, End: r.Quiet.End},
		},
		FrequencyLimits: frequencyLimitsDoc{
			Enabled:        r.Limits.Enabled,
			MaxPerHour:     r.Limits.MaxPerHour,
			MaxPerDay:      r.Limits.MaxPerDay,
			MessageHistory: map[string]any{},
		},
		ActiveCategories: categories,
	}
}
