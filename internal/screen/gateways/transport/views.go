package transport

import "github.com/haukened/rr-screen/internal/screen/domain"

type ruleView struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type keywordView struct {
	Keyword string `json:"keyword"`
	IsSpam  bool   `json:"is_spam"`
}

type callRulesView struct {
	Active           bool       `json:"active"`
	BlockNonContacts bool       `json:"block_non_contacts"`
	Blocked          []string   `json:"blocked"`
	Whitelist        []string   `json:"whitelist"`
	Rules            []ruleView `json:"rules"`
}

type quietHoursView struct {
	Enabled bool `json:"enabled"`
	Start   int  `json:"start"`
	End     int  `json:"end"`
}

type frequencyView struct {
	Enabled    bool `json:"enabled"`
	MaxPerHour int  `json:"max_per_hour"`
	MaxPerDay  int  `json:"max_per_day"`
}

type smsRulesView struct {
	Active           bool           `json:"active"`
	BlockNonContacts bool           `json:"block_non_contacts"`
	Blocked          []string       `json:"blocked"`
	Whitelist        []string       `json:"whitelist"`
	Keywords         []keywordView  `json:"keywords"`
	QuietHours       quietHoursView `json:"quiet_hours"`
	FrequencyLimits  frequencyView  `json:"frequency_limits"`
	ActiveCategories []string       `json:"active_categories"`
}

// NewCallRulesView renders call rules with sorted lists for JSON output.
func NewCallRulesView(r domain.CallRules) callRulesView {
	v := callRulesView{
		Active:           r.Active,
		BlockNonContacts: r.BlockNonContacts,
		Blocked:          r.Blocked.Sorted(),
		Whitelist:        r.Whitelist.Sorted(),
		Rules:            make([]ruleView, 0, len(r.Rules)),
	}
	for _, cr := range r.Rules {
		v.Rules = append(v.Rules, ruleView{Type: cr.Kind.String(), Value: cr.Value})
	}
	return v
}

// NewSMSRulesView renders SMS rules; active categories keep declaration order.
func NewSMSRulesView(r domain.SMSRules) smsRulesView {
	v := smsRulesView{
		Active:           r.Active,
		BlockNonContacts: r.BlockNonContacts,
		Blocked:          r.Blocked.Sorted(),
		Whitelist:        r.Whitelist.Sorted(),
		Keywords:         make([]keywordView, 0, len(r.Keywords)),
		QuietHours:       quietHoursView{Enabled: r.Quiet.Enabled, Start: r.Quiet.Start, End: r.Quiet.End},
		FrequencyLimits:  frequencyView{Enabled: r.Limits.Enabled, MaxPerHour: r.Limits.MaxPerHour, MaxPerDay: r.Limits.MaxPerDay},
		ActiveCategories: make([]string, 0, len(r.Categories)),
	}
	for _, k := range r.Keywords {
		v.Keywords = append(v.Keywords, keywordView{Keyword: k.Keyword, IsSpam: k.IsSpam})
	}
	for _, c := range r.Categories.Ordered() {
		v.ActiveCategories = append(v.ActiveCategories, string(c))
	}
	return v
}
