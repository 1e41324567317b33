package rulestore

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/haukened/rr-screen/internal/screen/common/phone"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fillLists applies the sender lists from a document. Invalid senders are
// skipped; a sender in both lists stays whitelisted only.
func fillLists(l *domain.ScreenList, blocked, whitelist []string) []error {
	var problems []error
	for _, s := range whitelist {
		if !l.AddWhitelisted(s) {
			problems = append(problems, fmt.Errorf("whitelist: invalid sender %q", s))
		}
	}
	for _, s := range blocked {
		c := phone.Canonical(s)
		if !phone.Valid(c) {
			problems = append(problems, fmt.Errorf("blocked: invalid sender %q", s))
			continue
		}
		if l.Whitelist.Has(c) {
			problems = append(problems, fmt.Errorf("blocked: %q is also whitelisted", s))
			continue
		}
		l.Blocked.Add(c)
	}
	return problems
}

// toCallRules converts a decoded document into rules. Entries that fail
// validation are dropped and reported; the rest is kept.
func toCallRules(d callDocument) (domain.CallRules, error) {
	r := domain.DefaultCallRules()
	r.Active = d.Active
	r.BlockNonContacts = d.BlockNonContacts
	problems := fillLists(&r.ScreenList, d.Blocked, d.Whitelist)

	for i, rd := range d.Rules {
		if err := validate.Struct(rd); err != nil {
			problems = append(problems, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		kind, err := domain.ParseRuleKind(rd.Type)
		if err != nil {
			problems = append(problems, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		rule, err := domain.NewCallRule(kind, rd.Value)
		if err != nil {
			problems = append(problems, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		r.Rules = append(r.Rules, rule)
	}
	return r, joinProblems(problems)
}

// toSMSRules converts a decoded document into rules. Invalid sections fall
// back to their defaults; invalid list entries are dropped.
func toSMSRules(d smsDocument) (domain.SMSRules, error) {
	r := domain.DefaultSMSRules()
	r.Active = d.Active
	r.BlockNonContacts = d.BlockNonContacts
	problems := fillLists(&r.ScreenList, d.Blocked, d.Whitelist)

	for i, kd := range d.Keywords {
		if err := validate.Struct(kd); err != nil {
			problems = append(problems, fmt.Errorf("keywords[%d]: %w", i, err))
			continue
		}
		if !r.AddKeywordFilter(kd.Keyword, kd.IsSpam) {
			problems = append(problems, fmt.Errorf("keywords[%d]: blank keyword", i))
		}
	}

	r.Quiet.Enabled = d.TimeRestrictions.Enabled
	if err := validate.Struct(d.TimeRestrictions.QuietHours); err != nil {
		problems = append(problems, fmt.Errorf("time_restrictions.quiet_hours: %w", err))
	} else {
		r.Quiet.Start = d.TimeRestrictions.QuietHours.Start
		r.Quiet.End = d.TimeRestrictions.QuietHours.End
	}

	r.Limits.Enabled = d.FrequencyLimits.Enabled
	if err := validate.Struct(d.FrequencyLimits); err != nil {
		problems = append(problems, fmt.Errorf("frequency_limits: %w", err))
	} else {
		r.Limits.MaxPerHour = d.FrequencyLimits.MaxPerHour
		r.Limits.MaxPerDay = d.FrequencyLimits.MaxPerDay
	}

	categories, unknown := domain.NewCategorySet(d.ActiveCategories)
	for _, u := range unknown {
		problems = append(problems, fmt.Errorf("active_categories: %w: %q", domain.ErrUnknownCategory, u))
	}
	r.Categories = categories

	return r, joinProblems(problems)
}

func joinProblems(problems []error) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(problems...))
}
