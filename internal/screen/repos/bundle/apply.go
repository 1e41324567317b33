package bundle

import (
	"errors"
	"fmt"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

// ListTarget is the list mutation surface shared by both channels.
type ListTarget interface {
	AddBlocked(sender string) error
	AddWhitelisted(sender string) error
}

// CallTarget receives the call section of a bundle.
type CallTarget interface {
	ListTarget
	AddRule(kind domain.RuleKind, value string) error
}

// SMSTarget receives the SMS section of a bundle.
type SMSTarget interface {
	ListTarget
	AddKeywordFilter(keyword string, isSpam bool) error
}

// Summary counts what an Apply call changed.
type Summary struct {
	Applied  int
	Rejected int
}

func (s *Summary) record(err error, errs *[]error, what string) {
	if err != nil {
		s.Rejected++
		*errs = append(*errs, fmt.Errorf("%s: %w", what, err))
		return
	}
	s.Applied++
}

// Apply merges the bundle into the targets. Blocked entries are applied
// before whitelist entries, so a number present in both ends up whitelisted.
// Either target may be nil to skip that section. Entries that fail are
// counted and reported together; the rest are still applied.
func (b *Bundle) Apply(call CallTarget, sms SMSTarget) (Summary, error) {
	var (
		sum  Summary
		errs []error
	)
	if call != nil {
		applyLists(call, b.Call.Blocked, b.Call.Whitelist, "call", &sum, &errs)
		for _, r := range b.Call.Rules {
			kind, err := r.ruleKind()
			if err == nil {
				err = call.AddRule(kind, r.Value)
			}
			sum.record(err, &errs, "call rule "+r.Value)
		}
	}
	if sms != nil {
		applyLists(sms, b.SMS.Blocked, b.SMS.Whitelist, "sms", &sum, &errs)
		for _, k := range b.SMS.Keywords {
			sum.record(sms.AddKeywordFilter(k.Keyword, k.spam()), &errs, "sms keyword "+k.Keyword)
		}
	}
	return sum, errors.Join(errs...)
}

func applyLists(t ListTarget, blocked, whitelist []string, channel string, sum *Summary, errs *[]error) {
	for _, n := range blocked {
		sum.record(t.AddBlocked(n), errs, channel+" blocked "+n)
	}
	for _, n := range whitelist {
		sum.record(t.AddWhitelisted(n), errs, channel+" whitelist "+n)
	}
}
