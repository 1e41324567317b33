package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/haukened/rr-screen/internal/screen/common/phone"
)

// ErrInvalidRule is returned when a custom call rule cannot be constructed.
var ErrInvalidRule = errors.New("invalid call rule")

// RuleKind defines how a custom call rule matches a sender.
//
// prefix  - matches when the sender starts with the value
// pattern - matches when the value appears anywhere in the sender
type RuleKind uint8

const (
	RulePrefix RuleKind = iota
	RulePattern
)

// String returns the persisted name of the rule kind.
func (k RuleKind) String() string {
	switch k {
	case RulePrefix:
		return "prefix"
	case RulePattern:
		return "pattern"
	default:
		return fmt.Sprintf("RuleKind(%d)", k)
	}
}

// ParseRuleKind converts "prefix" or "pattern" (case-insensitive) into a RuleKind.
func ParseRuleKind(s string) (RuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix":
		return RulePrefix, nil
	case "pattern":
		return RulePattern, nil
	default:
		return 0, fmt.Errorf("%w: unsupported kind %q", ErrInvalidRule, s)
	}
}

// CallRule is a user-authored block condition for the call channel.
type CallRule struct {
	Kind  RuleKind
	Value string
}

// NewCallRule constructs a CallRule. The value is stripped of whitespace and
// separators but otherwise kept as typed, so "00" stays "00".
func NewCallRule(kind RuleKind, value string) (CallRule, error) {
	r := CallRule{Kind: kind, Value: phone.Strip(value)}
	if err := r.Validate(); err != nil {
		return CallRule{}, err
	}
	return r, nil
}

// PrefixRule is a convenience constructor for a prefix rule.
func PrefixRule(value string) (CallRule, error) { return NewCallRule(RulePrefix, value) }

// PatternRule is a convenience constructor for a substring rule.
func PatternRule(value string) (CallRule, error) { return NewCallRule(RulePattern, value) }

// Validate checks the rule for a supported kind and a non-empty value.
func (r CallRule) Validate() error {
	if r.Value == "" {
		return fmt.Errorf("%w: value must not be empty", ErrInvalidRule)
	}
	switch r.Kind {
	case RulePrefix, RulePattern:
		return nil
	default:
		return fmt.Errorf("%w: unsupported kind %d", ErrInvalidRule, r.Kind)
	}
}

// Matches reports whether the rule blocks sender.
func (r CallRule) Matches(sender string) bool {
	switch r.Kind {
	case RulePrefix:
		return strings.HasPrefix(sender, r.Value)
	case RulePattern:
		return strings.Contains(sender, r.Value)
	default:
		return false
	}
}
