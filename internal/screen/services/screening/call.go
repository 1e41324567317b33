package screening

import (
	"sync"

	"github.com/VictoriaMetrics/metrics"

	"github.com/haukened/rr-screen/internal/screen/common/clock"
	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/common/phone"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

const callTitle = "Call Screener"

// CallScreener is the call channel admission engine.
type CallScreener struct {
	engine
	mu    sync.Mutex
	rules domain.CallRules
	repo  CallRepository
}

type CallOptions struct {
	Repository CallRepository
	Contacts   ContactResolver
	Feed       NumberFeed
	Notifier   Notifier
	Clock      clock.Clock
	Logger     log.Logger
	Metrics    *metrics.Set
}

// NewCallScreener loads the call rules from the repository. A load error is
// logged and the repository's fallback rules are used. A nil repository
// starts from defaults and skips persistence.
func NewCallScreener(opts CallOptions) *CallScreener {
	s := &CallScreener{
		engine: newEngine(domain.ChannelCall, callTitle, opts.Contacts, opts.Feed, opts.Notifier, opts.Clock, opts.Logger, opts.Metrics),
		rules:  domain.DefaultCallRules(),
		repo:   opts.Repository,
	}
	if s.repo != nil {
		rules, err := s.repo.Load()
		if err != nil {
			s.logger.Warn(map[string]any{"channel": s.channel, "error": err}, "rule store load failed, using fallback")
		}
		s.rules = rules
	}
	return s
}

// Evaluate decides whether to block a call from sender. Precedence: master
// switch, whitelist, block list and feeds, contact-only mode, custom rules
// in stored order.
func (s *CallScreener) Evaluate(sender string) domain.Decision {
	dialled := phone.Strip(sender)
	sender = phone.Canonical(sender)
	now := s.clock.Now()

	s.mu.Lock()
	d := s.decide(sender, dialled)
	s.mu.Unlock()

	s.report(sender, d, callMessage(sender, d.Reason), now)
	return d
}

// decide evaluates a canonical sender. Custom rules also see the dialled
// form, which keeps a leading "00".
func (s *CallScreener) decide(sender, dialled string) domain.Decision {
	if d, done := s.screenList(&s.rules.ScreenList, sender); done {
		return d
	}
	if _, ok := s.rules.FirstMatch(sender, dialled); ok {
		return domain.BlockFor(domain.ReasonCustomRule)
	}
	return domain.Allow()
}

func callMessage(sender string, r domain.Reason) string {
	if r == domain.ReasonUnknownNumber {
		return "Blocked call from unknown number"
	}
	return "Blocked call from " + sender
}

// Rules returns a snapshot of the current rule store.
func (s *CallScreener) Rules() domain.CallRules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Clone()
}

// save persists the rule store. Callers hold s.mu.
func (s *CallScreener) save() error {
	if s.repo == nil {
		return nil
	}
	return s.saveFailed(s.repo.Save(s.rules))
}

// AddBlocked blocks sender and removes it from the whitelist.
func (s *CallScreener) AddBlocked(sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.AddBlocked(sender) {
		return ErrInvalidSender
	}
	return s.save()
}

// RemoveBlocked unblocks sender. Nothing is saved when it was not blocked.
func (s *CallScreener) RemoveBlocked(sender string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.RemoveBlocked(sender) {
		return false, nil
	}
	return true, s.save()
}

// AddWhitelisted whitelists sender and removes it from the block list.
func (s *CallScreener) AddWhitelisted(sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.AddWhitelisted(sender) {
		return ErrInvalidSender
	}
	return s.save()
}

func (s *CallScreener) RemoveWhitelisted(sender string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.RemoveWhitelisted(sender) {
		return false, nil
	}
	return true, s.save()
}

// ToggleActive flips the master switch and returns the new state.
func (s *CallScreener) ToggleActive() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.rules.ToggleActive()
	return on, s.save()
}

func (s *CallScreener) ToggleBlockNonContacts() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.rules.ToggleBlockNonContacts()
	return on, s.save()
}

// AddRule appends a custom prefix or pattern rule.
func (s *CallScreener) AddRule(kind domain.RuleKind, value string) error {
	r, err := domain.NewCallRule(kind, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rules.AddRule(r); err != nil {
		return err
	}
	return s.save()
}
