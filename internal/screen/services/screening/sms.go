package screening

import (
	"fmt"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/haukened/rr-screen/internal/screen/common/clock"
	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/common/phone"
	"github.com/haukened/rr-screen/internal/screen/domain"
	"github.com/haukened/rr-screen/internal/screen/repos/history"
)

const smsTitle = "SMS Screener"

// SMSScreener is the SMS channel admission engine. Its mutex also guards the
// frequency tracker, so a history append is atomic with the count it follows.
type SMSScreener struct {
	engine
	mu         sync.Mutex
	rules      domain.SMSRules
	repo       SMSRepository
	tracker    *FrequencyTracker
	classifier *Classifier
}

type SMSOptions struct {
	Repository SMSRepository
	History    history.Store
	Contacts   ContactResolver
	Feed       NumberFeed
	Notifier   Notifier
	Clock      clock.Clock
	Logger     log.Logger
	Metrics    *metrics.Set
}

// NewSMSScreener loads the SMS rules and frequency history. Load errors are
// logged and fallbacks are used. A nil History keeps history in memory.
func NewSMSScreener(opts SMSOptions) *SMSScreener {
	s := &SMSScreener{
		engine:     newEngine(domain.ChannelSMS, smsTitle, opts.Contacts, opts.Feed, opts.Notifier, opts.Clock, opts.Logger, opts.Metrics),
		rules:      domain.DefaultSMSRules(),
		repo:       opts.Repository,
		classifier: NewClassifier(),
	}
	s.tracker = NewFrequencyTracker(opts.History, s.logger)
	if s.repo != nil {
		rules, err := s.repo.Load()
		if err != nil {
			s.logger.Warn(map[string]any{"channel": s.channel, "error": err}, "rule store load failed, using fallback")
		}
		s.rules = rules
	}
	return s
}

// Evaluate decides whether to block an SMS. Precedence: master switch,
// whitelist, block list and feeds, contact-only mode, quiet hours, frequency
// limits, then content classification.
func (s *SMSScreener) Evaluate(sender, content string) domain.Decision {
	sender = phone.Canonical(sender)
	now := s.clock.Now()

	s.mu.Lock()
	d := s.decide(sender, content, now)
	s.mu.Unlock()

	s.report(sender, d, fmt.Sprintf("Blocked SMS from %s (%s)", sender, d.Reason.Phrase()), now)
	return d
}

func (s *SMSScreener) decide(sender, content string, now time.Time) domain.Decision {
	if d, done := s.screenList(&s.rules.ScreenList, sender); done {
		return d
	}
	if IsQuietNow(s.rules.Quiet, now) {
		return domain.BlockFor(domain.ReasonQuietHours)
	}
	if s.tracker.RecordAndCheck(sender, now, s.rules.Limits) {
		return domain.BlockFor(domain.ReasonFrequencyLimit)
	}
	if reason, spam := s.classifier.Classify(content, s.rules.Keywords, s.rules.Categories); spam {
		return domain.BlockFor(reason)
	}
	return domain.Allow()
}

// Rules returns a snapshot of the current rule store.
func (s *SMSScreener) Rules() domain.SMSRules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Clone()
}

// History returns the recorded inbound timestamps for sender.
func (s *SMSScreener) History(sender string) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.History(phone.Canonical(sender))
}

// save persists the rule store. Callers hold s.mu.
func (s *SMSScreener) save() error {
	if s.repo == nil {
		return nil
	}
	return s.saveFailed(s.repo.Save(s.rules))
}

func (s *SMSScreener) AddBlocked(sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.AddBlocked(sender) {
		return ErrInvalidSender
	}
	return s.save()
}

func (s *SMSScreener) RemoveBlocked(sender string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.RemoveBlocked(sender) {
		return false, nil
	}
	return true, s.save()
}

func (s *SMSScreener) AddWhitelisted(sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.AddWhitelisted(sender) {
		return ErrInvalidSender
	}
	return s.save()
}

func (s *SMSScreener) RemoveWhitelisted(sender string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.RemoveWhitelisted(sender) {
		return false, nil
	}
	return true, s.save()
}

func (s *SMSScreener) ToggleActive() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.rules.ToggleActive()
	return on, s.save()
}

func (s *SMSScreener) ToggleBlockNonContacts() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.rules.ToggleBlockNonContacts()
	return on, s.save()
}

// AddKeywordFilter appends a lower-cased keyword filter.
func (s *SMSScreener) AddKeywordFilter(keyword string, isSpam bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.AddKeywordFilter(keyword, isSpam) {
		return ErrInvalidKeyword
	}
	return s.save()
}

func (s *SMSScreener) RemoveKeywordFilter(keyword string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rules.RemoveKeywordFilter(keyword) {
		return false, nil
	}
	return true, s.save()
}

// ToggleCategory flips a spam category and returns whether it is now active.
// An unknown name returns domain.ErrUnknownCategory and changes nothing.
func (s *SMSScreener) ToggleCategory(name string) (bool, error) {
	c, err := domain.ParseCategory(name)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.ToggleCategory(c)
	return s.rules.IsCategoryActive(c), s.save()
}

// IsCategoryActive reports whether the named category is enforced. Unknown
// names are never active.
func (s *SMSScreener) IsCategoryActive(name string) bool {
	c, err := domain.ParseCategory(name)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.IsCategoryActive(c)
}

// SetQuietHours updates either bound. Nil or out-of-range bounds keep the
// current value.
func (s *SMSScreener) SetQuietHours(start, end *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.SetQuietHours(start, end)
	return s.save()
}

// ToggleTimeRestrictions flips quiet hours, or sets them when enabled is non-nil.
func (s *SMSScreener) ToggleTimeRestrictions(enabled *bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.rules.ToggleTimeRestrictions(enabled)
	return on, s.save()
}

// ToggleFrequencyLimits flips frequency limiting, or sets it when enabled is non-nil.
func (s *SMSScreener) ToggleFrequencyLimits(enabled *bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.rules.ToggleFrequencyLimits(enabled)
	return on, s.save()
}

// SetFrequencyLimits updates either cap. Nil or non-positive caps keep the
// current value.
func (s *SMSScreener) SetFrequencyLimits(perHour, perDay *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.SetFrequencyLimits(perHour, perDay)
	return s.save()
}
