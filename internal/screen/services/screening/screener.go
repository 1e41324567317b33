// Package screening holds the call and SMS admission engines. Each screener
// owns its rule store behind one mutex; evaluation and every mutation take
// that lock, and mutations persist the full store before returning.
package screening

import (
	"errors"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/haukened/rr-screen/internal/screen/common/clock"
	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

var (
	// ErrInvalidSender is returned when a sender is empty or holds characters
	// other than digits, letters and a leading '+'.
	ErrInvalidSender = errors.New("invalid sender")
	// ErrInvalidKeyword is returned for an empty keyword filter.
	ErrInvalidKeyword = errors.New("keyword must not be empty")
)

// engine carries the collaborators shared by both channels.
type engine struct {
	channel  domain.Channel
	title    string
	contacts ContactResolver
	feed     NumberFeed
	notifier Notifier
	clock    clock.Clock
	logger   log.Logger
	metrics  *metrics.Set
}

func newEngine(ch domain.Channel, title string, contacts ContactResolver, feed NumberFeed, notifier Notifier, clk clock.Clock, logger log.Logger, set *metrics.Set) engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return engine{
		channel:  ch,
		title:    title,
		contacts: contacts,
		feed:     feed,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
		metrics:  set,
	}
}

// screenList applies the steps both channels share: master switch,
// whitelist, block list and feeds, then contact-only mode. done is false
// when the channel-specific steps must run.
func (e *engine) screenList(l *domain.ScreenList, sender string) (d domain.Decision, done bool) {
	if !l.Active {
		return domain.Allow(), true
	}
	if l.Whitelist.Has(sender) {
		return domain.Allow(), true
	}
	if l.Blocked.Has(sender) {
		return domain.BlockFor(domain.ReasonBlockedNumber), true
	}
	if e.feed != nil {
		if m := e.feed.Lookup(sender); m.Listed {
			e.logger.Debug(map[string]any{"channel": e.channel, "sender": sender, "entry": m.Entry, "source": m.Source}, "sender listed in feed")
			return domain.BlockFor(domain.ReasonBlockedNumber), true
		}
	}
	if l.BlockNonContacts && !e.isContact(sender) {
		return domain.BlockFor(domain.ReasonUnknownNumber), true
	}
	return domain.Decision{}, false
}

// isContact treats a missing resolver as "is a contact" and a failing one
// as "not a contact".
func (e *engine) isContact(sender string) bool {
	if e.contacts == nil {
		return true
	}
	ok, err := e.contacts.IsContact(sender)
	if err != nil {
		e.logger.Warn(map[string]any{"channel": e.channel, "sender": sender, "error": err}, "contact lookup failed")
		return false
	}
	return ok
}

// report records the decision and, for blocks, logs and notifies. It runs
// after the screener lock is released.
func (e *engine) report(sender string, d domain.Decision, message string, at time.Time) {
	observeDecision(e.metrics, e.channel, d)
	if !d.Block {
		return
	}
	e.logger.Info(map[string]any{"channel": e.channel, "sender": sender, "reason": d.Reason}, "blocked")
	if e.notifier == nil {
		return
	}
	n := domain.NewNotification(e.channel, e.title, message, sender, d.Reason, at)
	if err := e.notifier.Notify(n); err != nil {
		e.logger.Warn(map[string]any{"channel": e.channel, "sender": sender, "error": err}, "notification failed")
	}
}

// saveFailed logs a persistence failure and hands the error back.
func (e *engine) saveFailed(err error) error {
	if err != nil {
		e.logger.Error(map[string]any{"channel": e.channel, "error": err}, "rule store save failed")
	}
	return err
}
