package screening

import "github.com/haukened/rr-screen/internal/screen/domain"

// ContactResolver answers whether a sender is in the user's address book.
type ContactResolver interface {
	IsContact(sender string) (bool, error)
}

// Notifier delivers block events to the user. Failures are logged by the
// screeners and never change a decision.
type Notifier interface {
	Notify(n domain.Notification) error
}

// CallRepository loads and saves the call rule store. Load always returns
// usable rules; a non-nil error explains a fallback to defaults.
type CallRepository interface {
	Load() (domain.CallRules, error)
	Save(r domain.CallRules) error
}

// SMSRepository loads and saves the SMS rule store, with the same contract
// as CallRepository.
type SMSRepository interface {
	Load() (domain.SMSRules, error)
	Save(r domain.SMSRules) error
}

// NumberFeed reports whether a sender appears in an imported spam-number feed.
type NumberFeed interface {
	Lookup(sender string) domain.FeedMatch
}
