package screening

import (
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/haukened/rr-screen/internal/screen/common/clock"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

var errDisk = errors.New("disk full")

type memCallRepo struct {
	rules   domain.CallRules
	loadErr error
	saveErr error
	saves   int
}

func newMemCallRepo() *memCallRepo { return &memCallRepo{rules: domain.DefaultCallRules()} }

func (r *memCallRepo) Load() (domain.CallRules, error) { return r.rules.Clone(), r.loadErr }

func (r *memCallRepo) Save(c domain.CallRules) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rules = c.Clone()
	return nil
}

type memSMSRepo struct {
	rules   domain.SMSRules
	loadErr error
	saveErr error
	saves   int
}

func newMemSMSRepo() *memSMSRepo { return &memSMSRepo{rules: domain.DefaultSMSRules()} }

func (r *memSMSRepo) Load() (domain.SMSRules, error) { return r.rules.Clone(), r.loadErr }

func (r *memSMSRepo) Save(s domain.SMSRules) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rules = s.Clone()
	return nil
}

// stubContacts answers from a fixed set, or fails with err.
type stubContacts struct {
	known map[string]bool
	err   error
}

func (s stubContacts) IsContact(sender string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.known[sender], nil
}

type stubFeed map[string]domain.FeedMatch

func (f stubFeed) Lookup(sender string) domain.FeedMatch { return f[sender] }

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(n domain.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

// captureNotifier records every notification.
type captureNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (c *captureNotifier) Notify(n domain.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureNotifier) all() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notification(nil), c.sent...)
}

func clockAt(hour int) *clock.MockClock {
	return &clock.MockClock{CurrentTime: time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC)}
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }
