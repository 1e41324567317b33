// Package notify delivers block notifications. Adapters here satisfy the
// screening Notifier port.
package notify

import (
	"errors"

	"github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

// LogNotifier writes each notification as a structured log entry.
type LogNotifier struct {
	logger log.Logger
}

func NewLogNotifier(logger log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(note domain.Notification) error {
	n.logger.Info(map[string]any{
		"id":      note.ID,
		"channel": note.Channel,
		"title":   note.Title,
		"sender":  note.Sender,
		"reason":  note.Reason,
		"at":      note.At,
	}, note.Message)
	return nil
}

// Notifier matches the screening port so Fanout can hold any adapter.
type Notifier interface {
	Notify(note domain.Notification) error
}

// Fanout delivers to every notifier, even after one fails, and returns the
// joined failures.
type Fanout []Notifier

func (f Fanout) Notify(note domain.Notification) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(note domain.Notification) error

func (f NotifierFunc) Notify(note domain.Notification) error { return f(note) }

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = Fanout(nil)
	_ Notifier = NotifierFunc(nil)
)
