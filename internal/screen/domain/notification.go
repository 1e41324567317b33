package domain

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies the inbound event type.
type Channel string

const (
	ChannelCall Channel = "call"
	ChannelSMS  Channel = "sms"
)

// Notification is a user-facing block event handed to a Notifier.
type Notification struct {
	ID      string    `json:"id"`
	Channel Channel   `json:"channel"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Sender  string    `json:"sender"`
	Reason  Reason    `json:"reason"`
	At      time.Time `json:"at"`
}

// NewNotification stamps a notification with a fresh ID.
func NewNotification(ch Channel, title, message, sender string, reason Reason, at time.Time) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Channel: ch,
		Title:   title,
		Message: message,
		Sender:  sender,
		Reason:  reason,
		At:      at,
	}
}
