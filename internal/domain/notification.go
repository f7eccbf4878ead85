package domain

import "time"

// Notification is one inbound bank SMS as forwarded by the SMS webhook.
// Records are immutable after creation; the correlation cache owns them.
type Notification struct {
	Sender     string
	Text       string
	ReceivedAt time.Time
}
