package model

import "time"

// NotificationTTL is how long a notification stays visible.
const NotificationTTL = 2500 * time.Millisecond

type Severity int

const (
	SeverityNormal Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "normal"
}

// Notification is a transient status message.
type Notification struct {
	Text     string
	Severity Severity
}
