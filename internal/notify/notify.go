// Package notify shows one transient status message at a time.
//
// A new message always replaces the visible one (no queue) and restarts the
// dismissal timer, so the last call wins.
package notify

import (
	"sync"
	"time"

	"github.com/sakif/pysnap/internal/model"
)

// Display is where notifications are drawn.
type Display interface {
	ShowNotification(n model.Notification)
	HideNotification()
}

// Timer is the part of *time.Timer the service needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once adapted by
// RealClock; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

// RealClock schedules with time.AfterFunc.
func RealClock(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Service is the notification service.
type Service struct {
	display Display
	after   AfterFunc
	ttl     time.Duration

	mu    sync.Mutex
	gen   uint64
	timer Timer
}

// New creates a Service with the standard 2.5 second lifetime.
// A nil after uses RealClock.
func New(display Display, after AfterFunc) *Service {
	if after == nil {
		after = RealClock
	}
	return &Service{
		display: display,
		after:   after,
		ttl:     model.NotificationTTL,
	}
}

// Show displays text with the given severity, pre-empting any visible
// notification and restarting the dismissal countdown.
func (s *Service) Show(text string, severity model.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}

	s.display.ShowNotification(model.Notification{Text: text, Severity: severity})

	// A stopped timer may already be running its func; the generation check
	// keeps a stale callback from hiding the newer message.
	s.timer = s.after(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		s.timer = nil
		s.display.HideNotification()
	})
}

// Info is Show with normal severity.
func (s *Service) Info(text string) {
	s.Show(text, model.SeverityNormal)
}

// Error is Show with error severity.
func (s *Service) Error(text string) {
	s.Show(text, model.SeverityError)
}
