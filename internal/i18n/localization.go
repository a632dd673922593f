// Package i18n owns the active display language and rewrites every tagged
// piece of on-screen text when it changes.
//
// There is no package-level state: a Service is created by the application
// and passed to whoever renders text. Components must call T at render time
// and never keep a translated string across a locale change.
package i18n

import (
	"sort"
	"sync"
)

// Target is a surface whose tagged elements can be relabelled. Relabel must
// set every element's text to lookup(element's key).
type Target interface {
	Relabel(lookup func(key string) string)
}

// Service is the localization service.
type Service struct {
	mu          sync.RWMutex
	current     string
	dicts       map[string]Dictionary
	target      Target
	subscribers []func(locale string)
}

// New creates a Service over dicts, rendering into target (which may be nil
// for headless use). The initial locale is en until Init or Set is called.
func New(dicts map[string]Dictionary, target Target) *Service {
	return &Service{
		current: LocaleEN,
		dicts:   dicts,
		target:  target,
	}
}

// Init selects the locale from a reported language preference and renders.
func (s *Service) Init(preference string) {
	locale := Detect(preference)
	s.mu.Lock()
	if _, ok := s.dicts[locale]; ok {
		s.current = locale
	}
	s.mu.Unlock()
	s.Apply()
}

// Current returns the active locale tag.
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Locales returns the known locale tags, sorted.
func (s *Service) Locales() []string {
	out := make([]string, 0, len(s.dicts))
	for l := range s.dicts {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Set switches the active locale and re-renders. Unknown locales are ignored.
// It reports whether the locale changed.
func (s *Service) Set(locale string) bool {
	s.mu.Lock()
	if _, ok := s.dicts[locale]; !ok {
		s.mu.Unlock()
		return false
	}
	s.current = locale
	subs := append([]func(string){}, s.subscribers...)
	s.mu.Unlock()

	s.Apply()
	for _, fn := range subs {
		fn(locale)
	}
	return true
}

// T returns the display string for key in the active locale, or key itself
// when the active dictionary does not define it (or defines it empty).
func (s *Service) T(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if text := s.dicts[s.current][key]; text != "" {
		return text
	}
	return key
}

// Apply rewrites every tagged element through T. It is idempotent.
func (s *Service) Apply() {
	if s.target == nil {
		return
	}
	s.target.Relabel(s.T)
}

// Subscribe registers fn to be called after every successful Set.
func (s *Service) Subscribe(fn func(locale string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
