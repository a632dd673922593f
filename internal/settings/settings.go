// Package settings keeps the two copies of the run-option controls in step
// and owns the persisted theme.
//
// DRAFT VS COMMITTED:
// The main panel holds the committed values; the copy inside the settings
// overlay is a draft. BeginEdit copies committed → draft, Commit copies
// draft → committed. Nothing else moves values between them, so closing the
// overlay any other way simply drops the draft.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/repository"
)

// ThemeKey is the preference key the theme is stored under.
const ThemeKey = "theme"

// DefaultTimeoutSeconds is used when the timeout control is empty, zero or
// not a number.
const DefaultTimeoutSeconds = 5.0

// Controls gives access to both copies of the run-option controls and to
// the page theme.
type Controls interface {
	MainControls() model.RunControls
	SetMainControls(c model.RunControls)
	ModalControls() model.RunControls
	SetModalControls(c model.RunControls)
	SetTheme(t model.Theme)
	Theme() model.Theme
}

type Translator interface {
	T(key string) string
	Current() string
}

type Notifier interface {
	Info(text string)
	Error(text string)
}

// Coordinator is the settings coordinator.
type Coordinator struct {
	controls Controls
	prefs    repository.PreferenceRepository
	tr       Translator
	notifier Notifier
	logger   *slog.Logger

	mu          sync.Mutex
	subscribers []func(model.Theme)
}

func New(
	controls Controls,
	prefs repository.PreferenceRepository,
	tr Translator,
	notifier Notifier,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		controls: controls,
		prefs:    prefs,
		tr:       tr,
		notifier: notifier,
		logger:   logger,
	}
}

// BeginEdit copies the main-panel values into the modal copy.
func (c *Coordinator) BeginEdit() {
	c.controls.SetModalControls(c.controls.MainControls())
}

// Commit copies the modal copy back into the main panel and confirms.
func (c *Coordinator) Commit() {
	c.controls.SetMainControls(c.controls.ModalControls())
	c.notifier.Info(c.tr.T(i18n.KeySaveDone))
}

// SelectTheme activates theme immediately, persists it and announces it.
// The settings overlay does not need to be closed for it to take effect.
func (c *Coordinator) SelectTheme(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return apperror.ValidationFailed("theme", fmt.Sprintf("unknown theme %q", theme))
	}

	c.controls.SetTheme(theme)
	c.publish(theme)

	err := c.prefs.Set(ctx, ThemeKey, string(theme))
	if err != nil {
		// The theme is already active for this session; only persistence failed.
		c.logger.Warn("failed to persist theme",
			slog.String("theme", string(theme)),
			slog.String("error", err.Error()),
		)
	}

	c.notifier.Info(c.tr.T(i18n.ThemeKey(string(theme))))
	if err != nil {
		return fmt.Errorf("persisting theme: %w", err)
	}
	return nil
}

// Restore re-applies the persisted theme, if any. An absent or unknown
// stored value leaves the current theme alone.
func (c *Coordinator) Restore(ctx context.Context) error {
	saved, err := c.prefs.Get(ctx, ThemeKey)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("loading theme: %w", err)
	}

	theme := model.Theme(saved)
	if !theme.Valid() {
		c.logger.Warn("ignoring unknown stored theme", slog.String("theme", saved))
		return nil
	}
	c.controls.SetTheme(theme)
	c.publish(theme)
	return nil
}

// Subscribe registers fn to be called whenever the active theme changes.
func (c *Coordinator) Subscribe(fn func(model.Theme)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Coordinator) publish(theme model.Theme) {
	c.mu.Lock()
	subs := append([]func(model.Theme){}, c.subscribers...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(theme)
	}
}

// Snapshot returns the committed settings as one value.
func (c *Coordinator) Snapshot() model.Settings {
	main := c.controls.MainControls()
	return model.Settings{
		Theme:          c.controls.Theme(),
		TimeoutSeconds: ParseTimeout(main.Timeout),
		TimeoutEnabled: main.TimeoutEnabled,
		Locale:         c.tr.Current(),
	}
}

// ParseTimeout reads the timeout control text. Empty, zero, negative,
// non-finite or non-numeric input falls back to DefaultTimeoutSeconds.
func ParseTimeout(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return DefaultTimeoutSeconds
	}
	return v
}

// FormatTimeout renders seconds the way the numeric input shows them.
func FormatTimeout(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
