package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/artifact"
	"github.com/sakif/pysnap/internal/execution"
	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/modal"
	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/notify"
	"github.com/sakif/pysnap/internal/repository"
	"github.com/sakif/pysnap/internal/settings"
)

// DefaultEditorText is the editor content on a fresh page.
const DefaultEditorText = "# Welcome to PySnap\nprint('Hello from PySnap')\n"

// Action names.
const (
	ActionRun             = "run"
	ActionFiles           = "files"
	ActionView            = "view"
	ActionDownload        = "download"
	ActionClear           = "clear"
	ActionHistory         = "history"
	ActionSettingsOpen    = "settings.open"
	ActionSettingsSave    = "settings.save"
	ActionSettingsDismiss = "settings.dismiss"
	ActionAboutOpen       = "about.open"
	ActionAboutClose      = "about.close"
	ActionTheme           = "theme"
	ActionLang            = "lang"
)

// Service is the execution service as the page sees it.
type Service interface {
	execution.Runner
	artifact.API
}

// Options configures an App.
type Options struct {
	Service Service
	Prefs   repository.PreferenceRepository

	// Navigator performs downloads. Nil records navigations on the Surface
	// only.
	Navigator artifact.Navigator
	// After schedules notification dismissal. Nil uses real timers.
	After notify.AfterFunc

	EditorText string
	Controls   model.RunControls
	Logger     *slog.Logger
}

// App is the composition root of the client. It owns one instance of every
// component; nothing is package-global, so tests build as many as they like.
type App struct {
	Surface    *Surface
	Locale     *i18n.Service
	Notifier   *notify.Service
	Settings   *settings.Coordinator
	Files      *artifact.Panel
	Exec       *execution.Controller
	Modals     *modal.Coordinator
	Dispatcher *Dispatcher

	logger *slog.Logger
}

func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	text := opts.EditorText
	if text == "" {
		text = DefaultEditorText
	}

	surface := NewSurface(text, opts.Controls)
	nav := opts.Navigator
	if nav == nil {
		nav = surface
	}

	locale := i18n.New(i18n.DefaultDictionaries(), surface)
	notifier := notify.New(surface, opts.After)
	coord := settings.New(surface, opts.Prefs, locale, notifier, logger.With(slog.String("component", "settings")))
	files := artifact.New(opts.Service, surface, surface, nav, locale, notifier, logger.With(slog.String("component", "files")))
	exec := execution.New(opts.Service, surface, surface, surface, files, locale, notifier, logger.With(slog.String("component", "execution")))

	a := &App{
		Surface:    surface,
		Locale:     locale,
		Notifier:   notifier,
		Settings:   coord,
		Files:      files,
		Exec:       exec,
		Modals:     modal.New(surface, coord),
		Dispatcher: NewDispatcher(logger),
		logger:     logger,
	}
	a.registerActions()
	return a
}

// Start brings the page up: pick the locale from the reported preference,
// render every label, restore the saved theme and load the file listing.
// Failures are logged; the page always comes up.
func (a *App) Start(ctx context.Context, localePreference string) {
	a.Locale.Init(localePreference)
	a.logger.Debug("locale selected", slog.String("locale", a.Locale.Current()))

	if err := a.Settings.Restore(ctx); err != nil {
		a.logger.Warn("restoring theme", slog.String("error", err.Error()))
	}

	_ = a.Files.Refresh(ctx)
}

// Dispatch is shorthand for a.Dispatcher.Dispatch.
func (a *App) Dispatch(ctx context.Context, action, arg string) error {
	return a.Dispatcher.Dispatch(ctx, action, arg)
}

func (a *App) registerActions() {
	d := a.Dispatcher

	d.Register(ActionRun, func(ctx context.Context, _ string) error {
		return a.Exec.Run(ctx)
	})
	d.Register(ActionFiles, func(ctx context.Context, _ string) error {
		return a.Files.Refresh(ctx)
	})
	d.Register(ActionView, withName(a.Files.View))
	d.Register(ActionDownload, withName(a.Files.Download))
	d.Register(ActionClear, func(ctx context.Context, _ string) error {
		return a.Files.Clear(ctx)
	})
	d.Register(ActionHistory, func(ctx context.Context, day string) error {
		return a.Files.History(ctx, day)
	})

	d.Register(ActionSettingsOpen, func(context.Context, string) error {
		a.Modals.OpenSettings()
		return nil
	})
	d.Register(ActionSettingsSave, func(context.Context, string) error {
		a.Modals.SaveSettings()
		return nil
	})
	d.Register(ActionSettingsDismiss, func(context.Context, string) error {
		a.Modals.DismissSettings()
		return nil
	})
	d.Register(ActionAboutOpen, func(context.Context, string) error {
		a.Modals.OpenAbout()
		return nil
	})
	d.Register(ActionAboutClose, func(context.Context, string) error {
		a.Modals.CloseAbout()
		return nil
	})

	d.Register(ActionTheme, func(ctx context.Context, theme string) error {
		return a.Settings.SelectTheme(ctx, model.Theme(theme))
	})
	d.Register(ActionLang, func(_ context.Context, locale string) error {
		if !a.Locale.Set(locale) {
			return apperror.ValidationFailed("locale", fmt.Sprintf("unknown locale %q", locale))
		}
		return nil
	})
}

func withName(fn func(ctx context.Context, name string) error) Action {
	return func(ctx context.Context, name string) error {
		if name == "" {
			return apperror.ValidationFailed("name", "file name is required")
		}
		return fn(ctx, name)
	}
}
