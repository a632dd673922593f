package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/repository/sqlite"
)

type fakeControls struct {
	main, modal model.RunControls
	theme       model.Theme
}

func (f *fakeControls) MainControls() model.RunControls      { return f.main }
func (f *fakeControls) SetMainControls(c model.RunControls)  { f.main = c }
func (f *fakeControls) ModalControls() model.RunControls     { return f.modal }
func (f *fakeControls) SetModalControls(c model.RunControls) { f.modal = c }
func (f *fakeControls) SetTheme(t model.Theme)               { f.theme = t }
func (f *fakeControls) Theme() model.Theme                   { return f.theme }

type fakeNotifier struct {
	infos, errors []string
}

func (n *fakeNotifier) Info(text string)  { n.infos = append(n.infos, text) }
func (n *fakeNotifier) Error(text string) { n.errors = append(n.errors, text) }

// failingPrefs simulates storage that is unavailable.
type failingPrefs struct{}

func (failingPrefs) Get(context.Context, string) (string, error) {
	return "", errors.New("disk I/O error")
}
func (failingPrefs) Set(context.Context, string, string) error { return errors.New("disk I/O error") }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPrefs(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeControls, *fakeNotifier, *sqlite.DB) {
	t.Helper()
	controls := &fakeControls{
		main:  model.RunControls{Timeout: "5", TimeoutEnabled: true},
		theme: model.ThemeAuto,
	}
	notifier := &fakeNotifier{}
	prefs := newTestPrefs(t)
	tr := i18n.New(i18n.DefaultDictionaries(), nil)
	return New(controls, prefs, tr, notifier, testLogger()), controls, notifier, prefs
}

func TestOpenCloseWithoutEdits_RoundTripIdentity(t *testing.T) {
	c, controls, _, _ := newTestCoordinator(t)
	controls.main = model.RunControls{Timeout: "12.5", TimeoutEnabled: false}
	before := controls.main

	c.BeginEdit()
	c.Commit()

	assert.Equal(t, before, controls.main)
}

func TestBeginEdit_CopiesMainIntoModal(t *testing.T) {
	c, controls, _, _ := newTestCoordinator(t)
	controls.modal = model.RunControls{Timeout: "99", TimeoutEnabled: false}

	c.BeginEdit()

	assert.Equal(t, controls.main, controls.modal)
}

func TestCommit_CopiesModalIntoMainAndNotifies(t *testing.T) {
	c, controls, notifier, _ := newTestCoordinator(t)

	c.BeginEdit()
	controls.modal = model.RunControls{Timeout: "30", TimeoutEnabled: false}
	c.Commit()

	assert.Equal(t, model.RunControls{Timeout: "30", TimeoutEnabled: false}, controls.main)
	assert.Equal(t, []string{"Settings Saved ✔"}, notifier.infos)
}

func TestDiscardedDraft_LeavesMainUntouched(t *testing.T) {
	c, controls, notifier, _ := newTestCoordinator(t)
	before := controls.main

	c.BeginEdit()
	controls.modal = model.RunControls{Timeout: "30", TimeoutEnabled: false}
	// No Commit: the overlay was dismissed another way.

	assert.Equal(t, before, controls.main)
	assert.Empty(t, notifier.infos)

	// Reopening starts from the committed values again.
	c.BeginEdit()
	assert.Equal(t, before, controls.modal)
}

func TestSelectTheme_ActivatesPersistsAndNotifies(t *testing.T) {
	c, controls, notifier, prefs := newTestCoordinator(t)
	ctx := context.Background()

	var published []model.Theme
	c.Subscribe(func(th model.Theme) { published = append(published, th) })

	require.NoError(t, c.SelectTheme(ctx, model.ThemeDark))

	assert.Equal(t, model.ThemeDark, controls.theme)
	stored, err := prefs.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored)
	assert.Equal(t, []string{"Dark"}, notifier.infos)
	assert.Equal(t, []model.Theme{model.ThemeDark}, published)
}

func TestSelectTheme_RestoredOnNextInitialization(t *testing.T) {
	ctx := context.Background()
	prefs := newTestPrefs(t)
	tr := i18n.New(i18n.DefaultDictionaries(), nil)

	first := New(&fakeControls{theme: model.ThemeAuto}, prefs, tr, &fakeNotifier{}, testLogger())
	require.NoError(t, first.SelectTheme(ctx, model.ThemeDark))

	// A fresh page over the same storage.
	controls := &fakeControls{theme: model.ThemeAuto}
	second := New(controls, prefs, tr, &fakeNotifier{}, testLogger())
	require.NoError(t, second.Restore(ctx))

	assert.Equal(t, model.ThemeDark, controls.theme)
}

func TestSelectTheme_RejectsUnknown(t *testing.T) {
	c, controls, notifier, _ := newTestCoordinator(t)

	err := c.SelectTheme(context.Background(), model.Theme("neon"))

	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, model.ThemeAuto, controls.theme)
	assert.Empty(t, notifier.infos)
}

func TestSelectTheme_PersistFailureStillApplies(t *testing.T) {
	controls := &fakeControls{theme: model.ThemeLight}
	notifier := &fakeNotifier{}
	tr := i18n.New(i18n.DefaultDictionaries(), nil)
	c := New(controls, failingPrefs{}, tr, notifier, testLogger())

	err := c.SelectTheme(context.Background(), model.ThemeDark)

	assert.Error(t, err)
	assert.Equal(t, model.ThemeDark, controls.theme)
	assert.Equal(t, []string{"Dark"}, notifier.infos)
}

func TestRestore_NothingStored(t *testing.T) {
	c, controls, _, _ := newTestCoordinator(t)

	require.NoError(t, c.Restore(context.Background()))
	assert.Equal(t, model.ThemeAuto, controls.theme)
}

func TestRestore_IgnoresUnknownValue(t *testing.T) {
	c, controls, _, prefs := newTestCoordinator(t)
	require.NoError(t, prefs.Set(context.Background(), ThemeKey, "neon"))

	require.NoError(t, c.Restore(context.Background()))
	assert.Equal(t, model.ThemeAuto, controls.theme)
}

func TestSnapshot(t *testing.T) {
	c, controls, _, _ := newTestCoordinator(t)
	controls.main = model.RunControls{Timeout: "7", TimeoutEnabled: false}
	controls.theme = model.ThemeLight

	got := c.Snapshot()

	assert.Equal(t, model.Settings{
		Theme:          model.ThemeLight,
		TimeoutSeconds: 7,
		TimeoutEnabled: false,
		Locale:         i18n.LocaleEN,
	}, got)
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5", 5},
		{"2.5", 2.5},
		{"", DefaultTimeoutSeconds},
		{"0", DefaultTimeoutSeconds},
		{"-3", DefaultTimeoutSeconds},
		{"abc", DefaultTimeoutSeconds},
		{"NaN", DefaultTimeoutSeconds},
		{"Inf", DefaultTimeoutSeconds},
		{"-Infinity", DefaultTimeoutSeconds},
		{"1e400", DefaultTimeoutSeconds},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTimeout(tt.in))
		})
	}
}

func TestFormatTimeout(t *testing.T) {
	assert.Equal(t, "5", FormatTimeout(5))
	assert.Equal(t, "2.5", FormatTimeout(2.5))
}
