package ui_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/client"
	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/notify"
	"github.com/sakif/pysnap/internal/repository/sqlite"
	"github.com/sakif/pysnap/internal/ui"
)

// fakeService is an in-memory execution service speaking the HTTP contract.
type fakeService struct {
	mu      sync.Mutex
	files   map[string]string
	runResp string
	runReq  model.ExecutionRequest
}

func (s *fakeService) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/run", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		json.NewDecoder(r.Body).Decode(&s.runReq)
		io.WriteString(w, s.runResp)
	})
	r.Get("/files", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		files := []model.FileArtifact{}
		for name, content := range s.files {
			files = append(files, model.FileArtifact{Name: name, Size: float64(len(content))})
		}
		json.NewEncoder(w).Encode(model.FilesResponse{OK: true, Files: files})
	})
	r.Get("/file/{name}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		content, ok := s.files[chi.URLParam(r, "name")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"ok":false,"error":"not found"}`)
			return
		}
		json.NewEncoder(w).Encode(model.FileResponse{OK: true, Content: content})
	})
	r.Delete("/clear", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		n := len(s.files)
		s.files = map[string]string{}
		json.NewEncoder(w).Encode(model.ClearResponse{OK: true, Deleted: n})
	})
	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"data":{"history":[]}}`)
	})
	return r
}

// neverFire keeps notifications visible for the whole test.
func neverFire(time.Duration, func()) notify.Timer { return stopped{} }

type stopped struct{}

func (stopped) Stop() bool { return false }

type env struct {
	svc   *fakeService
	prefs *sqlite.DB
	url   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	svc := &fakeService{files: map[string]string{}}
	srv := httptest.NewServer(svc.routes())
	t.Cleanup(srv.Close)

	prefs, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { prefs.Close() })

	return &env{svc: svc, prefs: prefs, url: srv.URL}
}

func (e *env) newApp(t *testing.T) *ui.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ui.NewApp(ui.Options{
		Service:  client.New(e.url, logger),
		Prefs:    e.prefs,
		After:    neverFire,
		Controls: model.RunControls{Timeout: "5", TimeoutEnabled: true},
		Logger:   logger,
	})
}

func (e *env) startedApp(t *testing.T, locale string) *ui.App {
	t.Helper()
	app := e.newApp(t)
	app.Start(context.Background(), locale)
	return app
}

func noteText(app *ui.App) string {
	n, _ := app.Surface.Notification()
	return n.Text
}

func TestApp_Start(t *testing.T) {
	e := newEnv(t)

	app := e.startedApp(t, "zh_CN.UTF-8")

	assert.Equal(t, "zh", app.Locale.Current())
	assert.Equal(t, "运行", app.Surface.Label("run"))
	assert.Equal(t, "暂无临时文件", app.Surface.Region("files").Text)
	assert.True(t, app.Surface.Hidden("settings"))
	assert.True(t, app.Surface.Hidden("about"))
}

func TestApp_RunScenarios(t *testing.T) {
	t.Run("successful run with no imports", func(t *testing.T) {
		e := newEnv(t)
		e.svc.runResp = `{"ok":true,"result":{"stdout":"1\n","stderr":""},"imports":[],"missing":[]}`
		app := e.startedApp(t, "en")
		app.Surface.SetText("print(1)")

		require.NoError(t, app.Dispatch(context.Background(), ui.ActionRun, ""))

		assert.Equal(t, model.ExecutionRequest{Code: "print(1)", TimeoutSeconds: 5, TimeoutEnabled: true}, e.svc.runReq)
		assert.Equal(t, "1\n", app.Surface.Region("stdout").Text)
		assert.Equal(t, "No Error", app.Surface.Region("stderr").Text)
		assert.Equal(t, "No imports detected", app.Surface.Region("modules").Text)
		assert.Equal(t, "Execution Done ✔", noteText(app))
	})

	t.Run("application failure", func(t *testing.T) {
		e := newEnv(t)
		e.svc.runResp = `{"ok":false,"error":"SyntaxError: ..."}`
		app := e.startedApp(t, "en")

		err := app.Dispatch(context.Background(), ui.ActionRun, "")

		assert.ErrorIs(t, err, apperror.ErrRemote)
		assert.Equal(t, "", app.Surface.Region("stdout").Text)
		assert.Equal(t, "SyntaxError: ...", app.Surface.Region("stderr").Text)
		n, visible := app.Surface.Notification()
		assert.True(t, visible)
		assert.Equal(t, model.SeverityError, n.Severity)
	})

	t.Run("unreachable service", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		prefs, err := sqlite.New(":memory:")
		require.NoError(t, err)
		defer prefs.Close()

		app := ui.NewApp(ui.Options{
			Service: client.New(srv.URL, logger),
			Prefs:   prefs,
			After:   neverFire,
			Logger:  logger,
		})
		app.Start(context.Background(), "en")
		assert.Equal(t, "(Click History or TempFiles)", app.Surface.Region("files").Text)

		err = app.Dispatch(context.Background(), ui.ActionRun, "")

		assert.ErrorIs(t, err, apperror.ErrNetwork)
		assert.True(t, strings.HasPrefix(app.Surface.Region("stderr").Text, "Request failed: "))
		assert.Equal(t, "Network Error", noteText(app))
	})
}

// brokenPrefs fails every read and write, like an unreadable prefs file.
type brokenPrefs struct{}

func (brokenPrefs) Get(context.Context, string) (string, error) {
	return "", errors.New("disk I/O error")
}

func (brokenPrefs) Set(context.Context, string, string) error {
	return errors.New("disk I/O error")
}

func TestApp_StartSurvivesBrokenPreferences(t *testing.T) {
	e := newEnv(t)
	e.svc.files["1700000000000.py"] = "print(1)\n"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := ui.NewApp(ui.Options{
		Service: client.New(e.url, logger),
		Prefs:   brokenPrefs{},
		After:   neverFire,
		Logger:  logger,
	})
	app.Start(context.Background(), "zh")

	assert.Equal(t, "zh", app.Locale.Current())
	assert.Equal(t, model.ThemeAuto, app.Surface.Theme())
	require.Len(t, app.Surface.FileRows(), 1)
	assert.Equal(t, "1700000000000.py", app.Surface.FileRows()[0].Name)
}

func TestApp_ApplyIsIdempotent(t *testing.T) {
	e := newEnv(t)
	app := e.startedApp(t, "ja-JP")

	app.Locale.Apply()
	first := app.Surface.Snapshot()
	app.Locale.Apply()
	second := app.Surface.Snapshot()

	assert.Equal(t, first, second)
}

func TestApp_LangRelabelsPlaceholders(t *testing.T) {
	e := newEnv(t)
	app := e.startedApp(t, "en")
	require.Equal(t, "No temporary files", app.Surface.Region("files").Text)

	require.NoError(t, app.Dispatch(context.Background(), ui.ActionLang, "zh"))

	assert.Equal(t, "暂无临时文件", app.Surface.Region("files").Text)
	assert.Equal(t, "设置", app.Surface.Label("settings"))

	err := app.Dispatch(context.Background(), ui.ActionLang, "fr")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "zh", app.Locale.Current())
}

func TestApp_ThemePersistsAcrossStarts(t *testing.T) {
	e := newEnv(t)
	app := e.startedApp(t, "en")

	require.NoError(t, app.Dispatch(context.Background(), ui.ActionTheme, "dark"))
	assert.Equal(t, model.ThemeDark, app.Surface.Theme())
	assert.Equal(t, "Dark", noteText(app))

	stored, err := e.prefs.Get(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", stored)

	next := e.startedApp(t, "en")
	assert.Equal(t, model.ThemeDark, next.Surface.Theme())
}

func TestApp_SettingsOverlay(t *testing.T) {
	ctx := context.Background()

	t.Run("open and save without edits is identity", func(t *testing.T) {
		app := newEnv(t).startedApp(t, "en")
		before := app.Surface.MainControls()

		require.NoError(t, app.Dispatch(ctx, ui.ActionSettingsOpen, ""))
		assert.False(t, app.Surface.Hidden("settings"))
		require.NoError(t, app.Dispatch(ctx, ui.ActionSettingsSave, ""))

		assert.Equal(t, before, app.Surface.MainControls())
		assert.True(t, app.Surface.Hidden("settings"))
		assert.Equal(t, "Settings Saved ✔", noteText(app))
	})

	t.Run("saved draft reaches the next run", func(t *testing.T) {
		e := newEnv(t)
		e.svc.runResp = `{"ok":true,"result":{"stdout":"","stderr":""}}`
		app := e.startedApp(t, "en")

		require.NoError(t, app.Dispatch(ctx, ui.ActionSettingsOpen, ""))
		app.Surface.SetModalControls(model.RunControls{Timeout: "12", TimeoutEnabled: false})
		require.NoError(t, app.Dispatch(ctx, ui.ActionSettingsSave, ""))
		require.NoError(t, app.Dispatch(ctx, ui.ActionRun, ""))

		assert.Equal(t, 12.0, e.svc.runReq.TimeoutSeconds)
		assert.False(t, e.svc.runReq.TimeoutEnabled)
	})

	t.Run("dismiss drops the draft", func(t *testing.T) {
		app := newEnv(t).startedApp(t, "en")
		before := app.Surface.MainControls()

		require.NoError(t, app.Dispatch(ctx, ui.ActionSettingsOpen, ""))
		app.Surface.SetModalControls(model.RunControls{Timeout: "99"})
		require.NoError(t, app.Dispatch(ctx, ui.ActionSettingsDismiss, ""))

		assert.Equal(t, before, app.Surface.MainControls())
	})

	t.Run("about is independent of settings", func(t *testing.T) {
		app := newEnv(t).startedApp(t, "en")

		require.NoError(t, app.Dispatch(ctx, ui.ActionSettingsOpen, ""))
		require.NoError(t, app.Dispatch(ctx, ui.ActionAboutOpen, ""))
		assert.False(t, app.Surface.Hidden("settings"))
		assert.False(t, app.Surface.Hidden("about"))

		require.NoError(t, app.Dispatch(ctx, ui.ActionAboutClose, ""))
		assert.False(t, app.Surface.Hidden("settings"))
		assert.True(t, app.Surface.Hidden("about"))
	})
}

func TestApp_FileActions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.svc.files["1700000000000.py"] = "print('saved')"
	app := e.startedApp(t, "en")

	require.Len(t, app.Surface.FileRows(), 1)

	require.NoError(t, app.Dispatch(ctx, ui.ActionView, "1700000000000.py"))
	assert.Equal(t, "print('saved')", app.Surface.Text())
	assert.Equal(t, "Loaded to editor", noteText(app))

	require.NoError(t, app.Dispatch(ctx, ui.ActionDownload, "1700000000000.py"))
	assert.Equal(t, []string{e.url + "/download/1700000000000.py"}, app.Surface.Snapshot().Navigations)

	assert.ErrorIs(t, app.Dispatch(ctx, ui.ActionView, ""), apperror.ErrValidation)
	assert.ErrorIs(t, app.Dispatch(ctx, ui.ActionView, "gone.py"), apperror.ErrRemote)

	require.NoError(t, app.Dispatch(ctx, ui.ActionClear, ""))
	assert.Equal(t, "Clear 1 files", noteText(app))
	assert.Empty(t, app.Surface.FileRows())
	assert.Empty(t, app.Files.Listing())

	require.NoError(t, app.Dispatch(ctx, ui.ActionHistory, ""))
	assert.Contains(t, app.Surface.Region("files").Text, `"history": []`)
	assert.Equal(t, "History ✔", noteText(app))
}

func TestDispatcher(t *testing.T) {
	app := newEnv(t).newApp(t)

	err := app.Dispatch(context.Background(), "explode", "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Equal(t, []string{
		"about.close", "about.open", "clear", "download", "files", "history",
		"lang", "run", "settings.dismiss", "settings.open", "settings.save",
		"theme", "view",
	}, app.Dispatcher.Actions())
}

func TestRender(t *testing.T) {
	e := newEnv(t)
	e.svc.files["a.py"] = "x = 1"
	app := e.startedApp(t, "en")
	require.NoError(t, app.Dispatch(context.Background(), ui.ActionSettingsOpen, ""))

	var buf bytes.Buffer
	require.NoError(t, ui.Render(&buf, app.Surface.Snapshot()))
	out := buf.String()

	assert.Contains(t, out, "[Run] Timeout(s): 5")
	assert.Contains(t, out, "a.py (5 bytes)  [View] [Download]")
	assert.Contains(t, out, "┌ Settings:")
	assert.NotContains(t, out, "┌ About")
}
