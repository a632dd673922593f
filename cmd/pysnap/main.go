// Package main is the PySnap terminal client.
//
// It drives the same page components a browser would, against a live
// execution service, and prints the page after every command:
//
//	$ pysnap -server http://127.0.0.1:8000
//	pysnap> code
//	... import json
//	... print(json.dumps({"a": 1}))
//	... .
//	pysnap> run
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/sakif/pysnap/internal/client"
	"github.com/sakif/pysnap/internal/config"
	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/logging"
	"github.com/sakif/pysnap/internal/model"
	sqliteRepo "github.com/sakif/pysnap/internal/repository/sqlite"
	"github.com/sakif/pysnap/internal/settings"
	"github.com/sakif/pysnap/internal/ui"
)

const (
	prompt     = "pysnap> "
	morePrompt = "... "
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (default $PYSNAP_CONFIG or pysnap.toml)")
	serverURL := flag.String("server", "", "execution service base URL (overrides config)")
	locale := flag.String("locale", "", "UI locale, e.g. en or zh-CN (overrides config and environment)")
	flag.Parse()

	if err := run(*configPath, *serverURL, *locale); err != nil {
		fmt.Fprintln(os.Stderr, "pysnap:", err)
		os.Exit(1)
	}
}

func run(configPath, serverURL, locale string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Client.ServerURL = serverURL
	}
	if locale != "" {
		cfg.Client.Locale = locale
	}

	log, err := logging.New(logging.Options{
		File:  cfg.Client.LogFile,
		Level: cfg.Client.LogLevel,
	})
	if err != nil {
		return err
	}
	defer log.Close()
	logger := log.Logger

	// Preferences play the part of browser local storage.
	if err := os.MkdirAll(filepath.Dir(cfg.Client.PrefsPath), 0755); err != nil {
		return fmt.Errorf("creating prefs directory: %w", err)
	}
	prefs, err := sqliteRepo.New(cfg.Client.PrefsPath)
	if err != nil {
		return fmt.Errorf("opening prefs: %w", err)
	}
	defer prefs.Close()

	api := client.New(cfg.Client.ServerURL, logger,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Client.RequestTimeout.Duration}),
	)

	// Downloads are recorded on the page and saved to disk.
	dl := &downloader{fetch: api, dir: cfg.Client.DownloadDir, logger: logger}
	app := ui.NewApp(ui.Options{
		Service:   api,
		Prefs:     prefs,
		Navigator: dl,
		Controls: model.RunControls{
			Timeout:        settings.FormatTimeout(cfg.Client.TimeoutSeconds),
			TimeoutEnabled: cfg.Client.TimeoutEnabled,
		},
		Logger: logger,
	})
	dl.record = app.Surface

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pref := cfg.Client.Locale
	if pref == "" {
		pref = i18n.PreferenceFromEnv(os.Getenv)
	}
	app.Start(ctx, pref)
	logger.Debug("connected", slog.String("server", cfg.Client.ServerURL))

	return repl(ctx, app, log.Level, cfg.Client.HistoryFile)
}

// repl reads commands until EOF, Ctrl-C on an empty line, or quit.
func repl(ctx context.Context, app *ui.App, level *slog.LevelVar, historyFile string) error {
	if historyFile != "" {
		_ = os.MkdirAll(filepath.Dir(historyFile), 0755)
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	next := func() (string, error) {
		rl.SetPrompt(morePrompt)
		defer rl.SetPrompt(prompt)
		return rl.Readline()
	}
	shell := NewShell(app, rl.Stdout(), level, next)

	if err := ui.Render(rl.Stdout(), app.Surface.Snapshot()); err != nil {
		return err
	}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = shell.Exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
	}
}
