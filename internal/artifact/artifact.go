// Package artifact is the temporary-file panel: it lists, previews,
// downloads and clears the files the execution service keeps for past runs.
//
// BACKGROUND VS DIRECT:
// Refresh runs in the background after every successful run, so its failures
// are only logged and the previous listing stays on screen. View, Download,
// Clear and History are user-initiated, so their failures always raise an
// error notification.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/model"
)

// Region is the page region the panel draws into.
const Region = "files"

// API is the part of the service contract the panel uses.
type API interface {
	Files(ctx context.Context) (*model.FilesResponse, error)
	File(ctx context.Context, name string) (*model.FileResponse, error)
	Clear(ctx context.Context) (*model.ClearResponse, error)
	History(ctx context.Context, day string) (*model.HistoryResponse, error)
	DownloadURL(name string) string
}

// View is where the listing is drawn.
type View interface {
	SetFileRows(rows []model.FileArtifact)
	SetRegionText(region, text string)
	// SetRegionKey shows a localized placeholder that follows locale changes.
	SetRegionKey(region, key, text string)
}

// Editor is the code editor, seen only through its text.
type Editor interface {
	Text() string
	SetText(text string)
}

// Navigator performs a full navigation to url (the browser's location.href).
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

type Translator interface {
	T(key string) string
}

type Notifier interface {
	Info(text string)
	Error(text string)
}

// Panel is the temporary-file panel.
type Panel struct {
	api      API
	view     View
	editor   Editor
	nav      Navigator
	tr       Translator
	notifier Notifier
	logger   *slog.Logger

	mu      sync.Mutex
	listing []model.FileArtifact
}

func New(
	api API,
	view View,
	editor Editor,
	nav Navigator,
	tr Translator,
	notifier Notifier,
	logger *slog.Logger,
) *Panel {
	return &Panel{
		api:      api,
		view:     view,
		editor:   editor,
		nav:      nav,
		tr:       tr,
		notifier: notifier,
		logger:   logger,
	}
}

// Refresh fetches the listing and replaces the displayed one wholesale.
// Any failure keeps the previous listing and is only logged.
func (p *Panel) Refresh(ctx context.Context) error {
	resp, err := p.api.Files(ctx)
	if err != nil {
		p.logger.Warn("refreshing file listing", slog.String("error", err.Error()))
		return err
	}
	if !resp.OK {
		p.logger.Warn("service rejected file listing", slog.String("error", resp.Error))
		return apperror.Remote(resp.Error)
	}

	p.mu.Lock()
	p.listing = append([]model.FileArtifact(nil), resp.Files...)
	p.mu.Unlock()

	if len(resp.Files) == 0 {
		p.view.SetFileRows(nil)
		p.view.SetRegionKey(Region, i18n.KeyFileNone, p.tr.T(i18n.KeyFileNone))
		return nil
	}
	p.view.SetRegionText(Region, "")
	p.view.SetFileRows(resp.Files)
	return nil
}

// Listing returns the most recently fetched listing.
func (p *Panel) Listing() []model.FileArtifact {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.FileArtifact(nil), p.listing...)
}

// View loads the named file into the editor.
func (p *Panel) View(ctx context.Context, name string) error {
	resp, err := p.api.File(ctx, name)
	if err != nil {
		p.notifier.Error(p.tr.T(i18n.KeyMsgError))
		return err
	}
	if !resp.OK {
		p.notifier.Error(p.tr.T(i18n.KeyMsgError))
		return apperror.Remote(resp.Error)
	}

	p.editor.SetText(resp.Content)
	p.notifier.Info(p.tr.T(i18n.KeyFileLoaded))
	return nil
}

// Download navigates to the file's download address.
func (p *Panel) Download(ctx context.Context, name string) error {
	if err := p.nav.Navigate(ctx, p.api.DownloadURL(name)); err != nil {
		p.notifier.Error(p.tr.T(i18n.KeyMsgError))
		return err
	}
	return nil
}

// Clear deletes every temporary file, reports how many went, and refreshes.
// The refresh happens whatever the delete call reported.
func (p *Panel) Clear(ctx context.Context) error {
	resp, err := p.api.Clear(ctx)
	if err != nil {
		p.notifier.Error(p.tr.T(i18n.KeyMsgNetwork))
	} else {
		p.notifier.Info(fmt.Sprintf("%s %d %s",
			p.tr.T(i18n.KeyClear), resp.Deleted, p.tr.T(i18n.KeyFilesUnit)))
	}

	_ = p.Refresh(ctx)
	return err
}

// History shows the run history for day (YYYYMMDD, empty for today) as
// indented JSON in place of the listing.
func (p *Panel) History(ctx context.Context, day string) error {
	resp, err := p.api.History(ctx, day)
	if err != nil {
		p.notifier.Error(p.tr.T(i18n.KeyMsgError))
		return err
	}
	if !resp.OK {
		p.notifier.Error(p.tr.T(i18n.KeyMsgError))
		return apperror.Remote(resp.Error)
	}

	text := "null"
	if len(resp.Data) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, resp.Data, "", "  "); err != nil {
			p.notifier.Error(p.tr.T(i18n.KeyMsgError))
			return apperror.Network("GET /history", err)
		}
		text = buf.String()
	}

	p.view.SetFileRows(nil)
	p.view.SetRegionText(Region, text)
	p.notifier.Info(p.tr.T(i18n.KeyHistory) + " ✔")
	return nil
}
