// Package execution runs the editor's code on the execution service and
// renders the outcome into the output regions.
package execution

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/i18n"
	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/settings"
)

// Output regions.
const (
	RegionStdout  = "stdout"
	RegionStderr  = "stderr"
	RegionModules = "modules"
)

// Runner submits one run.
type Runner interface {
	Run(ctx context.Context, req model.ExecutionRequest) (*model.RunResponse, error)
}

// View is where results are drawn.
type View interface {
	SetRegionText(region, text string)
	SetRegionKey(region, key, text string)
}

type Editor interface {
	Text() string
}

// Controls exposes the committed (main panel) run options.
type Controls interface {
	MainControls() model.RunControls
}

// Refresher is refreshed after every successful run.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Translator interface {
	T(key string) string
}

type Notifier interface {
	Info(text string)
	Error(text string)
}

// Controller is the execution controller.
//
// Only one run is in flight at a time: a trigger that arrives while a run is
// pending is refused with apperror.ErrBusy and a msg_busy notification, so
// the panels always show the response to the run the user is waiting on.
type Controller struct {
	runner    Runner
	view      View
	editor    Editor
	controls  Controls
	refresher Refresher
	tr        Translator
	notifier  Notifier
	logger    *slog.Logger

	running atomic.Bool
}

func New(
	runner Runner,
	view View,
	editor Editor,
	controls Controls,
	refresher Refresher,
	tr Translator,
	notifier Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		runner:    runner,
		view:      view,
		editor:    editor,
		controls:  controls,
		refresher: refresher,
		tr:        tr,
		notifier:  notifier,
		logger:    logger,
	}
}

// Request builds the request for the current editor text and main-panel
// controls.
func (c *Controller) Request() model.ExecutionRequest {
	opts := c.controls.MainControls()
	return model.ExecutionRequest{
		Code:           c.editor.Text(),
		TimeoutSeconds: settings.ParseTimeout(opts.Timeout),
		TimeoutEnabled: opts.TimeoutEnabled,
	}
}

// Running reports whether a run is in flight.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// Run submits the current code and renders the result.
//
// The output regions are updated before the file listing refresh starts.
// Network and application failures are rendered and returned; they are never
// retried.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		c.notifier.Error(c.tr.T(i18n.KeyMsgBusy))
		return apperror.Busy("run")
	}
	defer c.running.Store(false)

	req := c.Request()
	c.view.SetRegionKey(RegionStdout, i18n.KeyNoOutput, c.tr.T(i18n.KeyNoOutput))
	c.view.SetRegionText(RegionStderr, "")

	c.logger.Debug("submitting run",
		slog.Int("code_len", len(req.Code)),
		slog.Float64("timeout", req.TimeoutSeconds),
		slog.Bool("timeout_enabled", req.TimeoutEnabled),
	)

	resp, err := c.runner.Run(ctx, req)
	if err != nil {
		c.view.SetRegionText(RegionStderr, c.tr.T(i18n.KeyRequestFailed)+": "+err.Error())
		c.notifier.Error(c.tr.T(i18n.KeyMsgNetwork))
		return err
	}

	if !resp.OK {
		c.view.SetRegionText(RegionStdout, "")
		c.view.SetRegionText(RegionStderr, resp.Error)
		c.notifier.Error(c.tr.T(i18n.KeyMsgError))
		return apperror.Remote(resp.Error)
	}

	c.render(resp.ExecutionResult())

	_ = c.refresher.Refresh(ctx)
	c.notifier.Info(c.tr.T(i18n.KeyMsgDone))
	return nil
}

func (c *Controller) render(res model.ExecutionResult) {
	if res.Stdout != "" {
		c.view.SetRegionText(RegionStdout, res.Stdout)
	} else {
		c.view.SetRegionKey(RegionStdout, i18n.KeyNoOutput, c.tr.T(i18n.KeyNoOutput))
	}

	switch {
	case res.Stderr != "":
		c.view.SetRegionText(RegionStderr, res.Stderr)
	case res.Traceback != nil && *res.Traceback != "":
		c.view.SetRegionText(RegionStderr, *res.Traceback)
	default:
		c.view.SetRegionKey(RegionStderr, i18n.KeyNoError, c.tr.T(i18n.KeyNoError))
	}

	statuses := res.ImportStatuses()
	if len(statuses) == 0 {
		c.view.SetRegionKey(RegionModules, i18n.KeyNoImport, c.tr.T(i18n.KeyNoImport))
		return
	}
	c.view.SetRegionText(RegionModules, ModuleLines(statuses))
}

// ModuleLines renders one line per import: "✔ name" when found,
// "❌ name" when missing.
func ModuleLines(statuses []model.ImportStatus) string {
	lines := make([]string, len(statuses))
	for i, s := range statuses {
		mark := "✔"
		if s.Missing {
			mark = "❌"
		}
		lines[i] = mark + " " + s.Module
	}
	return strings.Join(lines, "\n")
}
