package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/sakif/pysnap/internal/logging"
	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/ui"
)

// errQuit ends the REPL.
var errQuit = errors.New("quit")

// Shell turns command lines into page actions and prints the page after
// each one.
type Shell struct {
	app   *ui.App
	out   io.Writer
	level *slog.LevelVar
	// next reads one more input line; used by "code" to collect a block.
	next func() (string, error)

	commands map[string]command
}

type command struct {
	usage  string
	run    func(ctx context.Context, arg string) error
	render bool
}

func NewShell(app *ui.App, out io.Writer, level *slog.LevelVar, next func() (string, error)) *Shell {
	s := &Shell{app: app, out: out, level: level, next: next}
	s.commands = map[string]command{
		// Page actions, one per button.
		"run":      s.action(ui.ActionRun, "run", true),
		"files":    s.action(ui.ActionFiles, "files", true),
		"view":     s.action(ui.ActionView, "view <name>", true),
		"download": s.action(ui.ActionDownload, "download <name>", true),
		"clear":    s.action(ui.ActionClear, "clear", true),
		"history":  s.action(ui.ActionHistory, "history [YYYYMMDD]", true),
		"settings": s.action(ui.ActionSettingsOpen, "settings", true),
		"save":     s.action(ui.ActionSettingsSave, "save", true),
		"dismiss":  s.action(ui.ActionSettingsDismiss, "dismiss", true),
		"about":    s.action(ui.ActionAboutOpen, "about", true),
		"close":    s.action(ui.ActionAboutClose, "close", true),
		"theme":    s.action(ui.ActionTheme, "theme light|dark|auto", true),
		"lang":     s.action(ui.ActionLang, "lang zh|en|jp", true),

		// Editor.
		"code":  {usage: "code  (then lines, end with a single '.')", run: s.code, render: false},
		"load":  {usage: "load <path>", run: s.load, render: false},
		"write": {usage: "write <path>", run: s.write, render: false},
		"print": {usage: "print", run: s.print, render: false},

		// Controls. The "2" variants edit the copy inside the settings overlay.
		"timeout":  {usage: "timeout <seconds>", run: s.timeout(false), render: true},
		"toggle":   {usage: "toggle on|off", run: s.toggle(false), render: true},
		"timeout2": {usage: "timeout2 <seconds>", run: s.timeout(true), render: true},
		"toggle2":  {usage: "toggle2 on|off", run: s.toggle(true), render: true},

		"show": {usage: "show", run: func(context.Context, string) error { return nil }, render: true},
		"log":  {usage: "log debug|info|warn|error", run: s.logLevel, render: false},
		"help": {usage: "help", run: s.help, render: false},
		"quit": {usage: "quit", run: func(context.Context, string) error { return errQuit }},
	}
	s.commands["exit"] = s.commands["quit"]
	return s
}

// Exec runs one command line. It returns errQuit when the user asked to
// leave.
func (s *Shell) Exec(ctx context.Context, line string) error {
	name, arg := parseCommand(line)
	if name == "" {
		return nil
	}
	cmd, ok := s.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", name)
	}

	err := cmd.run(ctx, arg)
	if errors.Is(err, errQuit) {
		return err
	}
	if cmd.render {
		if rerr := ui.Render(s.out, s.app.Surface.Snapshot()); rerr != nil {
			return rerr
		}
	}
	return err
}

// parseCommand splits "view 123.py" into ("view", "123.py"). The argument
// keeps inner spaces so file names with spaces work.
func parseCommand(line string) (name, arg string) {
	line = strings.TrimSpace(line)
	name, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}

func (s *Shell) action(name, usage string, render bool) command {
	return command{
		usage:  usage,
		render: render,
		run: func(ctx context.Context, arg string) error {
			return s.app.Dispatch(ctx, name, arg)
		},
	}
}

func (s *Shell) code(context.Context, string) error {
	var lines []string
	for {
		line, err := s.next()
		if err != nil {
			return err
		}
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	s.app.Surface.SetText(strings.Join(lines, "\n") + "\n")
	return nil
}

func (s *Shell) load(_ context.Context, path string) error {
	if path == "" {
		return errors.New("usage: load <path>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.app.Surface.SetText(string(data))
	return nil
}

func (s *Shell) write(_ context.Context, path string) error {
	if path == "" {
		return errors.New("usage: write <path>")
	}
	return os.WriteFile(path, []byte(s.app.Surface.Text()), 0644)
}

func (s *Shell) print(context.Context, string) error {
	_, err := io.WriteString(s.out, s.app.Surface.Text())
	return err
}

func (s *Shell) timeout(draft bool) func(context.Context, string) error {
	return func(_ context.Context, arg string) error {
		// Stored as typed; the run parses it and falls back to 5.
		s.updateControls(draft, func(c *model.RunControls) { c.Timeout = arg })
		return nil
	}
}

func (s *Shell) toggle(draft bool) func(context.Context, string) error {
	return func(_ context.Context, arg string) error {
		var on bool
		switch strings.ToLower(arg) {
		case "on", "true", "1":
			on = true
		case "off", "false", "0":
		default:
			return errors.New("usage: toggle on|off")
		}
		s.updateControls(draft, func(c *model.RunControls) { c.TimeoutEnabled = on })
		return nil
	}
}

func (s *Shell) updateControls(draft bool, fn func(*model.RunControls)) {
	surface := s.app.Surface
	if draft {
		c := surface.ModalControls()
		fn(&c)
		surface.SetModalControls(c)
		return
	}
	c := surface.MainControls()
	fn(&c)
	surface.SetMainControls(c)
}

func (s *Shell) logLevel(_ context.Context, arg string) error {
	return logging.SetLevel(s.level, arg)
}

func (s *Shell) help(context.Context, string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		if name != "exit" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "  %s\n", s.commands[name].usage)
	}
	return nil
}
