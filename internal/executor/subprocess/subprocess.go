// Package subprocess runs code with a local Python interpreter.
package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/sakif/pysnap/internal/executor"
)

// Executor runs each request as a child process of the server.
type Executor struct {
	python string
	logger *slog.Logger
}

// New creates an Executor using the interpreter at python (looked up in
// PATH when it has no separator).
func New(python string, logger *slog.Logger) *Executor {
	return &Executor{python: python, logger: logger}
}

// Execute runs req.Path (or req.Code with -c when no file was saved).
//
// A launch failure is reported in the Result, not as an error: the caller
// renders it like any other failed run.
func (e *Executor) Execute(ctx context.Context, req executor.Request) (*executor.Result, error) {
	args := []string{req.Path}
	if req.Path == "" {
		args = []string{"-c", req.Code}
	}

	runCtx := ctx
	if req.TimeoutEnabled {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, e.python, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren may hold the pipes open after the kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	res := &executor.Result{Duration: time.Since(start)}

	switch {
	case req.TimeoutEnabled && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.Stdout = stdout.String()
		res.Stderr = stderr.String() + executor.TimeoutMessage(req.Timeout)
		e.logger.Info("execution timed out", slog.Duration("timeout", req.Timeout))

	case cmd.ProcessState != nil:
		code := cmd.ProcessState.ExitCode()
		res.ReturnCode = &code
		res.Stdout = stdout.String()
		res.Stderr = stderr.String()

	default:
		// The process never started.
		tb := fmt.Sprintf("launching %s: %v", e.python, err)
		res.Traceback = &tb
		res.Stderr = err.Error()
		e.logger.Error("failed to launch interpreter",
			slog.String("python", e.python),
			slog.String("error", err.Error()),
		)
	}
	return res, nil
}

// ResolveImports asks the interpreter which modules it can locate.
func (e *Executor) ResolveImports(ctx context.Context, modules []string) ([]string, []string, error) {
	if len(modules) == 0 {
		return []string{}, []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	args := append([]string{"-c", executor.FindSpecScript}, modules...)
	out, err := exec.CommandContext(ctx, e.python, args...).Output()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving imports: %w", err)
	}
	found, missing := executor.ParseResolved(string(out), modules)
	return found, missing, nil
}
