// Package service contains the business logic layer of the execution service.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes {ok, ...} JSON
//	Service (Business layer) → safety check, import scan, orchestration
//	Repository / Store       → run history (sqlite), temp files (workspace)
//
// Services accept plain Go values and return domain errors from apperror.
// They know nothing about HTTP, so the handler decides the status codes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/executor"
	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/repository"
)

// Validation constants.
const (
	MaxCodeLength         = 100000 // ~100KB of code
	DefaultTimeoutSeconds = 5.0
)

// CodeSaver persists submitted code and returns the saved file name.
type CodeSaver interface {
	Save(code string) (string, error)
	Dir() string
}

// RunService handles one POST /run from validation to history.
type RunService struct {
	exec    executor.Executor
	saver   CodeSaver
	history repository.HistoryRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewRunService(
	exec executor.Executor,
	saver CodeSaver,
	history repository.HistoryRepository,
	logger *slog.Logger,
) *RunService {
	return &RunService{
		exec:    exec,
		saver:   saver,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Run checks, saves, executes and records one submission.
//
// Only a failed safety check (or oversized code) is returned as an error.
// Once the code is accepted the response is always ok:true: an executor
// failure is reported through result.traceback, and a history write failure
// is only logged.
func (s *RunService) Run(ctx context.Context, req model.ExecutionRequest) (*model.RunResponse, error) {
	if len(req.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code", "code exceeds 100000 characters")
	}
	if err := CheckSafety(req.Code); err != nil {
		return nil, err
	}
	timeout := req.TimeoutSeconds
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds
	}

	imports := ScanImports(req.Code)
	found, missing, err := s.exec.ResolveImports(ctx, imports)
	if err != nil {
		s.logger.Warn("could not resolve imports; reporting all as missing",
			slog.String("error", err.Error()),
		)
		found, missing = []string{}, append([]string{}, imports...)
	}

	name, err := s.saver.Save(req.Code)
	if err != nil {
		return nil, err
	}

	res, err := s.exec.Execute(ctx, executor.Request{
		Code:           req.Code,
		Path:           filepath.Join(s.saver.Dir(), name),
		Timeout:        executor.Seconds(timeout),
		TimeoutEnabled: req.TimeoutEnabled,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.Error("executor failed", slog.String("file", name), slog.String("error", err.Error()))
		tb := err.Error()
		res = &executor.Result{Stderr: err.Error(), Traceback: &tb}
	}

	s.logger.Info("run finished",
		slog.String("file", name),
		slog.Bool("timed_out", res.TimedOut),
		slog.Duration("duration", res.Duration),
		slog.Int("imports", len(imports)),
		slog.Int("missing", len(missing)),
	)

	entry := &model.HistoryEntry{
		CreatedAt: s.now(),
		Filename:  name,
		Execution: model.HistoryExecution{
			Stdout:     res.Stdout,
			Stderr:     res.Stderr,
			ReturnCode: res.ReturnCode,
			Timeout:    res.TimedOut,
		},
		Meta: model.HistoryMeta{
			Imports:        imports,
			FoundImports:   found,
			MissingImports: missing,
			TimeoutSec:     timeout,
			TimeoutEnabled: req.TimeoutEnabled,
			SafeCheck:      true,
		},
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record history", slog.String("file", name), slog.String("error", err.Error()))
	}

	return &model.RunResponse{
		OK:      true,
		File:    name,
		Imports: imports,
		Found:   found,
		Missing: missing,
		Result: &model.RunOutput{
			Stdout:     res.Stdout,
			Stderr:     res.Stderr,
			ReturnCode: res.ReturnCode,
			Timeout:    res.TimedOut,
			Traceback:  res.Traceback,
		},
	}, nil
}

// History returns the runs recorded on day (YYYYMMDD). An empty day means
// today, which may be empty; an explicit day with no runs is NotFound.
func (s *RunService) History(ctx context.Context, day string) (*model.HistoryDay, error) {
	explicit := day != ""
	if !explicit {
		day = s.now().Format(repository.DayLayout)
	} else if _, err := time.Parse(repository.DayLayout, day); err != nil {
		return nil, apperror.ValidationFailed("date", "date must be YYYYMMDD")
	}

	entries, err := s.history.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if explicit && len(entries) == 0 {
		return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "no history for date"}
	}
	return &model.HistoryDay{History: entries}, nil
}
