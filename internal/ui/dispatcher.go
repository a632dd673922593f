package ui

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/sakif/pysnap/internal/apperror"
)

// Action handles one named user action. arg is the action's optional
// argument (a file name, a date, a theme...).
type Action func(ctx context.Context, arg string) error

// Dispatcher maps action names to handlers. Handlers know nothing about the
// input device, so every one of them can be driven directly from a test.
type Dispatcher struct {
	mu      sync.RWMutex
	actions map[string]Action
	logger  *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		actions: make(map[string]Action),
		logger:  logger,
	}
}

// Register binds name to fn, replacing any previous binding.
func (d *Dispatcher) Register(name string, fn Action) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions[name] = fn
}

// Dispatch runs the action bound to name. Handler errors have already been
// surfaced to the user by the component, so they are only logged here and
// passed back.
func (d *Dispatcher) Dispatch(ctx context.Context, name, arg string) error {
	d.mu.RLock()
	fn, ok := d.actions[name]
	d.mu.RUnlock()
	if !ok {
		return apperror.NotFound("action", name)
	}

	err := fn(ctx, arg)
	if err != nil {
		d.logger.Debug("action failed",
			slog.String("action", name),
			slog.String("arg", arg),
			slog.String("error", err.Error()),
		)
	}
	return err
}

// Actions lists the registered action names, sorted.
func (d *Dispatcher) Actions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.actions))
	for name := range d.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
