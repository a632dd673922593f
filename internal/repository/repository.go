// Package repository declares the storage interfaces. Implementations live in
// subpackages (sqlite); callers depend only on these interfaces.
package repository

import (
	"context"

	"github.com/sakif/pysnap/internal/model"
)

// DayLayout is the format of history day keys, e.g. "20250131".
const DayLayout = "20060102"

// HistoryRepository stores one entry per run on the execution service.
type HistoryRepository interface {
	Record(ctx context.Context, entry *model.HistoryEntry) error
	// ListByDay returns the entries recorded on day (DayLayout), oldest first.
	ListByDay(ctx context.Context, day string) ([]model.HistoryEntry, error)
}

// PreferenceRepository is a string key/value store that survives restarts.
// It plays the role browser local storage plays for a web client.
type PreferenceRepository interface {
	// Get returns apperror.ErrNotFound when key has never been set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
