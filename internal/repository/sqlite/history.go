package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/repository"
)

var _ repository.HistoryRepository = (*DB)(nil)

// Record inserts entry, filling in ID, CreatedAt and Timestamp when unset.
//
// The import lists are stored as JSON text columns; SQLite has no array type
// and nothing ever queries inside them.
func (db *DB) Record(ctx context.Context, entry *model.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = xid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = entry.CreatedAt.UnixMilli()
	}

	imports, err := encodeList(entry.Meta.Imports)
	if err != nil {
		return err
	}
	found, err := encodeList(entry.Meta.FoundImports)
	if err != nil {
		return err
	}
	missing, err := encodeList(entry.Meta.MissingImports)
	if err != nil {
		return err
	}

	var returnCode sql.NullInt64
	if entry.Execution.ReturnCode != nil {
		returnCode = sql.NullInt64{Int64: int64(*entry.Execution.ReturnCode), Valid: true}
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO runs (id, day, created_at, timestamp_ms, filename, stdout, stderr,
		                   returncode, timed_out, imports, found_imports, missing_imports,
		                   timeout_sec, timeout_enabled, safe_check)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CreatedAt.Format(repository.DayLayout),
		entry.CreatedAt,
		entry.Timestamp,
		entry.Filename,
		entry.Execution.Stdout,
		entry.Execution.Stderr,
		returnCode,
		entry.Execution.Timeout,
		imports,
		found,
		missing,
		entry.Meta.TimeoutSec,
		entry.Meta.TimeoutEnabled,
		entry.Meta.SafeCheck,
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording run %s: %w", entry.ID, err)
	}
	return nil
}

// ListByDay returns the runs recorded on day, oldest first.
func (db *DB) ListByDay(ctx context.Context, day string) ([]model.HistoryEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, created_at, timestamp_ms, filename, stdout, stderr, returncode, timed_out,
		        imports, found_imports, missing_imports, timeout_sec, timeout_enabled, safe_check
		 FROM runs
		 WHERE day = ?
		 ORDER BY timestamp_ms ASC, id ASC`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing runs for %s: %w", day, err)
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var (
			e                       model.HistoryEntry
			returnCode              sql.NullInt64
			imports, found, missing string
		)
		if err := rows.Scan(
			&e.ID, &e.CreatedAt, &e.Timestamp, &e.Filename,
			&e.Execution.Stdout, &e.Execution.Stderr, &returnCode, &e.Execution.Timeout,
			&imports, &found, &missing,
			&e.Meta.TimeoutSec, &e.Meta.TimeoutEnabled, &e.Meta.SafeCheck,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning run row: %w", err)
		}
		if returnCode.Valid {
			rc := int(returnCode.Int64)
			e.Execution.ReturnCode = &rc
		}
		if err := decodeList(imports, &e.Meta.Imports); err != nil {
			return nil, err
		}
		if err := decodeList(found, &e.Meta.FoundImports); err != nil {
			return nil, err
		}
		if err := decodeList(missing, &e.Meta.MissingImports); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating runs: %w", err)
	}

	return entries, nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string, dst *[]string) error {
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("sqlite: decoding list: %w", err)
	}
	return nil
}
