package model

import (
	"encoding/json"
	"time"
)

// HistoryEntry records one run on the service side.
//
// The JSON shape mirrors what /history has always returned:
//
//	{"timestamp": 1700000000000, "filename": "1700000000000.py",
//	 "execution": {...}, "meta": {...}}
type HistoryEntry struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"-"`
	Timestamp int64            `json:"timestamp"` // unix milliseconds
	Filename  string           `json:"filename"`
	Execution HistoryExecution `json:"execution"`
	Meta      HistoryMeta      `json:"meta"`
}

type HistoryExecution struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ReturnCode *int   `json:"returncode"`
	Timeout    bool   `json:"timeout"`
}

type HistoryMeta struct {
	Imports        []string `json:"imports"`
	FoundImports   []string `json:"found_imports"`
	MissingImports []string `json:"missing_imports"`
	TimeoutSec     float64  `json:"timeout_sec"`
	TimeoutEnabled bool     `json:"timeout_enabled"`
	SafeCheck      bool     `json:"safe_check"`
}

// HistoryDay is the "data" payload of GET /history.
type HistoryDay struct {
	History []HistoryEntry `json:"history"`
}

// HistoryResponse is the body of GET /history. Data is kept raw on the
// client: it is only pretty-printed, never interpreted.
type HistoryResponse struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}
