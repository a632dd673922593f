package handler

// RESPONSE HELPERS:
// Every body this service sends is a JSON object with an "ok" flag:
//
//	{"ok": true, ...payload}
//	{"ok": false, "error": "safety check failed: import of module os is not allowed"}
//
// Clients decode the body whatever the status code and branch on ok, so the
// status code is a hint for humans and proxies, not part of the contract.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/pysnap/internal/apperror"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body is written; once Encode
// starts writing, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// The headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and an ok:false body.
//
// ERROR MAPPING:
// The service layer returns apperror sentinels; this is the only place they
// become status codes. errors.Is walks the whole chain, so wrapping with
// fmt.Errorf("...: %w", err) on the way up keeps the mapping intact.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest // 400
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden // 403
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
		}
		writeJSON(w, status, ErrorResponse{OK: false, Error: appErr.Message})
		return
	}

	// Unknown error: return a generic 500.
	// The raw message might contain file paths or other internal details.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		OK:    false,
		Error: "an internal error occurred",
	})
}
