package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{name: "implicit 200", status: 0, body: `{"ok":true}`, wantLevel: "INFO"},
		{name: "client error", status: http.StatusNotFound, body: "nope", wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, body: "", wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			h := chimiddleware.RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte(tt.body))
			})))

			req := httptest.NewRequest(http.MethodGet, "/files", nil)
			req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
			h.ServeHTTP(httptest.NewRecorder(), req)

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, "req-42", line["request_id"])
			assert.Equal(t, "/files", line["path"])
			assert.Equal(t, float64(wantStatus), line["status"])
			assert.Equal(t, float64(len(tt.body)), line["bytes"])
		})
	}
}
