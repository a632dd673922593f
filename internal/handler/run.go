package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/pysnap/internal/model"
	"github.com/sakif/pysnap/internal/service"
)

// Runner is the part of service.RunService the handler needs.
type Runner interface {
	Run(ctx context.Context, req model.ExecutionRequest) (*model.RunResponse, error)
	History(ctx context.Context, day string) (*model.HistoryDay, error)
}

// RunHandler serves POST /run and GET /history.
type RunHandler struct {
	runs   Runner
	logger *slog.Logger
}

func NewRunHandler(runs Runner, logger *slog.Logger) *RunHandler {
	return &RunHandler{runs: runs, logger: logger}
}

// HandleRun executes submitted code.
//
// HTTP: POST /run
// REQUEST BODY: {"code": "print(1)", "timeout": 5, "timeout_enabled": true}
//
// Omitted fields take the defaults timeout=5 and timeout_enabled=true, which
// is why the request struct is pre-filled before decoding.
func (h *RunHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	req := model.ExecutionRequest{
		TimeoutSeconds: service.DefaultTimeoutSeconds,
		TimeoutEnabled: true,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid run request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	resp, err := h.runs.Run(r.Context(), req)
	if err != nil {
		h.logger.Info("run rejected", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	OK   bool              `json:"ok"`
	Data *model.HistoryDay `json:"data"`
}

// HandleHistory returns one day of run history.
//
// HTTP: GET /history?date=YYYYMMDD (date optional, defaults to today)
func (h *RunHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	day, err := h.runs.History(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{OK: true, Data: day})
}
