package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/pysnap/internal/model"
)

// Files is the part of service.FileService the handler needs.
type Files interface {
	List(limit int) ([]model.FileArtifact, error)
	Read(name string) (string, error)
	Path(name string) (string, error)
	Clear() (int, error)
}

// FilesHandler serves the temp-file endpoints.
type FilesHandler struct {
	files  Files
	logger *slog.Logger
}

func NewFilesHandler(files Files, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{files: files, logger: logger}
}

// HandleList returns saved runs, newest first.
//
// HTTP: GET /files?limit=100
func (h *FilesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a number"})
			return
		}
		limit = n
	}

	files, err := h.files.List(limit)
	if err != nil {
		h.logger.Error("listing temp files", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FilesResponse{OK: true, Files: files})
}

// HandleGet returns one file's content.
//
// HTTP: GET /file/{name}
//
// chi.URLParam returns the decoded path segment, so a client that
// percent-encodes "my file.py" gets the right file.
func (h *FilesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	content, err := h.files.Read(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FileResponse{OK: true, Name: name, Content: content})
}

// HandleDownload sends the raw file as an attachment.
//
// HTTP: GET /download/{name}
func (h *FilesHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := h.files.Path(name)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/x-python")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	http.ServeFile(w, r, path)
}

// HandleClear deletes every saved run.
//
// HTTP: DELETE /clear
func (h *FilesHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	n, err := h.files.Clear()
	if err != nil {
		h.logger.Error("clearing temp files", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ClearResponse{OK: true, Deleted: n})
}
