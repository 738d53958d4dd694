// Package server exposes completed searches over HTTP: the exported workbook
// download and the recorded run summary.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "business-locator/internal/common/errors"
	"business-locator/internal/common/logger"
	"business-locator/internal/export"
	"business-locator/internal/store"
	"business-locator/pkg/registry"
)

type ExportLoader interface {
	Load(ctx context.Context, searchID string) (*store.StoredExport, error)
}

type RunReader interface {
	Get(ctx context.Context, id string) (*store.SearchRun, error)
}

// Pinger is anything /ready should check.
type Pinger func(ctx context.Context) error

type Handler struct {
	exports ExportLoader
	runs    RunReader
	checks  map[string]Pinger
	logger  logger.Logger

	activities *registry.ActivityRegistry
}

func NewHandler(exports ExportLoader, runs RunReader, checks map[string]Pinger, log logger.Logger) *Handler {
	return &Handler{
		exports: exports,
		runs:    runs,
		checks:  checks,
		logger:  log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// WithActivities serves reg on GET /activities.
func (h *Handler) WithActivities(reg *registry.ActivityRegistry) *Handler {
	h.activities = reg
	return h
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /ready", h.ready)
	mux.HandleFunc("GET /exports/{searchId}", h.downloadExport)
	mux.HandleFunc("GET /searches/{searchId}", h.getSearch)
	if h.activities != nil {
		mux.HandleFunc("GET /activities", h.listActivities)
	}
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.activities)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"failed": failed,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) downloadExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("searchId")

	exp, err := h.exports.Load(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(exp.Content); err != nil {
		h.logger.Warn("export download interrupted", map[string]interface{}{
			"searchId": id,
			"error":    err,
		})
	}
}

func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("searchId")

	run, err := h.runs.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if run == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"code":    "SEARCH_NOT_FOUND",
			"message": "no search run with id " + id,
		})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.Normalize(err)

	status := http.StatusInternalServerError
	if stdErr.Code == apperrors.ErrCodeExportNotFound {
		status = http.StatusNotFound
	} else {
		h.logger.Error("request failed", map[string]interface{}{
			"code":  stdErr.Code,
			"error": err,
		})
	}

	writeJSON(w, status, map[string]string{
		"code":    string(stdErr.Code),
		"message": stdErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
