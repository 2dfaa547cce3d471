// Package api provides the HTTP surface over the sample service: the five
// CRUD operations plus dataset export, all answering the uniform JSON
// envelope.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"plantcore/internal/core"
)

const samplesPrefix = "/api/samples"

// Handler routes sample requests to the service. Every response body is
// JSON: `{success, ...}` on success, `{error: <message>}` on failure.
type Handler struct {
	service *core.Service
	exports *Exporter
	logger  core.Logger
}

// Option configures optional handler collaborators.
type Option func(*Handler)

// WithLogger overrides the default no-op logger.
func WithLogger(logger core.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithExporter enables the export endpoints.
func WithExporter(exports *Exporter) Option {
	return func(h *Handler) {
		h.exports = exports
	}
}

// NewHandler constructs the sample HTTP handler.
func NewHandler(service *core.Service, opts ...Option) *Handler {
	h := &Handler{service: service, logger: nopLogger{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusInternalServerError, "sample service not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == samplesPrefix:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleList(w, r)
	case path == samplesPrefix+"/add":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleCreate(w, r)
	case path == samplesPrefix+"/export":
		if h.exports == nil {
			http.NotFound(w, r)
			return
		}
		h.handleExport(w, r)
	case strings.HasPrefix(path, samplesPrefix+"/"):
		h.handleSample(w, r, strings.TrimPrefix(path, samplesPrefix+"/"))
	default:
		http.NotFound(w, r)
	}
}

// handleSample dispatches the id-scoped routes: get, update, delete.
func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request, remainder string) {
	segments := strings.Split(remainder, "/")
	id, err := strconv.ParseInt(segments[0], 10, 64)
	if err != nil {
		// a non-integer id never matches a route
		http.NotFound(w, r)
		return
	}

	switch {
	case len(segments) == 1:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleGet(w, r, id)
	case len(segments) == 2 && segments[1] == "update":
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleUpdate(w, r, id)
	case len(segments) == 2 && segments[1] == "delete":
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleDelete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	samples, err := h.service.ListSamples(r.Context())
	if err != nil {
		h.writeOperationError(w, r, err)
		return
	}
	if samples == nil {
		samples = []core.PlantSample{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": samples})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input core.SampleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	id, err := h.service.CreateSample(r.Context(), input)
	if err != nil {
		h.writeOperationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sample_id": id,
		"message":   "Sample added successfully",
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	sample, err := h.service.GetSample(r.Context(), id)
	if err != nil {
		h.writeOperationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": sample})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	var patch core.SamplePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.service.UpdateSample(r.Context(), id, patch); err != nil {
		h.writeOperationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Sample updated successfully"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.service.DeleteSample(r.Context(), id); err != nil {
		h.writeOperationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Sample deleted successfully"})
}

// writeOperationError converts a service error into the envelope. Only the
// enumerated client errors use 4xx statuses; everything else, connection
// failures included, is a 500 with the underlying message surfaced.
func (h *Handler) writeOperationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr core.ValidationError
	var nf core.ErrNotFound
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Reason)
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, "Sample not found")
	default:
		h.logger.Error("sample operation failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
