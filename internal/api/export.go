package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plantcore/internal/blob"
	"plantcore/internal/core"
	"plantcore/pkg/domain"
)

// ExportFormat identifies a dataset export encoding.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// Exporter renders the full sample table as CSV or JSON, either streamed to
// the client or materialized into a blob store. Exports run synchronously
// inside the request; there is no queue or background worker.
type Exporter struct {
	service *core.Service
	blobs   blob.Store
	now     func() time.Time
}

// NewExporter constructs an exporter. The blob store may be nil, which
// disables materialized exports while keeping streaming available.
func NewExporter(service *core.Service, blobs blob.Store) *Exporter {
	return &Exporter{service: service, blobs: blobs, now: time.Now}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.exports.handleStream(w, r)
	case http.MethodPost:
		h.exports.handleMaterialize(w, r, h)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (e *Exporter) handleStream(w http.ResponseWriter, r *http.Request) {
	format, ok := negotiateFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported export format")
		return
	}
	samples, err := e.service.ListSamples(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := e.exportFilename(format)
	switch format {
	case FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_ = writeCSV(w, samples)
	case FormatJSON:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_ = json.NewEncoder(w).Encode(samples)
	}
}

type materializeRequest struct {
	Format string `json:"format"`
}

func (e *Exporter) handleMaterialize(w http.ResponseWriter, r *http.Request, h *Handler) {
	if e.blobs == nil {
		writeError(w, http.StatusInternalServerError, "blob store not configured")
		return
	}
	var req materializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid export request payload")
		return
	}
	format, ok := negotiateFormat(req.Format)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported export format")
		return
	}

	samples, err := e.service.ListSamples(r.Context())
	if err != nil {
		h.writeOperationError(w, r, err)
		return
	}
	info, err := e.materialize(r, format, samples)
	if err != nil {
		h.logger.Error("sample export failed", "format", string(format), "error", err.Error())
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "export": info})
}

func (e *Exporter) materialize(r *http.Request, format ExportFormat, samples []core.PlantSample) (blob.Info, error) {
	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case FormatCSV:
		if err := writeCSV(&buf, samples); err != nil {
			return blob.Info{}, fmt.Errorf("encode csv: %w", err)
		}
		contentType = "text/csv"
	case FormatJSON:
		if err := json.NewEncoder(&buf).Encode(samples); err != nil {
			return blob.Info{}, fmt.Errorf("encode json: %w", err)
		}
		contentType = "application/json"
	}

	key := "exports/" + e.exportFilename(format)
	info, err := e.blobs.Put(r.Context(), key, &buf, blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"rows": strconv.Itoa(len(samples))},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store export: %w", err)
	}
	if url, err := e.blobs.PresignURL(r.Context(), key, blob.SignedURLOptions{}); err == nil {
		info.URL = url
	}
	return info, nil
}

func (e *Exporter) exportFilename(format ExportFormat) string {
	return fmt.Sprintf("samples-%s.%s", e.now().UTC().Format("20060102T150405Z"), format)
}

func negotiateFormat(wanted string) (ExportFormat, bool) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(wanted))) {
	case FormatCSV, "":
		return FormatCSV, true
	case FormatJSON:
		return FormatJSON, true
	}
	return "", false
}

var csvHeader = append([]string{"sample_id"}, domain.Columns()...)

func writeCSV(w io.Writer, samples []core.PlantSample) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		record := []string{
			strconv.FormatInt(s.SampleID, 10),
			s.DateOfSampling,
			string(s.PlantSampleDetail),
			string(s.SamplingLocation),
			string(s.EnvironmentalConditions),
			strconv.FormatInt(s.LocationID, 10),
			strconv.FormatInt(s.ResearcherID, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
