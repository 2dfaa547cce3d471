package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"plantcore/internal/blob"
	"plantcore/internal/core"
	"plantcore/internal/infra/persistence/memory"
)

func newExportHandler(t *testing.T, blobs blob.Store) *Handler {
	t.Helper()
	store := memory.NewStore()
	t.Cleanup(func() { _ = store.Close() })
	service := core.NewService(store)
	exporter := NewExporter(service, blobs)
	exporter.now = func() time.Time {
		return time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)
	}
	return NewHandler(service, WithExporter(exporter))
}

func TestExportStreamCSV(t *testing.T) {
	h := newExportHandler(t, nil)
	createSample(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/samples/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "samples-20240305T123000Z.csv") {
		t.Fatalf("disposition %q", cd)
	}

	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	wantHeader := []string{"sample_id", "date_of_sampling", "plant_sample_detail", "sampling_location", "environmental_conditions", "location_id", "researcher_id"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	row := records[1]
	if row[0] != "1" || row[1] != "2024-03-05" {
		t.Fatalf("unexpected row %v", row)
	}
	if !strings.Contains(row[2], "Quercus robur") {
		t.Fatalf("detail column missing payload: %q", row[2])
	}
}

func TestExportStreamJSON(t *testing.T) {
	h := newExportHandler(t, nil)
	createSample(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/samples/export?format=json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	var samples []core.PlantSample
	if err := json.Unmarshal(rec.Body.Bytes(), &samples); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(samples) != 1 || samples[0].SampleID != 1 {
		t.Fatalf("unexpected export %v", samples)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	h := newExportHandler(t, nil)
	rec := doRequest(t, h, http.MethodGet, "/api/samples/export?format=xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["error"] != "unsupported export format" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestExportMaterializeCSV(t *testing.T) {
	blobs := blob.NewMemory()
	h := newExportHandler(t, blobs)
	createSample(t, h)
	createSample(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/samples/export", `{"format": "csv"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	export := body["export"].(map[string]any)
	key, _ := export["key"].(string)
	if key != "exports/samples-20240305T123000Z.csv" {
		t.Fatalf("unexpected key %q", key)
	}

	info, rc, err := blobs.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("stored object: %v", err)
	}
	defer func() { _ = rc.Close() }()
	if info.ContentType != "text/csv" {
		t.Fatalf("content type %q", info.ContentType)
	}
	if info.Metadata["rows"] != "2" {
		t.Fatalf("row metadata %v", info.Metadata)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse stored csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(records))
	}
}

func TestExportMaterializeDefaultsToCSV(t *testing.T) {
	blobs := blob.NewMemory()
	h := newExportHandler(t, blobs)

	rec := doRequest(t, h, http.MethodPost, "/api/samples/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	export := decodeBody(t, rec)["export"].(map[string]any)
	if !strings.HasSuffix(export["key"].(string), ".csv") {
		t.Fatalf("unexpected key %v", export["key"])
	}
}

func TestExportMaterializeWithoutBlobStore(t *testing.T) {
	h := newExportHandler(t, nil)
	rec := doRequest(t, h, http.MethodPost, "/api/samples/export", `{"format": "json"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["error"] != "blob store not configured" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
