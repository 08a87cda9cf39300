/*
handlers.go - HTTP handlers for the detection API

PURPOSE:
  Implements the HTTP endpoints. Handlers follow a standard pattern:
  1. Parse and validate input
  2. Call domain logic (loader, detection)
  3. Serialize response
  4. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed CSV input
  - 500: Internal errors

INPUT SOURCES:
  A detection request carries either a multipart CSV upload ("file") or
  nothing, in which case the configured SQLite record source is used.
  Requests with neither are rejected.
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/warp/payroll-auditor/loader"
	"github.com/warp/payroll-auditor/payroll"
	"github.com/warp/payroll-auditor/report"
	"github.com/warp/payroll-auditor/store/sqlite"
)

// maxUploadBytes caps in-memory buffering of multipart uploads (32 MiB).
const maxUploadBytes = 32 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	// Source is the optional SQLite record source used when a request
	// carries no upload. May be nil.
	Source *sqlite.Source
}

// NewHandler creates a handler. source may be nil for upload-only serving.
func NewHandler(source *sqlite.Source) *Handler {
	return &Handler{Source: source}
}

// Health responds to liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok"})
}

// RunDetection runs one detection over an uploaded CSV or the configured
// record source and returns the anomaly report as JSON.
func (h *Handler) RunDetection(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req, err := parseDetectionRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := h.dataset(r)
	if err != nil {
		status := http.StatusBadRequest
		if !isInputError(err) {
			status = http.StatusInternalServerError
			log.Printf("detection input failed: %v", err)
		}
		writeError(w, status, err.Error())
		return
	}

	result, err := payroll.DetectParallel(r.Context(), ds.Store(), req.Reference, req.Workers)
	if err != nil {
		if payroll.IsClientError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("detection failed: %v", err)
		writeError(w, http.StatusInternalServerError, "detection failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := report.New(ds.Employees).WriteJSON(w, result); err != nil {
		log.Printf("writing detection response: %v", err)
	}
}

// dataset resolves the input records: uploaded CSV first, stored source
// as the fallback.
func (h *Handler) dataset(r *http.Request) (*loader.Dataset, error) {
	file, _, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		return loader.Load(file)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		if h.Source == nil {
			return nil, errNoInput
		}
		return h.Source.LoadAll(r.Context())
	default:
		return nil, err
	}
}

var errNoInput = errors.New("no file uploaded and no record source configured")

func isInputError(err error) bool {
	return errors.Is(err, loader.ErrMalformedRow) ||
		errors.Is(err, loader.ErrMissingColumn) ||
		errors.Is(err, errNoInput) ||
		payroll.IsClientError(err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorDTO{Error: msg})
}
