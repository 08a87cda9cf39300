/*
dto.go - Request parsing and error envelopes for the detection API

PURPOSE:
  Decouples the HTTP surface from the domain model. Detection results
  themselves are serialized by the report package, which owns the JSON
  contract shared by the CLI and the API; this file covers the request
  side and error responses.

VALIDATION:
  Validation is done in handlers; DTOs are pure data carriers.
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/warp/payroll-auditor/payroll"
)

// DetectionRequest is the parsed form of a POST /api/detections call.
type DetectionRequest struct {
	Reference payroll.Period
	Workers   int
}

// parseDetectionRequest reads year/month (required) and workers
// (optional) from the request form.
func parseDetectionRequest(r *http.Request) (DetectionRequest, error) {
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		return DetectionRequest{}, &badRequestError{"year must be an integer"}
	}
	month, err := strconv.Atoi(r.FormValue("month"))
	if err != nil {
		return DetectionRequest{}, &badRequestError{"month must be an integer"}
	}
	reference, err := payroll.NewPeriod(year, month)
	if err != nil {
		return DetectionRequest{}, &badRequestError{"month must be between 1 and 12"}
	}

	workers := 0
	if w := r.FormValue("workers"); w != "" {
		workers, err = strconv.Atoi(w)
		if err != nil {
			return DetectionRequest{}, &badRequestError{"workers must be an integer"}
		}
	}
	return DetectionRequest{Reference: reference, Workers: workers}, nil
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

// ErrorDTO is the JSON error envelope for all failure responses.
type ErrorDTO struct {
	Error string `json:"error"`
}

// HealthDTO is the liveness probe response.
type HealthDTO struct {
	Status string `json:"status"`
}
