// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"

	repository "github.com/hirelens/hirestats/internal/adapters/repository"
	"github.com/hirelens/hirestats/pkg/metrics"
)

// LookupHandler handles days-to-hire stats lookups.
type LookupHandler struct {
	deps Dependencies
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(deps Dependencies) *LookupHandler {
	return &LookupHandler{deps: deps}
}

// HandleGetStats handles GET /stats/days-to-hire requests.
// Query parameters: standard_job_id (required), country_code (optional;
// absent means the worldwide aggregate).
func (h *LookupHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	standardJobID := q.Get("standard_job_id")
	if standardJobID == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: missing standard_job_id", ErrBadRequest))
		return
	}

	var countryCode *string
	if code := q.Get("country_code"); code != "" {
		countryCode = &code
	}

	entry, err := h.deps.Lookup(r.Context(), standardJobID, countryCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordLookupNotFound()
			writeError(w, http.StatusNotFound, "not_found",
				fmt.Errorf("no days to hire stats for job %q and country %q",
					standardJobID, countryLabel(countryCode)))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func countryLabel(countryCode *string) string {
	if countryCode == nil {
		return "world"
	}
	return *countryCode
}
