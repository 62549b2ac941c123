package handlers

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	CountTables int       `json:"countTables"`
	Timestamp   time.Time `json:"timestamp"`
}

// Health reports liveness together with a schema probe against the database.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.CountTables(r.Context())
	if err != nil {
		h.writeServiceErrorStatus(w, r, err, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, "TripMate API is running", HealthResponse{
		CountTables: count,
		Timestamp:   time.Now().UTC(),
	}, http.StatusOK)
}
