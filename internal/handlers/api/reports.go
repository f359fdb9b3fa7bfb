package api

import (
	"net/http"
	"time"

	"github.com/lopez-it-welt/worktrack/internal/models"
	"github.com/lopez-it-welt/worktrack/internal/services/tracker"
)

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	input := &tracker.GetStatsInput{}

	if raw := r.URL.Query().Get("reference"); raw != "" {
		reference, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			renderJSON(w, http.StatusBadRequest, errorResponse{Error: "reference must be RFC 3339"})
			return
		}
		input.Reference = reference
	}

	output, err := h.trackerService.GetStats(r.Context(), input)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output.Stats)
}

type billableEntriesResponse struct {
	Entries       []*models.Session `json:"entries"`
	TotalMinutes  int               `json:"total_minutes"`
	BilledMinutes int               `json:"billed_minutes"`
}

func (h *Handler) billableEntries(w http.ResponseWriter, r *http.Request) {
	output, err := h.trackerService.BillableEntries(r.Context(), &tracker.BillableEntriesInput{})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, billableEntriesResponse{
		Entries:       output.Entries,
		TotalMinutes:  output.TotalMinutes,
		BilledMinutes: output.BilledMinutes,
	})
}
