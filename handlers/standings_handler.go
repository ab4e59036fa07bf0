package handlers

import (
	"net/http"

	"github.com/esportsfed/platform/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

// GetFederationTable serves the federation-wide ranking table.
func (h *StandingsHandler) GetFederationTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.standingsService.FederationTable(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
