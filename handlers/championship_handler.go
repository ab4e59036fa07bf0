package handlers

import (
	"net/http"
	"time"

	"github.com/esportsfed/platform/middleware"
	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/services"
)

type ChampionshipHandler struct {
	championshipService services.ChampionshipService
	standingsService    services.StandingsService
}

func NewChampionshipHandler(
	championshipService services.ChampionshipService,
	standingsService services.StandingsService,
) *ChampionshipHandler {
	return &ChampionshipHandler{
		championshipService: championshipService,
		standingsService:    standingsService,
	}
}

func (h *ChampionshipHandler) CreateChampionship(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name                 string    `json:"name"`
		Description          *string   `json:"description"`
		Discipline           string    `json:"discipline"`
		SlotsTotal           int       `json:"slots_total"`
		RegistrationDeadline time.Time `json:"registration_deadline"`
		StartDate            time.Time `json:"start_date"`
		EndDate              time.Time `json:"end_date"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	championship, err := h.championshipService.CreateChampionship(r.Context(), services.CreateChampionshipInput{
		Name:                 input.Name,
		Description:          input.Description,
		Discipline:           input.Discipline,
		OrganizerID:          organizerID,
		SlotsTotal:           input.SlotsTotal,
		RegistrationDeadline: input.RegistrationDeadline,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) GetChampionship(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.GetChampionshipDetails(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) ListChampionships(w http.ResponseWriter, r *http.Request) {
	limit, offset := readPagination(r)

	championships, err := h.championshipService.ListChampionships(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championships": championships}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) UpdateChampionship(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name                 *string    `json:"name"`
		Description          *string    `json:"description"`
		Discipline           *string    `json:"discipline"`
		SlotsTotal           *int       `json:"slots_total"`
		RegistrationDeadline *time.Time `json:"registration_deadline"`
		StartDate            *time.Time `json:"start_date"`
		EndDate              *time.Time `json:"end_date"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.UpdateChampionship(r.Context(), id, services.UpdateChampionshipInput{
		Name:                 input.Name,
		Description:          input.Description,
		Discipline:           input.Discipline,
		SlotsTotal:           input.SlotsTotal,
		RegistrationDeadline: input.RegistrationDeadline,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.UpdateStatus(r.Context(), id, models.ChampionshipStatus(input.Status))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.standingsService.ChampionshipTable(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	championship, err := h.championshipService.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChampionshipHandler) DeleteChampionship(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.championshipService.DeleteChampionship(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
