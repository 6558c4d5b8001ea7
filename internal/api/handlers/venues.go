package handlers

import (
	"net/http"
	"strings"

	"github.com/Togather-Foundation/venues/internal/api/problem"
	"github.com/Togather-Foundation/venues/internal/domain/venues"
)

// IdempotencyKeyHeader carries a caller-chosen event ULID on event creation.
// Re-sending the same key re-drives an interrupted creation instead of
// creating a second event.
const IdempotencyKeyHeader = "Idempotency-Key"

type VenuesHandler struct {
	Service *venues.Service
	Env     string
	BaseURL string
}

func NewVenuesHandler(service *venues.Service, env, baseURL string) *VenuesHandler {
	return &VenuesHandler{Service: service, Env: env, BaseURL: baseURL}
}

func (h *VenuesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListVenues(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[venues.Venue]{Items: list})
}

func (h *VenuesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params venues.CreateVenueParams
	if err := decodeJSON(r, &params); err != nil {
		writeDecodeError(w, r, err, h.Env)
		return
	}

	venue, err := h.Service.CreateVenue(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	w.Header().Set("Location", resourceURL(h.BaseURL, "/api/v1/venues/"+venue.ID))
	writeJSON(w, http.StatusCreated, venue)
}

func (h *VenuesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	venue, err := h.Service.GetVenue(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (h *VenuesHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	var params venues.RenameVenueParams
	if err := decodeJSON(r, &params); err != nil {
		writeDecodeError(w, r, err, h.Env)
		return
	}
	venue, err := h.Service.RenameVenue(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

func (h *VenuesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	if err := h.Service.DeleteVenue(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events lists the events held by a venue in the venue's order.
func (h *VenuesHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	list, err := h.Service.VenueEvents(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[venues.Event]{Items: list})
}

// CreateEvent creates a new event scheduled in the venue.
func (h *VenuesHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	venueID, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	var params venues.CreateEventParams
	if err := decodeJSON(r, &params); err != nil {
		writeDecodeError(w, r, err, h.Env)
		return
	}

	if key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)); key != "" {
		if params.ID != "" && !strings.EqualFold(params.ID, key) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request",
				FilterError{Field: "id", Message: "does not match " + IdempotencyKeyHeader}, h.Env)
			return
		}
		params.ID = key
	}

	event, err := h.Service.CreateEventInVenue(r.Context(), venueID, params)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	w.Header().Set("Location", resourceURL(h.BaseURL, "/api/v1/events/"+event.ID))
	writeJSON(w, http.StatusCreated, event)
}

func (h *VenuesHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	venueID, eventID, ok := h.placementIDs(w, r)
	if !ok {
		return
	}
	placed, err := h.Service.Schedule(r.Context(), venueID, eventID)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, placed)
}

func (h *VenuesHandler) Unschedule(w http.ResponseWriter, r *http.Request) {
	venueID, eventID, ok := h.placementIDs(w, r)
	if !ok {
		return
	}
	placed, err := h.Service.Unschedule(r.Context(), venueID, eventID)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, placed)
}

func (h *VenuesHandler) placementIDs(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	venueID, ok := ValidateAndExtractULID(w, r, "venueId", h.Env)
	if !ok {
		return "", "", false
	}
	eventID, ok := ValidateAndExtractULID(w, r, "eventId", h.Env)
	if !ok {
		return "", "", false
	}
	return venueID, eventID, true
}
