package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
)

type EventsHandler struct {
	Service *venues.Service
	Env     string
}

func NewEventsHandler(service *venues.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

// eventVenue is the answer to "which venue holds this event".
type eventVenue struct {
	EventID string `json:"event_id"`
	VenueID string `json:"venue_id"`
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[venues.Event]{Items: list})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	event, err := h.Service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Edit merges the supplied fields into the event. Both PATCH and PUT land here.
func (h *EventsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	var params venues.EditEventParams
	if err := decodeJSON(r, &params); err != nil {
		writeDecodeError(w, r, err, h.Env)
		return
	}
	event, err := h.Service.EditEvent(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	if err := h.Service.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventsHandler) Venue(w http.ResponseWriter, r *http.Request) {
	id, ok := ValidateAndExtractULID(w, r, "id", h.Env)
	if !ok {
		return
	}
	venueID, err := h.Service.FindVenueOfEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, eventVenue{EventID: id, VenueID: venueID})
}
