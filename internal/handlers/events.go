package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"ingresso-platform/internal/middleware"
	"ingresso-platform/internal/models"
	"ingresso-platform/internal/repositories"
	"ingresso-platform/internal/services"
)

// EventHandler serves the public catalog and the organizer surface
type EventHandler struct {
	eventService *services.EventService
	logger       *logrus.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, logger *logrus.Logger) *EventHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &EventHandler{eventService: eventService, logger: logger}
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := repositories.EventSearchFilters{
		State:    q.Get("state"),
		City:     q.Get("city"),
		Category: q.Get("category"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filters.Offset = offset
	}

	events, err := h.eventService.SearchEvents(r.Context(), filters)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// ListTicketTypes handles GET /api/events/{id}/ticket-types
func (h *EventHandler) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"ticket_types": event.TicketTypes})
}

// CreateEvent handles POST /api/organizer/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	var req models.EventCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), claims.UserID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// ListOrganizerEvents handles GET /api/organizer/events
func (h *EventHandler) ListOrganizerEvents(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	events, err := h.eventService.ListOrganizerEvents(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

// CreateTicketType handles POST /api/organizer/ticket-types
func (h *EventHandler) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())

	var req models.TicketTypeCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	tt, err := h.eventService.CreateTicketType(r.Context(), claims.UserID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, tt)
}

func urlParamInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || value <= 0 {
		return 0, models.ErrInvalidRequest
	}
	return value, nil
}
