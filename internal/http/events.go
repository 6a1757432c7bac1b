package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/slogx"
)

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Price       int       `json:"price"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Price:       e.Price,
	}
}

type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Price       int       `json:"price"`
}

type updateEventRequest struct {
	Description string `json:"description"`
}

// EventsHandler serves /api/categories/{categoryId}/events. Every route
// resolves the event through its parent category; an event reached through
// the wrong category is a 404.
type EventsHandler struct {
	Events *service.EventService
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}

	events, err := h.Events.List(ctx, categoryID)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "category not found")
			return
		}
		slogx.FromContext(ctx).Error("list events failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventId", "event")
	if !ok {
		return
	}

	event, err := h.Events.Get(ctx, categoryID, eventID)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "event not found")
			return
		}
		slogx.FromContext(ctx).Error("get event failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}

	var req createEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	if req.EndDate.Before(req.StartDate) {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "endDate must not precede startDate")
		return
	}

	event, err := h.Events.Create(ctx, categoryID, domain.Event{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Price:       req.Price,
	}, httpx.UserIDFromContext(ctx))
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "category not found")
			return
		}
		slogx.FromContext(ctx).Error("create event failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventId", "event")
	if !ok {
		return
	}

	var req updateEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.Events.UpdateDescription(ctx, categoryID, eventID, req.Description)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "event not found")
			return
		}
		slogx.FromContext(ctx).Error("update event failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventId", "event")
	if !ok {
		return
	}

	if err := h.Events.Delete(ctx, categoryID, eventID); err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "event not found")
			return
		}
		slogx.FromContext(ctx).Error("delete event failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
