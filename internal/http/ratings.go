package http

import (
	"net/http"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/slogx"
)

type ratingResponse struct {
	ID    string `json:"id"`
	Stars int    `json:"stars"`
}

func toRatingResponse(rt domain.Rating) ratingResponse {
	return ratingResponse{ID: rt.ID, Stars: rt.Stars}
}

type ratingRequest struct {
	Stars int `json:"stars"`
}

func validStars(stars int) bool {
	return stars >= 1 && stars <= 5
}

// RatingsHandler serves /api/categories/{categoryId}/events/{eventId}/ratings.
// Parent resolution follows the same rule as events: a broken chain is a 404.
type RatingsHandler struct {
	Ratings *service.RatingService
}

func ratingParents(w http.ResponseWriter, r *http.Request) (categoryID, eventID string, ok bool) {
	if categoryID, ok = pathID(w, r, "categoryId", "category"); !ok {
		return "", "", false
	}
	if eventID, ok = pathID(w, r, "eventId", "event"); !ok {
		return "", "", false
	}
	return categoryID, eventID, true
}

func (h *RatingsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, eventID, ok := ratingParents(w, r)
	if !ok {
		return
	}

	ratings, err := h.Ratings.List(ctx, categoryID, eventID)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "event not found")
			return
		}
		slogx.FromContext(ctx).Error("list ratings failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]ratingResponse, 0, len(ratings))
	for _, rt := range ratings {
		out = append(out, toRatingResponse(rt))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *RatingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, eventID, ok := ratingParents(w, r)
	if !ok {
		return
	}
	ratingID, ok := pathID(w, r, "ratingId", "rating")
	if !ok {
		return
	}

	rating, err := h.Ratings.Get(ctx, categoryID, eventID, ratingID)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "rating not found")
			return
		}
		slogx.FromContext(ctx).Error("get rating failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRatingResponse(rating))
}

func (h *RatingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, eventID, ok := ratingParents(w, r)
	if !ok {
		return
	}

	var req ratingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validStars(req.Stars) {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "stars must be between 1 and 5")
		return
	}

	rating, err := h.Ratings.Create(ctx, categoryID, eventID, req.Stars, httpx.UserIDFromContext(ctx))
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "event not found")
			return
		}
		slogx.FromContext(ctx).Error("create rating failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (h *RatingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, eventID, ok := ratingParents(w, r)
	if !ok {
		return
	}
	ratingID, ok := pathID(w, r, "ratingId", "rating")
	if !ok {
		return
	}

	var req ratingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validStars(req.Stars) {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "stars must be between 1 and 5")
		return
	}

	rating, err := h.Ratings.UpdateStars(ctx, categoryID, eventID, ratingID, req.Stars)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "rating not found")
			return
		}
		slogx.FromContext(ctx).Error("update rating failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRatingResponse(rating))
}

func (h *RatingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, eventID, ok := ratingParents(w, r)
	if !ok {
		return
	}
	ratingID, ok := pathID(w, r, "ratingId", "rating")
	if !ok {
		return
	}

	if err := h.Ratings.Delete(ctx, categoryID, eventID, ratingID); err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "rating not found")
			return
		}
		slogx.FromContext(ctx).Error("delete rating failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
