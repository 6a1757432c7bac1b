package http

import (
	"net/http"
	"strings"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/slogx"
)

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Description string `json:"description"`
}

// CategoriesHandler serves the /api/categories collection.
type CategoriesHandler struct {
	Categories *service.CategoryService
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.Categories.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("list categories failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}

	category, err := h.Categories.Get(ctx, categoryID)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "category not found")
			return
		}
		slogx.FromContext(ctx).Error("get category failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	category, err := h.Categories.Create(ctx, req.Name, req.Description, httpx.UserIDFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("create category failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.Categories.UpdateDescription(ctx, categoryID, req.Description)
	if err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "category not found")
			return
		}
		slogx.FromContext(ctx).Error("update category failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, ok := pathID(w, r, "categoryId", "category")
	if !ok {
		return
	}

	if err := h.Categories.Delete(ctx, categoryID); err != nil {
		if service.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "category not found")
			return
		}
		slogx.FromContext(ctx).Error("delete category failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
