package reference

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homeledger/homeledger/internal/auth"
	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

type Handler struct {
	svc *reference.Service
}

func NewHandler(svc *reference.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.createCategory)
		r.Get("/", h.listCategories)
		r.Delete("/{id}", h.deleteCategory)
	})

	r.Route("/properties", func(r chi.Router) {
		r.Post("/", h.createProperty)
		r.Get("/", h.listProperties)
		r.Delete("/{id}", h.deleteProperty)
	})
}

type categoryResponse struct {
	ID    uuid.UUID        `json:"id"`
	Name  string           `json:"name"`
	Icon  string           `json:"icon"`
	Color string           `json:"color"`
	Type  transaction.Type `json:"type"`
}

type createCategoryRequest struct {
	Name  string           `json:"name"`
	Icon  string           `json:"icon"`
	Color string           `json:"color"`
	Type  transaction.Type `json:"type"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), reference.CategoryParams{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
		Type:  req.Type,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toCategoryResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toCategoryResponse(c))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, reference.ErrCategoryNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type propertyResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

type createPropertyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *Handler) createProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	p, err := h.svc.CreateProperty(r.Context(), reference.PropertyParams{
		UserID:  userID,
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toPropertyResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listProperties(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	properties, err := h.svc.ListProperties(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]propertyResponse, 0, len(properties))
	for _, p := range properties {
		resp = append(resp, toPropertyResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteProperty(r.Context(), id); err != nil {
		if errors.Is(err, reference.ErrPropertyNotFound) {
			http.Error(w, "property not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCategoryResponse(c *reference.Category) categoryResponse {
	return categoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Icon:  c.Icon,
		Color: c.Color,
		Type:  c.Type,
	}
}

func toPropertyResponse(p *reference.Property) propertyResponse {
	return propertyResponse{
		ID:      p.ID,
		Name:    p.Name,
		Address: p.Address,
	}
}
