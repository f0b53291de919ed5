package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/auth"
	"github.com/homeledger/homeledger/internal/dedupe"
	"github.com/homeledger/homeledger/internal/recurrence"
	"github.com/homeledger/homeledger/internal/transaction"
)

type Handler struct {
	svc       *transaction.Service
	dedupeSvc *dedupe.Service
}

func NewHandler(svc *transaction.Service, dedupeSvc *dedupe.Service) *Handler {
	return &Handler{svc: svc, dedupeSvc: dedupeSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/", h.reset)
	r.Post("/recurring", h.createRecurring)
	r.Post("/bulk-delete", h.bulkDelete)
	r.Post("/cleanup", h.cleanup)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Amount      decimal.Decimal  `json:"amount"`
	Type        transaction.Type `json:"type"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	CategoryID  uuid.UUID        `json:"category_id"`
	PropertyID  *uuid.UUID       `json:"property_id,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Type.Valid() {
		http.Error(w, "invalid type", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        req.Type,
		Source:      transaction.SourceManual,
		Description: req.Description,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
		PropertyID:  req.PropertyID,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	filter := transaction.ListFilter{UserID: userID}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	if s := r.URL.Query().Get("source"); s != "" {
		filter.Source = new(transaction.Source(s))
	}

	for _, raw := range r.URL.Query()["category_id"] {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if tx.UserID != userID {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTransactionRequest struct {
	Description *string           `json:"description,omitempty"`
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
	Date        *time.Time        `json:"date,omitempty"`
	CategoryID  *uuid.UUID        `json:"category_id,omitempty"`
	PropertyID  *uuid.UUID        `json:"property_id,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := h.svc.Get(r.Context(), id)
	if err != nil || existing.UserID != userID {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	tx, err := h.svc.Update(r.Context(), id, transaction.UpdateParams{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
		PropertyID:  req.PropertyID,
	})
	if err != nil {
		if errors.Is(err, transaction.ErrImportedFieldLocked) {
			http.Error(w, "amount and date of imported transactions cannot be changed", http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := h.svc.Get(r.Context(), id)
	if err != nil || existing.UserID != userID {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createRecurringRequest struct {
	createTransactionRequest
	Frequency recurrence.Frequency `json:"frequency"`
	Until     *time.Time           `json:"until,omitempty"`
}

type createRecurringResponse struct {
	Created      int                   `json:"created"`
	Truncated    bool                  `json:"truncated"`
	Transactions []transactionResponse `json:"transactions"`
}

// createRecurring expands a transaction template into its scheduled series
// and persists the whole series in one batch.
func (h *Handler) createRecurring(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createRecurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Type.Valid() {
		http.Error(w, "invalid type", http.StatusBadRequest)
		return
	}

	if !req.Frequency.Valid() {
		http.Error(w, "invalid frequency", http.StatusBadRequest)
		return
	}

	template := transaction.Transaction{
		UserID:      userID,
		Amount:      req.Amount.Abs(),
		Type:        req.Type,
		Description: req.Description,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
		PropertyID:  req.PropertyID,
	}

	series, truncated := recurrence.Expand(template, recurrence.Spec{
		Frequency: req.Frequency,
		Until:     req.Until,
	})

	params := make([]transaction.CreateParams, len(series))
	for i, tx := range series {
		params[i] = transaction.CreateParams{
			UserID:      tx.UserID,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Source:      tx.Source,
			Description: tx.Description,
			Date:        tx.Date,
			CategoryID:  tx.CategoryID,
			PropertyID:  tx.PropertyID,
		}
	}

	txs, err := h.svc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := createRecurringResponse{
		Created:      len(txs),
		Truncated:    truncated,
		Transactions: toResponseList(txs),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type bulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type bulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.svc.DeleteBatch(r.Context(), userID, req.IDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(bulkDeleteResponse{Deleted: deleted}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type cleanupResponse struct {
	Removed int64 `json:"removed"`
}

func (h *Handler) cleanup(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	removed, err := h.dedupeSvc.RemoveDuplicates(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(cleanupResponse{Removed: removed}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.svc.ResetAll(r.Context(), userID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
