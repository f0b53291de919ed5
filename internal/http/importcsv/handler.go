package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/auth"
	"github.com/homeledger/homeledger/internal/importer"
	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	refSvc    *reference.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, refSvc *reference.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		refSvc:    refSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/preview", h.preview)
	r.Post("/confirm", h.confirm)
}

type candidateDTO struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Type        transaction.Type `json:"type"`
	IsDuplicate bool             `json:"is_duplicate"`
}

type previewResponse struct {
	Candidates []candidateDTO `json:"candidates"`
	Duplicates int            `json:"duplicates"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	existing, err := h.txSvc.List(r.Context(), transaction.ListFilter{UserID: userID})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	candidates, err := h.importSvc.Preview(file, existing)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := previewResponse{Candidates: make([]candidateDTO, 0, len(candidates))}

	for _, c := range candidates {
		if c.IsDuplicate {
			resp.Duplicates++
		}

		resp.Candidates = append(resp.Candidates, candidateDTO{
			Date:        c.Date,
			Description: c.Description,
			Amount:      c.Amount,
			Type:        c.Type,
			IsDuplicate: c.IsDuplicate,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type confirmRequest struct {
	Candidates []candidateDTO `json:"candidates"`
	CategoryID *uuid.UUID     `json:"category_id,omitempty"`
}

type confirmResponse struct {
	Imported int `json:"imported"`
}

// confirm persists the accepted candidates. Unless the request picks a
// category, everything lands in the catch-all import category.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	categoryID := req.CategoryID
	if categoryID == nil {
		c, err := h.refSvc.DefaultCategory(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		categoryID = &c.ID
	}

	params := make([]transaction.CreateParams, 0, len(req.Candidates))

	for _, c := range req.Candidates {
		if c.Amount.IsZero() {
			continue
		}

		params = append(params, transaction.CreateParams{
			UserID:      userID,
			Amount:      c.Amount,
			Type:        c.Type,
			Source:      transaction.SourceCSVImport,
			Description: c.Description,
			Date:        c.Date,
			CategoryID:  *categoryID,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(confirmResponse{Imported: len(txs)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
