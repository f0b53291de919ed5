package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homeledger/homeledger/internal/analytics"
	"github.com/homeledger/homeledger/internal/auth"
	"github.com/homeledger/homeledger/internal/reference"
	"github.com/homeledger/homeledger/internal/transaction"
)

type Handler struct {
	txSvc  *transaction.Service
	refSvc *reference.Service
}

func NewHandler(txSvc *transaction.Service, refSvc *reference.Service) *Handler {
	return &Handler{txSvc: txSvc, refSvc: refSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/report", h.report)
}

type categoryTotalDTO struct {
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

type bucketDTO struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type propertyProfitDTO struct {
	PropertyID uuid.UUID       `json:"property_id"`
	Name       string          `json:"name"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Profit     decimal.Decimal `json:"profit"`
}

type reportResponse struct {
	Granularity    analytics.Granularity `json:"granularity"`
	CategoryTotals []categoryTotalDTO    `json:"category_totals"`
	TimeSeries     []bucketDTO           `json:"time_series"`
	PropertyProfit []propertyProfitDTO   `json:"property_profit"`
}

// report lists the user's transactions with the requested filters applied
// and runs the aggregation projections over the result.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	granularity := analytics.GranularityMonthly
	if s := r.URL.Query().Get("granularity"); s != "" {
		granularity = analytics.Granularity(s)
		if !granularity.Valid() {
			http.Error(w, "invalid granularity", http.StatusBadRequest)
			return
		}
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

	for _, raw := range r.URL.Query()["category_id"] {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}

	txs, err := h.txSvc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	categories, err := h.refSvc.ListCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	properties, err := h.refSvc.ListProperties(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	report := analytics.BuildReport(txs, analytics.Reference{
		Categories: reference.CategoryMap(categories),
		Properties: reference.PropertyMap(properties),
	}, granularity)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(report, granularity)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toResponse(report analytics.Report, g analytics.Granularity) reportResponse {
	resp := reportResponse{
		Granularity:    g,
		CategoryTotals: make([]categoryTotalDTO, 0, len(report.CategoryTotals)),
		TimeSeries:     make([]bucketDTO, 0, len(report.TimeSeries)),
		PropertyProfit: make([]propertyProfitDTO, 0, len(report.PropertyProfit)),
	}

	for _, ct := range report.CategoryTotals {
		resp.CategoryTotals = append(resp.CategoryTotals, categoryTotalDTO{
			CategoryID: ct.CategoryID,
			Name:       ct.Name,
			Total:      ct.Total,
		})
	}

	for _, b := range report.TimeSeries {
		resp.TimeSeries = append(resp.TimeSeries, bucketDTO{
			Key:     b.Key,
			Label:   b.Label,
			Income:  b.Income,
			Expense: b.Expense,
			Net:     b.Net,
		})
	}

	for _, p := range report.PropertyProfit {
		resp.PropertyProfit = append(resp.PropertyProfit, propertyProfitDTO{
			PropertyID: p.PropertyID,
			Name:       p.Name,
			Income:     p.Income,
			Expense:    p.Expense,
			Profit:     p.Profit,
		})
	}

	return resp
}
