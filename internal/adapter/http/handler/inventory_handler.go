package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/usecase"
)

// InventoryService defines the behavior needed by InventoryHandler.
type InventoryService interface {
	StockSummary(ctx context.Context, input usecase.StockSummaryInput) (*usecase.StockSummaryReport, error)
	ItemDetails(ctx context.Context, item string) (*usecase.ItemDetailsReport, error)
	GodownSummary(ctx context.Context, godown string) (*usecase.GodownSummaryReport, error)
	StockMovements(ctx context.Context, input usecase.MovementsInput) (*usecase.MovementReport, error)
	LatestMovements(ctx context.Context, input usecase.LatestMovementsInput) (*usecase.MovementReport, error)
	TopItems(ctx context.Context, input usecase.TopItemsInput) (*usecase.TopItemsReport, error)
	InventoryAnalytics(ctx context.Context, input usecase.AnalyticsInput) (*usecase.AnalyticsReport, error)
}

// InventoryHandler serves stock positions and movements.
type InventoryHandler struct {
	inventoryUC InventoryService
	currency    string
	reports     reports
}

// NewInventoryHandler creates a new InventoryHandler. m may be nil.
func NewInventoryHandler(inventoryUC InventoryService, currency string, m *metrics.Metrics) *InventoryHandler {
	return &InventoryHandler{inventoryUC: inventoryUC, currency: currency, reports: reports{m: m, area: "inventory"}}
}

// Routes mounts the inventory endpoints.
func (h *InventoryHandler) Routes(r chi.Router) {
	r.Get("/stock", h.StockSummary)
	r.Get("/items/{item}", h.ItemDetails)
	r.Get("/godowns", h.GodownSummary)
	r.Get("/movements", h.StockMovements)
	r.Get("/movements/latest", h.LatestMovements)
	r.Get("/top-items", h.TopItems)
	r.Get("/analytics", h.Analytics)
}

// StockSummary returns one position per item and godown.
func (h *InventoryHandler) StockSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.inventoryUC.StockSummary(r.Context(), usecase.StockSummaryInput{
		Godown: query(r, "godown_name"),
		Item:   query(r, "item_name"),
	})
	h.reports.observe("stock_summary", start, err)
	reply(w, h.currency, rep, err, dto.StockSummaryFromReport)
}

// ItemDetails returns the item named by the path.
func (h *InventoryHandler) ItemDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.inventoryUC.ItemDetails(r.Context(), chi.URLParam(r, "item"))
	h.reports.observe("item_details", start, err)
	reply(w, h.currency, rep, err, dto.ItemDetailsFromReport)
}

// GodownSummary lists godowns with their stock.
func (h *InventoryHandler) GodownSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.inventoryUC.GodownSummary(r.Context(), query(r, "godown_name"))
	h.reports.observe("godown_summary", start, err)
	reply(w, h.currency, rep, err, dto.GodownSummaryFromReport)
}

// StockMovements lists movements in the window.
func (h *InventoryHandler) StockMovements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.inventoryUC.StockMovements(r.Context(), usecase.MovementsInput{
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
		Item:      query(r, "item_name"),
	})
	h.reports.observe("stock_movements", start, err)
	reply(w, h.currency, rep, err, dto.MovementListFromReport)
}

// LatestMovements lists the most recent movements.
func (h *InventoryHandler) LatestMovements(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.inventoryUC.LatestMovements(r.Context(), usecase.LatestMovementsInput{
		Limit: limit,
		Item:  query(r, "item_name"),
		Party: query(r, "party_name"),
	})
	h.reports.observe("latest_movements", start, err)
	reply(w, h.currency, rep, err, dto.MovementListFromReport)
}

// TopItems ranks items by value or quantity.
func (h *InventoryHandler) TopItems(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.inventoryUC.TopItems(r.Context(), usecase.TopItemsInput{
		Metric:    query(r, "metric"),
		Limit:     limit,
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
		Godown:    query(r, "godown_name"),
	})
	h.reports.observe("top_items", start, err)
	reply(w, h.currency, rep, err, dto.TopItemsFromReport)
}

// Analytics runs the tiered inventory analytics.
func (h *InventoryHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	input, err := analyticsInput(r)
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.inventoryUC.InventoryAnalytics(r.Context(), input)
	h.reports.observe("analytics", start, err)
	reply(w, h.currency, rep, err, dto.AnalyticsFromReport)
}
