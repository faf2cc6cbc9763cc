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

// SalesService defines the behavior needed by the sales endpoints.
type SalesService interface {
	SalesSummary(ctx context.Context, input usecase.TradeFilterInput) (*usecase.TradeSummary, error)
	CustomerAnalysis(ctx context.Context, input usecase.PartyAnalysisInput) (*usecase.PartyReport, error)
	RevenueAnalysis(ctx context.Context, input usecase.PeriodAnalysisInput) (*usecase.PeriodReport, error)
	TopCustomers(ctx context.Context, input usecase.TopPartiesInput) (*usecase.PartyReport, error)
	SalesPerformance(ctx context.Context, input usecase.RangeInput) (*usecase.TradeSummary, error)
	SalesAnalytics(ctx context.Context, input usecase.AnalyticsInput) (*usecase.AnalyticsReport, error)
}

// PurchaseService defines the behavior needed by the purchase endpoints.
type PurchaseService interface {
	PurchaseSummary(ctx context.Context, input usecase.TradeFilterInput) (*usecase.TradeSummary, error)
	SupplierAnalysis(ctx context.Context, input usecase.PartyAnalysisInput) (*usecase.PartyReport, error)
	ProcurementAnalysis(ctx context.Context, input usecase.PeriodAnalysisInput) (*usecase.PeriodReport, error)
	TopSuppliers(ctx context.Context, input usecase.TopPartiesInput) (*usecase.PartyReport, error)
	PurchasePerformance(ctx context.Context, input usecase.RangeInput) (*usecase.TradeSummary, error)
	PurchaseAnalytics(ctx context.Context, input usecase.AnalyticsInput) (*usecase.AnalyticsReport, error)
}

// tradeOps are the six operations shared by the sales and purchase sides.
type tradeOps struct {
	summary     func(context.Context, usecase.TradeFilterInput) (*usecase.TradeSummary, error)
	parties     func(context.Context, usecase.PartyAnalysisInput) (*usecase.PartyReport, error)
	periods     func(context.Context, usecase.PeriodAnalysisInput) (*usecase.PeriodReport, error)
	top         func(context.Context, usecase.TopPartiesInput) (*usecase.PartyReport, error)
	performance func(context.Context, usecase.RangeInput) (*usecase.TradeSummary, error)
	analytics   func(context.Context, usecase.AnalyticsInput) (*usecase.AnalyticsReport, error)
}

// TradeHandler serves one side of trade: sales or purchases.
type TradeHandler struct {
	ops      tradeOps
	party    string
	currency string
	reports  reports
}

// NewSalesHandler creates the sales TradeHandler. m may be nil.
func NewSalesHandler(salesUC SalesService, currency string, m *metrics.Metrics) *TradeHandler {
	return &TradeHandler{
		ops: tradeOps{
			summary:     salesUC.SalesSummary,
			parties:     salesUC.CustomerAnalysis,
			periods:     salesUC.RevenueAnalysis,
			top:         salesUC.TopCustomers,
			performance: salesUC.SalesPerformance,
			analytics:   salesUC.SalesAnalytics,
		},
		party:    "customer",
		currency: currency,
		reports:  reports{m: m, area: "sales"},
	}
}

// NewPurchaseHandler creates the purchase TradeHandler. m may be nil.
func NewPurchaseHandler(purchaseUC PurchaseService, currency string, m *metrics.Metrics) *TradeHandler {
	return &TradeHandler{
		ops: tradeOps{
			summary:     purchaseUC.PurchaseSummary,
			parties:     purchaseUC.SupplierAnalysis,
			periods:     purchaseUC.ProcurementAnalysis,
			top:         purchaseUC.TopSuppliers,
			performance: purchaseUC.PurchasePerformance,
			analytics:   purchaseUC.PurchaseAnalytics,
		},
		party:    "supplier",
		currency: currency,
		reports:  reports{m: m, area: "purchase"},
	}
}

// Routes mounts the trade endpoints. Party endpoints are named after the
// counterparty: /customers and /top-customers, or /suppliers and /top-suppliers.
func (h *TradeHandler) Routes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/"+h.party+"s", h.Parties)
	r.Get("/periods", h.Periods)
	r.Get("/top-"+h.party+"s", h.Top)
	r.Get("/performance", h.Performance)
	r.Get("/analytics", h.Analytics)
}

// Summary returns the headline aggregate of the window.
func (h *TradeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.ops.summary(r.Context(), usecase.TradeFilterInput{
		StartDate:   query(r, "start_date"),
		EndDate:     query(r, "end_date"),
		Party:       query(r, "party_name"),
		VoucherType: query(r, "voucher_type"),
	})
	h.reports.observe("summary", start, err)
	reply(w, h.currency, rep, err, dto.TradeSummaryFromReport)
}

// Parties returns the per-party breakdown.
func (h *TradeHandler) Parties(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.ops.parties(r.Context(), usecase.PartyAnalysisInput{
		Party:     query(r, "party_name"),
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
	})
	h.reports.observe(h.party+"_analysis", start, err)
	reply(w, h.currency, rep, err, dto.PartyReportFromReport)
}

// Periods returns the per-period breakdown.
func (h *TradeHandler) Periods(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.ops.periods(r.Context(), usecase.PeriodAnalysisInput{
		Granularity: query(r, "period"),
		StartDate:   query(r, "start_date"),
		EndDate:     query(r, "end_date"),
		Category:    query(r, "item_category"),
	})
	h.reports.observe("period_analysis", start, err)
	reply(w, h.currency, rep, err, dto.PeriodReportFromReport)
}

// Top ranks parties by the ?metric= of the side.
func (h *TradeHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.ops.top(r.Context(), usecase.TopPartiesInput{
		Metric:    query(r, "metric"),
		Limit:     limit,
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
		Party:     query(r, "party_name"),
	})
	h.reports.observe("top_"+h.party+"s", start, err)
	reply(w, h.currency, rep, err, dto.PartyReportFromReport)
}

// Performance returns the summary of the window with its daily average.
func (h *TradeHandler) Performance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.ops.performance(r.Context(), rangeInput(r))
	h.reports.observe("performance", start, err)
	reply(w, h.currency, rep, err, dto.TradeSummaryFromReport)
}

// Analytics runs the tiered analytics of the side.
func (h *TradeHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	input, err := analyticsInput(r)
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.ops.analytics(r.Context(), input)
	h.reports.observe("analytics", start, err)
	reply(w, h.currency, rep, err, dto.AnalyticsFromReport)
}
