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

// OverviewService defines the behavior needed by OverviewHandler.
type OverviewService interface {
	KPIDashboard(ctx context.Context, input usecase.RangeInput) (*usecase.KPIReport, error)
	BusinessOverview(ctx context.Context, input usecase.RangeInput) (*usecase.BusinessOverview, error)
	CrossFunctional(ctx context.Context, input usecase.CrossFunctionalInput) (*usecase.CrossFunctionalReport, error)
	StrategicInsights(ctx context.Context, focus string) (*usecase.StrategicReport, error)
}

// OverviewHandler serves the business-wide reports.
type OverviewHandler struct {
	overviewUC OverviewService
	currency   string
	reports    reports
}

// NewOverviewHandler creates a new OverviewHandler. m may be nil.
func NewOverviewHandler(overviewUC OverviewService, currency string, m *metrics.Metrics) *OverviewHandler {
	return &OverviewHandler{overviewUC: overviewUC, currency: currency, reports: reports{m: m, area: "overview"}}
}

// Routes mounts the overview endpoints.
func (h *OverviewHandler) Routes(r chi.Router) {
	r.Get("/", h.BusinessOverview)
	r.Get("/kpis", h.KPIDashboard)
	r.Get("/cross-functional", h.CrossFunctional)
	r.Get("/strategic", h.StrategicInsights)
}

// KPIDashboard returns the KPI dashboard of the window.
func (h *OverviewHandler) KPIDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.overviewUC.KPIDashboard(r.Context(), rangeInput(r))
	h.reports.observe("kpi_dashboard", start, err)
	reply(w, h.currency, rep, err, dto.KPIFromReport)
}

// BusinessOverview returns the business-wide summary of the window.
func (h *OverviewHandler) BusinessOverview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.overviewUC.BusinessOverview(r.Context(), rangeInput(r))
	h.reports.observe("business_overview", start, err)
	reply(w, h.currency, rep, err, dto.OverviewFromReport)
}

// CrossFunctional runs the ?analysis_type= cross analysis.
func (h *OverviewHandler) CrossFunctional(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.overviewUC.CrossFunctional(r.Context(), usecase.CrossFunctionalInput{
		Analysis:  query(r, "analysis_type"),
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
	})
	h.reports.observe("cross_functional", start, err)
	reply(w, h.currency, rep, err, dto.CrossFunctionalFromReport)
}

// StrategicInsights returns rule-based insights over the recent window.
func (h *OverviewHandler) StrategicInsights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.overviewUC.StrategicInsights(r.Context(), query(r, "focus_area"))
	h.reports.observe("strategic_insights", start, err)
	reply(w, h.currency, rep, err, dto.StrategicFromReport)
}
