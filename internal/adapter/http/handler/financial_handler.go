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

// FinancialService defines the behavior needed by FinancialHandler.
type FinancialService interface {
	AccountBalance(ctx context.Context, input usecase.BalanceInput) (*usecase.BalanceReport, error)
	CashFlow(ctx context.Context, input usecase.RangeInput) (*usecase.CashFlowReport, error)
	ProfitLoss(ctx context.Context, input usecase.RangeInput) (*usecase.ProfitLossReport, error)
	PaymentReceipts(ctx context.Context, input usecase.PaymentReceiptsInput) (*usecase.VoucherListReport, error)
	LatestTransactions(ctx context.Context, input usecase.LatestInput) (*usecase.VoucherListReport, error)
	LedgerSummary(ctx context.Context, input usecase.LedgerSummaryInput) (*usecase.LedgerSummaryReport, error)
	VoucherDetails(ctx context.Context, input usecase.VoucherDetailsInput) (*usecase.VoucherListReport, error)
	FinancialAnalytics(ctx context.Context, input usecase.AnalyticsInput) (*usecase.AnalyticsReport, error)
}

// FinancialHandler serves balances, cash flow, P&L and voucher listings.
type FinancialHandler struct {
	financialUC FinancialService
	currency    string
	reports     reports
}

// NewFinancialHandler creates a new FinancialHandler. m may be nil.
func NewFinancialHandler(financialUC FinancialService, currency string, m *metrics.Metrics) *FinancialHandler {
	return &FinancialHandler{financialUC: financialUC, currency: currency, reports: reports{m: m, area: "financial"}}
}

// Routes mounts the financial endpoints.
func (h *FinancialHandler) Routes(r chi.Router) {
	r.Get("/balance", h.AccountBalance)
	r.Get("/cash-flow", h.CashFlow)
	r.Get("/profit-loss", h.ProfitLoss)
	r.Get("/transactions", h.PaymentReceipts)
	r.Get("/transactions/latest", h.LatestTransactions)
	r.Get("/ledgers", h.LedgerSummary)
	r.Get("/vouchers", h.VoucherDetails)
	r.Get("/analytics", h.Analytics)
}

func rangeInput(r *http.Request) usecase.RangeInput {
	return usecase.RangeInput{StartDate: query(r, "start_date"), EndDate: query(r, "end_date")}
}

// AccountBalance returns the closing balance of the account matching ?account=.
func (h *FinancialHandler) AccountBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.financialUC.AccountBalance(r.Context(), usecase.BalanceInput{
		Account: query(r, "account"),
		AsOf:    query(r, "as_of_date"),
	})
	h.reports.observe("account_balance", start, err)
	reply(w, h.currency, rep, err, dto.BalanceFromReport)
}

// CashFlow returns cash and bank movement over the window.
func (h *FinancialHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.financialUC.CashFlow(r.Context(), rangeInput(r))
	h.reports.observe("cash_flow", start, err)
	reply(w, h.currency, rep, err, dto.CashFlowFromReport)
}

// ProfitLoss returns the P&L statement over the window.
func (h *FinancialHandler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.financialUC.ProfitLoss(r.Context(), rangeInput(r))
	h.reports.observe("profit_loss", start, err)
	reply(w, h.currency, rep, err, dto.ProfitLossFromReport)
}

// PaymentReceipts lists payment and receipt vouchers.
func (h *FinancialHandler) PaymentReceipts(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.financialUC.PaymentReceipts(r.Context(), usecase.PaymentReceiptsInput{
		Kind:      query(r, "transaction_type"),
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
		Party:     query(r, "party_name"),
		Limit:     limit,
	})
	h.reports.observe("payment_receipts", start, err)
	reply(w, h.currency, rep, err, dto.VoucherListFromReport)
}

// LatestTransactions lists the most recent payment and receipt vouchers.
func (h *FinancialHandler) LatestTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.financialUC.LatestTransactions(r.Context(), usecase.LatestInput{
		Kind:  query(r, "transaction_type"),
		Limit: limit,
		Party: query(r, "party_name"),
	})
	h.reports.observe("latest_transactions", start, err)
	reply(w, h.currency, rep, err, dto.VoucherListFromReport)
}

// LedgerSummary lists closing balances of ledgers under ?account_type=.
func (h *FinancialHandler) LedgerSummary(w http.ResponseWriter, r *http.Request) {
	includeZero, err := boolQuery(r, "include_zero")
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.financialUC.LedgerSummary(r.Context(), usecase.LedgerSummaryInput{
		Parent:      query(r, "account_type"),
		IncludeZero: includeZero,
	})
	h.reports.observe("ledger_summary", start, err)
	reply(w, h.currency, rep, err, dto.LedgerSummaryFromReport)
}

// VoucherDetails looks vouchers up by number, type and window.
func (h *FinancialHandler) VoucherDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rep, err := h.financialUC.VoucherDetails(r.Context(), usecase.VoucherDetailsInput{
		Number:    query(r, "voucher_number"),
		Type:      query(r, "voucher_type"),
		StartDate: query(r, "start_date"),
		EndDate:   query(r, "end_date"),
	})
	h.reports.observe("voucher_details", start, err)
	reply(w, h.currency, rep, err, dto.VoucherListFromReport)
}

// Analytics runs the tiered financial analytics.
func (h *FinancialHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	input, err := analyticsInput(r)
	if err != nil {
		writeOutcome(w, err)
		return
	}

	start := time.Now()
	rep, err := h.financialUC.FinancialAnalytics(r.Context(), input)
	h.reports.observe("analytics", start, err)
	reply(w, h.currency, rep, err, dto.AnalyticsFromReport)
}

func analyticsInput(r *http.Request) (usecase.AnalyticsInput, error) {
	periods, err := intQuery(r, "forecast_periods")
	if err != nil {
		return usecase.AnalyticsInput{}, err
	}
	return usecase.AnalyticsInput{
		Tier:            query(r, "analytics_type"),
		Focus:           query(r, "query_focus"),
		StartDate:       query(r, "start_date"),
		EndDate:         query(r, "end_date"),
		ForecastPeriods: periods,
	}, nil
}
