package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
)

// PurchaseUseCase analyses purchase vouchers and suppliers.
type PurchaseUseCase struct {
	book *tradeBook
}

// NewPurchaseUseCase creates a new PurchaseUseCase.
func NewPurchaseUseCase(entries EntryRepository, movements InventoryRepository, logger zerolog.Logger) *PurchaseUseCase {
	return &PurchaseUseCase{book: &tradeBook{
		def:       PurchaseMetric,
		role:      "supplier",
		entries:   entries,
		movements: movements,
		logger:    logger.With().Str("component", "purchase").Logger(),
		now:       time.Now,
	}}
}

// PurchaseSummary returns spending, transactions and suppliers in the window.
func (uc *PurchaseUseCase) PurchaseSummary(ctx context.Context, input TradeFilterInput) (*TradeSummary, error) {
	return uc.book.summary(ctx, input)
}

// SupplierAnalysis returns every supplier ranked by spending.
func (uc *PurchaseUseCase) SupplierAnalysis(ctx context.Context, input PartyAnalysisInput) (*PartyReport, error) {
	return uc.book.parties(ctx, input)
}

// ProcurementAnalysis breaks spending down by calendar period, optionally
// restricted to an item category.
func (uc *PurchaseUseCase) ProcurementAnalysis(ctx context.Context, input PeriodAnalysisInput) (*PeriodReport, error) {
	return uc.book.periods(ctx, input)
}

// TopSuppliers ranks suppliers by spending, transactions or distinct items.
func (uc *PurchaseUseCase) TopSuppliers(ctx context.Context, input TopPartiesInput) (*PartyReport, error) {
	return uc.book.top(ctx, input, domain.PurchaseRankMetrics)
}

// PurchasePerformance returns headline KPIs including daily averages.
func (uc *PurchaseUseCase) PurchasePerformance(ctx context.Context, input RangeInput) (*TradeSummary, error) {
	return uc.book.performance(ctx, input)
}

// PurchaseAnalytics runs tiered analytics over purchases.
func (uc *PurchaseUseCase) PurchaseAnalytics(ctx context.Context, input AnalyticsInput) (*AnalyticsReport, error) {
	return uc.book.analytics(ctx, input)
}
