package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
)

// SalesUseCase analyses sales vouchers and customers.
type SalesUseCase struct {
	book *tradeBook
}

// NewSalesUseCase creates a new SalesUseCase.
func NewSalesUseCase(entries EntryRepository, movements InventoryRepository, logger zerolog.Logger) *SalesUseCase {
	return &SalesUseCase{book: &tradeBook{
		def:       SalesMetric,
		role:      "customer",
		entries:   entries,
		movements: movements,
		logger:    logger.With().Str("component", "sales").Logger(),
		now:       time.Now,
	}}
}

// SalesSummary returns revenue, transactions and customers in the window.
func (uc *SalesUseCase) SalesSummary(ctx context.Context, input TradeFilterInput) (*TradeSummary, error) {
	return uc.book.summary(ctx, input)
}

// CustomerAnalysis returns every customer ranked by revenue.
func (uc *SalesUseCase) CustomerAnalysis(ctx context.Context, input PartyAnalysisInput) (*PartyReport, error) {
	return uc.book.parties(ctx, input)
}

// RevenueAnalysis breaks revenue down by calendar period.
func (uc *SalesUseCase) RevenueAnalysis(ctx context.Context, input PeriodAnalysisInput) (*PeriodReport, error) {
	return uc.book.periods(ctx, input)
}

// TopCustomers ranks customers by revenue, transactions or quantity.
func (uc *SalesUseCase) TopCustomers(ctx context.Context, input TopPartiesInput) (*PartyReport, error) {
	return uc.book.top(ctx, input, domain.SalesRankMetrics)
}

// SalesPerformance returns headline KPIs including daily averages.
func (uc *SalesUseCase) SalesPerformance(ctx context.Context, input RangeInput) (*TradeSummary, error) {
	return uc.book.performance(ctx, input)
}

// SalesAnalytics runs tiered analytics over sales.
func (uc *SalesUseCase) SalesAnalytics(ctx context.Context, input AnalyticsInput) (*AnalyticsReport, error) {
	return uc.book.analytics(ctx, input)
}
