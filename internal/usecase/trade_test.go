package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/usecase"
	"github.com/iho/ledgerlens/internal/usecase/mocks"
)

// tradeBook has four sales (one without a party) and one purchase.
func tradeBook() *mocks.Book {
	return mocks.NewBook().
		Entry("2024-01-03", "Purchase", "P-1", "Initech", "Initech", "1000").
		Entry("2024-01-03", "Purchase", "P-1", "Initech", "Purchase Account", "-1000").
		Movement("2024-01-03", "Purchase", "P-1", "Initech", "Widget", "Main", "10", "100", "1000").
		Entry("2024-01-05", "Sales", "S-1", "Acme", "Sales Account", "500").
		Entry("2024-01-05", "Sales", "S-1", "Acme", "Acme", "-500").
		Movement("2024-01-05", "Sales", "S-1", "Acme", "Widget", "Main", "-5", "100", "-500").
		Entry("2024-01-20", "Sales", "S-2", "Globex", "Sales Account", "800").
		Entry("2024-01-20", "Sales", "S-2", "Globex", "Globex", "-800").
		Movement("2024-01-20", "Sales", "S-2", "Globex", "Widget", "Main", "-2", "100", "-200").
		Movement("2024-01-20", "Sales", "S-2", "Globex", "Gadget", "Annex", "-9", "66.67", "-600").
		Entry("2024-02-10", "Sales", "S-3", "Acme", "Sales Account", "300").
		Entry("2024-02-10", "Sales", "S-3", "Acme", "Acme", "-300").
		Movement("2024-02-10", "Sales", "S-3", "Acme", "Gadget", "Annex", "-3", "100", "-300").
		Entry("2024-02-11", "Sales", "S-4", "", "Sales Account", "50").
		Entry("2024-02-11", "Sales", "S-4", "", "Cash", "-50")
}

func newSales(b *mocks.Book) *usecase.SalesUseCase {
	return usecase.NewSalesUseCase(b.Entries(), b.Movements(), zerolog.Nop())
}

func newPurchase(b *mocks.Book) *usecase.PurchaseUseCase {
	return usecase.NewPurchaseUseCase(b.Entries(), b.Movements(), zerolog.Nop())
}

func TestSalesUseCase_SalesSummary(t *testing.T) {
	tests := []struct {
		name         string
		input        usecase.TradeFilterInput
		amount       string
		transactions int
		parties      int
		quantity     string
	}{
		{name: "all sales", amount: "1650", transactions: 4, parties: 2, quantity: "19"},
		{name: "one customer", input: usecase.TradeFilterInput{Party: "acme"}, amount: "800", transactions: 2, parties: 1, quantity: "8"},
		{name: "january", input: usecase.TradeFilterInput{StartDate: "2024-01-01", EndDate: "2024-01-31"}, amount: "1300", transactions: 2, parties: 2, quantity: "16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := newSales(tradeBook()).SalesSummary(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rep.Amount.Equal(dec(tt.amount)) {
				t.Errorf("expected amount %s, got %s", tt.amount, rep.Amount)
			}
			if rep.Transactions != tt.transactions || rep.Parties != tt.parties {
				t.Errorf("expected %d tx / %d parties, got %d / %d", tt.transactions, tt.parties, rep.Transactions, rep.Parties)
			}
			if !rep.Quantity.Equal(dec(tt.quantity)) {
				t.Errorf("expected quantity %s, got %s", tt.quantity, rep.Quantity)
			}
		})
	}
}

func TestSalesUseCase_SalesPerformance(t *testing.T) {
	rep, err := newSales(tradeBook()).SalesPerformance(context.Background(), usecase.RangeInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.ActiveDays != 4 || !rep.AverageDaily.Equal(dec("412.5")) || !rep.AverageValue.Equal(dec("412.5")) {
		t.Fatalf("unexpected averages: days=%d daily=%s value=%s", rep.ActiveDays, rep.AverageDaily, rep.AverageValue)
	}
	if rep.Items != 2 || rep.Godowns != 2 {
		t.Fatalf("unexpected inventory counts: items=%d godowns=%d", rep.Items, rep.Godowns)
	}
}

func TestSalesUseCase_CustomerAnalysisExcludesBlankParty(t *testing.T) {
	rep, err := newSales(tradeBook()).CustomerAnalysis(context.Background(), usecase.PartyAnalysisInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Parties) != 2 {
		t.Fatalf("expected 2 customers, got %+v", rep.Parties)
	}
	// Equal revenue: name breaks the tie.
	if rep.Parties[0].Key != "Acme" || rep.Parties[1].Key != "Globex" {
		t.Fatalf("unexpected order: %s, %s", rep.Parties[0].Key, rep.Parties[1].Key)
	}
	if rep.Parties[0].Transactions != 2 || !rep.Parties[0].AverageValue.Equal(dec("400")) {
		t.Fatalf("unexpected Acme stats: %+v", rep.Parties[0])
	}
}

func TestSalesUseCase_TopCustomers(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.TopPartiesInput
		want  []string
		err   error
	}{
		{name: "by transactions", input: usecase.TopPartiesInput{Metric: "transactions", Limit: 1}, want: []string{"Acme"}},
		{name: "by quantity", input: usecase.TopPartiesInput{Metric: "quantity", Limit: 1}, want: []string{"Globex"}},
		{name: "default revenue", input: usecase.TopPartiesInput{}, want: []string{"Acme", "Globex"}},
		{name: "filter before limit", input: usecase.TopPartiesInput{Metric: "transactions", Limit: 1, Party: "glo"}, want: []string{"Globex"}},
		{name: "unknown metric", input: usecase.TopPartiesInput{Metric: "spending"}, err: domain.ErrInvalidInput},
		{name: "limit out of range", input: usecase.TopPartiesInput{Limit: -1}, err: domain.ErrInvalidInput},
		{name: "no sales in window", input: usecase.TopPartiesInput{StartDate: "2023-01-01", EndDate: "2023-12-31"}, err: domain.ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := newSales(tradeBook()).TopCustomers(context.Background(), tt.input)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rep.Parties) != len(tt.want) {
				t.Fatalf("expected %v, got %+v", tt.want, rep.Parties)
			}
			for i, p := range rep.Parties {
				if p.Key != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], p.Key)
				}
			}
		})
	}
}

func TestSalesUseCase_RevenueAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.PeriodAnalysisInput
		periods []string
		amounts []string
	}{
		{name: "monthly", periods: []string{"2024-01", "2024-02"}, amounts: []string{"1300", "350"}},
		{name: "daily", input: usecase.PeriodAnalysisInput{Granularity: "daily", StartDate: "2024-02-01"}, periods: []string{"2024-02-10", "2024-02-11"}, amounts: []string{"300", "50"}},
		{name: "category", input: usecase.PeriodAnalysisInput{Category: "gadget"}, periods: []string{"2024-01", "2024-02"}, amounts: []string{"800", "300"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := newSales(tradeBook()).RevenueAnalysis(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rep.Periods) != len(tt.periods) {
				t.Fatalf("expected %d periods, got %+v", len(tt.periods), rep.Periods)
			}
			for i, p := range rep.Periods {
				if p.Key != tt.periods[i] || !p.Amount.Equal(dec(tt.amounts[i])) {
					t.Errorf("period %d: expected %s=%s, got %s=%s", i, tt.periods[i], tt.amounts[i], p.Key, p.Amount)
				}
			}
		})
	}

	if _, err := newSales(tradeBook()).RevenueAnalysis(context.Background(), usecase.PeriodAnalysisInput{Granularity: "hourly"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unknown granularity rejected, got %v", err)
	}
}

func TestPurchaseUseCase(t *testing.T) {
	uc := newPurchase(tradeBook())
	ctx := context.Background()

	sum, err := uc.PurchaseSummary(ctx, usecase.TradeFilterInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Amount.Equal(dec("1000")) || sum.Transactions != 1 || !sum.Quantity.Equal(dec("10")) {
		t.Fatalf("unexpected purchase summary: %+v", sum.TradeStats)
	}

	top, err := uc.TopSuppliers(ctx, usecase.TopPartiesInput{Metric: "items"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top.Parties) != 1 || top.Parties[0].Key != "Initech" || top.Parties[0].Items != 1 {
		t.Fatalf("unexpected suppliers: %+v", top.Parties)
	}

	if _, err := uc.TopSuppliers(ctx, usecase.TopPartiesInput{Metric: "revenue"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected sales metric rejected for suppliers, got %v", err)
	}
	if _, err := uc.SupplierAnalysis(ctx, usecase.PartyAnalysisInput{Party: "Acme"}); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("expected no data for a customer name, got %v", err)
	}
}

func TestSalesUseCase_SalesAnalytics(t *testing.T) {
	uc := newSales(tradeBook())
	uc.SetNow(fixedNow("2024-03-01"))

	rep, err := uc.SalesAnalytics(context.Background(), usecase.AnalyticsInput{Tier: "prescriptive"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.DataPoints != 4 {
		t.Fatalf("expected 4 sales vouchers, got %d", rep.DataPoints)
	}
	for _, in := range rep.Insights {
		if in.Tier != domain.TierPrescriptive {
			t.Fatalf("unexpected %s insight for prescriptive tier", in.Tier)
		}
	}
	if len(rep.Recommendations) == 0 {
		t.Fatalf("expected recommendations for a declining trend with two customers")
	}

	b := tradeBook()
	b.Err = errors.New("pool closed")
	if _, err := newSales(b).SalesAnalytics(context.Background(), usecase.AnalyticsInput{Tier: "all"}); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
}

func TestSalesUseCase_SalesAnalyticsForecastSpansQuietMonths(t *testing.T) {
	b := mocks.NewBook().
		Entry("2024-01-10", "Sales", "S-1", "Acme", "Sales Account", "100").
		Entry("2024-01-10", "Sales", "S-1", "Acme", "Acme", "-100").
		Entry("2024-06-10", "Sales", "S-2", "Acme", "Sales Account", "200").
		Entry("2024-06-10", "Sales", "S-2", "Acme", "Acme", "-200")
	uc := newSales(b)

	rep, err := uc.SalesAnalytics(context.Background(), usecase.AnalyticsInput{
		Tier:            "predictive",
		StartDate:       "2024-01-01",
		EndDate:         "2024-06-30",
		ForecastPeriods: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Trend) != 2 {
		t.Fatalf("expected two active months, got %v", rep.Trend)
	}
	if len(rep.Forecast) != 1 || rep.Forecast[0].Period != "2024-07" || !rep.Forecast[0].Value.Equal(dec("220")) {
		t.Fatalf("expected 2024-07 forecast of 220, got %v", rep.Forecast)
	}
	if len(rep.Insights) != 1 || !strings.Contains(rep.Insights[0].Text, "rising by 20.00 per month") {
		t.Fatalf("unexpected predictive insight: %v", rep.Insights)
	}
}

func TestSalesUseCase_SalesAnalyticsEndDateOnly(t *testing.T) {
	b := mocks.NewBook().
		Entry("2019-06-10", "Sales", "S-1", "Acme", "Sales Account", "100").
		Entry("2019-06-10", "Sales", "S-1", "Acme", "Acme", "-100")
	uc := newSales(b)
	uc.SetNow(fixedNow("2024-06-30"))

	rep, err := uc.SalesAnalytics(context.Background(), usecase.AnalyticsInput{Tier: "all", EndDate: "2020-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rep.Range.From.Format(domain.DateLayout); got != "2019-01-01" {
		t.Fatalf("expected start one year before the end date, got %s", got)
	}
	if rep.DataPoints != 1 {
		t.Fatalf("expected the 2019 sale, got %d data points", rep.DataPoints)
	}
}
