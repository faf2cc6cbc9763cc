package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
)

// FinancialUseCase answers balance, cash flow and P&L questions.
type FinancialUseCase struct {
	ledgers  LedgerRepository
	vouchers VoucherRepository
	entries  EntryRepository
	resolver *Resolver
	logger   zerolog.Logger
	now      func() time.Time
}

// NewFinancialUseCase creates a new FinancialUseCase.
func NewFinancialUseCase(ledgers LedgerRepository, vouchers VoucherRepository, entries EntryRepository, resolver *Resolver, logger zerolog.Logger) *FinancialUseCase {
	return &FinancialUseCase{
		ledgers:  ledgers,
		vouchers: vouchers,
		entries:  entries,
		resolver: resolver,
		logger:   logger.With().Str("component", "financial").Logger(),
		now:      time.Now,
	}
}

// RangeInput is a pair of optional YYYY-MM-DD bounds.
type RangeInput struct {
	StartDate string
	EndDate   string
}

// BalanceInput represents input for an account balance.
type BalanceInput struct {
	Account string
	AsOf    string
}

// BalanceReport is the closing balance of one ledger.
type BalanceReport struct {
	Account        string
	Parent         string
	Description    string
	Nature         domain.Nature
	Candidates     []string
	OpeningBalance decimal.Decimal
	Credits        decimal.Decimal
	Debits         decimal.Decimal
	ClosingBalance decimal.Decimal
	EntryCount     int
	AsOf           time.Time
}

// AccountBalance resolves the account and computes its closing balance
// over every entry dated on or before AsOf (all entries when AsOf is empty).
func (uc *FinancialUseCase) AccountBalance(ctx context.Context, input BalanceInput) (*BalanceReport, error) {
	var window domain.DateRange
	if input.AsOf != "" {
		asOf, err := domain.ParseDate("as_of_date", input.AsOf)
		if err != nil {
			return nil, err
		}
		window.To = asOf
	}

	uc.logger.Debug().Str("op", "account_balance").Str("account", input.Account).Str("as_of", input.AsOf).Send()

	entity, candidates, err := uc.resolver.ResolveOne(ctx, domain.EntityAccount, input.Account)
	if err != nil {
		return nil, err
	}
	ledger := entity.Record.(*domain.Ledger)

	lines, err := uc.entries.List(ctx, domain.EntryFilter{Range: window, ExactLedger: ledger.Name})
	if err != nil {
		return nil, domain.Unavailable("account balance", err)
	}

	totals := domain.SumEntries(lines)
	return &BalanceReport{
		Account:        ledger.Name,
		Parent:         ledger.Parent,
		Description:    ledger.Description,
		Nature:         ledger.Nature,
		Candidates:     candidates,
		OpeningBalance: ledger.OpeningBalance,
		Credits:        totals.Credits,
		Debits:         totals.Debits,
		ClosingBalance: ledger.ClosingBalance(totals),
		EntryCount:     totals.Count,
		AsOf:           window.To,
	}, nil
}

// CashFlowReport is cash and bank movement over a window, by voucher type.
type CashFlowReport struct {
	Range domain.DateRange
	FlowSummary
}

// CashFlow sums cash and bank entries in the window and groups them by voucher type.
func (uc *FinancialUseCase) CashFlow(ctx context.Context, input RangeInput) (*CashFlowReport, error) {
	window, err := domain.ParseBoundedRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "cash_flow").Stringer("range", window).Send()

	lines, err := uc.entries.List(ctx, CashFlowMetric.EntryFilter(window, ""))
	if err != nil {
		return nil, domain.Unavailable("cash flow", err)
	}
	if len(lines) == 0 {
		return nil, domain.NoData(window.Params(), "No cash transactions found for period %s", window)
	}

	return &CashFlowReport{Range: window, FlowSummary: AggregateFlow(lines, ByVoucherType)}, nil
}

// PLLine is one ledger of a profit and loss statement.
type PLLine struct {
	Account string
	Parent  string
	Amount  decimal.Decimal
}

// ProfitLossReport is income minus expenses over a window.
type ProfitLossReport struct {
	Range         domain.DateRange
	Income        []PLLine
	Expenses      []PLLine
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
}

// ProfitLoss classifies P&L ledgers by nature and reports each ledger's
// movement in the window in its natural direction.
func (uc *FinancialUseCase) ProfitLoss(ctx context.Context, input RangeInput) (*ProfitLossReport, error) {
	window, err := domain.ParseBoundedRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "profit_loss").Stringer("range", window).Send()

	ledgers, err := uc.ledgers.List(ctx, "")
	if err != nil {
		return nil, domain.Unavailable("profit and loss", err)
	}
	lines, err := uc.entries.List(ctx, domain.EntryFilter{Range: window})
	if err != nil {
		return nil, domain.Unavailable("profit and loss", err)
	}

	totals := totalsByLedger(lines)
	rep := &ProfitLossReport{Range: window}
	for _, l := range ledgers {
		t, ok := totals[l.Name]
		if !ok || !l.AffectsProfit {
			continue
		}
		line := PLLine{Account: l.Name, Parent: l.Parent, Amount: l.SignedMovement(t)}
		if l.IsIncome() {
			rep.Income = append(rep.Income, line)
			rep.TotalIncome = rep.TotalIncome.Add(line.Amount)
		} else {
			rep.Expenses = append(rep.Expenses, line)
			rep.TotalExpenses = rep.TotalExpenses.Add(line.Amount)
		}
	}
	if len(rep.Income) == 0 && len(rep.Expenses) == 0 {
		return nil, domain.NoData(window.Params(), "No P&L data found for period %s", window)
	}
	sortPL(rep.Income)
	sortPL(rep.Expenses)
	rep.NetProfit = rep.TotalIncome.Sub(rep.TotalExpenses)
	return rep, nil
}

func sortPL(lines []PLLine) {
	slices.SortFunc(lines, func(a, b PLLine) int { return strings.Compare(a.Account, b.Account) })
}

func totalsByLedger(lines []*domain.EntryLine) map[string]domain.EntryTotals {
	totals := map[string]domain.EntryTotals{}
	for _, l := range lines {
		t := totals[l.Ledger]
		t.Add(l.Amount)
		totals[l.Ledger] = t
	}
	return totals
}

// PaymentReceiptsInput represents input for payment and receipt listings.
type PaymentReceiptsInput struct {
	Kind      string
	StartDate string
	EndDate   string
	Party     string
	Limit     int
}

// VoucherListReport is a list of voucher totals.
type VoucherListReport struct {
	Kind          domain.TransactionKind
	Range         domain.DateRange
	DefaultWindow bool
	Vouchers      []*domain.VoucherTotal
	TotalAmount   decimal.Decimal
	Span          DateSpan
}

// PaymentReceipts lists payment and/or receipt vouchers in the window.
// When either bound is missing the window is the DefaultPaymentLookback
// ending today.
func (uc *FinancialUseCase) PaymentReceipts(ctx context.Context, input PaymentReceiptsInput) (*VoucherListReport, error) {
	kind, err := domain.ParseTransactionKind(input.Kind)
	if err != nil {
		return nil, err
	}
	window, err := domain.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	party, err := domain.ValidateFragment("party_name", input.Party, false)
	if err != nil {
		return nil, err
	}
	limit, err := domain.ValidateLimit(input.Limit, 0)
	if err != nil {
		return nil, err
	}

	defaulted := false
	if !window.Bounded() {
		today := truncate(uc.now())
		window = domain.DateRange{From: today.Add(-DefaultPaymentLookback), To: today}
		defaulted = true
	}

	uc.logger.Debug().Str("op", "payment_receipts").Str("kind", string(kind)).Stringer("range", window).Send()

	vouchers, err := uc.vouchers.List(ctx, domain.VoucherFilter{
		Range:        window,
		VoucherTypes: kind.VoucherTypes(),
		Party:        party,
		Limit:        limit,
	})
	if err != nil {
		return nil, domain.Unavailable("payment receipts", err)
	}
	if len(vouchers) == 0 {
		params := window.Params()
		params["transaction_type"] = string(kind)
		return nil, domain.NoData(params, "No %s transactions found for period %s", kind, window)
	}

	return voucherList(kind, window, defaulted, vouchers), nil
}

// LatestInput represents input for "latest N" listings.
type LatestInput struct {
	Kind  string
	Limit int
	Party string
}

// LatestTransactions returns the most recent payment and/or receipt vouchers
// without a date window and reports the span of the returned set.
func (uc *FinancialUseCase) LatestTransactions(ctx context.Context, input LatestInput) (*VoucherListReport, error) {
	kind, err := domain.ParseTransactionKind(input.Kind)
	if err != nil {
		return nil, err
	}
	limit, err := domain.ValidateLimit(input.Limit, DefaultLatestLimit)
	if err != nil {
		return nil, err
	}
	party, err := domain.ValidateFragment("party_name", input.Party, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "latest_transactions").Str("kind", string(kind)).Int("limit", limit).Send()

	vouchers, err := uc.vouchers.List(ctx, domain.VoucherFilter{
		VoucherTypes: kind.VoucherTypes(),
		Party:        party,
		Limit:        limit,
	})
	if err != nil {
		return nil, domain.Unavailable("latest transactions", err)
	}
	if len(vouchers) == 0 {
		return nil, domain.NoData(map[string]any{"transaction_type": string(kind)}, "No %s transactions found", kind)
	}

	return voucherList(kind, domain.DateRange{}, false, vouchers), nil
}

func voucherList(kind domain.TransactionKind, window domain.DateRange, defaulted bool, vouchers []*domain.VoucherTotal) *VoucherListReport {
	rep := &VoucherListReport{Kind: kind, Range: window, DefaultWindow: defaulted, Vouchers: vouchers}
	dates := make([]time.Time, len(vouchers))
	for i, v := range vouchers {
		rep.TotalAmount = rep.TotalAmount.Add(v.GrossAmount)
		dates[i] = v.Voucher.Date
	}
	rep.Span = SpanOf(dates...)
	return rep
}

// LedgerSummaryInput represents input for the ledger summary.
type LedgerSummaryInput struct {
	Parent      string
	IncludeZero bool
}

// LedgerBalance is one row of the ledger summary.
type LedgerBalance struct {
	Account        string
	Parent         string
	Description    string
	Nature         domain.Nature
	AffectsProfit  bool
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
}

// LedgerSummaryReport lists closing balances of ledgers.
type LedgerSummaryReport struct {
	Accounts     []LedgerBalance
	TotalBalance decimal.Decimal
}

// LedgerSummary returns the closing balance of every ledger under Parent.
// Ledgers with zero opening and closing balance are skipped unless IncludeZero.
func (uc *FinancialUseCase) LedgerSummary(ctx context.Context, input LedgerSummaryInput) (*LedgerSummaryReport, error) {
	parent, err := domain.ValidateFragment("account_type", input.Parent, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "ledger_summary").Str("parent", parent).Send()

	ledgers, err := uc.ledgers.List(ctx, parent)
	if err != nil {
		return nil, domain.Unavailable("ledger summary", err)
	}
	if len(ledgers) == 0 {
		return nil, domain.NoData(map[string]any{"account_type": parent}, "No ledger accounts found")
	}
	lines, err := uc.entries.List(ctx, domain.EntryFilter{})
	if err != nil {
		return nil, domain.Unavailable("ledger summary", err)
	}

	totals := totalsByLedger(lines)
	rep := &LedgerSummaryReport{}
	for _, l := range ledgers {
		closing := l.ClosingBalance(totals[l.Name])
		if !input.IncludeZero && closing.IsZero() && l.OpeningBalance.IsZero() {
			continue
		}
		rep.Accounts = append(rep.Accounts, LedgerBalance{
			Account:        l.Name,
			Parent:         l.Parent,
			Description:    l.Description,
			Nature:         l.Nature,
			AffectsProfit:  l.AffectsProfit,
			OpeningBalance: l.OpeningBalance,
			Balance:        closing,
		})
		rep.TotalBalance = rep.TotalBalance.Add(closing)
	}
	slices.SortFunc(rep.Accounts, func(a, b LedgerBalance) int { return strings.Compare(a.Account, b.Account) })
	return rep, nil
}

// VoucherDetailsInput represents input for voucher lookup.
type VoucherDetailsInput struct {
	Number    string
	Type      string
	StartDate string
	EndDate   string
}

// VoucherDetails lists vouchers by number, type and window.
func (uc *FinancialUseCase) VoucherDetails(ctx context.Context, input VoucherDetailsInput) (*VoucherListReport, error) {
	window, err := domain.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	number, err := domain.ValidateFragment("voucher_number", input.Number, false)
	if err != nil {
		return nil, err
	}
	vtype, err := domain.ValidateFragment("voucher_type", input.Type, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "voucher_details").Str("number", number).Str("type", vtype).Send()

	filter := domain.VoucherFilter{Range: window, Number: number}
	if vtype != "" {
		filter.VoucherTypes = []string{vtype}
	}
	vouchers, err := uc.vouchers.List(ctx, filter)
	if err != nil {
		return nil, domain.Unavailable("voucher details", err)
	}
	if len(vouchers) == 0 {
		params := window.Params()
		params["voucher_number"] = number
		params["voucher_type"] = vtype
		return nil, domain.NoData(params, "No vouchers found matching the criteria")
	}

	return voucherList("", window, false, vouchers), nil
}

// FinancialAnalytics runs tiered analytics over a financial focus area.
func (uc *FinancialUseCase) FinancialAnalytics(ctx context.Context, input AnalyticsInput) (*AnalyticsReport, error) {
	tier, focus, window, periods, err := analyticsParams(input, domain.FinancialFocuses, uc.now())
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "financial_analytics").Str("tier", string(tier)).Str("focus", focus).Send()

	a := analysis{tier: tier, focus: focus, window: window, periods: periods}

	switch focus {
	case "cash_flow", "liquidity":
		lines, err := uc.entries.List(ctx, CashFlowMetric.EntryFilter(window, ""))
		if err != nil {
			return nil, domain.Unavailable("financial analytics", err)
		}
		if len(lines) == 0 {
			return nil, domain.NoData(window.Params(), "No cash transactions found for %s analysis", focus)
		}
		flow := AggregateFlow(lines, ByLedger)
		a.dataPoints = flow.Count
		a.subject = "cash account"
		a.figures = []Figure{
			{Name: "Total cash inflow", Value: flow.Inflow},
			{Name: "Total cash outflow", Value: flow.Outflow},
			{Name: "Net cash flow", Value: flow.Net()},
		}
		a.contributors = flowContributors(flow.Groups)
		a.series = signedSeries(lines)
		a.advice = []advice{
			{when: flow.Net().IsNegative(), text: "Outflows exceed inflows: defer discretionary payments and accelerate collections"},
			{when: flow.Net().IsPositive(), text: "Surplus cash: consider short-term deposits or early supplier settlement discounts"},
		}

	case "profitability":
		pl, err := uc.ProfitLoss(ctx, RangeInput{StartDate: domain.FormatDate(window.From), EndDate: domain.FormatDate(window.To)})
		if err != nil {
			return nil, err
		}
		a.dataPoints = len(pl.Income) + len(pl.Expenses)
		a.subject = "expense account"
		a.figures = []Figure{
			{Name: "Total income", Value: pl.TotalIncome},
			{Name: "Total expenses", Value: pl.TotalExpenses},
			{Name: "Net profit", Value: pl.NetProfit},
			{Name: "Net margin %", Value: percentOf(pl.NetProfit, pl.TotalIncome)},
		}
		for _, e := range pl.Expenses {
			a.contributors = append(a.contributors, Figure{Name: e.Account, Value: e.Amount})
		}
		a.contributors = Rank(a.contributors, figureName, figureValue, 0)
		lines, err := uc.entries.List(ctx, SalesMetric.EntryFilter(window, ""))
		if err != nil {
			return nil, domain.Unavailable("financial analytics", err)
		}
		a.series = countedSeries(SalesMetric, lines)
		a.advice = []advice{
			{when: pl.NetProfit.IsNegative(), text: "Expenses exceed income: review the largest expense accounts"},
			{when: pl.NetProfit.IsPositive(), text: "Profitable period: reinvest surplus into the highest margin lines"},
		}

	default:
		lines, err := uc.entries.List(ctx, ActivityMetric.EntryFilter(window, ""))
		if err != nil {
			return nil, domain.Unavailable("financial analytics", err)
		}
		if len(lines) == 0 {
			return nil, domain.NoData(window.Params(), "No transactions found for %s analysis", focus)
		}
		ts := NewTallies()
		ts.AddEntries(ActivityMetric, lines, ByParty)
		a.dataPoints = len(lines)
		a.subject = "party"
		a.figures = []Figure{
			{Name: "Total amount", Value: ts.Total.Amount},
			{Name: "Transactions", Value: decimal.NewFromInt(int64(ts.Total.Transactions()))},
			{Name: "Unique parties", Value: decimal.NewFromInt(int64(ts.Total.Parties()))},
		}
		for _, t := range Rank(ts.Groups(), tallyName, tallyMetric("amount"), 0) {
			if t.Key != "" {
				a.contributors = append(a.contributors, Figure{Name: t.Key, Value: t.Amount})
			}
		}
		a.series = countedSeries(ActivityMetric, lines)
		a.advice = []advice{
			{when: ts.Total.Parties() < 5, text: "Activity depends on few parties: broaden the customer and supplier base"},
			{when: ts.Total.Transactions() > HighTransactionVolume, text: "High transaction volume: automate voucher entry and reconciliation"},
		}
	}

	return a.report(), nil
}

func flowContributors(groups []FlowGroup) []Figure {
	out := make([]Figure, 0, len(groups))
	for _, g := range groups {
		out = append(out, Figure{Name: g.Key, Value: g.Inflow.Add(g.Outflow)})
	}
	return Rank(out, figureName, figureValue, 0)
}

func figureName(f Figure) string           { return f.Name }
func figureValue(f Figure) decimal.Decimal { return f.Value }

func signedSeries(lines []*domain.EntryLine) []SeriesPoint {
	dates := make([]time.Time, len(lines))
	values := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		dates[i] = l.Voucher.Date
		values[i] = l.Amount
	}
	return monthlySeries(dates, values)
}

func countedSeries(def MetricDefinition, lines []*domain.EntryLine) []SeriesPoint {
	var dates []time.Time
	var values []decimal.Decimal
	for _, l := range lines {
		if amount, ok := def.Counted(l.Amount); ok {
			dates = append(dates, l.Voucher.Date)
			values = append(values, amount)
		}
	}
	return monthlySeries(dates, values)
}
