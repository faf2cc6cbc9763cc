package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
)

// OverviewUseCase composes the domain aggregates into business-wide views.
// Accounting and inventory sides are read and aggregated separately.
type OverviewUseCase struct {
	entries   EntryRepository
	movements InventoryRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOverviewUseCase creates a new OverviewUseCase.
func NewOverviewUseCase(entries EntryRepository, movements InventoryRepository, logger zerolog.Logger) *OverviewUseCase {
	return &OverviewUseCase{
		entries:   entries,
		movements: movements,
		logger:    logger.With().Str("component", "overview").Logger(),
		now:       time.Now,
	}
}

// KPIInputs are the independently aggregated figures the KPIs derive from.
type KPIInputs struct {
	SalesRevenue    decimal.Decimal
	Customers       int
	PurchaseCosts   decimal.Decimal
	Suppliers       int
	Transactions    int
	OperationalDays int
	Cash            Flow
}

// KPIs is the derived dashboard.
type KPIs struct {
	SalesRevenue       decimal.Decimal
	ActiveCustomers    int
	AvgDailySales      decimal.Decimal
	RevenuePerCustomer decimal.Decimal

	PurchaseCosts     decimal.Decimal
	ActiveSuppliers   int
	AvgDailyPurchases decimal.Decimal
	CostPerSupplier   decimal.Decimal

	GrossMargin      decimal.Decimal
	MarginPercent    decimal.Decimal
	RevenueCostRatio decimal.Decimal

	Transactions       int
	OperationalDays    int
	TransactionsPerDay decimal.Decimal

	CashInflows  decimal.Decimal
	CashOutflows decimal.Decimal
	NetCashFlow  decimal.Decimal
}

// ComposeKPIs derives the dashboard from its inputs. Divisors of zero are
// raised to one, and margin percent is zero without revenue.
func ComposeKPIs(in KPIInputs) KPIs {
	one := decimal.NewFromInt(1)
	days := max(in.OperationalDays, 1)

	k := KPIs{
		SalesRevenue:       in.SalesRevenue,
		ActiveCustomers:    in.Customers,
		AvgDailySales:      average(in.SalesRevenue, days),
		RevenuePerCustomer: average(in.SalesRevenue, max(in.Customers, 1)),

		PurchaseCosts:     in.PurchaseCosts,
		ActiveSuppliers:   in.Suppliers,
		AvgDailyPurchases: average(in.PurchaseCosts, days),
		CostPerSupplier:   average(in.PurchaseCosts, max(in.Suppliers, 1)),

		GrossMargin: in.SalesRevenue.Sub(in.PurchaseCosts),

		Transactions:       in.Transactions,
		OperationalDays:    days,
		TransactionsPerDay: average(decimal.NewFromInt(int64(in.Transactions)), days),

		CashInflows:  in.Cash.Inflow,
		CashOutflows: in.Cash.Outflow,
		NetCashFlow:  in.Cash.Net(),
	}
	if in.SalesRevenue.IsPositive() {
		k.MarginPercent = percentOf(k.GrossMargin, in.SalesRevenue)
	}
	k.RevenueCostRatio = in.SalesRevenue.DivRound(decimal.Max(in.PurchaseCosts, one), 2)
	return k
}

// KPIReport is the dashboard for a window.
type KPIReport struct {
	Range domain.DateRange
	KPIs
}

// KPIDashboard aggregates sales, purchases, cash and activity separately and
// composes them.
func (uc *OverviewUseCase) KPIDashboard(ctx context.Context, input RangeInput) (*KPIReport, error) {
	window, err := domain.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "kpi_dashboard").Stringer("range", window).Send()

	in, err := uc.kpiInputs(ctx, window)
	if err != nil {
		return nil, err
	}
	if in.Transactions == 0 {
		return nil, domain.NoData(window.Params(), "No KPI data found for %s", window)
	}
	return &KPIReport{Range: window, KPIs: ComposeKPIs(in)}, nil
}

func (uc *OverviewUseCase) kpiInputs(ctx context.Context, window domain.DateRange) (KPIInputs, error) {
	var in KPIInputs

	tally := func(def MetricDefinition) (*Tally, error) {
		lines, err := uc.entries.List(ctx, def.EntryFilter(window, ""))
		if err != nil {
			return nil, domain.Unavailable("kpi dashboard", err)
		}
		ts := NewTallies()
		ts.AddEntries(def, lines, nil)
		return ts.Total, nil
	}

	sales, err := tally(SalesMetric)
	if err != nil {
		return in, err
	}
	purchases, err := tally(PurchaseMetric)
	if err != nil {
		return in, err
	}
	activity, err := tally(ActivityMetric)
	if err != nil {
		return in, err
	}
	cash, err := uc.entries.List(ctx, CashFlowMetric.EntryFilter(window, ""))
	if err != nil {
		return in, domain.Unavailable("kpi dashboard", err)
	}

	in.SalesRevenue = sales.Amount
	in.Customers = sales.Parties()
	in.PurchaseCosts = purchases.Amount
	in.Suppliers = purchases.Parties()
	in.Transactions = activity.Transactions()
	in.OperationalDays = activity.ActiveDays()
	in.Cash = AggregateFlow(cash, nil).Flow
	return in, nil
}

// BusinessOverview is the business-wide summary of a window.
type BusinessOverview struct {
	Range        domain.DateRange
	Span         DateSpan
	Transactions int
	Parties      int
	VoucherTypes int
	ActiveDays   int

	Inflows          decimal.Decimal
	Outflows         decimal.Decimal
	NetPosition      decimal.Decimal
	DailyAvgInflows  decimal.Decimal
	DailyAvgOutflows decimal.Decimal

	Items      int
	Godowns    int
	InwardQty  decimal.Decimal
	OutwardQty decimal.Decimal

	// HighTurnover is true when stock both came in and went out.
	HighTurnover bool
}

// BusinessOverview summarises transactions, money flow and stock movement.
func (uc *OverviewUseCase) BusinessOverview(ctx context.Context, input RangeInput) (*BusinessOverview, error) {
	window, err := domain.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "business_overview").Stringer("range", window).Send()

	lines, err := uc.entries.List(ctx, ActivityMetric.EntryFilter(window, ""))
	if err != nil {
		return nil, domain.Unavailable("business overview", err)
	}
	moves, err := uc.movements.List(ctx, domain.MovementFilter{Range: window})
	if err != nil {
		return nil, domain.Unavailable("business overview", err)
	}
	if len(lines) == 0 && len(moves) == 0 {
		return nil, domain.NoData(window.Params(), "No business data found for %s", window)
	}

	ts := NewTallies()
	ts.AddEntries(ActivityMetric, lines, nil)
	ts.AddMovements(moves, nil)
	all := ts.Total
	flow := AggregateFlow(lines, nil).Flow
	stock := totalPosition(moves)
	days := max(all.ActiveDays(), 1)

	return &BusinessOverview{
		Range:            window,
		Span:             SpanOf(all.First, all.Last),
		Transactions:     all.Transactions(),
		Parties:          all.Parties(),
		VoucherTypes:     all.VoucherTypes(),
		ActiveDays:       all.ActiveDays(),
		Inflows:          flow.Inflow,
		Outflows:         flow.Outflow,
		NetPosition:      flow.Net(),
		DailyAvgInflows:  average(flow.Inflow, days),
		DailyAvgOutflows: average(flow.Outflow, days),
		Items:            all.Items(),
		Godowns:          all.Godowns(),
		InwardQty:        stock.Inward,
		OutwardQty:       stock.Outward,
		HighTurnover:     stock.Inward.IsPositive() && stock.Outward.IsPositive(),
	}, nil
}

// CrossFunctionalInput represents input for a cross-functional analysis.
type CrossFunctionalInput struct {
	Analysis  string
	StartDate string
	EndDate   string
}

// ItemCorrelation relates an item's stock movement to the revenue it produced.
type ItemCorrelation struct {
	Item      string
	Sold      decimal.Decimal
	Purchased decimal.Decimal
	Revenue   decimal.Decimal
	Customers int
}

// PartyRelationship is a party that both pays and receives.
type PartyRelationship struct {
	Party        string
	Inflows      decimal.Decimal
	Outflows     decimal.Decimal
	VoucherTypes int
}

// MonthlyActivity sets money flow beside operational breadth for one month.
type MonthlyActivity struct {
	Month        string
	Transactions int
	Inflows      decimal.Decimal
	Outflows     decimal.Decimal
	Items        int
	Parties      int
}

// CrossFunctionalReport carries the rows of the selected analysis.
type CrossFunctionalReport struct {
	Analysis string
	Range    domain.DateRange
	Items    []ItemCorrelation
	Parties  []PartyRelationship
	Months   []MonthlyActivity
}

// DataPoints is the number of rows in the report.
func (r *CrossFunctionalReport) DataPoints() int {
	return len(r.Items) + len(r.Parties) + len(r.Months)
}

// CrossFunctional runs one of the cross analyses.
func (uc *OverviewUseCase) CrossFunctional(ctx context.Context, input CrossFunctionalInput) (*CrossFunctionalReport, error) {
	analysis, err := domain.ParseEnum("analysis_type", input.Analysis, "sales_inventory", domain.CrossAnalyses)
	if err != nil {
		return nil, err
	}
	window, err := domain.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "cross_functional").Str("analysis", analysis).Stringer("range", window).Send()

	rep := &CrossFunctionalReport{Analysis: analysis, Range: window}
	switch analysis {
	case "sales_inventory":
		moves, err := uc.movements.List(ctx, domain.MovementFilter{Range: window})
		if err != nil {
			return nil, domain.Unavailable("cross functional", err)
		}
		rep.Items = correlateItems(moves)
	case "supplier_customer":
		lines, err := uc.entries.List(ctx, domain.EntryFilter{Range: window, RequiresParty: true})
		if err != nil {
			return nil, domain.Unavailable("cross functional", err)
		}
		rep.Parties = relateParties(lines)
	default:
		lines, err := uc.entries.List(ctx, domain.EntryFilter{Range: window})
		if err != nil {
			return nil, domain.Unavailable("cross functional", err)
		}
		moves, err := uc.movements.List(ctx, domain.MovementFilter{Range: window})
		if err != nil {
			return nil, domain.Unavailable("cross functional", err)
		}
		rep.Months = monthlyActivity(lines, moves)
	}

	if rep.DataPoints() == 0 {
		params := window.Params()
		params["analysis_type"] = analysis
		return nil, domain.NoData(params, "No data found for %s analysis", analysis)
	}
	return rep, nil
}

// correlateItems keeps items with outward stock and ranks them by the value
// of that outward stock.
func correlateItems(moves []*domain.MovementLine) []ItemCorrelation {
	byItem := map[string]*ItemCorrelation{}
	customers := map[string]map[string]struct{}{}
	var all []*ItemCorrelation
	for _, m := range moves {
		c, ok := byItem[m.Item]
		if !ok {
			c = &ItemCorrelation{Item: m.Item}
			byItem[m.Item] = c
			customers[m.Item] = map[string]struct{}{}
			all = append(all, c)
		}
		switch m.Direction() {
		case domain.DirectionOut:
			c.Sold = c.Sold.Add(m.Quantity.Neg())
			c.Revenue = c.Revenue.Add(m.Amount.Abs())
			if m.Voucher.PartyName != "" {
				customers[m.Item][m.Voucher.PartyName] = struct{}{}
			}
		case domain.DirectionIn:
			c.Purchased = c.Purchased.Add(m.Quantity)
		}
		c.Customers = len(customers[m.Item])
	}

	var sold []*ItemCorrelation
	for _, c := range all {
		if c.Sold.IsPositive() {
			sold = append(sold, c)
		}
	}
	ranked := Rank(sold, func(c *ItemCorrelation) string { return c.Item },
		func(c *ItemCorrelation) decimal.Decimal { return c.Revenue }, CrossFunctionalLimit)
	out := make([]ItemCorrelation, len(ranked))
	for i, c := range ranked {
		out[i] = *c
	}
	return out
}

// relateParties keeps parties with both inflows and outflows and ranks them
// by total volume.
func relateParties(lines []*domain.EntryLine) []PartyRelationship {
	flows := AggregateFlow(lines, ByParty)
	types := NewTallies()
	types.AddEntries(ActivityMetric, lines, ByParty)
	byParty := map[string]*Tally{}
	for _, t := range types.Groups() {
		byParty[t.Key] = t
	}

	var both []PartyRelationship
	for _, g := range flows.Groups {
		if g.Key == "" || !g.Inflow.IsPositive() || !g.Outflow.IsPositive() {
			continue
		}
		both = append(both, PartyRelationship{
			Party:        g.Key,
			Inflows:      g.Inflow,
			Outflows:     g.Outflow,
			VoucherTypes: byParty[g.Key].VoucherTypes(),
		})
	}
	return Rank(both, func(p PartyRelationship) string { return p.Party },
		func(p PartyRelationship) decimal.Decimal { return p.Inflows.Add(p.Outflows) }, RelationshipLimit)
}

func monthlyActivity(lines []*domain.EntryLine, moves []*domain.MovementLine) []MonthlyActivity {
	month := ByPeriod(domain.Monthly)
	flows := AggregateFlow(lines, month)
	ts := NewTallies()
	ts.AddEntries(ActivityMetric, lines, month)
	ts.AddMovements(moves, func(m *domain.MovementLine) string { return domain.Monthly.PeriodKey(m.Voucher.Date) })

	byMonth := map[string]Flow{}
	for _, g := range flows.Groups {
		byMonth[g.Key] = g.Flow
	}
	var out []MonthlyActivity
	for _, t := range ts.Groups() {
		f := byMonth[t.Key]
		out = append(out, MonthlyActivity{
			Month:        t.Key,
			Transactions: t.Transactions(),
			Inflows:      f.Inflow,
			Outflows:     f.Outflow,
			Items:        t.Items(),
			Parties:      t.Parties(),
		})
	}
	return out
}

// StrategicReport holds rule-based insights over the recent window.
type StrategicReport struct {
	Focus           string
	Range           domain.DateRange
	Transactions    int
	Parties         int
	Items           int
	NetPosition     decimal.Decimal
	Insights        []string
	Recommendations []string
	PriorityActions []string
}

// PriorityActions are listed with every strategic report.
var PriorityActions = []string{
	"Monitor cash flow trends weekly",
	"Review top customer and supplier relationships",
	"Analyze product performance and profitability",
	"Implement business intelligence dashboards",
}

// StrategicInsights applies the strategic rules to the last StrategicLookback.
func (uc *OverviewUseCase) StrategicInsights(ctx context.Context, focus string) (*StrategicReport, error) {
	focus, err := domain.ValidateFragment("focus_area", focus, false)
	if err != nil {
		return nil, err
	}
	if focus == "" {
		focus = "overall"
	}
	today := truncate(uc.now())
	window := domain.DateRange{From: today.Add(-StrategicLookback), To: today}

	uc.logger.Debug().Str("op", "strategic_insights").Str("focus", focus).Stringer("range", window).Send()

	lines, err := uc.entries.List(ctx, ActivityMetric.EntryFilter(window, ""))
	if err != nil {
		return nil, domain.Unavailable("strategic insights", err)
	}
	moves, err := uc.movements.List(ctx, domain.MovementFilter{Range: window})
	if err != nil {
		return nil, domain.Unavailable("strategic insights", err)
	}
	if len(lines) == 0 && len(moves) == 0 {
		return nil, domain.NoData(window.Params(), "Insufficient data for strategic analysis")
	}

	ts := NewTallies()
	ts.AddEntries(ActivityMetric, lines, nil)
	ts.AddMovements(moves, nil)
	rep := &StrategicReport{
		Focus:           focus,
		Range:           window,
		Transactions:    ts.Total.Transactions(),
		Parties:         ts.Total.Parties(),
		Items:           ts.Total.Items(),
		NetPosition:     AggregateFlow(lines, nil).Net(),
		PriorityActions: PriorityActions,
	}
	rep.Insights, rep.Recommendations = strategicRules(rep)
	return rep, nil
}

func strategicRules(r *StrategicReport) (insights, recommendations []string) {
	add := func(insight, recommendation string) {
		insights = append(insights, insight)
		recommendations = append(recommendations, recommendation)
	}

	if r.Transactions > HighTransactionVolume {
		add("High transaction volume indicates active business operations",
			"Implement automation for transaction processing efficiency")
	} else {
		add("Moderate transaction volume suggests room for business growth",
			"Focus on customer acquisition and market expansion")
	}

	if r.NetPosition.IsPositive() {
		add("Positive cash flow indicates healthy financial position",
			"Consider strategic investments for business expansion")
	} else {
		add("Negative cash flow requires attention to liquidity management",
			"Review cost structure and optimize cash flow management")
	}

	if r.Items > DiversePortfolioItems {
		add("Diverse product portfolio provides multiple revenue streams",
			"Analyze top-performing products for focused marketing")
	}
	if r.Parties > WideNetworkParties {
		add("Extensive network of business relationships",
			"Implement CRM system for better relationship management")
	}
	return insights, recommendations
}
