package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
)

// tradeBook is the engine shared by sales and purchase analysis. The two
// differ only in their metric definition and vocabulary.
type tradeBook struct {
	def       MetricDefinition
	role      string
	entries   EntryRepository
	movements InventoryRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// TradeFilterInput represents input for a sales or purchase summary.
type TradeFilterInput struct {
	StartDate   string
	EndDate     string
	Party       string
	VoucherType string
}

// PartyAnalysisInput represents input for a per-party breakdown.
type PartyAnalysisInput struct {
	Party     string
	StartDate string
	EndDate   string
}

// PeriodAnalysisInput represents input for a per-period breakdown.
type PeriodAnalysisInput struct {
	Granularity string
	StartDate   string
	EndDate     string
	// Category restricts to vouchers moving an item whose name contains it.
	Category string
}

// TopPartiesInput represents input for a party ranking.
type TopPartiesInput struct {
	Metric    string
	Limit     int
	StartDate string
	EndDate   string
	Party     string
}

// TradeStats is the aggregate of one party or period.
type TradeStats struct {
	Key          string
	Transactions int
	Amount       decimal.Decimal
	AverageValue decimal.Decimal
	Quantity     decimal.Decimal
	Parties      int
	Items        int
	Godowns      int
	VoucherTypes int
	ActiveDays   int
	First        time.Time
	Last         time.Time
}

func statsOf(t *Tally) TradeStats {
	return TradeStats{
		Key:          t.Key,
		Transactions: t.Transactions(),
		Amount:       t.Amount,
		AverageValue: t.AverageValue(),
		Quantity:     t.Quantity,
		Parties:      t.Parties(),
		Items:        t.Items(),
		Godowns:      t.Godowns(),
		VoucherTypes: t.VoucherTypes(),
		ActiveDays:   t.ActiveDays(),
		First:        t.First,
		Last:         t.Last,
	}
}

// TradeSummary is the headline aggregate of a window.
type TradeSummary struct {
	Range domain.DateRange
	TradeStats
	AverageDaily decimal.Decimal
}

// PartyReport is a ranked per-party breakdown.
type PartyReport struct {
	Range   domain.DateRange
	Metric  string
	Limit   int
	Parties []TradeStats
}

// PeriodReport is a per-period breakdown in chronological order.
type PeriodReport struct {
	Range       domain.DateRange
	Granularity domain.Granularity
	Periods     []TradeStats
}

func (b *tradeBook) noData(window domain.DateRange, extra map[string]any) error {
	params := window.Params()
	for k, v := range extra {
		params[k] = v
	}
	return domain.NoData(params, "No %s data found for %s", b.def.Name, window)
}

func (b *tradeBook) load(ctx context.Context, op string, filter domain.EntryFilter, withMovements bool) ([]*domain.EntryLine, []*domain.MovementLine, error) {
	lines, err := b.entries.List(ctx, filter)
	if err != nil {
		return nil, nil, domain.Unavailable(op, err)
	}
	if !withMovements {
		return lines, nil, nil
	}
	moves, err := b.movements.List(ctx, domain.MovementFilter{
		Range:        filter.Range,
		VoucherTypes: filter.VoucherTypes,
		Party:        filter.Party,
	})
	if err != nil {
		return nil, nil, domain.Unavailable(op, err)
	}
	return lines, moves, nil
}

func (b *tradeBook) summary(ctx context.Context, in TradeFilterInput) (*TradeSummary, error) {
	window, err := domain.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	party, err := domain.ValidateFragment(b.role, in.Party, false)
	if err != nil {
		return nil, err
	}
	vtype, err := domain.ValidateFragment("voucher_type", in.VoucherType, false)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Str("op", b.def.Name+"_summary").Stringer("range", window).Str("party", party).Send()

	filter := b.def.EntryFilter(window, party)
	if vtype != "" {
		filter.VoucherTypes = []string{vtype}
	}
	lines, moves, err := b.load(ctx, b.def.Name+" summary", filter, true)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 && len(moves) == 0 {
		return nil, b.noData(window, map[string]any{b.role: party})
	}

	return b.summarise(window, lines, moves), nil
}

func (b *tradeBook) summarise(window domain.DateRange, lines []*domain.EntryLine, moves []*domain.MovementLine) *TradeSummary {
	ts := NewTallies()
	ts.AddEntries(b.def, lines, nil)
	ts.AddMovements(moves, nil)
	stats := statsOf(ts.Total)
	return &TradeSummary{
		Range:        window,
		TradeStats:   stats,
		AverageDaily: average(stats.Amount, max(stats.ActiveDays, 1)),
	}
}

func (b *tradeBook) parties(ctx context.Context, in PartyAnalysisInput) (*PartyReport, error) {
	window, err := domain.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	party, err := domain.ValidateFragment(b.role, in.Party, false)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Str("op", b.role+"_analysis").Stringer("range", window).Str("party", party).Send()

	filter := b.def.EntryFilter(window, party)
	filter.RequiresParty = true
	lines, moves, err := b.load(ctx, b.role+" analysis", filter, true)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, b.noData(window, map[string]any{b.role: party})
	}

	return &PartyReport{
		Range:   window,
		Metric:  "amount",
		Parties: b.rankParties(lines, moves, "amount", 0),
	}, nil
}

func (b *tradeBook) rankParties(lines []*domain.EntryLine, moves []*domain.MovementLine, metric string, limit int) []TradeStats {
	ts := NewTallies()
	ts.AddEntries(b.def, lines, ByParty)
	ts.AddMovements(moves, func(m *domain.MovementLine) string { return m.Voucher.PartyName })

	var eligible []*Tally
	for _, t := range ts.Groups() {
		if t.Key != "" {
			eligible = append(eligible, t)
		}
	}
	ranked := Rank(eligible, tallyName, tallyMetric(metric), limit)
	out := make([]TradeStats, len(ranked))
	for i, t := range ranked {
		out[i] = statsOf(t)
	}
	return out
}

func (b *tradeBook) periods(ctx context.Context, in PeriodAnalysisInput) (*PeriodReport, error) {
	g, err := domain.ParseGranularity(in.Granularity)
	if err != nil {
		return nil, err
	}
	window, err := domain.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	category, err := domain.ValidateFragment("category", in.Category, false)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Str("op", b.def.Name+"_periods").Str("granularity", string(g)).Stringer("range", window).Send()

	lines, err := b.entries.List(ctx, b.def.EntryFilter(window, ""))
	if err != nil {
		return nil, domain.Unavailable(b.def.Name+" periods", err)
	}
	moves, err := b.movements.List(ctx, b.def.MovementFilter(window, "", category))
	if err != nil {
		return nil, domain.Unavailable(b.def.Name+" periods", err)
	}
	if category != "" {
		lines = withinVouchers(lines, moves)
	}
	if len(lines) == 0 {
		return nil, b.noData(window, map[string]any{"period": string(g), "category": category})
	}

	ts := NewTallies()
	ts.AddEntries(b.def, lines, ByPeriod(g))
	ts.AddMovements(moves, func(m *domain.MovementLine) string { return g.PeriodKey(m.Voucher.Date) })

	rep := &PeriodReport{Range: window, Granularity: g}
	for _, t := range ts.Groups() {
		rep.Periods = append(rep.Periods, statsOf(t))
	}
	return rep, nil
}

// withinVouchers keeps the entry lines whose voucher also has a movement in moves.
func withinVouchers(lines []*domain.EntryLine, moves []*domain.MovementLine) []*domain.EntryLine {
	keep := make(map[string]struct{}, len(moves))
	for _, m := range moves {
		keep[m.Voucher.GUID] = struct{}{}
	}
	var out []*domain.EntryLine
	for _, l := range lines {
		if _, ok := keep[l.Voucher.GUID]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (b *tradeBook) top(ctx context.Context, in TopPartiesInput, metrics []string) (*PartyReport, error) {
	metric, err := domain.ParseEnum("metric", in.Metric, metrics[0], metrics)
	if err != nil {
		return nil, err
	}
	limit, err := domain.ValidateLimit(in.Limit, DefaultRankLimit)
	if err != nil {
		return nil, err
	}
	window, err := domain.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	party, err := domain.ValidateFragment(b.role, in.Party, false)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Str("op", "top_"+b.role+"s").Str("metric", metric).Int("limit", limit).Send()

	filter := b.def.EntryFilter(window, party)
	filter.RequiresParty = true
	lines, moves, err := b.load(ctx, "top "+b.role+"s", filter, true)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 && len(moves) == 0 {
		return nil, b.noData(window, map[string]any{"metric": metric, b.role: party})
	}

	return &PartyReport{
		Range:   window,
		Metric:  metric,
		Limit:   limit,
		Parties: b.rankParties(lines, moves, rankKey(metric), limit),
	}, nil
}

// rankKey maps the public metric names onto tally metrics.
func rankKey(metric string) string {
	switch metric {
	case "revenue", "spending", "value":
		return "amount"
	default:
		return metric
	}
}

func (b *tradeBook) performance(ctx context.Context, in RangeInput) (*TradeSummary, error) {
	window, err := domain.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Str("op", b.def.Name+"_performance").Stringer("range", window).Send()

	lines, moves, err := b.load(ctx, b.def.Name+" performance", b.def.EntryFilter(window, ""), true)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 && len(moves) == 0 {
		return nil, b.noData(window, nil)
	}
	return b.summarise(window, lines, moves), nil
}

func (b *tradeBook) analytics(ctx context.Context, in AnalyticsInput) (*AnalyticsReport, error) {
	tier, _, window, periods, err := analyticsParams(in, nil, b.now())
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Str("op", b.def.Name+"_analytics").Str("tier", string(tier)).Send()

	filter := b.def.EntryFilter(window, "")
	lines, moves, err := b.load(ctx, b.def.Name+" analytics", filter, true)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, b.noData(window, map[string]any{"analytics_type": string(tier)})
	}

	sum := b.summarise(window, lines, moves)
	parties := b.rankParties(lines, moves, "amount", 0)
	a := analysis{
		tier:       tier,
		focus:      in.Focus,
		window:     window,
		periods:    periods,
		dataPoints: sum.Transactions,
		subject:    b.role,
		series:     countedSeries(b.def, lines),
		figures: []Figure{
			{Name: fmt.Sprintf("Total %s", b.def.Name), Value: sum.Amount},
			{Name: "Transactions", Value: decimal.NewFromInt(int64(sum.Transactions))},
			{Name: "Average transaction value", Value: sum.AverageValue},
			{Name: fmt.Sprintf("Unique %ss", b.role), Value: decimal.NewFromInt(int64(sum.Parties))},
		},
	}
	for _, p := range parties {
		a.contributors = append(a.contributors, Figure{Name: p.Key, Value: p.Amount})
	}
	slope := trendSlope(a.series)
	a.advice = []advice{
		{when: slope.IsNegative(), text: fmt.Sprintf("%s volume is declining month over month: review pricing and %s engagement", b.def.Name, b.role)},
		{when: sum.Parties > 0 && sum.Parties < 5, text: fmt.Sprintf("Few active %ss: diversify to reduce concentration risk", b.role)},
		{when: sum.Items > DiversePortfolioItems, text: "Wide item range: focus on the highest value items"},
		{when: slope.IsPositive(), text: fmt.Sprintf("%s volume is growing: plan stock and cash ahead of demand", b.def.Name)},
	}
	return a.report(), nil
}
