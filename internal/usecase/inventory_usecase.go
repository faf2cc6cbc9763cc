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

// InventoryUseCase answers stock position and movement questions.
type InventoryUseCase struct {
	godowns   GodownRepository
	movements InventoryRepository
	resolver  *Resolver
	logger    zerolog.Logger
	now       func() time.Time
}

// NewInventoryUseCase creates a new InventoryUseCase.
func NewInventoryUseCase(godowns GodownRepository, movements InventoryRepository, resolver *Resolver, logger zerolog.Logger) *InventoryUseCase {
	return &InventoryUseCase{
		godowns:   godowns,
		movements: movements,
		resolver:  resolver,
		logger:    logger.With().Str("component", "inventory").Logger(),
		now:       time.Now,
	}
}

// StockPosition aggregates the movements of one item, godown or both.
type StockPosition struct {
	Item        string
	Godown      string
	Inward      decimal.Decimal
	Outward     decimal.Decimal
	NetQuantity decimal.Decimal
	NetValue    decimal.Decimal
	// Throughput is the sum of absolute movement amounts.
	Throughput  decimal.Decimal
	AverageRate decimal.Decimal
	Movements   int
	Items       int

	rateSum decimal.Decimal
	items   map[string]struct{}
}

func (p *StockPosition) add(m *domain.MovementLine) {
	switch m.Direction() {
	case domain.DirectionIn:
		p.Inward = p.Inward.Add(m.Quantity)
	case domain.DirectionOut:
		p.Outward = p.Outward.Add(m.Quantity.Neg())
	}
	p.NetQuantity = p.NetQuantity.Add(m.Quantity)
	p.NetValue = p.NetValue.Add(m.Amount)
	p.Throughput = p.Throughput.Add(m.Amount.Abs())
	p.rateSum = p.rateSum.Add(m.Rate)
	p.Movements++
	if p.items == nil {
		p.items = map[string]struct{}{}
	}
	p.items[m.Item] = struct{}{}
	p.Items = len(p.items)
	p.AverageRate = average(p.rateSum, p.Movements)
}

func positionName(p *StockPosition) string { return p.Item + "\x00" + p.Godown }

// positions groups moves by key and returns them ordered by throughput desc.
func positions(moves []*domain.MovementLine, key func(*domain.MovementLine) (item, godown string)) []*StockPosition {
	byKey := map[string]*StockPosition{}
	var all []*StockPosition
	for _, m := range moves {
		item, godown := key(m)
		k := item + "\x00" + godown
		p, ok := byKey[k]
		if !ok {
			p = &StockPosition{Item: item, Godown: godown}
			byKey[k] = p
			all = append(all, p)
		}
		p.add(m)
	}
	return Rank(all, positionName, func(p *StockPosition) decimal.Decimal { return p.Throughput }, 0)
}

func totalPosition(moves []*domain.MovementLine) *StockPosition {
	p := &StockPosition{}
	for _, m := range moves {
		p.add(m)
	}
	return p
}

// StockSummaryInput represents input for the stock summary.
type StockSummaryInput struct {
	Godown string
	Item   string
}

// StockSummaryReport lists positions per item and godown.
type StockSummaryReport struct {
	Positions []*StockPosition
	Total     *StockPosition
}

// StockSummary returns one position per item and godown matching the filters.
func (uc *InventoryUseCase) StockSummary(ctx context.Context, input StockSummaryInput) (*StockSummaryReport, error) {
	godown, err := domain.ValidateFragment("godown_name", input.Godown, false)
	if err != nil {
		return nil, err
	}
	item, err := domain.ValidateFragment("item_name", input.Item, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "stock_summary").Str("godown", godown).Str("item", item).Send()

	moves, err := uc.movements.List(ctx, domain.MovementFilter{Godown: godown, Item: item})
	if err != nil {
		return nil, domain.Unavailable("stock summary", err)
	}
	if len(moves) == 0 {
		return nil, domain.NoData(map[string]any{"godown_name": godown, "item_name": item}, "No stock data found for the specified criteria")
	}

	return &StockSummaryReport{
		Positions: positions(moves, func(m *domain.MovementLine) (string, string) { return m.Item, m.Godown }),
		Total:     totalPosition(moves),
	}, nil
}

// ItemDetailsReport is an item's master record, stock by godown and recent movements.
type ItemDetailsReport struct {
	Item       *domain.StockItem
	Candidates []string
	ByGodown   []*StockPosition
	Total      *StockPosition
	Recent     []*domain.MovementLine
}

// ItemDetails resolves the item and returns its stock by godown and its
// RecentTransactionsLimit most recent movements.
func (uc *InventoryUseCase) ItemDetails(ctx context.Context, item string) (*ItemDetailsReport, error) {
	uc.logger.Debug().Str("op", "item_details").Str("item", item).Send()

	entity, candidates, err := uc.resolver.ResolveOne(ctx, domain.EntityItem, item)
	if err != nil {
		return nil, err
	}
	master := entity.Record.(*domain.StockItem)

	moves, err := uc.movements.List(ctx, domain.MovementFilter{ExactItem: master.Name})
	if err != nil {
		return nil, domain.Unavailable("item details", err)
	}

	rep := &ItemDetailsReport{
		Item:       master,
		Candidates: candidates,
		ByGodown:   positions(moves, func(m *domain.MovementLine) (string, string) { return m.Item, m.Godown }),
		Total:      totalPosition(moves),
		Recent:     moves[:min(len(moves), RecentTransactionsLimit)],
	}
	return rep, nil
}

// GodownStock is a godown master record with its aggregate stock.
type GodownStock struct {
	Godown   *domain.Godown
	Position *StockPosition
}

// GodownSummaryReport lists godowns with their stock.
type GodownSummaryReport struct {
	Godowns []GodownStock
	Total   *StockPosition
}

// GodownSummary returns every godown whose name contains the fragment with
// its unique items, quantities and values. Godowns without stock are included.
func (uc *InventoryUseCase) GodownSummary(ctx context.Context, godown string) (*GodownSummaryReport, error) {
	godown, err := domain.ValidateFragment("godown_name", godown, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "godown_summary").Str("godown", godown).Send()

	masters, err := uc.godowns.FindByName(ctx, godown)
	if err != nil {
		return nil, domain.Unavailable("godown summary", err)
	}
	if len(masters) == 0 {
		if godown != "" {
			return nil, &domain.NotFoundError{Kind: domain.EntityGodown, Fragment: godown}
		}
		return nil, domain.NoData(nil, "No godowns found")
	}
	moves, err := uc.movements.List(ctx, domain.MovementFilter{Godown: godown})
	if err != nil {
		return nil, domain.Unavailable("godown summary", err)
	}

	byGodown := map[string]*StockPosition{}
	for _, p := range positions(moves, func(m *domain.MovementLine) (string, string) { return "", m.Godown }) {
		byGodown[p.Godown] = p
	}
	rep := &GodownSummaryReport{Total: totalPosition(moves)}
	for _, g := range masters {
		p, ok := byGodown[g.Name]
		if !ok {
			p = &StockPosition{Godown: g.Name}
		}
		rep.Godowns = append(rep.Godowns, GodownStock{Godown: g, Position: p})
	}
	slices.SortStableFunc(rep.Godowns, func(a, b GodownStock) int {
		if c := b.Position.Throughput.Cmp(a.Position.Throughput); c != 0 {
			return c
		}
		return strings.Compare(a.Godown.Name, b.Godown.Name)
	})
	return rep, nil
}

// MovementsInput represents input for windowed stock movements.
type MovementsInput struct {
	StartDate string
	EndDate   string
	Item      string
}

// MovementReport is a list of movements with in/out totals.
type MovementReport struct {
	Range     domain.DateRange
	Movements []*domain.MovementLine
	Summary   *StockPosition
	Span      DateSpan
}

// StockMovements lists movements in the window, newest first.
func (uc *InventoryUseCase) StockMovements(ctx context.Context, input MovementsInput) (*MovementReport, error) {
	window, err := domain.ParseBoundedRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	item, err := domain.ValidateFragment("item_name", input.Item, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "stock_movements").Stringer("range", window).Str("item", item).Send()

	moves, err := uc.movements.List(ctx, domain.MovementFilter{Range: window, Item: item})
	if err != nil {
		return nil, domain.Unavailable("stock movements", err)
	}
	if len(moves) == 0 {
		params := window.Params()
		params["item_name"] = item
		return nil, domain.NoData(params, "No stock movements found for period %s", window)
	}
	return movementReport(window, moves), nil
}

// LatestMovementsInput represents input for the latest movements.
type LatestMovementsInput struct {
	Limit int
	Item  string
	Party string
}

// LatestMovements returns the most recent movements without a date window
// and reports the span of the returned set.
func (uc *InventoryUseCase) LatestMovements(ctx context.Context, input LatestMovementsInput) (*MovementReport, error) {
	limit, err := domain.ValidateLimit(input.Limit, DefaultLatestLimit)
	if err != nil {
		return nil, err
	}
	item, err := domain.ValidateFragment("item_name", input.Item, false)
	if err != nil {
		return nil, err
	}
	party, err := domain.ValidateFragment("party_name", input.Party, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "latest_movements").Int("limit", limit).Send()

	moves, err := uc.movements.List(ctx, domain.MovementFilter{Item: item, Party: party, Limit: limit})
	if err != nil {
		return nil, domain.Unavailable("latest movements", err)
	}
	if len(moves) == 0 {
		return nil, domain.NoData(map[string]any{"item_name": item, "party_name": party}, "No stock movements found")
	}
	return movementReport(domain.DateRange{}, moves), nil
}

func movementReport(window domain.DateRange, moves []*domain.MovementLine) *MovementReport {
	dates := make([]time.Time, len(moves))
	for i, m := range moves {
		dates[i] = m.Voucher.Date
	}
	return &MovementReport{
		Range:     window,
		Movements: moves,
		Summary:   totalPosition(moves),
		Span:      SpanOf(dates...),
	}
}

// TopItemsInput represents input for the item ranking.
type TopItemsInput struct {
	Metric    string
	Limit     int
	StartDate string
	EndDate   string
	Godown    string
}

// TopItemsReport is a ranked list of item positions.
type TopItemsReport struct {
	Metric string
	Limit  int
	Items  []*StockPosition
}

// TopItems ranks items by throughput value or moved quantity.
func (uc *InventoryUseCase) TopItems(ctx context.Context, input TopItemsInput) (*TopItemsReport, error) {
	metric, err := domain.ParseEnum("metric", input.Metric, "value", domain.ItemRankMetrics)
	if err != nil {
		return nil, err
	}
	limit, err := domain.ValidateLimit(input.Limit, DefaultRankLimit)
	if err != nil {
		return nil, err
	}
	window, err := domain.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	godown, err := domain.ValidateFragment("godown_name", input.Godown, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "top_items").Str("metric", metric).Int("limit", limit).Send()

	moves, err := uc.movements.List(ctx, domain.MovementFilter{Range: window, Godown: godown})
	if err != nil {
		return nil, domain.Unavailable("top items", err)
	}
	if len(moves) == 0 {
		params := window.Params()
		params["metric"] = metric
		return nil, domain.NoData(params, "No inventory data found")
	}

	byItem := positions(moves, func(m *domain.MovementLine) (string, string) { return m.Item, "" })
	value := func(p *StockPosition) decimal.Decimal { return p.Throughput }
	if metric == "quantity" {
		value = func(p *StockPosition) decimal.Decimal { return p.Inward.Add(p.Outward) }
	}
	return &TopItemsReport{
		Metric: metric,
		Limit:  limit,
		Items:  Rank(byItem, func(p *StockPosition) string { return p.Item }, value, limit),
	}, nil
}

// InventoryAnalytics runs tiered analytics over an inventory focus area.
func (uc *InventoryUseCase) InventoryAnalytics(ctx context.Context, input AnalyticsInput) (*AnalyticsReport, error) {
	tier, focus, window, periods, err := analyticsParams(input, domain.InventoryFocuses, uc.now())
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "inventory_analytics").Str("tier", string(tier)).Str("focus", focus).Send()

	moves, err := uc.movements.List(ctx, domain.MovementFilter{Range: window})
	if err != nil {
		return nil, domain.Unavailable("inventory analytics", err)
	}
	if len(moves) == 0 {
		params := window.Params()
		params["query_focus"] = focus
		return nil, domain.NoData(params, "No inventory data found for %s analysis", focus)
	}

	total := totalPosition(moves)
	byItem := positions(moves, func(m *domain.MovementLine) (string, string) { return m.Item, "" })

	var negative, slow int
	for _, p := range byItem {
		if p.NetQuantity.IsNegative() {
			negative++
		}
		if p.Movements <= 1 {
			slow++
		}
	}

	a := analysis{
		tier:       tier,
		focus:      focus,
		window:     window,
		periods:    periods,
		dataPoints: len(moves),
		subject:    "item",
		figures: []Figure{
			{Name: "Unique items", Value: decimal.NewFromInt(int64(len(byItem)))},
			{Name: "Total inward quantity", Value: total.Inward},
			{Name: "Total outward quantity", Value: total.Outward},
			{Name: "Net stock value", Value: total.NetValue},
			{Name: "Movement value", Value: total.Throughput},
		},
	}

	dates := make([]time.Time, len(moves))
	values := make([]decimal.Decimal, len(moves))
	for i, m := range moves {
		dates[i] = m.Voucher.Date
		switch focus {
		case "stock_levels", "valuation":
			values[i] = m.Amount
		default:
			values[i] = m.Quantity.Abs()
		}
	}
	a.series = monthlySeries(dates, values)

	metric := func(p *StockPosition) decimal.Decimal { return p.Throughput }
	if focus == "movement_patterns" || focus == "turnover" {
		metric = func(p *StockPosition) decimal.Decimal { return decimal.NewFromInt(int64(p.Movements)) }
	}
	for _, p := range Rank(byItem, func(p *StockPosition) string { return p.Item }, metric, 0) {
		a.contributors = append(a.contributors, Figure{Name: p.Item, Value: metric(p)})
	}

	turnover := decimal.Zero
	if total.Inward.IsPositive() {
		turnover = total.Outward.DivRound(total.Inward, 2)
	}
	a.figures = append(a.figures, Figure{Name: "Outward to inward ratio", Value: turnover})
	a.advice = []advice{
		{when: negative > 0, text: "Some items show negative stock: check for unrecorded receipts"},
		{when: slow > 0, text: "Slow-moving items found: review reorder levels and clear aged stock"},
		{when: turnover.LessThan(decimal.NewFromFloat(0.5)), text: "Low turnover: reduce purchase quantities for items that are not moving"},
		{when: turnover.GreaterThan(decimal.NewFromInt(1)), text: "Outward exceeds inward: set reorder points and safety stock for fast movers"},
	}
	return a.report(), nil
}
