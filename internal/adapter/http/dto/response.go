package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/usecase"
)

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return domain.FormatDate(t)
}

// RangeResponse is an inclusive date window. Unbounded sides are omitted.
type RangeResponse struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// RangeFromDomain converts a window to response.
func RangeFromDomain(r domain.DateRange) RangeResponse {
	return RangeResponse{StartDate: date(r.From), EndDate: date(r.To)}
}

// SpanResponse is the oldest and latest date of a result set.
type SpanResponse struct {
	Oldest string `json:"oldest,omitempty"`
	Latest string `json:"latest,omitempty"`
}

func spanFrom(s usecase.DateSpan) SpanResponse {
	return SpanResponse{Oldest: date(s.Oldest), Latest: date(s.Latest)}
}

// BalanceResponse represents an account balance in API responses.
type BalanceResponse struct {
	Account        string          `json:"account"`
	Parent         string          `json:"parent,omitempty"`
	Description    string          `json:"description,omitempty"`
	Nature         string          `json:"nature"`
	Candidates     []string        `json:"candidates,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Credits        decimal.Decimal `json:"credits"`
	Debits         decimal.Decimal `json:"debits"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	EntryCount     int             `json:"entry_count"`
	AsOf           string          `json:"as_of_date,omitempty"`
}

// BalanceFromReport converts a balance report to response.
func BalanceFromReport(r *usecase.BalanceReport) *BalanceResponse {
	return &BalanceResponse{
		Account:        r.Account,
		Parent:         r.Parent,
		Description:    r.Description,
		Nature:         r.Nature.String(),
		Candidates:     r.Candidates,
		OpeningBalance: r.OpeningBalance,
		Credits:        r.Credits,
		Debits:         r.Debits,
		ClosingBalance: r.ClosingBalance,
		EntryCount:     r.EntryCount,
		AsOf:           date(r.AsOf),
	}
}

// FlowGroupResponse is one bucket of a grouped flow.
type FlowGroupResponse struct {
	Key     string          `json:"key"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

// CashFlowResponse represents cash movement in API responses.
type CashFlowResponse struct {
	Period  RangeResponse       `json:"period"`
	Inflow  decimal.Decimal     `json:"total_inflow"`
	Outflow decimal.Decimal     `json:"total_outflow"`
	Net     decimal.Decimal     `json:"net_cash_flow"`
	Count   int                 `json:"transaction_count"`
	ByType  []FlowGroupResponse `json:"by_voucher_type"`
}

// CashFlowFromReport converts a cash flow report to response.
func CashFlowFromReport(r *usecase.CashFlowReport) *CashFlowResponse {
	groups := make([]FlowGroupResponse, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = FlowGroupResponse{Key: g.Key, Inflow: g.Inflow, Outflow: g.Outflow, Net: g.Net(), Count: g.Count}
	}
	return &CashFlowResponse{
		Period:  RangeFromDomain(r.Range),
		Inflow:  r.Inflow,
		Outflow: r.Outflow,
		Net:     r.Net(),
		Count:   r.Count,
		ByType:  groups,
	}
}

// PLLineResponse is one ledger of a profit and loss statement.
type PLLineResponse struct {
	Account string          `json:"account"`
	Parent  string          `json:"parent,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
}

// ProfitLossResponse represents a P&L statement in API responses.
type ProfitLossResponse struct {
	Period        RangeResponse    `json:"period"`
	Income        []PLLineResponse `json:"income"`
	Expenses      []PLLineResponse `json:"expenses"`
	TotalIncome   decimal.Decimal  `json:"total_income"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	NetProfit     decimal.Decimal  `json:"net_profit"`
}

func plLines(lines []usecase.PLLine) []PLLineResponse {
	out := make([]PLLineResponse, len(lines))
	for i, l := range lines {
		out[i] = PLLineResponse{Account: l.Account, Parent: l.Parent, Amount: l.Amount}
	}
	return out
}

// ProfitLossFromReport converts a P&L report to response.
func ProfitLossFromReport(r *usecase.ProfitLossReport) *ProfitLossResponse {
	return &ProfitLossResponse{
		Period:        RangeFromDomain(r.Range),
		Income:        plLines(r.Income),
		Expenses:      plLines(r.Expenses),
		TotalIncome:   r.TotalIncome,
		TotalExpenses: r.TotalExpenses,
		NetProfit:     r.NetProfit,
	}
}

// VoucherResponse represents one voucher total in API responses.
type VoucherResponse struct {
	GUID            string          `json:"guid,omitempty"`
	Number          string          `json:"voucher_number"`
	Type            string          `json:"voucher_type"`
	Date            string          `json:"date"`
	Party           string          `json:"party_name,omitempty"`
	Narration       string          `json:"narration,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	ReferenceDate   string          `json:"reference_date,omitempty"`
	EntryCount      int             `json:"entry_count"`
	Amount          decimal.Decimal `json:"amount"`
}

// VoucherFromDomain converts a voucher total to response.
func VoucherFromDomain(v *domain.VoucherTotal) VoucherResponse {
	resp := VoucherResponse{
		GUID:            v.Voucher.GUID,
		Number:          v.Voucher.Number,
		Type:            v.Voucher.Type,
		Date:            date(v.Voucher.Date),
		Party:           v.Voucher.PartyName,
		Narration:       v.Voucher.Narration,
		ReferenceNumber: v.Voucher.ReferenceNumber,
		EntryCount:      v.EntryCount,
		Amount:          v.GrossAmount,
	}
	if v.Voucher.ReferenceDate != nil {
		resp.ReferenceDate = date(*v.Voucher.ReferenceDate)
	}
	return resp
}

// VoucherListResponse represents a voucher listing in API responses.
type VoucherListResponse struct {
	TransactionType string            `json:"transaction_type,omitempty"`
	Period          RangeResponse     `json:"period"`
	DefaultWindow   bool              `json:"default_window,omitempty"`
	Span            SpanResponse      `json:"span"`
	Count           int               `json:"count"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Vouchers        []VoucherResponse `json:"vouchers"`
}

// VoucherListFromReport converts a voucher listing to response.
func VoucherListFromReport(r *usecase.VoucherListReport) *VoucherListResponse {
	vouchers := make([]VoucherResponse, len(r.Vouchers))
	for i, v := range r.Vouchers {
		vouchers[i] = VoucherFromDomain(v)
	}
	return &VoucherListResponse{
		TransactionType: string(r.Kind),
		Period:          RangeFromDomain(r.Range),
		DefaultWindow:   r.DefaultWindow,
		Span:            spanFrom(r.Span),
		Count:           len(vouchers),
		TotalAmount:     r.TotalAmount,
		Vouchers:        vouchers,
	}
}

// LedgerBalanceResponse is one row of the ledger summary.
type LedgerBalanceResponse struct {
	Account        string          `json:"account"`
	Parent         string          `json:"parent,omitempty"`
	Description    string          `json:"description,omitempty"`
	Nature         string          `json:"nature"`
	AffectsProfit  bool            `json:"affects_profit"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
}

// LedgerSummaryResponse represents the ledger summary in API responses.
type LedgerSummaryResponse struct {
	Count        int                     `json:"count"`
	TotalBalance decimal.Decimal         `json:"total_balance"`
	Accounts     []LedgerBalanceResponse `json:"accounts"`
}

// LedgerSummaryFromReport converts a ledger summary to response.
func LedgerSummaryFromReport(r *usecase.LedgerSummaryReport) *LedgerSummaryResponse {
	accounts := make([]LedgerBalanceResponse, len(r.Accounts))
	for i, a := range r.Accounts {
		accounts[i] = LedgerBalanceResponse{
			Account:        a.Account,
			Parent:         a.Parent,
			Description:    a.Description,
			Nature:         a.Nature.String(),
			AffectsProfit:  a.AffectsProfit,
			OpeningBalance: a.OpeningBalance,
			Balance:        a.Balance,
		}
	}
	return &LedgerSummaryResponse{Count: len(accounts), TotalBalance: r.TotalBalance, Accounts: accounts}
}

// PositionResponse represents a stock position in API responses.
type PositionResponse struct {
	Item        string          `json:"item,omitempty"`
	Godown      string          `json:"godown,omitempty"`
	Inward      decimal.Decimal `json:"inward_quantity"`
	Outward     decimal.Decimal `json:"outward_quantity"`
	NetQuantity decimal.Decimal `json:"net_quantity"`
	NetValue    decimal.Decimal `json:"net_value"`
	Throughput  decimal.Decimal `json:"throughput_value"`
	AverageRate decimal.Decimal `json:"average_rate"`
	Movements   int             `json:"movements"`
	Items       int             `json:"unique_items,omitempty"`
}

// PositionFromReport converts a stock position to response. A nil position
// yields nil.
func PositionFromReport(p *usecase.StockPosition) *PositionResponse {
	if p == nil {
		return nil
	}
	return &PositionResponse{
		Item:        p.Item,
		Godown:      p.Godown,
		Inward:      p.Inward,
		Outward:     p.Outward,
		NetQuantity: p.NetQuantity,
		NetValue:    p.NetValue,
		Throughput:  p.Throughput,
		AverageRate: p.AverageRate,
		Movements:   p.Movements,
		Items:       p.Items,
	}
}

func positionsFrom(ps []*usecase.StockPosition) []*PositionResponse {
	out := make([]*PositionResponse, len(ps))
	for i, p := range ps {
		out[i] = PositionFromReport(p)
	}
	return out
}

// StockSummaryResponse represents the stock summary in API responses.
type StockSummaryResponse struct {
	Count     int                 `json:"count"`
	Total     *PositionResponse   `json:"total"`
	Positions []*PositionResponse `json:"positions"`
}

// StockSummaryFromReport converts a stock summary to response.
func StockSummaryFromReport(r *usecase.StockSummaryReport) *StockSummaryResponse {
	return &StockSummaryResponse{Count: len(r.Positions), Total: PositionFromReport(r.Total), Positions: positionsFrom(r.Positions)}
}

// StockItemResponse represents an item master record in API responses.
type StockItemResponse struct {
	Name           string          `json:"name"`
	Parent         string          `json:"parent,omitempty"`
	Alias          string          `json:"alias,omitempty"`
	PartNumber     string          `json:"part_number,omitempty"`
	UOM            string          `json:"uom,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpeningRate    decimal.Decimal `json:"opening_rate"`
	OpeningValue   decimal.Decimal `json:"opening_value"`
	HSNCode        string          `json:"hsn_code,omitempty"`
	GSTRate        decimal.Decimal `json:"gst_rate"`
	Taxability     string          `json:"taxability,omitempty"`
}

// MovementResponse represents an inventory movement in API responses.
type MovementResponse struct {
	Date          string          `json:"date"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   string          `json:"voucher_type"`
	Party         string          `json:"party_name,omitempty"`
	Item          string          `json:"item"`
	Godown        string          `json:"godown,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     string          `json:"direction"`
}

func movementsFrom(ms []*domain.MovementLine) []MovementResponse {
	out := make([]MovementResponse, len(ms))
	for i, m := range ms {
		out[i] = MovementResponse{
			Date:          date(m.Voucher.Date),
			VoucherNumber: m.Voucher.Number,
			VoucherType:   m.Voucher.Type,
			Party:         m.Voucher.PartyName,
			Item:          m.Item,
			Godown:        m.Godown,
			Quantity:      m.Quantity,
			Rate:          m.Rate,
			Amount:        m.Amount,
			Direction:     string(m.Direction()),
		}
	}
	return out
}

// ItemDetailsResponse represents item details in API responses.
type ItemDetailsResponse struct {
	Item       StockItemResponse   `json:"item"`
	Candidates []string            `json:"candidates,omitempty"`
	Total      *PositionResponse   `json:"total"`
	ByGodown   []*PositionResponse `json:"by_godown"`
	Recent     []MovementResponse  `json:"recent_transactions"`
}

// ItemDetailsFromReport converts item details to response.
func ItemDetailsFromReport(r *usecase.ItemDetailsReport) *ItemDetailsResponse {
	it := r.Item
	return &ItemDetailsResponse{
		Item: StockItemResponse{
			Name:           it.Name,
			Parent:         it.Parent,
			Alias:          it.Alias,
			PartNumber:     it.PartNumber,
			UOM:            it.UOM,
			OpeningBalance: it.OpeningBalance,
			OpeningRate:    it.OpeningRate,
			OpeningValue:   it.OpeningValue,
			HSNCode:        it.HSNCode,
			GSTRate:        it.GSTRate,
			Taxability:     it.Taxability,
		},
		Candidates: r.Candidates,
		Total:      PositionFromReport(r.Total),
		ByGodown:   positionsFrom(r.ByGodown),
		Recent:     movementsFrom(r.Recent),
	}
}

// GodownStockResponse is a godown with its aggregate stock.
type GodownStockResponse struct {
	Name     string            `json:"name"`
	Parent   string            `json:"parent,omitempty"`
	Address  string            `json:"address,omitempty"`
	Position *PositionResponse `json:"stock"`
}

// GodownSummaryResponse represents the godown summary in API responses.
type GodownSummaryResponse struct {
	Count   int                   `json:"count"`
	Total   *PositionResponse     `json:"total"`
	Godowns []GodownStockResponse `json:"godowns"`
}

// GodownSummaryFromReport converts a godown summary to response.
func GodownSummaryFromReport(r *usecase.GodownSummaryReport) *GodownSummaryResponse {
	godowns := make([]GodownStockResponse, len(r.Godowns))
	for i, g := range r.Godowns {
		godowns[i] = GodownStockResponse{
			Name:     g.Godown.Name,
			Parent:   g.Godown.Parent,
			Address:  g.Godown.Address,
			Position: PositionFromReport(g.Position),
		}
	}
	return &GodownSummaryResponse{Count: len(godowns), Total: PositionFromReport(r.Total), Godowns: godowns}
}

// MovementListResponse represents a movement listing in API responses.
type MovementListResponse struct {
	Period    RangeResponse      `json:"period"`
	Span      SpanResponse       `json:"span"`
	Count     int                `json:"count"`
	Summary   *PositionResponse  `json:"summary"`
	Movements []MovementResponse `json:"movements"`
}

// MovementListFromReport converts a movement report to response.
func MovementListFromReport(r *usecase.MovementReport) *MovementListResponse {
	return &MovementListResponse{
		Period:    RangeFromDomain(r.Range),
		Span:      spanFrom(r.Span),
		Count:     len(r.Movements),
		Summary:   PositionFromReport(r.Summary),
		Movements: movementsFrom(r.Movements),
	}
}

// TopItemsResponse represents an item ranking in API responses.
type TopItemsResponse struct {
	Metric string              `json:"metric"`
	Limit  int                 `json:"limit"`
	Items  []*PositionResponse `json:"items"`
}

// TopItemsFromReport converts an item ranking to response.
func TopItemsFromReport(r *usecase.TopItemsReport) *TopItemsResponse {
	return &TopItemsResponse{Metric: r.Metric, Limit: r.Limit, Items: positionsFrom(r.Items)}
}

// TradeStatsResponse is the aggregate of one party or period.
type TradeStatsResponse struct {
	Key          string          `json:"key,omitempty"`
	Transactions int             `json:"transactions"`
	Amount       decimal.Decimal `json:"amount"`
	AverageValue decimal.Decimal `json:"average_value"`
	Quantity     decimal.Decimal `json:"quantity"`
	Parties      int             `json:"unique_parties"`
	Items        int             `json:"unique_items"`
	Godowns      int             `json:"unique_godowns"`
	VoucherTypes int             `json:"voucher_types"`
	ActiveDays   int             `json:"active_days"`
	First        string          `json:"first_date,omitempty"`
	Last         string          `json:"last_date,omitempty"`
}

func statsFrom(s usecase.TradeStats) TradeStatsResponse {
	return TradeStatsResponse{
		Key:          s.Key,
		Transactions: s.Transactions,
		Amount:       s.Amount,
		AverageValue: s.AverageValue,
		Quantity:     s.Quantity,
		Parties:      s.Parties,
		Items:        s.Items,
		Godowns:      s.Godowns,
		VoucherTypes: s.VoucherTypes,
		ActiveDays:   s.ActiveDays,
		First:        date(s.First),
		Last:         date(s.Last),
	}
}

func statsList(in []usecase.TradeStats) []TradeStatsResponse {
	out := make([]TradeStatsResponse, len(in))
	for i, s := range in {
		out[i] = statsFrom(s)
	}
	return out
}

// TradeSummaryResponse represents a sales or purchase summary in API responses.
type TradeSummaryResponse struct {
	Period RangeResponse `json:"period"`
	TradeStatsResponse
	AverageDaily decimal.Decimal `json:"average_daily"`
}

// TradeSummaryFromReport converts a trade summary to response.
func TradeSummaryFromReport(r *usecase.TradeSummary) *TradeSummaryResponse {
	return &TradeSummaryResponse{
		Period:             RangeFromDomain(r.Range),
		TradeStatsResponse: statsFrom(r.TradeStats),
		AverageDaily:       r.AverageDaily,
	}
}

// PartyReportResponse represents a party breakdown in API responses.
type PartyReportResponse struct {
	Period  RangeResponse        `json:"period"`
	Metric  string               `json:"metric,omitempty"`
	Limit   int                  `json:"limit,omitempty"`
	Count   int                  `json:"count"`
	Parties []TradeStatsResponse `json:"parties"`
}

// PartyReportFromReport converts a party breakdown to response.
func PartyReportFromReport(r *usecase.PartyReport) *PartyReportResponse {
	return &PartyReportResponse{
		Period:  RangeFromDomain(r.Range),
		Metric:  r.Metric,
		Limit:   r.Limit,
		Count:   len(r.Parties),
		Parties: statsList(r.Parties),
	}
}

// PeriodReportResponse represents a period breakdown in API responses.
type PeriodReportResponse struct {
	Period      RangeResponse        `json:"period"`
	Granularity string               `json:"granularity"`
	Periods     []TradeStatsResponse `json:"periods"`
}

// PeriodReportFromReport converts a period breakdown to response.
func PeriodReportFromReport(r *usecase.PeriodReport) *PeriodReportResponse {
	return &PeriodReportResponse{
		Period:      RangeFromDomain(r.Range),
		Granularity: string(r.Granularity),
		Periods:     statsList(r.Periods),
	}
}

// FigureResponse is a named amount.
type FigureResponse struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// SeriesPointResponse is one value of a series.
type SeriesPointResponse struct {
	Period string          `json:"period"`
	Value  decimal.Decimal `json:"value"`
}

// InsightResponse is one generated statement.
type InsightResponse struct {
	Tier string `json:"tier"`
	Text string `json:"text"`
}

// AnalyticsResponse represents a tiered analytics result in API responses.
type AnalyticsResponse struct {
	AnalyticsType   string                `json:"analytics_type"`
	Focus           string                `json:"query_focus"`
	Period          RangeResponse         `json:"period"`
	DataPoints      int                   `json:"data_points"`
	Figures         []FigureResponse      `json:"figures,omitempty"`
	Insights        []InsightResponse     `json:"insights"`
	Recommendations []string              `json:"recommendations,omitempty"`
	Trend           []SeriesPointResponse `json:"trend,omitempty"`
	Forecast        []SeriesPointResponse `json:"forecast,omitempty"`
	ForecastPeriods int                   `json:"forecast_periods,omitempty"`
}

func seriesFrom(in []usecase.SeriesPoint) []SeriesPointResponse {
	if len(in) == 0 {
		return nil
	}
	out := make([]SeriesPointResponse, len(in))
	for i, p := range in {
		out[i] = SeriesPointResponse{Period: p.Period, Value: p.Value}
	}
	return out
}

// AnalyticsFromReport converts an analytics report to response.
func AnalyticsFromReport(r *usecase.AnalyticsReport) *AnalyticsResponse {
	resp := &AnalyticsResponse{
		AnalyticsType:   string(r.Tier),
		Focus:           r.Focus,
		Period:          RangeFromDomain(r.Range),
		DataPoints:      r.DataPoints,
		Insights:        make([]InsightResponse, len(r.Insights)),
		Recommendations: r.Recommendations,
		Trend:           seriesFrom(r.Trend),
		Forecast:        seriesFrom(r.Forecast),
		ForecastPeriods: r.ForecastPeriods,
	}
	for _, f := range r.Figures {
		resp.Figures = append(resp.Figures, FigureResponse{Name: f.Name, Value: f.Value})
	}
	for i, in := range r.Insights {
		resp.Insights[i] = InsightResponse{Tier: string(in.Tier), Text: in.Text}
	}
	return resp
}

// KPIResponse represents the KPI dashboard in API responses.
type KPIResponse struct {
	Period RangeResponse `json:"period"`

	SalesRevenue       decimal.Decimal `json:"sales_revenue"`
	ActiveCustomers    int             `json:"active_customers"`
	AvgDailySales      decimal.Decimal `json:"avg_daily_sales"`
	RevenuePerCustomer decimal.Decimal `json:"revenue_per_customer"`

	PurchaseCosts     decimal.Decimal `json:"purchase_costs"`
	ActiveSuppliers   int             `json:"active_suppliers"`
	AvgDailyPurchases decimal.Decimal `json:"avg_daily_purchases"`
	CostPerSupplier   decimal.Decimal `json:"cost_per_supplier"`

	GrossMargin      decimal.Decimal `json:"gross_margin"`
	MarginPercent    decimal.Decimal `json:"margin_percent"`
	RevenueCostRatio decimal.Decimal `json:"revenue_cost_ratio"`

	Transactions       int             `json:"total_transactions"`
	OperationalDays    int             `json:"operational_days"`
	TransactionsPerDay decimal.Decimal `json:"transactions_per_day"`

	CashInflows  decimal.Decimal `json:"cash_inflows"`
	CashOutflows decimal.Decimal `json:"cash_outflows"`
	NetCashFlow  decimal.Decimal `json:"net_cash_flow"`
}

// KPIFromReport converts the KPI dashboard to response.
func KPIFromReport(r *usecase.KPIReport) *KPIResponse {
	k := r.KPIs
	return &KPIResponse{
		Period:             RangeFromDomain(r.Range),
		SalesRevenue:       k.SalesRevenue,
		ActiveCustomers:    k.ActiveCustomers,
		AvgDailySales:      k.AvgDailySales,
		RevenuePerCustomer: k.RevenuePerCustomer,
		PurchaseCosts:      k.PurchaseCosts,
		ActiveSuppliers:    k.ActiveSuppliers,
		AvgDailyPurchases:  k.AvgDailyPurchases,
		CostPerSupplier:    k.CostPerSupplier,
		GrossMargin:        k.GrossMargin,
		MarginPercent:      k.MarginPercent,
		RevenueCostRatio:   k.RevenueCostRatio,
		Transactions:       k.Transactions,
		OperationalDays:    k.OperationalDays,
		TransactionsPerDay: k.TransactionsPerDay,
		CashInflows:        k.CashInflows,
		CashOutflows:       k.CashOutflows,
		NetCashFlow:        k.NetCashFlow,
	}
}

// OverviewResponse represents the business overview in API responses.
type OverviewResponse struct {
	Period       RangeResponse `json:"period"`
	Span         SpanResponse  `json:"span"`
	Transactions int           `json:"total_transactions"`
	Parties      int           `json:"unique_parties"`
	VoucherTypes int           `json:"voucher_types"`
	ActiveDays   int           `json:"active_days"`

	Inflows          decimal.Decimal `json:"total_inflows"`
	Outflows         decimal.Decimal `json:"total_outflows"`
	NetPosition      decimal.Decimal `json:"net_position"`
	DailyAvgInflows  decimal.Decimal `json:"daily_avg_inflows"`
	DailyAvgOutflows decimal.Decimal `json:"daily_avg_outflows"`

	Items        int             `json:"unique_items"`
	Godowns      int             `json:"unique_godowns"`
	InwardQty    decimal.Decimal `json:"inward_quantity"`
	OutwardQty   decimal.Decimal `json:"outward_quantity"`
	HighTurnover bool            `json:"high_turnover"`
}

// OverviewFromReport converts the business overview to response.
func OverviewFromReport(r *usecase.BusinessOverview) *OverviewResponse {
	return &OverviewResponse{
		Period:           RangeFromDomain(r.Range),
		Span:             spanFrom(r.Span),
		Transactions:     r.Transactions,
		Parties:          r.Parties,
		VoucherTypes:     r.VoucherTypes,
		ActiveDays:       r.ActiveDays,
		Inflows:          r.Inflows,
		Outflows:         r.Outflows,
		NetPosition:      r.NetPosition,
		DailyAvgInflows:  r.DailyAvgInflows,
		DailyAvgOutflows: r.DailyAvgOutflows,
		Items:            r.Items,
		Godowns:          r.Godowns,
		InwardQty:        r.InwardQty,
		OutwardQty:       r.OutwardQty,
		HighTurnover:     r.HighTurnover,
	}
}

// ItemCorrelationResponse relates an item's movement to its revenue.
type ItemCorrelationResponse struct {
	Item      string          `json:"item"`
	Sold      decimal.Decimal `json:"quantity_sold"`
	Purchased decimal.Decimal `json:"quantity_purchased"`
	Revenue   decimal.Decimal `json:"revenue"`
	Customers int             `json:"customers"`
}

// PartyRelationshipResponse is a party that both pays and receives.
type PartyRelationshipResponse struct {
	Party        string          `json:"party"`
	Inflows      decimal.Decimal `json:"inflows"`
	Outflows     decimal.Decimal `json:"outflows"`
	VoucherTypes int             `json:"voucher_types"`
}

// MonthlyActivityResponse is money flow beside operational breadth for a month.
type MonthlyActivityResponse struct {
	Month        string          `json:"month"`
	Transactions int             `json:"transactions"`
	Inflows      decimal.Decimal `json:"inflows"`
	Outflows     decimal.Decimal `json:"outflows"`
	Items        int             `json:"unique_items"`
	Parties      int             `json:"unique_parties"`
}

// CrossFunctionalResponse represents a cross analysis in API responses.
type CrossFunctionalResponse struct {
	Analysis   string                      `json:"analysis_type"`
	Period     RangeResponse               `json:"period"`
	DataPoints int                         `json:"data_points"`
	Items      []ItemCorrelationResponse   `json:"items,omitempty"`
	Parties    []PartyRelationshipResponse `json:"parties,omitempty"`
	Months     []MonthlyActivityResponse   `json:"months,omitempty"`
}

// CrossFunctionalFromReport converts a cross analysis to response.
func CrossFunctionalFromReport(r *usecase.CrossFunctionalReport) *CrossFunctionalResponse {
	resp := &CrossFunctionalResponse{
		Analysis:   r.Analysis,
		Period:     RangeFromDomain(r.Range),
		DataPoints: r.DataPoints(),
	}
	for _, it := range r.Items {
		resp.Items = append(resp.Items, ItemCorrelationResponse{
			Item: it.Item, Sold: it.Sold, Purchased: it.Purchased, Revenue: it.Revenue, Customers: it.Customers,
		})
	}
	for _, p := range r.Parties {
		resp.Parties = append(resp.Parties, PartyRelationshipResponse{
			Party: p.Party, Inflows: p.Inflows, Outflows: p.Outflows, VoucherTypes: p.VoucherTypes,
		})
	}
	for _, m := range r.Months {
		resp.Months = append(resp.Months, MonthlyActivityResponse{
			Month: m.Month, Transactions: m.Transactions, Inflows: m.Inflows, Outflows: m.Outflows, Items: m.Items, Parties: m.Parties,
		})
	}
	return resp
}

// StrategicResponse represents strategic insights in API responses.
type StrategicResponse struct {
	Focus           string          `json:"focus_area"`
	Period          RangeResponse   `json:"period"`
	Transactions    int             `json:"total_transactions"`
	Parties         int             `json:"unique_parties"`
	Items           int             `json:"unique_items"`
	NetPosition     decimal.Decimal `json:"net_position"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
	PriorityActions []string        `json:"priority_actions"`
}

// StrategicFromReport converts strategic insights to response.
func StrategicFromReport(r *usecase.StrategicReport) *StrategicResponse {
	return &StrategicResponse{
		Focus:           r.Focus,
		Period:          RangeFromDomain(r.Range),
		Transactions:    r.Transactions,
		Parties:         r.Parties,
		Items:           r.Items,
		NetPosition:     r.NetPosition,
		Insights:        r.Insights,
		Recommendations: r.Recommendations,
		PriorityActions: r.PriorityActions,
	}
}

// DeliveryAttemptResponse is a delivery method that failed before the final one.
type DeliveryAttemptResponse struct {
	Method string `json:"method"`
	Error  string `json:"error"`
}

// DeliveryResponse represents an email delivery in API responses.
type DeliveryResponse struct {
	ID       string                    `json:"message_id,omitempty"`
	Method   string                    `json:"method"`
	Location string                    `json:"location,omitempty"`
	SentAt   time.Time                 `json:"sent_at"`
	Failed   []DeliveryAttemptResponse `json:"failed_attempts,omitempty"`
}

// DeliveryFromDomain converts a delivery receipt to response.
func DeliveryFromDomain(r *domain.DeliveryReceipt) *DeliveryResponse {
	resp := &DeliveryResponse{ID: r.ID, Method: r.Method, Location: r.Location, SentAt: r.SentAt}
	for _, a := range r.Failed {
		resp.Failed = append(resp.Failed, DeliveryAttemptResponse{Method: a.Method, Error: a.Error})
	}
	return resp
}

// EventResponse represents a scheduled calendar event in API responses.
type EventResponse struct {
	ID   string `json:"event_id"`
	Link string `json:"link,omitempty"`
}

// EventFromDomain converts a scheduled event to response.
func EventFromDomain(e *domain.ScheduledEvent) *EventResponse {
	return &EventResponse{ID: e.ID, Link: e.Link}
}

// TokenResponse is an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Role        string `json:"role"`
}
