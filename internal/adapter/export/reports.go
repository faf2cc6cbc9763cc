package export

import (
	"github.com/iho/ledgerlens/internal/usecase"
)

// LedgerSummary lists ledger balances with a closing total row.
func LedgerSummary(rep *usecase.LedgerSummaryReport) Sheet {
	s := Sheet{
		Name:    "Ledgers",
		Headers: []string{"Ledger", "Group", "Nature", "Opening", "Balance"},
	}
	for _, a := range rep.Accounts {
		s.Rows = append(s.Rows, []any{a.Account, a.Parent, a.Nature, a.OpeningBalance, a.Balance})
	}
	s.Rows = append(s.Rows, []any{"Total", "", "", "", rep.TotalBalance})
	return s
}

// StockSummary lists item positions per godown.
func StockSummary(rep *usecase.StockSummaryReport) Sheet {
	s := Sheet{
		Name:    "Stock",
		Headers: []string{"Item", "Godown", "Inward", "Outward", "Net quantity", "Net value", "Movements"},
	}
	for _, p := range rep.Positions {
		s.Rows = append(s.Rows, []any{p.Item, p.Godown, p.Inward, p.Outward, p.NetQuantity, p.NetValue, p.Movements})
	}
	return s
}

// Vouchers lists voucher totals.
func Vouchers(rep *usecase.VoucherListReport) Sheet {
	s := Sheet{
		Name:    "Vouchers",
		Headers: []string{"Date", "Type", "Number", "Party", "Narration", "Entries", "Amount"},
	}
	for _, v := range rep.Vouchers {
		s.Rows = append(s.Rows, []any{
			v.Voucher.Date, v.Voucher.Type, v.Voucher.Number, v.Voucher.PartyName,
			v.Voucher.Narration, v.EntryCount, v.GrossAmount,
		})
	}
	return s
}

// Parties lists a ranked party report under the given sheet name.
func Parties(name string, rep *usecase.PartyReport) Sheet {
	s := Sheet{
		Name:    name,
		Headers: []string{"Party", "Transactions", "Amount", "Average value", "Quantity", "Items", "First", "Last"},
	}
	for _, p := range rep.Parties {
		s.Rows = append(s.Rows, []any{p.Key, p.Transactions, p.Amount, p.AverageValue, p.Quantity, p.Items, p.First, p.Last})
	}
	return s
}

// KPIs lists the dashboard as name/value pairs.
func KPIs(rep *usecase.KPIReport) Sheet {
	return Sheet{
		Name:    "KPIs",
		Headers: []string{"Indicator", "Value"},
		Rows: [][]any{
			{"Sales revenue", rep.SalesRevenue},
			{"Active customers", rep.ActiveCustomers},
			{"Average daily sales", rep.AvgDailySales},
			{"Revenue per customer", rep.RevenuePerCustomer},
			{"Purchase costs", rep.PurchaseCosts},
			{"Active suppliers", rep.ActiveSuppliers},
			{"Average daily purchases", rep.AvgDailyPurchases},
			{"Cost per supplier", rep.CostPerSupplier},
			{"Gross margin", rep.GrossMargin},
			{"Margin percent", rep.MarginPercent},
			{"Revenue/cost ratio", rep.RevenueCostRatio},
			{"Transactions", rep.Transactions},
			{"Operational days", rep.OperationalDays},
			{"Transactions per day", rep.TransactionsPerDay},
			{"Cash inflows", rep.CashInflows},
			{"Cash outflows", rep.CashOutflows},
			{"Net cash flow", rep.NetCashFlow},
		},
	}
}
