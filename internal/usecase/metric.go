package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
)

// Side selects which entry amounts a metric counts.
type Side int

const (
	SideCredit Side = iota
	SideDebit
	SideBoth
)

// MetricDefinition declares what a domain measures: which vouchers and
// ledgers qualify, and which side of the entry is counted.
type MetricDefinition struct {
	Name           string
	VoucherTypes   []string
	LedgerPatterns []string
	Side           Side
}

var (
	// CashFlowMetric covers cash and bank ledgers on both sides.
	CashFlowMetric = MetricDefinition{Name: "cash_flow", LedgerPatterns: []string{"Cash", "Bank"}, Side: SideBoth}
	// SalesMetric counts the credit side of sales vouchers.
	SalesMetric = MetricDefinition{Name: "sales", VoucherTypes: []string{"Sales"}, Side: SideCredit}
	// PurchaseMetric counts the credit side of purchase vouchers.
	PurchaseMetric = MetricDefinition{Name: "purchase", VoucherTypes: []string{"Purchase"}, Side: SideCredit}
	// ActivityMetric counts every entry on both sides.
	ActivityMetric = MetricDefinition{Name: "activity", Side: SideBoth}
)

// EntryFilter builds the repository filter for the definition.
func (d MetricDefinition) EntryFilter(r domain.DateRange, party string) domain.EntryFilter {
	return domain.EntryFilter{
		Range:        r,
		VoucherTypes: d.VoucherTypes,
		Ledgers:      d.LedgerPatterns,
		Party:        party,
	}
}

// MovementFilter builds the inventory filter for the definition.
func (d MetricDefinition) MovementFilter(r domain.DateRange, party, item string) domain.MovementFilter {
	return domain.MovementFilter{
		Range:        r,
		VoucherTypes: d.VoucherTypes,
		Party:        party,
		Item:         item,
	}
}

// Counted returns the magnitude of amount when it lies on the counted side.
func (d MetricDefinition) Counted(amount decimal.Decimal) (decimal.Decimal, bool) {
	switch d.Side {
	case SideCredit:
		return amount, amount.IsPositive()
	case SideDebit:
		return amount.Neg(), amount.IsNegative()
	default:
		return amount.Abs(), !amount.IsZero()
	}
}
