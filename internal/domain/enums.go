package domain

import (
	"fmt"
	"strings"
	"time"
)

// TransactionKind selects payment vouchers, receipt vouchers or both.
type TransactionKind string

const (
	KindPayment TransactionKind = "payment"
	KindReceipt TransactionKind = "receipt"
	KindBoth    TransactionKind = "both"
)

// VoucherTypes returns the voucher type patterns for the kind.
func (k TransactionKind) VoucherTypes() []string {
	switch k {
	case KindPayment:
		return []string{"Payment"}
	case KindReceipt:
		return []string{"Receipt"}
	default:
		return []string{"Payment", "Receipt"}
	}
}

// AnalyticsTier selects which insight layers an analytics call produces.
type AnalyticsTier string

const (
	TierDescriptive  AnalyticsTier = "descriptive"
	TierDiagnostic   AnalyticsTier = "diagnostic"
	TierPredictive   AnalyticsTier = "predictive"
	TierPrescriptive AnalyticsTier = "prescriptive"
	TierAll          AnalyticsTier = "all"
)

// Includes reports whether t covers the given tier.
func (t AnalyticsTier) Includes(tier AnalyticsTier) bool {
	return t == TierAll || t == tier
}

// Granularity is the calendar bucket of a period breakdown.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// PeriodKey returns the stable bucket key for t:
// YYYY-MM-DD, YYYY-Www (ISO week) or YYYY-MM.
func (g Granularity) PeriodKey(t time.Time) string {
	switch g {
	case Daily:
		return t.Format(DateLayout)
	case Weekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return t.Format("2006-01")
	}
}

// Enumerated filter values accepted by the analytics operations.
var (
	TransactionKinds    = []string{string(KindPayment), string(KindReceipt), string(KindBoth)}
	AnalyticsTiers      = []string{string(TierDescriptive), string(TierDiagnostic), string(TierPredictive), string(TierPrescriptive), string(TierAll)}
	Granularities       = []string{string(Daily), string(Weekly), string(Monthly)}
	FinancialFocuses    = []string{"cash_flow", "profitability", "liquidity", "performance", "risk", "optimization"}
	InventoryFocuses    = []string{"stock_levels", "movement_patterns", "turnover", "valuation", "optimization", "trends"}
	SalesRankMetrics    = []string{"revenue", "transactions", "quantity"}
	PurchaseRankMetrics = []string{"spending", "transactions", "items"}
	ItemRankMetrics     = []string{"value", "quantity"}
	CrossAnalyses       = []string{"sales_inventory", "supplier_customer", "financial_operational"}
)

// ParseEnum checks value against allowed. An empty value yields defaultValue.
func ParseEnum(field, value, defaultValue string, allowed []string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		if defaultValue == "" {
			return "", Invalid(field, "is required, one of: %s", strings.Join(allowed, ", "))
		}
		return defaultValue, nil
	}
	for _, a := range allowed {
		if a == value {
			return value, nil
		}
	}
	return "", Invalid(field, "must be one of: %s", strings.Join(allowed, ", "))
}

// ParseTransactionKind validates a transaction kind; empty means both.
func ParseTransactionKind(value string) (TransactionKind, error) {
	v, err := ParseEnum("transaction_type", value, string(KindBoth), TransactionKinds)
	return TransactionKind(v), err
}

// ParseAnalyticsTier validates an analytics tier; it is required.
func ParseAnalyticsTier(value string) (AnalyticsTier, error) {
	v, err := ParseEnum("analytics_type", value, "", AnalyticsTiers)
	return AnalyticsTier(v), err
}

// ParseGranularity validates a granularity; empty means monthly.
func ParseGranularity(value string) (Granularity, error) {
	v, err := ParseEnum("period", value, string(Monthly), Granularities)
	return Granularity(v), err
}
