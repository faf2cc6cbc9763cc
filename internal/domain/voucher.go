package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a transaction header grouping accounting and inventory lines.
type Voucher struct {
	GUID            string
	Number          string
	Type            string
	Date            time.Time
	PartyName       string
	Narration       string
	ReferenceNumber string
	ReferenceDate   *time.Time
}

// EntryLine is an accounting entry together with its voucher header.
type EntryLine struct {
	Voucher Voucher
	Ledger  string
	// Amount is positive for credits and negative for debits.
	Amount decimal.Decimal
}

// IsCredit reports whether the entry is on the credit side.
func (e *EntryLine) IsCredit() bool {
	return e.Amount.IsPositive()
}

// VoucherTotal summarises the accounting lines of one voucher.
type VoucherTotal struct {
	Voucher    Voucher
	EntryCount int
	// GrossAmount is the sum of absolute entry amounts.
	GrossAmount decimal.Decimal
}

// Direction is the stock direction of an inventory movement.
type Direction string

const (
	DirectionIn      Direction = "IN"
	DirectionOut     Direction = "OUT"
	DirectionNeutral Direction = "NEUTRAL"
)

// MovementLine is an inventory movement together with its voucher header.
type MovementLine struct {
	Voucher  Voucher
	Item     string
	Godown   string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// Direction derives IN/OUT/NEUTRAL from the quantity sign.
func (m *MovementLine) Direction() Direction {
	switch {
	case m.Quantity.IsPositive():
		return DirectionIn
	case m.Quantity.IsNegative():
		return DirectionOut
	default:
		return DirectionNeutral
	}
}

// EntryFilter selects accounting lines. Pattern fields are case-insensitive
// substring matches; a line matches a pattern list if it matches any element.
type EntryFilter struct {
	Range         DateRange
	VoucherTypes  []string
	Ledgers       []string
	Party         string
	ExactLedger   string
	RequiresParty bool
}

// VoucherFilter selects voucher totals.
type VoucherFilter struct {
	Range        DateRange
	VoucherTypes []string
	Number       string
	Party        string
	// Limit caps the result after ordering by date desc, number desc. Zero means no cap.
	Limit int
}

// MovementFilter selects inventory lines.
type MovementFilter struct {
	Range        DateRange
	VoucherTypes []string
	Item         string
	ExactItem    string
	Godown       string
	Party        string
	// Limit caps the result after ordering by date desc, number desc. Zero means no cap.
	Limit int
}
