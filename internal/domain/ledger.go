package domain

import (
	"github.com/shopspring/decimal"
)

// Nature tells which side of an entry increases a ledger's balance.
type Nature int

const (
	// NatureCredit is used by liabilities, capital and income ledgers.
	NatureCredit Nature = iota
	// NatureDebit is used by assets and expense ledgers.
	NatureDebit
)

// String returns "Debit" or "Credit".
func (n Nature) String() string {
	if n == NatureDebit {
		return "Debit"
	}
	return "Credit"
}

// Ledger represents an account in the external ledger master.
type Ledger struct {
	Name           string
	Alias          string
	Parent         string
	Description    string
	OpeningBalance decimal.Decimal
	Nature         Nature
	// AffectsProfit marks ledgers that belong in the profit and loss statement.
	AffectsProfit bool
}

// IsIncome reports whether the ledger is a credit-natured P&L ledger.
func (l *Ledger) IsIncome() bool {
	return l.AffectsProfit && l.Nature == NatureCredit
}

// IsExpense reports whether the ledger is a debit-natured P&L ledger.
func (l *Ledger) IsExpense() bool {
	return l.AffectsProfit && l.Nature == NatureDebit
}

// SignedMovement converts debit and credit totals into a balance movement
// for the ledger's nature.
func (l *Ledger) SignedMovement(t EntryTotals) decimal.Decimal {
	if l.Nature == NatureDebit {
		return t.Debits.Sub(t.Credits)
	}
	return t.Credits.Sub(t.Debits)
}

// ClosingBalance returns opening balance plus the signed movement.
func (l *Ledger) ClosingBalance(t EntryTotals) decimal.Decimal {
	return l.OpeningBalance.Add(l.SignedMovement(t))
}

// EntryTotals holds the credit and debit sides of a set of entries.
// Both values are non-negative.
type EntryTotals struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
	Count   int
}

// Add folds one signed amount into the totals.
// Positive amounts are credits, negative amounts are debits.
func (t *EntryTotals) Add(amount decimal.Decimal) {
	switch {
	case amount.IsPositive():
		t.Credits = t.Credits.Add(amount)
	case amount.IsNegative():
		t.Debits = t.Debits.Add(amount.Neg())
	}
	t.Count++
}

// SumEntries totals the signed amounts of the given lines.
func SumEntries(lines []*EntryLine) EntryTotals {
	t := EntryTotals{Credits: decimal.Zero, Debits: decimal.Zero}
	for _, l := range lines {
		t.Add(l.Amount)
	}
	return t
}
