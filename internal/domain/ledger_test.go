package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedger_ClosingBalance(t *testing.T) {
	tests := []struct {
		name    string
		nature  Nature
		opening int64
		amounts []int64
		want    int64
	}{
		{name: "debit nature, debit and credit", nature: NatureDebit, opening: 1000, amounts: []int64{-500, 200}, want: 1300},
		{name: "credit nature, debit and credit", nature: NatureCredit, opening: 1000, amounts: []int64{-500, 200}, want: 700},
		{name: "no entries", nature: NatureDebit, opening: 250, want: 250},
		{name: "all zero entries", nature: NatureCredit, opening: 0, amounts: []int64{0, 0, 0}, want: 0},
		{name: "single credit on debit ledger", nature: NatureDebit, opening: 0, amounts: []int64{75}, want: -75},
		{name: "single debit on credit ledger", nature: NatureCredit, opening: 10, amounts: []int64{-75}, want: -65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Ledger{Name: "X", OpeningBalance: decimal.NewFromInt(tt.opening), Nature: tt.nature}
			var totals EntryTotals
			for _, a := range tt.amounts {
				totals.Add(decimal.NewFromInt(a))
			}
			if got := l.ClosingBalance(totals); !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Fatalf("ClosingBalance() = %s, want %d", got, tt.want)
			}
			if totals.Count != len(tt.amounts) {
				t.Fatalf("Count = %d, want %d", totals.Count, len(tt.amounts))
			}
		})
	}
}

func TestLedger_ClosingBalanceSignInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		opening := decimal.New(rng.Int63n(2_000_000)-1_000_000, -2)
		var lines []*EntryLine
		credits, debits := decimal.Zero, decimal.Zero
		n := rng.Intn(50)
		for j := 0; j < n; j++ {
			amt := decimal.New(rng.Int63n(200_000)-100_000, -2)
			lines = append(lines, &EntryLine{Amount: amt})
			if amt.IsPositive() {
				credits = credits.Add(amt)
			} else {
				debits = debits.Sub(amt)
			}
		}
		totals := SumEntries(lines)

		debit := &Ledger{OpeningBalance: opening, Nature: NatureDebit}
		if want := opening.Add(debits).Sub(credits); !debit.ClosingBalance(totals).Equal(want) {
			t.Fatalf("debit ledger: got %s, want %s", debit.ClosingBalance(totals), want)
		}
		credit := &Ledger{OpeningBalance: opening, Nature: NatureCredit}
		if want := opening.Add(credits).Sub(debits); !credit.ClosingBalance(totals).Equal(want) {
			t.Fatalf("credit ledger: got %s, want %s", credit.ClosingBalance(totals), want)
		}
	}
}

func TestLedger_Classification(t *testing.T) {
	sales := &Ledger{Nature: NatureCredit, AffectsProfit: true}
	rent := &Ledger{Nature: NatureDebit, AffectsProfit: true}
	bank := &Ledger{Nature: NatureDebit}

	if !sales.IsIncome() || sales.IsExpense() {
		t.Fatal("sales ledger should be income")
	}
	if !rent.IsExpense() || rent.IsIncome() {
		t.Fatal("rent ledger should be expense")
	}
	if bank.IsIncome() || bank.IsExpense() {
		t.Fatal("balance sheet ledger is neither income nor expense")
	}
}

func TestMovementLine_Direction(t *testing.T) {
	tests := map[string]Direction{"5": DirectionIn, "-2.5": DirectionOut, "0": DirectionNeutral}
	for qty, want := range tests {
		m := &MovementLine{Quantity: decimal.RequireFromString(qty)}
		if got := m.Direction(); got != want {
			t.Fatalf("Direction(%s) = %s, want %s", qty, got, want)
		}
	}
}

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"invalid", Invalid("start_date", "bad"), ErrInvalidInput},
		{"not found", &NotFoundError{Kind: EntityAccount, Fragment: "cash"}, ErrNotFound},
		{"no data", NoData(nil, "nothing"), ErrNoData},
		{"unavailable", Unavailable("op", errors.New("conn refused")), ErrDataUnavailable},
		{"unavailable keeps category", Unavailable("op", &NotFoundError{Kind: EntityItem}), ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Fatalf("expected %v to match %v", tt.err, tt.target)
			}
		})
	}

	if Unavailable("op", nil) != nil {
		t.Fatal("Unavailable(nil) should be nil")
	}
	if got := (&NotFoundError{Kind: EntityAccount, Fragment: "cash"}).Error(); got != "account 'cash' not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestEmailMessage_Validate(t *testing.T) {
	ok := &EmailMessage{To: []string{"a@example.com"}, Subject: "Hi"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, m := range map[string]*EmailMessage{
		"no recipient":  {Subject: "Hi"},
		"bad address":   {To: []string{"not-an-address"}, Subject: "Hi"},
		"empty subject": {To: []string{"a@example.com"}},
		"bad cc":        {To: []string{"a@example.com"}, CC: []string{"@"}, Subject: "Hi"},
	} {
		if err := m.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}
