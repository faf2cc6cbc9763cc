package usecase

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Rank orders items by metric descending, breaking ties by name ascending,
// and keeps the first limit entries. A limit of zero keeps everything.
// Callers filter before ranking so the limit never hides an eligible entry.
func Rank[T any](items []T, name func(T) string, metric func(T) decimal.Decimal, limit int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		if c := metric(b).Cmp(metric(a)); c != 0 {
			return c
		}
		return strings.Compare(name(a), name(b))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// tallyMetric returns a ranking metric over tallies.
func tallyMetric(metric string) func(*Tally) decimal.Decimal {
	switch metric {
	case "transactions":
		return func(t *Tally) decimal.Decimal { return decimal.NewFromInt(int64(t.Transactions())) }
	case "quantity":
		return func(t *Tally) decimal.Decimal { return t.Quantity }
	case "items":
		return func(t *Tally) decimal.Decimal { return decimal.NewFromInt(int64(t.Items())) }
	default:
		return func(t *Tally) decimal.Decimal { return t.Amount }
	}
}

func tallyName(t *Tally) string { return t.Key }
