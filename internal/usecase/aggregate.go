package usecase

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
)

// Flow partitions signed amounts into inflow (positive) and outflow (negative).
// Outflow is stored as a magnitude.
type Flow struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Count   int
}

// Add folds one signed amount into the flow.
func (f *Flow) Add(amount decimal.Decimal) {
	switch {
	case amount.IsPositive():
		f.Inflow = f.Inflow.Add(amount)
	case amount.IsNegative():
		f.Outflow = f.Outflow.Add(amount.Neg())
	}
	f.Count++
}

// Net returns inflow minus outflow.
func (f Flow) Net() decimal.Decimal {
	return f.Inflow.Sub(f.Outflow)
}

// FlowGroup is one bucket of a grouped flow.
type FlowGroup struct {
	Key string
	Flow
}

// FlowSummary is a flow total with an optional breakdown ordered by key.
type FlowSummary struct {
	Flow
	Groups []FlowGroup
}

// GroupKey extracts the breakdown dimension of an entry line.
type GroupKey func(*domain.EntryLine) string

// ByVoucherType groups by voucher type.
func ByVoucherType(l *domain.EntryLine) string { return l.Voucher.Type }

// ByLedger groups by ledger name.
func ByLedger(l *domain.EntryLine) string { return l.Ledger }

// ByParty groups by voucher party name.
func ByParty(l *domain.EntryLine) string { return l.Voucher.PartyName }

// ByPeriod groups by the calendar bucket of the voucher date.
func ByPeriod(g domain.Granularity) GroupKey {
	return func(l *domain.EntryLine) string { return g.PeriodKey(l.Voucher.Date) }
}

// AggregateFlow sums lines into inflow and outflow. When key is not nil the
// result also carries one group per distinct key.
func AggregateFlow(lines []*domain.EntryLine, key GroupKey) FlowSummary {
	var s FlowSummary
	groups := map[string]*Flow{}
	for _, l := range lines {
		s.Add(l.Amount)
		if key == nil {
			continue
		}
		k := key(l)
		g, ok := groups[k]
		if !ok {
			g = &Flow{}
			groups[k] = g
		}
		g.Add(l.Amount)
	}
	for k, g := range groups {
		s.Groups = append(s.Groups, FlowGroup{Key: k, Flow: *g})
	}
	slices.SortFunc(s.Groups, func(a, b FlowGroup) int { return strings.Compare(a.Key, b.Key) })
	return s
}

// Tally accumulates the counted side of a metric together with the distinct
// vouchers, parties, items and days it touched.
type Tally struct {
	Key      string
	Amount   decimal.Decimal
	Quantity decimal.Decimal
	First    time.Time
	Last     time.Time

	vouchers map[string]struct{}
	parties  map[string]struct{}
	items    map[string]struct{}
	godowns  map[string]struct{}
	types    map[string]struct{}
	days     map[string]struct{}
}

func newTally(key string) *Tally {
	return &Tally{
		Key:      key,
		vouchers: map[string]struct{}{},
		parties:  map[string]struct{}{},
		items:    map[string]struct{}{},
		godowns:  map[string]struct{}{},
		types:    map[string]struct{}{},
		days:     map[string]struct{}{},
	}
}

func (t *Tally) touch(v *domain.Voucher) {
	t.vouchers[v.GUID] = struct{}{}
	if v.PartyName != "" {
		t.parties[v.PartyName] = struct{}{}
	}
	t.types[v.Type] = struct{}{}
	t.days[v.Date.Format(domain.DateLayout)] = struct{}{}
	if t.First.IsZero() || v.Date.Before(t.First) {
		t.First = v.Date
	}
	if v.Date.After(t.Last) {
		t.Last = v.Date
	}
}

// Transactions is the number of distinct vouchers.
func (t *Tally) Transactions() int { return len(t.vouchers) }

// Parties is the number of distinct counterparties.
func (t *Tally) Parties() int { return len(t.parties) }

// Items is the number of distinct stock items.
func (t *Tally) Items() int { return len(t.items) }

// Godowns is the number of distinct storage locations.
func (t *Tally) Godowns() int { return len(t.godowns) }

// VoucherTypes is the number of distinct voucher types.
func (t *Tally) VoucherTypes() int { return len(t.types) }

// ActiveDays is the number of distinct voucher dates.
func (t *Tally) ActiveDays() int { return len(t.days) }

// AverageValue is the amount per distinct voucher.
func (t *Tally) AverageValue() decimal.Decimal {
	return average(t.Amount, t.Transactions())
}

// Tallies is a total plus per-key tallies. Accounting and inventory lines are
// folded in independently and meet only at the key.
type Tallies struct {
	Total *Tally
	byKey map[string]*Tally
}

// NewTallies returns empty tallies.
func NewTallies() *Tallies {
	return &Tallies{Total: newTally(""), byKey: map[string]*Tally{}}
}

func (ts *Tallies) get(key string) *Tally {
	t, ok := ts.byKey[key]
	if !ok {
		t = newTally(key)
		ts.byKey[key] = t
	}
	return t
}

// AddEntries folds the counted side of entry lines. A nil key only feeds the total.
func (ts *Tallies) AddEntries(def MetricDefinition, lines []*domain.EntryLine, key GroupKey) {
	for _, l := range lines {
		amount, counted := def.Counted(l.Amount)
		targets := []*Tally{ts.Total}
		if key != nil {
			targets = append(targets, ts.get(key(l)))
		}
		for _, t := range targets {
			t.touch(&l.Voucher)
			if counted {
				t.Amount = t.Amount.Add(amount)
			}
		}
	}
}

// MovementKey extracts the breakdown dimension of a movement line.
type MovementKey func(*domain.MovementLine) string

// AddMovements folds inventory quantities as magnitudes. A nil key only feeds the total.
func (ts *Tallies) AddMovements(lines []*domain.MovementLine, key MovementKey) {
	for _, m := range lines {
		targets := []*Tally{ts.Total}
		if key != nil {
			targets = append(targets, ts.get(key(m)))
		}
		for _, t := range targets {
			t.touch(&m.Voucher)
			t.Quantity = t.Quantity.Add(m.Quantity.Abs())
			t.items[m.Item] = struct{}{}
			if m.Godown != "" {
				t.godowns[m.Godown] = struct{}{}
			}
		}
	}
}

// Groups returns the per-key tallies ordered by key.
func (ts *Tallies) Groups() []*Tally {
	out := make([]*Tally, 0, len(ts.byKey))
	for _, t := range ts.byKey {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Tally) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// DateSpan is the oldest and latest date of a result set.
type DateSpan struct {
	Oldest time.Time
	Latest time.Time
}

// SpanOf returns the date span of dates. The zero span is returned for no dates.
func SpanOf(dates ...time.Time) DateSpan {
	var s DateSpan
	for _, d := range dates {
		if s.Oldest.IsZero() || d.Before(s.Oldest) {
			s.Oldest = d
		}
		if d.After(s.Latest) {
			s.Latest = d
		}
	}
	return s
}

func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(int64(n)), 2)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).DivRound(whole, 2)
}
