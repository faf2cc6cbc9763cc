package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// Querier is the part of pgxpool.Pool the repositories use.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// where accumulates AND-ed conditions and their positional arguments.
// Values are only ever passed as $n parameters.
type where struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) add(cond string) {
	w.conds = append(w.conds, cond)
}

// contains adds a case-insensitive substring match on column.
func (w *where) contains(column, fragment string) {
	if fragment != "" {
		w.add(column + " ILIKE " + w.arg(likePattern(fragment)))
	}
}

// containsAny adds a case-insensitive match of column against any fragment.
func (w *where) containsAny(column string, fragments []string) {
	if len(fragments) == 0 {
		return
	}
	patterns := make([]string, len(fragments))
	for i, f := range fragments {
		patterns[i] = likePattern(f)
	}
	w.add(column + " ILIKE ANY(" + w.arg(patterns) + ")")
}

func (w *where) equals(column, value string) {
	if value != "" {
		w.add(column + " = " + w.arg(value))
	}
}

// dateRange adds inclusive bounds on column for the bounds that are set.
func (w *where) dateRange(column string, r domain.DateRange) {
	if r.HasFrom() {
		w.add(column + " >= " + w.arg(r.From))
	}
	if r.HasTo() {
		w.add(column + " <= " + w.arg(r.To))
	}
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limit returns a LIMIT clause for n > 0.
func (w *where) limit(n int) string {
	if n <= 0 {
		return ""
	}
	return " LIMIT " + w.arg(n)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps fragment in % after escaping LIKE metacharacters.
func likePattern(fragment string) string {
	return "%" + likeEscaper.Replace(fragment) + "%"
}

// instrument records query count, latency, rows and errors.
type instrument struct {
	metrics *metrics.Metrics
}

func (in instrument) observe(op, table string, start time.Time, rows int, err error) {
	if in.metrics == nil {
		return
	}
	in.metrics.DBQueries.WithLabelValues(op, table).Inc()
	in.metrics.DBDuration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	if err != nil {
		in.metrics.DBErrors.WithLabelValues(op).Inc()
		return
	}
	in.metrics.DBRows.WithLabelValues(table).Observe(float64(rows))
}

// Type conversion helpers.
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func dateToPtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

const voucherColumns = `v.guid, v.date, v.voucher_type, v.voucher_number, v.party_name,
	v.narration, v.reference_number, v.reference_date`

// voucherScan returns scan targets for voucherColumns and a finisher that
// copies the nullable reference date into v.
func voucherScan(v *domain.Voucher) ([]any, func()) {
	var ref pgtype.Date
	targets := []any{&v.GUID, &v.Date, &v.Type, &v.Number, &v.PartyName, &v.Narration, &v.ReferenceNumber, &ref}
	return targets, func() { v.ReferenceDate = dateToPtr(ref) }
}
