package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// VoucherRepository implements usecase.VoucherRepository.
type VoucherRepository struct {
	db Querier
	instrument
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(db Querier, m *metrics.Metrics) *VoucherRepository {
	return &VoucherRepository{db: db, instrument: instrument{metrics: m}}
}

// voucherQuery groups accounting lines per voucher so that LIMIT applies to
// vouchers rather than lines.
func voucherQuery(f domain.VoucherFilter) (string, []any) {
	var w where
	w.dateRange("v.date", f.Range)
	w.containsAny("v.voucher_type", f.VoucherTypes)
	w.equals("v.voucher_number", f.Number)
	w.contains("v.party_name", f.Party)

	sql := `SELECT ` + voucherColumns + `, COUNT(a.guid), COALESCE(SUM(ABS(a.amount)), 0)
	FROM trn_voucher v
	LEFT JOIN trn_accounting a ON a.guid = v.guid` + w.String() + `
	GROUP BY v.guid, v.date, v.voucher_type, v.voucher_number, v.party_name,
		v.narration, v.reference_number, v.reference_date
	ORDER BY v.date DESC, v.voucher_number DESC`
	return sql + w.limit(f.Limit), w.args
}

// List returns one total per voucher, newest first.
func (r *VoucherRepository) List(ctx context.Context, filter domain.VoucherFilter) (totals []*domain.VoucherTotal, err error) {
	start := time.Now()
	defer func() { r.observe("list", "trn_voucher", start, len(totals), err) }()

	sql, args := voucherQuery(filter)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanVoucherTotal)
}

// ListParties returns the distinct party names containing fragment.
func (r *VoucherRepository) ListParties(ctx context.Context, fragment string) (parties []string, err error) {
	start := time.Now()
	defer func() { r.observe("parties", "trn_voucher", start, len(parties), err) }()

	var w where
	w.add("party_name <> ''")
	w.contains("party_name", fragment)
	rows, err := r.db.Query(ctx, `SELECT DISTINCT party_name FROM trn_voucher`+w.String()+` ORDER BY party_name`, w.args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanVoucherTotal(row pgx.CollectableRow) (*domain.VoucherTotal, error) {
	var (
		t     domain.VoucherTotal
		gross pgtype.Numeric
	)
	targets, finish := voucherScan(&t.Voucher)
	if err := row.Scan(append(targets, &t.EntryCount, &gross)...); err != nil {
		return nil, err
	}
	finish()
	t.GrossAmount = numericToDecimal(gross)
	return &t, nil
}
