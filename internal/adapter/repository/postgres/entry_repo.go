package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	db Querier
	instrument
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db Querier, m *metrics.Metrics) *EntryRepository {
	return &EntryRepository{db: db, instrument: instrument{metrics: m}}
}

// entryQuery builds the row-level accounting query for filter.
func entryQuery(f domain.EntryFilter) (string, []any) {
	var w where
	w.dateRange("v.date", f.Range)
	w.containsAny("v.voucher_type", f.VoucherTypes)
	w.containsAny("a.ledger", f.Ledgers)
	w.contains("v.party_name", f.Party)
	w.equals("a.ledger", f.ExactLedger)
	if f.RequiresParty {
		w.add("v.party_name <> ''")
	}

	sql := `SELECT ` + voucherColumns + `, a.ledger, a.amount
	FROM trn_accounting a
	JOIN trn_voucher v ON v.guid = a.guid` + w.String() + `
	ORDER BY v.date DESC, v.voucher_number DESC`
	return sql, w.args
}

// List returns the entry lines matching filter, newest first.
func (r *EntryRepository) List(ctx context.Context, filter domain.EntryFilter) (lines []*domain.EntryLine, err error) {
	start := time.Now()
	defer func() { r.observe("list", "trn_accounting", start, len(lines), err) }()

	sql, args := entryQuery(filter)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanEntryLine)
}

func scanEntryLine(row pgx.CollectableRow) (*domain.EntryLine, error) {
	var (
		l      domain.EntryLine
		amount pgtype.Numeric
	)
	targets, finish := voucherScan(&l.Voucher)
	if err := row.Scan(append(targets, &l.Ledger, &amount)...); err != nil {
		return nil, err
	}
	finish()
	l.Amount = numericToDecimal(amount)
	return &l, nil
}
