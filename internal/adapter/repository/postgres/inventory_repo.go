package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// InventoryRepository implements usecase.InventoryRepository.
type InventoryRepository struct {
	db Querier
	instrument
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db Querier, m *metrics.Metrics) *InventoryRepository {
	return &InventoryRepository{db: db, instrument: instrument{metrics: m}}
}

func movementQuery(f domain.MovementFilter) (string, []any) {
	var w where
	w.dateRange("v.date", f.Range)
	w.containsAny("v.voucher_type", f.VoucherTypes)
	w.contains("i.item", f.Item)
	w.equals("i.item", f.ExactItem)
	w.contains("i.godown", f.Godown)
	w.contains("v.party_name", f.Party)

	sql := `SELECT ` + voucherColumns + `, i.item, i.godown, i.quantity, i.rate, i.amount
	FROM trn_inventory i
	JOIN trn_voucher v ON v.guid = i.guid` + w.String() + `
	ORDER BY v.date DESC, v.voucher_number DESC`
	return sql + w.limit(f.Limit), w.args
}

// List returns the movements matching filter, newest first.
func (r *InventoryRepository) List(ctx context.Context, filter domain.MovementFilter) (moves []*domain.MovementLine, err error) {
	start := time.Now()
	defer func() { r.observe("list", "trn_inventory", start, len(moves), err) }()

	sql, args := movementQuery(filter)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanMovement)
}

func scanMovement(row pgx.CollectableRow) (*domain.MovementLine, error) {
	var (
		m                 domain.MovementLine
		qty, rate, amount pgtype.Numeric
	)
	targets, finish := voucherScan(&m.Voucher)
	if err := row.Scan(append(targets, &m.Item, &m.Godown, &qty, &rate, &amount)...); err != nil {
		return nil, err
	}
	finish()
	m.Quantity = numericToDecimal(qty)
	m.Rate = numericToDecimal(rate)
	m.Amount = numericToDecimal(amount)
	return &m, nil
}
