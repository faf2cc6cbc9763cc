package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db Querier
	instrument
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db Querier, m *metrics.Metrics) *LedgerRepository {
	return &LedgerRepository{db: db, instrument: instrument{metrics: m}}
}

const ledgerSelect = `SELECT name, alias, parent, description, opening_balance, is_revenue, is_deemedpositive FROM mst_ledger`

// FindByName returns ledgers whose name or alias contains fragment.
func (r *LedgerRepository) FindByName(ctx context.Context, fragment string) ([]*domain.Ledger, error) {
	var w where
	p := w.arg(likePattern(fragment))
	w.add("(name ILIKE " + p + " OR alias ILIKE " + p + ")")
	return r.query(ctx, "find", ledgerSelect+w.String()+" ORDER BY name", w.args)
}

// List returns ledgers whose parent group contains parent.
func (r *LedgerRepository) List(ctx context.Context, parent string) ([]*domain.Ledger, error) {
	var w where
	w.contains("parent", parent)
	return r.query(ctx, "list", ledgerSelect+w.String()+" ORDER BY name", w.args)
}

func (r *LedgerRepository) query(ctx context.Context, op, sql string, args []any) (ledgers []*domain.Ledger, err error) {
	start := time.Now()
	defer func() { r.observe(op, "mst_ledger", start, len(ledgers), err) }()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanLedger)
}

func scanLedger(row pgx.CollectableRow) (*domain.Ledger, error) {
	var (
		l                  domain.Ledger
		opening            pgtype.Numeric
		revenue, deemedPos int16
	)
	if err := row.Scan(&l.Name, &l.Alias, &l.Parent, &l.Description, &opening, &revenue, &deemedPos); err != nil {
		return nil, err
	}
	l.OpeningBalance = numericToDecimal(opening)
	l.AffectsProfit = revenue == 1
	if deemedPos == 1 {
		l.Nature = domain.NatureDebit
	}
	return &l, nil
}
