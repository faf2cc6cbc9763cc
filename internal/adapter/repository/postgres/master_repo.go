package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// StockItemRepository implements usecase.StockItemRepository.
type StockItemRepository struct {
	db Querier
	instrument
}

// NewStockItemRepository creates a new StockItemRepository.
func NewStockItemRepository(db Querier, m *metrics.Metrics) *StockItemRepository {
	return &StockItemRepository{db: db, instrument: instrument{metrics: m}}
}

// FindByName returns stock items whose name or alias contains fragment.
func (r *StockItemRepository) FindByName(ctx context.Context, fragment string) (items []*domain.StockItem, err error) {
	start := time.Now()
	defer func() { r.observe("find", "mst_stock_item", start, len(items), err) }()

	var w where
	p := w.arg(likePattern(fragment))
	w.add("(name ILIKE " + p + " OR alias ILIKE " + p + ")")
	rows, err := r.db.Query(ctx, `SELECT name, parent, alias, part_number, uom,
		opening_balance, opening_rate, opening_value, gst_hsn_code, gst_rate, gst_taxability
		FROM mst_stock_item`+w.String()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanStockItem)
}

func scanStockItem(row pgx.CollectableRow) (*domain.StockItem, error) {
	var (
		it                        domain.StockItem
		balance, rate, value, gst pgtype.Numeric
	)
	err := row.Scan(&it.Name, &it.Parent, &it.Alias, &it.PartNumber, &it.UOM,
		&balance, &rate, &value, &it.HSNCode, &gst, &it.Taxability)
	if err != nil {
		return nil, err
	}
	it.OpeningBalance = numericToDecimal(balance)
	it.OpeningRate = numericToDecimal(rate)
	it.OpeningValue = numericToDecimal(value)
	it.GSTRate = numericToDecimal(gst)
	return &it, nil
}

// GodownRepository implements usecase.GodownRepository.
type GodownRepository struct {
	db Querier
	instrument
}

// NewGodownRepository creates a new GodownRepository.
func NewGodownRepository(db Querier, m *metrics.Metrics) *GodownRepository {
	return &GodownRepository{db: db, instrument: instrument{metrics: m}}
}

// FindByName returns godowns whose name contains fragment; empty lists all.
func (r *GodownRepository) FindByName(ctx context.Context, fragment string) (godowns []*domain.Godown, err error) {
	start := time.Now()
	defer func() { r.observe("find", "mst_godown", start, len(godowns), err) }()

	var w where
	w.contains("name", fragment)
	rows, err := r.db.Query(ctx, `SELECT name, parent, address FROM mst_godown`+w.String()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Godown, error) {
		var g domain.Godown
		if err := row.Scan(&g.Name, &g.Parent, &g.Address); err != nil {
			return nil, err
		}
		return &g, nil
	})
}
