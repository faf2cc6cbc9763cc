package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerlens/internal/adapter/repository/postgres"
	"github.com/iho/ledgerlens/internal/domain"
	infrapg "github.com/iho/ledgerlens/internal/infrastructure/postgres"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/usecase"
)

const migrationsPath = "../../../../migrations"

// newTestDB migrates the database at DATABASE_URL and seeds January 2024.
func newTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, infrapg.NewMigrator(dbURL, migrationsPath, zerolog.Nop()).Up())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPoolWithConfig(ctx, infrapg.PoolConfig{
		DatabaseURL:  dbURL,
		MaxConns:     4,
		ConnectRetry: 5 * time.Second,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE trn_inventory, trn_accounting, trn_voucher, mst_ledger, mst_stock_item, mst_godown CASCADE;

		INSERT INTO mst_ledger (name, parent, alias, opening_balance, is_revenue, is_deemedpositive) VALUES
			('HDFC Bank', 'Bank Accounts', 'hdfc', 100, 0, 1),
			('Sales Account', 'Sales Accounts', '', 0, 1, 0),
			('Acme Traders', 'Sundry Debtors', '', 0, 0, 1);
		INSERT INTO mst_stock_item (name, parent, uom) VALUES ('Widget', 'Hardware', 'nos');
		INSERT INTO mst_godown (name) VALUES ('Main Location');

		INSERT INTO trn_voucher (guid, date, voucher_type, voucher_number, party_name) VALUES
			('v-1', '2024-01-05', 'Sales', 'S-1', 'Acme Traders'),
			('v-2', '2024-01-09', 'Receipt', 'R-1', 'Acme Traders'),
			('v-3', '2024-02-01', 'Sales', 'S-2', 'Acme Traders');
		INSERT INTO trn_accounting (guid, ledger, amount) VALUES
			('v-1', 'Sales Account', 500), ('v-1', 'Acme Traders', -500),
			('v-2', 'HDFC Bank', 300), ('v-2', 'Acme Traders', -300),
			('v-3', 'Sales Account', 200), ('v-3', 'Acme Traders', -200);
		INSERT INTO trn_inventory (guid, item, quantity, rate, amount, godown) VALUES
			('v-1', 'Widget', -5, 100, -500, 'Main Location'),
			('v-3', 'Widget', -2, 100, -200, 'Main Location');
	`)
	require.NoError(t, err)

	return pool
}

func january() domain.DateRange {
	return domain.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestIntegration_MasterLookups(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	ledgers, err := postgres.NewLedgerRepository(pool, m).FindByName(ctx, "HDFC")
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	assert.Equal(t, "HDFC Bank", ledgers[0].Name)
	assert.Equal(t, "100", ledgers[0].OpeningBalance.String())
	assert.Equal(t, domain.NatureDebit, ledgers[0].Nature)

	byParent, err := postgres.NewLedgerRepository(pool, m).List(ctx, "sales")
	require.NoError(t, err)
	require.Len(t, byParent, 1)
	assert.True(t, byParent[0].AffectsProfit)

	items, err := postgres.NewStockItemRepository(pool, m).FindByName(ctx, "widg")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "nos", items[0].UOM)

	godowns, err := postgres.NewGodownRepository(pool, m).FindByName(ctx, "main")
	require.NoError(t, err)
	require.Len(t, godowns, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueries.WithLabelValues("find", "mst_ledger")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueries.WithLabelValues("list", "mst_ledger")))
}

func TestIntegration_TransactionReads(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()

	entries, err := postgres.NewEntryRepository(pool, nil).List(ctx, domain.EntryFilter{
		Range:        january(),
		VoucherTypes: []string{"Sales"},
		Ledgers:      []string{"sales"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "500", entries[0].Amount.String())
	assert.Equal(t, "S-1", entries[0].Voucher.Number)

	totals, err := postgres.NewVoucherRepository(pool, nil).List(ctx, domain.VoucherFilter{Party: "acme", Limit: 2})
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "S-2", totals[0].Voucher.Number)
	assert.Equal(t, 2, totals[0].EntryCount)
	assert.Equal(t, "400", totals[0].GrossAmount.String())

	parties, err := postgres.NewVoucherRepository(pool, nil).ListParties(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Traders"}, parties)

	moves, err := postgres.NewInventoryRepository(pool, nil).List(ctx, domain.MovementFilter{ExactItem: "Widget"})
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, domain.DirectionOut, moves[0].Direction())
}

func TestIntegration_SalesSummary(t *testing.T) {
	pool := newTestDB(t)

	sales := usecase.NewSalesUseCase(
		postgres.NewEntryRepository(pool, nil),
		postgres.NewInventoryRepository(pool, nil),
		zerolog.Nop(),
	)

	rep, err := sales.SalesSummary(context.Background(), usecase.TradeFilterInput{StartDate: "2024-01-01", EndDate: "2024-02-29"})
	require.NoError(t, err)
	assert.Equal(t, "700", rep.Amount.String())
	assert.Equal(t, 2, rep.Transactions)
	assert.Equal(t, 1, rep.Parties)
}
