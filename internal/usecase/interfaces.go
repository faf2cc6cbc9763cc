package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
)

// LedgerRepository reads the ledger master.
type LedgerRepository interface {
	// FindByName returns ledgers whose name or alias contains fragment, ignoring case.
	FindByName(ctx context.Context, fragment string) ([]*domain.Ledger, error)
	// List returns ledgers whose parent group contains parent. An empty parent lists all.
	List(ctx context.Context, parent string) ([]*domain.Ledger, error)
}

// VoucherRepository reads voucher headers.
type VoucherRepository interface {
	// List returns one total per voucher ordered by date desc, number desc.
	List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.VoucherTotal, error)
	// ListParties returns distinct party names containing fragment, ignoring case.
	ListParties(ctx context.Context, fragment string) ([]string, error)
}

// EntryRepository reads accounting entries joined with their vouchers.
type EntryRepository interface {
	List(ctx context.Context, filter domain.EntryFilter) ([]*domain.EntryLine, error)
}

// InventoryRepository reads inventory movements joined with their vouchers.
type InventoryRepository interface {
	// List returns movements ordered by date desc, voucher number desc.
	List(ctx context.Context, filter domain.MovementFilter) ([]*domain.MovementLine, error)
}

// StockItemRepository reads the stock item master.
type StockItemRepository interface {
	FindByName(ctx context.Context, fragment string) ([]*domain.StockItem, error)
}

// GodownRepository reads storage locations.
type GodownRepository interface {
	// FindByName returns godowns whose name contains fragment. An empty fragment lists all.
	FindByName(ctx context.Context, fragment string) ([]*domain.Godown, error)
}

// EmailSender is one delivery strategy in the email fallback chain.
type EmailSender interface {
	Name() string
	Deliver(ctx context.Context, msg *domain.EmailMessage) (*domain.DeliveryReceipt, error)
}

// CalendarScheduler creates events in an external calendar.
type CalendarScheduler interface {
	Schedule(ctx context.Context, event *domain.CalendarEvent) (*domain.ScheduledEvent, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the request can be retried.
	Release(ctx context.Context, key string) error
}
