package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlens/internal/domain"
)

// Book is an in-memory company book. Its repository views filter, order and
// limit the same way the Postgres repositories do.
type Book struct {
	mu         sync.RWMutex
	ledgers    []*domain.Ledger
	stockItems []*domain.StockItem
	godowns    []*domain.Godown
	vouchers   map[string]*domain.Voucher
	entries    []*domain.EntryLine
	movements  []*domain.MovementLine

	// Err, when set, is returned by every read.
	Err error
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{vouchers: make(map[string]*domain.Voucher)}
}

// AddLedger registers a ledger master record.
func (b *Book) AddLedger(l *domain.Ledger) *Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ledgers = append(b.ledgers, l)
	return b
}

// AddStockItem registers a stock item master record.
func (b *Book) AddStockItem(it *domain.StockItem) *Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stockItems = append(b.stockItems, it)
	return b
}

// AddGodown registers a godown.
func (b *Book) AddGodown(g *domain.Godown) *Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.godowns = append(b.godowns, g)
	return b
}

// Voucher registers a voucher header. Entries and movements added with the
// same type and number attach to it.
func (b *Book) Voucher(date, vtype, number, party string) *domain.Voucher {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.voucher(date, vtype, number, party)
}

func (b *Book) voucher(date, vtype, number, party string) *domain.Voucher {
	guid := vtype + "/" + number
	if v, ok := b.vouchers[guid]; ok {
		return v
	}
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	v := &domain.Voucher{GUID: guid, Number: number, Type: vtype, Date: d, PartyName: party}
	b.vouchers[guid] = v
	return v
}

// Entry adds an accounting line. amount is positive for credits.
func (b *Book) Entry(date, vtype, number, party, ledger, amount string) *Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.voucher(date, vtype, number, party)
	b.entries = append(b.entries, &domain.EntryLine{
		Voucher: *v,
		Ledger:  ledger,
		Amount:  decimal.RequireFromString(amount),
	})
	return b
}

// Movement adds an inventory line. quantity is positive for inward stock.
func (b *Book) Movement(date, vtype, number, party, item, godown, quantity, rate, amount string) *Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.voucher(date, vtype, number, party)
	b.movements = append(b.movements, &domain.MovementLine{
		Voucher:  *v,
		Item:     item,
		Godown:   godown,
		Quantity: decimal.RequireFromString(quantity),
		Rate:     decimal.RequireFromString(rate),
		Amount:   decimal.RequireFromString(amount),
	})
	return b
}

func contains(s, fragment string) bool {
	return fragment == "" || strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}

func containsAny(s string, fragments []string) bool {
	if len(fragments) == 0 {
		return true
	}
	for _, f := range fragments {
		if contains(s, f) {
			return true
		}
	}
	return false
}

func newer(a, b *domain.Voucher) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Number > b.Number
}

// LedgerRepository is the ledger master view of a Book.
type LedgerRepository struct {
	book *Book

	FindByNameFunc func(ctx context.Context, fragment string) ([]*domain.Ledger, error)
	ListFunc       func(ctx context.Context, parent string) ([]*domain.Ledger, error)
}

// Ledgers returns the ledger master view.
func (b *Book) Ledgers() *LedgerRepository { return &LedgerRepository{book: b} }

func (m *LedgerRepository) FindByName(ctx context.Context, fragment string) ([]*domain.Ledger, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, fragment)
	}
	return m.book.filterLedgers(func(l *domain.Ledger) bool {
		return contains(l.Name, fragment) || (l.Alias != "" && contains(l.Alias, fragment))
	})
}

func (m *LedgerRepository) List(ctx context.Context, parent string) ([]*domain.Ledger, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, parent)
	}
	return m.book.filterLedgers(func(l *domain.Ledger) bool { return contains(l.Parent, parent) })
}

func (b *Book) filterLedgers(keep func(*domain.Ledger) bool) ([]*domain.Ledger, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Err != nil {
		return nil, b.Err
	}
	var out []*domain.Ledger
	for _, l := range b.ledgers {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// EntryRepository is the accounting view of a Book.
type EntryRepository struct {
	book  *Book
	calls int

	ListFunc func(ctx context.Context, filter domain.EntryFilter) ([]*domain.EntryLine, error)
}

// Entries returns the accounting view.
func (b *Book) Entries() *EntryRepository { return &EntryRepository{book: b} }

// Calls returns how many times List was called.
func (m *EntryRepository) Calls() int { return m.calls }

func (m *EntryRepository) List(ctx context.Context, f domain.EntryFilter) ([]*domain.EntryLine, error) {
	m.calls++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	b := m.book
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Err != nil {
		return nil, b.Err
	}

	var out []*domain.EntryLine
	for _, e := range b.entries {
		v := e.Voucher
		switch {
		case !f.Range.Contains(v.Date),
			!containsAny(v.Type, f.VoucherTypes),
			!containsAny(e.Ledger, f.Ledgers),
			!contains(v.PartyName, f.Party),
			f.ExactLedger != "" && e.Ledger != f.ExactLedger,
			f.RequiresParty && v.PartyName == "":
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(&out[i].Voucher, &out[j].Voucher) })
	return out, nil
}

// VoucherRepository is the voucher header view of a Book.
type VoucherRepository struct {
	book *Book

	ListFunc        func(ctx context.Context, filter domain.VoucherFilter) ([]*domain.VoucherTotal, error)
	ListPartiesFunc func(ctx context.Context, fragment string) ([]string, error)
}

// Vouchers returns the voucher header view.
func (b *Book) Vouchers() *VoucherRepository { return &VoucherRepository{book: b} }

func (m *VoucherRepository) List(ctx context.Context, f domain.VoucherFilter) ([]*domain.VoucherTotal, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	b := m.book
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Err != nil {
		return nil, b.Err
	}

	totals := make(map[string]*domain.VoucherTotal)
	var out []*domain.VoucherTotal
	for _, v := range b.vouchers {
		switch {
		case !f.Range.Contains(v.Date),
			!containsAny(v.Type, f.VoucherTypes),
			f.Number != "" && v.Number != f.Number,
			!contains(v.PartyName, f.Party):
			continue
		}
		t := &domain.VoucherTotal{Voucher: *v, GrossAmount: decimal.Zero}
		totals[v.GUID] = t
		out = append(out, t)
	}
	for _, e := range b.entries {
		if t, ok := totals[e.Voucher.GUID]; ok {
			t.EntryCount++
			t.GrossAmount = t.GrossAmount.Add(e.Amount.Abs())
		}
	}

	sort.Slice(out, func(i, j int) bool { return newer(&out[i].Voucher, &out[j].Voucher) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *VoucherRepository) ListParties(ctx context.Context, fragment string) ([]string, error) {
	if m.ListPartiesFunc != nil {
		return m.ListPartiesFunc(ctx, fragment)
	}
	b := m.book
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Err != nil {
		return nil, b.Err
	}

	seen := make(map[string]bool)
	var out []string
	for _, v := range b.vouchers {
		if v.PartyName != "" && contains(v.PartyName, fragment) && !seen[v.PartyName] {
			seen[v.PartyName] = true
			out = append(out, v.PartyName)
		}
	}
	sort.Strings(out)
	return out, nil
}

// InventoryRepository is the inventory view of a Book.
type InventoryRepository struct {
	book *Book

	ListFunc func(ctx context.Context, filter domain.MovementFilter) ([]*domain.MovementLine, error)
}

// Movements returns the inventory view.
func (b *Book) Movements() *InventoryRepository { return &InventoryRepository{book: b} }

func (m *InventoryRepository) List(ctx context.Context, f domain.MovementFilter) ([]*domain.MovementLine, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	b := m.book
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Err != nil {
		return nil, b.Err
	}

	var out []*domain.MovementLine
	for _, mv := range b.movements {
		v := mv.Voucher
		switch {
		case !f.Range.Contains(v.Date),
			!containsAny(v.Type, f.VoucherTypes),
			!contains(mv.Item, f.Item),
			f.ExactItem != "" && mv.Item != f.ExactItem,
			!contains(mv.Godown, f.Godown),
			!contains(v.PartyName, f.Party):
			continue
		}
		out = append(out, mv)
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(&out[i].Voucher, &out[j].Voucher) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// StockItemRepository is the stock item master view of a Book.
type StockItemRepository struct {
	book *Book
}

// StockItems returns the stock item master view.
func (b *Book) StockItems() *StockItemRepository { return &StockItemRepository{book: b} }

func (m *StockItemRepository) FindByName(_ context.Context, fragment string) ([]*domain.StockItem, error) {
	b := m.book
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Err != nil {
		return nil, b.Err
	}
	var out []*domain.StockItem
	for _, it := range b.stockItems {
		if contains(it.Name, fragment) || (it.Alias != "" && contains(it.Alias, fragment)) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GodownRepository is the godown view of a Book.
type GodownRepository struct {
	book *Book
}

// Godowns returns the godown view.
func (b *Book) Godowns() *GodownRepository { return &GodownRepository{book: b} }

func (m *GodownRepository) FindByName(_ context.Context, fragment string) ([]*domain.Godown, error) {
	b := m.book
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Err != nil {
		return nil, b.Err
	}
	var out []*domain.Godown
	for _, g := range b.godowns {
		if contains(g.Name, fragment) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Sender is an EmailSender that fails with Err or records what it delivered.
type Sender struct {
	mu        sync.Mutex
	name      string
	Err       error
	Delivered []*domain.EmailMessage
}

// NewSender creates a Sender called name.
func NewSender(name string, err error) *Sender {
	return &Sender{name: name, Err: err}
}

func (s *Sender) Name() string { return s.name }

func (s *Sender) Deliver(_ context.Context, msg *domain.EmailMessage) (*domain.DeliveryReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Delivered = append(s.Delivered, msg)
	return &domain.DeliveryReceipt{ID: s.name + "-1", Location: s.name}, nil
}
