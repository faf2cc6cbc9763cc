package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/iho/ledgerlens/internal/domain"
)

// Resolver maps free-text fragments to canonical entities.
type Resolver struct {
	ledgers  LedgerRepository
	items    StockItemRepository
	godowns  GodownRepository
	vouchers VoucherRepository
}

// NewResolver creates a new Resolver.
func NewResolver(ledgers LedgerRepository, items StockItemRepository, godowns GodownRepository, vouchers VoucherRepository) *Resolver {
	return &Resolver{
		ledgers:  ledgers,
		items:    items,
		godowns:  godowns,
		vouchers: vouchers,
	}
}

// Resolve returns every entity of kind whose name or alias contains fragment.
// Matches are ranked exact name (or alias) first, then by name ascending;
// the first element is the canonical pick.
func (r *Resolver) Resolve(ctx context.Context, kind domain.EntityKind, fragment string) ([]domain.Entity, error) {
	fragment, err := domain.ValidateFragment(string(kind), fragment, true)
	if err != nil {
		return nil, err
	}

	var found []domain.Entity
	switch kind {
	case domain.EntityAccount:
		ledgers, err := r.ledgers.FindByName(ctx, fragment)
		if err != nil {
			return nil, domain.Unavailable("resolve account", err)
		}
		for _, l := range ledgers {
			found = append(found, domain.Entity{Kind: kind, Name: l.Name, Alias: l.Alias, Record: l})
		}
	case domain.EntityItem:
		items, err := r.items.FindByName(ctx, fragment)
		if err != nil {
			return nil, domain.Unavailable("resolve item", err)
		}
		for _, it := range items {
			found = append(found, domain.Entity{Kind: kind, Name: it.Name, Alias: it.Alias, Record: it})
		}
	case domain.EntityGodown:
		godowns, err := r.godowns.FindByName(ctx, fragment)
		if err != nil {
			return nil, domain.Unavailable("resolve godown", err)
		}
		for _, g := range godowns {
			found = append(found, domain.Entity{Kind: kind, Name: g.Name, Record: g})
		}
	case domain.EntityParty:
		parties, err := r.vouchers.ListParties(ctx, fragment)
		if err != nil {
			return nil, domain.Unavailable("resolve party", err)
		}
		for _, p := range parties {
			found = append(found, domain.Entity{Kind: kind, Name: p})
		}
	default:
		return nil, domain.Invalid("kind", "unknown entity kind %q", kind)
	}

	if len(found) == 0 {
		return nil, &domain.NotFoundError{Kind: kind, Fragment: fragment}
	}

	rankEntities(found, fragment)
	return found, nil
}

// ResolveOne returns the canonical pick and the names of every candidate.
func (r *Resolver) ResolveOne(ctx context.Context, kind domain.EntityKind, fragment string) (domain.Entity, []string, error) {
	found, err := r.Resolve(ctx, kind, fragment)
	if err != nil {
		return domain.Entity{}, nil, err
	}
	names := make([]string, len(found))
	for i, e := range found {
		names[i] = e.Name
	}
	return found[0], names, nil
}

func rankEntities(found []domain.Entity, fragment string) {
	exact := func(e domain.Entity) bool {
		return strings.EqualFold(e.Name, fragment) || (e.Alias != "" && strings.EqualFold(e.Alias, fragment))
	}
	slices.SortStableFunc(found, func(a, b domain.Entity) int {
		ea, eb := exact(a), exact(b)
		switch {
		case ea && !eb:
			return -1
		case eb && !ea:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
}
