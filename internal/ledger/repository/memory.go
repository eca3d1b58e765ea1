package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

// MemoryRepository is a mutex-guarded in-memory ledger store. It holds the
// same all-or-nothing contract as the Postgres repository: a failing compute
// leaves no trace, a passing one applies every delta plus the event row
// under one lock.
type MemoryRepository struct {
	mu       sync.Mutex
	balances map[string]model.Balance
	events   []model.InventoryEvent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		balances: make(map[string]model.Balance),
	}
}

func balanceKey(tenantID, itemID, locationID string) string {
	return strings.Join([]string{tenantID, itemID, locationID}, "/")
}

func (r *MemoryRepository) GetBalance(_ context.Context, tenantID, itemID, locationID string) (*model.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bal, ok := r.balances[balanceKey(tenantID, itemID, locationID)]; ok {
		cp := bal
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryRepository) ListBalances(_ context.Context, f *dto.BalanceFilters) ([]model.Balance, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.Balance
	for _, bal := range r.balances {
		if bal.TenantID != f.TenantID {
			continue
		}
		if f.ItemID != "" && bal.ItemID != f.ItemID {
			continue
		}
		if f.LocationID != "" && bal.LocationID != f.LocationID {
			continue
		}
		matched = append(matched, bal)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ItemID != matched[j].ItemID {
			return matched[i].ItemID < matched[j].ItemID
		}
		return matched[i].LocationID < matched[j].LocationID
	})
	return paginate(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *MemoryRepository) ListEvents(_ context.Context, f *dto.EventFilters) ([]model.InventoryEvent, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.InventoryEvent
	for i := len(r.events) - 1; i >= 0; i-- { // newest first
		ev := r.events[i]
		if ev.TenantID != f.TenantID {
			continue
		}
		if f.ItemID != "" && ev.ItemID != f.ItemID {
			continue
		}
		if f.EventType != "" && string(ev.EventType) != f.EventType {
			continue
		}
		if f.LocationID != "" && !touches(ev, f.LocationID) {
			continue
		}
		matched = append(matched, ev)
	}
	return paginate(matched, f.Page, f.PageSize), len(matched), nil
}

func touches(ev model.InventoryEvent, locationID string) bool {
	if ev.FromLocationID != nil && *ev.FromLocationID == locationID {
		return true
	}
	return ev.ToLocationID != nil && *ev.ToLocationID == locationID
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (r *MemoryRepository) ApplyEvent(_ context.Context, ev *model.InventoryEvent, locations []string, compute ledger.DeltaFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := make(map[string]decimal.Decimal, len(locations))
	for _, loc := range locations {
		if bal, ok := r.balances[balanceKey(ev.TenantID, ev.ItemID, loc)]; ok {
			current[loc] = bal.QtyBase
		} else {
			current[loc] = decimal.Zero
		}
	}

	deltas, err := compute(current)
	if err != nil {
		return err
	}

	for loc, delta := range deltas {
		key := balanceKey(ev.TenantID, ev.ItemID, loc)
		r.balances[key] = model.Balance{
			TenantID:   ev.TenantID,
			ItemID:     ev.ItemID,
			LocationID: loc,
			QtyBase:    current[loc].Add(delta),
			UpdatedAt:  ev.CreatedAt,
		}
	}

	r.events = append(r.events, *ev)
	return nil
}
