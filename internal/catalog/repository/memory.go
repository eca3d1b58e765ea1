package repository

import (
	"context"
	"sync"

	"github.com/stocklog/wms-inventory-service/internal/model"
)

// MemoryRepository is a mutex-guarded in-memory catalog used by tests and
// local runs without a database.
type MemoryRepository struct {
	mu          sync.RWMutex
	items       map[string]model.Item
	locations   map[string]model.Location
	reasonCodes map[string]model.ReasonCode
	conversions map[string]model.UOMConversion
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:       make(map[string]model.Item),
		locations:   make(map[string]model.Location),
		reasonCodes: make(map[string]model.ReasonCode),
		conversions: make(map[string]model.UOMConversion),
	}
}

func key2(a, b string) string    { return a + "/" + b }
func key3(a, b, c string) string { return a + "/" + b + "/" + c }

func (r *MemoryRepository) PutItem(item model.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key2(item.TenantID, item.ID)] = item
}

func (r *MemoryRepository) PutLocation(loc model.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[key2(loc.TenantID, loc.ID)] = loc
}

func (r *MemoryRepository) PutReasonCode(rc model.ReasonCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasonCodes[key2(rc.TenantID, rc.ID)] = rc
}

func (r *MemoryRepository) PutConversion(conv model.UOMConversion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversions[key3(conv.TenantID, conv.FromUOM, conv.ToUOM)] = conv
}

func (r *MemoryRepository) GetItem(_ context.Context, tenantID, itemID string) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item, ok := r.items[key2(tenantID, itemID)]; ok {
		cp := item
		cp.AllowedUOMs = append([]model.ItemUOM(nil), item.AllowedUOMs...)
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetLocation(_ context.Context, tenantID, locationID string) (*model.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if loc, ok := r.locations[key2(tenantID, locationID)]; ok {
		cp := loc
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetReasonCode(_ context.Context, tenantID, reasonCodeID string) (*model.ReasonCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rc, ok := r.reasonCodes[key2(tenantID, reasonCodeID)]; ok {
		cp := rc
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetConversion(_ context.Context, tenantID, fromUOM, toUOM string) (*model.UOMConversion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if conv, ok := r.conversions[key3(tenantID, fromUOM, toUOM)]; ok {
		cp := conv
		return &cp, nil
	}
	return nil, nil
}
