package catalog

import (
	"context"

	"github.com/stocklog/wms-inventory-service/internal/model"
)

// Repository reads the tenant-scoped reference data the ledger validates
// events against. Lookups return (nil, nil) when no row exists for the
// tenant; cross-tenant rows are invisible by construction.
type Repository interface {
	GetItem(ctx context.Context, tenantID, itemID string) (*model.Item, error)
	GetLocation(ctx context.Context, tenantID, locationID string) (*model.Location, error)
	GetReasonCode(ctx context.Context, tenantID, reasonCodeID string) (*model.ReasonCode, error)

	// GetConversion resolves the pairwise (fromUom, toUom) conversion table.
	GetConversion(ctx context.Context, tenantID, fromUOM, toUOM string) (*model.UOMConversion, error)
}
