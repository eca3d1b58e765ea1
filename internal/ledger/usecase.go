package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stocklog/wms-inventory-service/internal/auth"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

type UseCase interface {
	// ApplyEvent converts, validates, and atomically applies one inventory
	// movement, returning the persisted ledger row.
	ApplyEvent(ctx context.Context, actor auth.Actor, input *dto.ApplyEventInput) (*model.InventoryEvent, error)

	// ConvertQuantity resolves an entered quantity/unit into the item's
	// base unit without touching any balance.
	ConvertQuantity(ctx context.Context, actor auth.Actor, itemID string, qty decimal.Decimal, uomEntered string) (*dto.ConversionResult, error)

	GetBalance(ctx context.Context, actor auth.Actor, itemID, locationID string) (*model.Balance, error)
	ListBalances(ctx context.Context, actor auth.Actor, filters *dto.BalanceFilters) ([]model.Balance, int, error)
	ListEvents(ctx context.Context, actor auth.Actor, filters *dto.EventFilters) ([]model.InventoryEvent, int, error)
}
