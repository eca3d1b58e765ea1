package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

// DeltaFunc computes the signed per-location deltas of one event from the
// balances read inside the transaction. Returning an error aborts the whole
// application with no writes; this is where the non-negative invariant and
// COUNT's state-dependent delta run, so both see the same locked snapshot
// the writes will be applied to.
type DeltaFunc func(current map[string]decimal.Decimal) (map[string]decimal.Decimal, error)

// Repository is the storage abstraction of the engine. Balance rows are
// mutated only through ApplyEvent; event rows are append-only.
type Repository interface {
	// GetBalance returns nil when no row exists for the key.
	GetBalance(ctx context.Context, tenantID, itemID, locationID string) (*model.Balance, error)
	ListBalances(ctx context.Context, filters *dto.BalanceFilters) ([]model.Balance, int, error)
	ListEvents(ctx context.Context, filters *dto.EventFilters) ([]model.InventoryEvent, int, error)

	// ApplyEvent reads the event item's balances at the given locations
	// under serialization, calls compute, and — only if it succeeds —
	// persists every balance change together with the event row in one
	// atomic unit. Either all writes happen or none do.
	ApplyEvent(ctx context.Context, ev *model.InventoryEvent, locations []string, compute DeltaFunc) error
}
