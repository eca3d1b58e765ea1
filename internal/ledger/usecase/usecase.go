package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklog/wms-inventory-service/internal/auth"
	"github.com/stocklog/wms-inventory-service/internal/catalog"
	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
	"github.com/stocklog/wms-inventory-service/internal/uom"
)

const (
	lockExpiry = 8 * time.Second
	lockTries  = 16
)

type ledgerUseCase struct {
	repo     ledger.Repository
	catalog  catalog.Repository
	resolver *uom.Resolver
	locks    *redsync.Redsync
	logger   *zap.Logger
}

func NewLedgerUseCase(repo ledger.Repository, cat catalog.Repository, resolver *uom.Resolver, locks *redsync.Redsync, log *zap.Logger) ledger.UseCase {
	return &ledgerUseCase{
		repo:     repo,
		catalog:  cat,
		resolver: resolver,
		locks:    locks,
		logger:   log,
	}
}

func (uc *ledgerUseCase) ApplyEvent(ctx context.Context, actor auth.Actor, input *dto.ApplyEventInput) (*model.InventoryEvent, error) {
	if err := validateInput(actor, input); err != nil {
		return nil, err
	}

	item, err := uc.catalog.GetItem(ctx, actor.TenantID, input.ItemID)
	if err != nil {
		return nil, fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", ledger.ErrNotFound, input.ItemID)
	}

	if err := uc.resolveLocations(ctx, actor.TenantID, input); err != nil {
		return nil, err
	}

	if input.ReasonCodeID != nil && *input.ReasonCodeID != "" {
		rc, err := uc.catalog.GetReasonCode(ctx, actor.TenantID, *input.ReasonCodeID)
		if err != nil {
			return nil, fmt.Errorf("lookup reason code: %w", err)
		}
		if rc == nil {
			return nil, fmt.Errorf("%w: reason code %s", ledger.ErrNotFound, *input.ReasonCodeID)
		}
		if rc.Type != string(input.EventType) {
			return nil, fmt.Errorf("%w: %s attached to %s", ledger.ErrReasonCodeMismatch, rc.Type, input.EventType)
		}
	}

	qtyBase, err := uc.resolver.ToBase(ctx, item, input.QtyEntered, input.UOMEntered)
	if err != nil {
		if errors.Is(err, uom.ErrNoConversion) {
			return nil, fmt.Errorf("%w: %s for item %s", ledger.ErrInvalidUOM, input.UOMEntered, item.SKU)
		}
		return nil, err
	}

	// Serialize read-then-write per (tenant, item) across instances. The
	// row locks inside Repository.ApplyEvent protect a single database;
	// this mutex keeps COUNT's read-compute-write stable under redelivery
	// from other service instances too.
	mutex := uc.locks.NewMutex(
		fmt.Sprintf("lock:ledger:%s:%s", actor.TenantID, item.ID),
		redsync.WithExpiry(lockExpiry),
		redsync.WithTries(lockTries),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("acquire ledger lock: %w", err)
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			uc.logger.Warn("failed to release ledger lock", zap.Error(err))
		}
	}()

	ev := &model.InventoryEvent{
		ID:             uuid.New().String(),
		TenantID:       actor.TenantID,
		SiteID:         input.SiteID,
		EventType:      input.EventType,
		ItemID:         item.ID,
		QtyEntered:     input.QtyEntered,
		UOMEntered:     input.UOMEntered,
		QtyBase:        qtyBase,
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		ReasonCodeID:   input.ReasonCodeID,
		ReferenceID:    input.ReferenceID,
		Notes:          input.Notes,
		ActorID:        actor.ID,
		DeviceID:       input.DeviceID,
		CreatedAt:      time.Now().UTC(),
	}

	locations := touchedLocations(input.EventType, input.FromLocationID, input.ToLocationID)
	allowNegative := input.EventType == model.EventAdjust && actor.Privileged()

	compute := func(current map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
		deltas := eventDeltas(input.EventType, qtyBase, input.FromLocationID, input.ToLocationID, current)
		if err := checkNonNegative(current, deltas, allowNegative); err != nil {
			return nil, err
		}
		return deltas, nil
	}

	if err := uc.repo.ApplyEvent(ctx, ev, locations, compute); err != nil {
		return nil, err
	}

	uc.logger.Info("inventory event applied",
		zap.String("event_id", ev.ID),
		zap.String("tenant_id", ev.TenantID),
		zap.String("event_type", string(ev.EventType)),
		zap.String("item_id", ev.ItemID),
		zap.String("qty_base", ev.QtyBase.String()),
	)
	return ev, nil
}

// resolveLocations checks that every provided location exists in the actor's
// tenant and site. Cross-tenant rows are invisible, so both cases surface as
// not found.
func (uc *ledgerUseCase) resolveLocations(ctx context.Context, tenantID string, input *dto.ApplyEventInput) error {
	for _, id := range []*string{input.FromLocationID, input.ToLocationID} {
		if id == nil || *id == "" {
			continue
		}
		loc, err := uc.catalog.GetLocation(ctx, tenantID, *id)
		if err != nil {
			return fmt.Errorf("lookup location: %w", err)
		}
		if loc == nil || loc.SiteID != input.SiteID {
			return fmt.Errorf("%w: location %s", ledger.ErrNotFound, *id)
		}
	}
	return nil
}

func (uc *ledgerUseCase) ConvertQuantity(ctx context.Context, actor auth.Actor, itemID string, qty decimal.Decimal, uomEntered string) (*dto.ConversionResult, error) {
	item, err := uc.catalog.GetItem(ctx, actor.TenantID, itemID)
	if err != nil {
		return nil, fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", ledger.ErrNotFound, itemID)
	}

	qtyBase, err := uc.resolver.ToBase(ctx, item, qty, uomEntered)
	if err != nil {
		if errors.Is(err, uom.ErrNoConversion) {
			return nil, fmt.Errorf("%w: %s for item %s", ledger.ErrInvalidUOM, uomEntered, item.SKU)
		}
		return nil, err
	}
	return &dto.ConversionResult{Item: item, QtyBase: qtyBase}, nil
}

func (uc *ledgerUseCase) GetBalance(ctx context.Context, actor auth.Actor, itemID, locationID string) (*model.Balance, error) {
	bal, err := uc.repo.GetBalance(ctx, actor.TenantID, itemID, locationID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		// No movement into that location yet; zero, not missing.
		return &model.Balance{
			TenantID:   actor.TenantID,
			ItemID:     itemID,
			LocationID: locationID,
			QtyBase:    decimal.Zero,
		}, nil
	}
	return bal, nil
}

func (uc *ledgerUseCase) ListBalances(ctx context.Context, actor auth.Actor, filters *dto.BalanceFilters) ([]model.Balance, int, error) {
	filters.TenantID = actor.TenantID
	return uc.repo.ListBalances(ctx, filters)
}

func (uc *ledgerUseCase) ListEvents(ctx context.Context, actor auth.Actor, filters *dto.EventFilters) ([]model.InventoryEvent, int, error) {
	filters.TenantID = actor.TenantID
	return uc.repo.ListEvents(ctx, filters)
}
