package listener

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redsync/redsync/v4"
	redsyncredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogrepo "github.com/stocklog/wms-inventory-service/internal/catalog/repository"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	ledgerrepo "github.com/stocklog/wms-inventory-service/internal/ledger/repository"
	"github.com/stocklog/wms-inventory-service/internal/ledger/usecase"
	"github.com/stocklog/wms-inventory-service/internal/model"
	"github.com/stocklog/wms-inventory-service/internal/uom"
)

func newListener(t *testing.T) (*MovementListener, *ledgerrepo.MemoryRepository) {
	t.Helper()

	cat := catalogrepo.NewMemoryRepository()
	cat.PutItem(model.Item{ID: "item-x", TenantID: "t1", SKU: "FILTER-MEDIA", BaseUOM: "FT"})
	cat.PutLocation(model.Location{ID: "RECEIVING", TenantID: "t1", SiteID: "s1", Label: "Receiving", Kind: "stage"})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	locks := redsync.New(redsyncredis.NewPool(client))

	repo := ledgerrepo.NewMemoryRepository()
	uc := usecase.NewLedgerUseCase(repo, cat, uom.NewResolver(cat), locks, zap.NewNop())
	return &MovementListener{uc: uc, logger: zap.NewNop()}, repo
}

func TestProcessMessage_AppliesMovement(t *testing.T) {
	l, repo := newListener(t)

	to := "RECEIVING"
	msg, err := json.Marshal(MovementRequestedEvent{
		EventID:   "mr-1",
		EventType: "MovementRequested",
		Payload: MovementPayload{
			TenantID:     "t1",
			SiteID:       "s1",
			MovementType: "RECEIVE",
			ItemID:       "item-x",
			Qty:          decimal.NewFromInt(25),
			UOM:          "FT",
			ToLocationID: &to,
			ActorID:      "wf-receiving",
		},
	})
	require.NoError(t, err)

	l.processMessage(context.Background(), msg)

	bal, err := repo.GetBalance(context.Background(), "t1", "item-x", "RECEIVING")
	require.NoError(t, err)
	require.NotNil(t, bal)
	assert.True(t, bal.QtyBase.Equal(decimal.NewFromInt(25)))

	events, total, err := repo.ListEvents(context.Background(), &dto.EventFilters{TenantID: "t1"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "mr-1", *events[0].ReferenceID)
	assert.Equal(t, "wf-receiving", events[0].ActorID)
}

func TestProcessMessage_IgnoresOtherEventTypes(t *testing.T) {
	l, repo := newListener(t)

	msg, err := json.Marshal(MovementRequestedEvent{
		EventID:   "o-1",
		EventType: "OrderCreated",
	})
	require.NoError(t, err)

	l.processMessage(context.Background(), msg)

	_, total, err := repo.ListEvents(context.Background(), &dto.EventFilters{TenantID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestProcessMessage_RejectedMovementLeavesNoTrace(t *testing.T) {
	l, repo := newListener(t)

	from := "RECEIVING"
	msg, err := json.Marshal(MovementRequestedEvent{
		EventID:   "mr-2",
		EventType: "MovementRequested",
		Payload: MovementPayload{
			TenantID:       "t1",
			SiteID:         "s1",
			MovementType:   "ISSUE",
			ItemID:         "item-x",
			Qty:            decimal.NewFromInt(5),
			UOM:            "FT",
			FromLocationID: &from,
			ActorID:        "wf-kitting",
		},
	})
	require.NoError(t, err)

	// RECEIVING is empty; the issue must be rejected with zero side effects.
	l.processMessage(context.Background(), msg)

	_, total, err := repo.ListEvents(context.Background(), &dto.EventFilters{TenantID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
