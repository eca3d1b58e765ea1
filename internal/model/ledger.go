package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventReceive EventType = "RECEIVE"
	EventMove    EventType = "MOVE"
	EventIssue   EventType = "ISSUE"
	EventReturn  EventType = "RETURN"
	EventScrap   EventType = "SCRAP"
	EventHold    EventType = "HOLD"
	EventRelease EventType = "RELEASE"
	EventCount   EventType = "COUNT"
	// EventAdjust carries a signed base quantity applied at exactly one
	// location. A two-sided correction is expressed as a MOVE instead.
	EventAdjust EventType = "ADJUST"
)

func (t EventType) Valid() bool {
	switch t {
	case EventReceive, EventMove, EventIssue, EventReturn, EventScrap,
		EventHold, EventRelease, EventCount, EventAdjust:
		return true
	}
	return false
}

// RequiresReason reports whether the event type must carry a reason code.
func (t EventType) RequiresReason() bool {
	return t == EventScrap || t == EventAdjust || t == EventHold
}

// Restricted reports whether the event type is limited to privileged roles.
func (t EventType) Restricted() bool {
	return t == EventAdjust || t == EventCount
}

// Balance is the quantity on hand for one (tenant, item, location) key,
// always in the item's base unit. Rows are created on first movement into a
// location and mutated only through Repository.ApplyEvent.
type Balance struct {
	TenantID   string          `db:"tenant_id"`
	ItemID     string          `db:"item_id"`
	LocationID string          `db:"location_id"`
	QtyBase    decimal.Decimal `db:"qty_base"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// InventoryEvent is one append-only ledger row. Rows are never updated or
// deleted; balances are derivable by replaying them.
type InventoryEvent struct {
	ID             string          `db:"id"`
	TenantID       string          `db:"tenant_id"`
	SiteID         string          `db:"site_id"`
	EventType      EventType       `db:"event_type"`
	ItemID         string          `db:"item_id"`
	QtyEntered     decimal.Decimal `db:"qty_entered"`
	UOMEntered     string          `db:"uom_entered"`
	QtyBase        decimal.Decimal `db:"qty_base"`
	FromLocationID *string         `db:"from_location_id"`
	ToLocationID   *string         `db:"to_location_id"`
	ReasonCodeID   *string         `db:"reason_code_id"`
	ReferenceID    *string         `db:"reference_id"`
	Notes          string          `db:"notes"`
	ActorID        string          `db:"actor_id"`
	DeviceID       *string         `db:"device_id"`
	CreatedAt      time.Time       `db:"created_at"`
}
