package dto

import (
	"github.com/shopspring/decimal"

	"github.com/stocklog/wms-inventory-service/internal/model"
)

type ApplyEventInput struct {
	TenantID   string
	SiteID     string
	EventType  model.EventType
	ItemID     string
	QtyEntered decimal.Decimal
	UOMEntered string

	FromLocationID *string
	ToLocationID   *string
	ReasonCodeID   *string

	// ReferenceID is persisted verbatim; event application is not
	// idempotent, so callers de-duplicate retries through it.
	ReferenceID *string
	Notes       string
	DeviceID    *string
}
