package dto

import (
	"github.com/shopspring/decimal"

	"github.com/stocklog/wms-inventory-service/internal/model"
)

type BalanceFilters struct {
	TenantID   string
	ItemID     string
	LocationID string
	Page       int
	PageSize   int
}

type EventFilters struct {
	TenantID   string
	ItemID     string
	LocationID string
	EventType  string
	Page       int
	PageSize   int
}

// ConversionResult is the outcome of resolving an entered quantity into an
// item's base unit.
type ConversionResult struct {
	Item    *model.Item
	QtyBase decimal.Decimal
}
