package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	SKU       string    `db:"sku"`
	Name      string    `db:"name"`
	BaseUOM   string    `db:"base_uom"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// AllowedUOMs is loaded alongside the item; it is not a column.
	AllowedUOMs []ItemUOM `db:"-"`
}

// ItemUOM is one row of an item's allowed-unit table:
// 1 <UOM> = FactorToBase <base units>.
type ItemUOM struct {
	ItemID       string          `db:"item_id"`
	TenantID     string          `db:"tenant_id"`
	UOM          string          `db:"uom"`
	FactorToBase decimal.Decimal `db:"factor_to_base"`
}

// UOMConversion is a pairwise conversion persisted independently of any
// item's allowed-unit table. Resolvers fall back to it when the item table
// has no entry for the entered unit.
type UOMConversion struct {
	TenantID string          `db:"tenant_id"`
	FromUOM  string          `db:"from_uom"`
	ToUOM    string          `db:"to_uom"`
	Factor   decimal.Decimal `db:"factor"`
}

type Location struct {
	ID       string `db:"id"`
	TenantID string `db:"tenant_id"`
	SiteID   string `db:"site_id"`
	Label    string `db:"label"`
	Kind     string `db:"kind"` // bin, stage, workcell
}

type ReasonCode struct {
	ID       string `db:"id"`
	TenantID string `db:"tenant_id"`
	Type     string `db:"type"` // must equal the event type it is attached to
	Label    string `db:"label"`
}
