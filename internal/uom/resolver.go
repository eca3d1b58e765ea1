package uom

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stocklog/wms-inventory-service/internal/catalog"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

var ErrNoConversion = errors.New("no conversion path to base unit")

// Resolver converts entered quantities into an item's base unit. The item's
// own allowed-unit table wins; the tenant's pairwise conversion table is the
// fallback for units configured globally rather than per item.
type Resolver struct {
	catalog catalog.Repository
}

func NewResolver(c catalog.Repository) *Resolver {
	return &Resolver{catalog: c}
}

// FactorToBase returns f such that qtyEntered * f = qtyBase.
func (r *Resolver) FactorToBase(ctx context.Context, item *model.Item, uomEntered string) (decimal.Decimal, error) {
	if uomEntered == item.BaseUOM {
		return decimal.NewFromInt(1), nil
	}
	for _, u := range item.AllowedUOMs {
		if u.UOM == uomEntered {
			return u.FactorToBase, nil
		}
	}

	conv, err := r.catalog.GetConversion(ctx, item.TenantID, uomEntered, item.BaseUOM)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lookup conversion %s->%s: %w", uomEntered, item.BaseUOM, err)
	}
	if conv == nil {
		return decimal.Zero, fmt.Errorf("%w: %s -> %s", ErrNoConversion, uomEntered, item.BaseUOM)
	}
	return conv.Factor, nil
}

// ToBase converts an entered quantity into the item's base unit. The sign of
// qty is preserved; ADJUST relies on that.
func (r *Resolver) ToBase(ctx context.Context, item *model.Item, qty decimal.Decimal, uomEntered string) (decimal.Decimal, error) {
	factor, err := r.FactorToBase(ctx, item, uomEntered)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(factor), nil
}

// FromBase converts a base quantity back into the given unit via the inverse
// factor. Round-tripping ToBase then FromBase recovers the original quantity
// up to decimal division precision.
func (r *Resolver) FromBase(ctx context.Context, item *model.Item, qtyBase decimal.Decimal, uom string) (decimal.Decimal, error) {
	factor, err := r.FactorToBase(ctx, item, uom)
	if err != nil {
		return decimal.Zero, err
	}
	if factor.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero factor for %s", ErrNoConversion, uom)
	}
	return qtyBase.Div(factor), nil
}
