package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetItem(ctx context.Context, tenantID, itemID string) (*model.Item, error) {
	var item model.Item
	query := `SELECT * FROM items WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, tenantID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	uomQuery := `SELECT * FROM item_uoms WHERE tenant_id = $1 AND item_id = $2 ORDER BY uom`
	if err := r.DB.SelectContext(ctx, &item.AllowedUOMs, uomQuery, tenantID, itemID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) GetLocation(ctx context.Context, tenantID, locationID string) (*model.Location, error) {
	var loc model.Location
	query := `SELECT * FROM locations WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &loc, query, tenantID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) GetReasonCode(ctx context.Context, tenantID, reasonCodeID string) (*model.ReasonCode, error) {
	var rc model.ReasonCode
	query := `SELECT * FROM reason_codes WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &rc, query, tenantID, reasonCodeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rc, nil
}

func (r *PGRepository) GetConversion(ctx context.Context, tenantID, fromUOM, toUOM string) (*model.UOMConversion, error) {
	var conv model.UOMConversion
	query := `SELECT * FROM uom_conversions WHERE tenant_id = $1 AND from_uom = $2 AND to_uom = $3 LIMIT 1`
	err := r.DB.GetContext(ctx, &conv, query, tenantID, fromUOM, toUOM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}
