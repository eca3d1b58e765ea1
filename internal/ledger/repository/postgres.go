package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetBalance(ctx context.Context, tenantID, itemID, locationID string) (*model.Balance, error) {
	var bal model.Balance
	query := `SELECT * FROM inventory_balances WHERE tenant_id = $1 AND item_id = $2 AND location_id = $3 LIMIT 1`
	err := r.DB.GetContext(ctx, &bal, query, tenantID, itemID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &bal, nil
}

func (r *PGRepository) ListBalances(ctx context.Context, f *dto.BalanceFilters) ([]model.Balance, int, error) {
	var balances []model.Balance
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ItemID != "" {
		conditions = append(conditions, "item_id = :item_id")
		args["item_id"] = f.ItemID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM inventory_balances" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_balances" + whereClause + " ORDER BY item_id, location_id"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &balances, args)
	return balances, count, err
}

func (r *PGRepository) ListEvents(ctx context.Context, f *dto.EventFilters) ([]model.InventoryEvent, int, error) {
	var events []model.InventoryEvent
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ItemID != "" {
		conditions = append(conditions, "item_id = :item_id")
		args["item_id"] = f.ItemID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "(from_location_id = :location_id OR to_location_id = :location_id)")
		args["location_id"] = f.LocationID
	}
	if f.EventType != "" {
		conditions = append(conditions, "event_type = :event_type")
		args["event_type"] = f.EventType
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM inventory_events" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_events" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &events, args)
	return events, count, err
}

// ApplyEvent runs the two-phase discipline in one transaction: phase one
// reads every touched balance under FOR UPDATE and lets compute simulate the
// deltas; phase two upserts the new balances and appends the event row.
// Locks are taken in sorted location order so concurrent multi-location
// events cannot deadlock.
func (r *PGRepository) ApplyEvent(ctx context.Context, ev *model.InventoryEvent, locations []string, compute ledger.DeltaFunc) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply tx: %w", err)
	}
	defer tx.Rollback()

	sorted := append([]string(nil), locations...)
	sort.Strings(sorted)

	current := make(map[string]decimal.Decimal, len(sorted))
	for _, loc := range sorted {
		var qty decimal.Decimal
		err := tx.GetContext(ctx, &qty,
			`SELECT qty_base FROM inventory_balances
			 WHERE tenant_id = $1 AND item_id = $2 AND location_id = $3
			 FOR UPDATE`,
			ev.TenantID, ev.ItemID, loc)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				qty = decimal.Zero
			} else {
				return fmt.Errorf("read balance at %s: %w", loc, err)
			}
		}
		current[loc] = qty
	}

	deltas, err := compute(current)
	if err != nil {
		return err
	}

	for _, loc := range sorted {
		delta, ok := deltas[loc]
		if !ok {
			continue
		}
		newQty := current[loc].Add(delta)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventory_balances (tenant_id, item_id, location_id, qty_base, updated_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (tenant_id, item_id, location_id)
			 DO UPDATE SET qty_base = EXCLUDED.qty_base, updated_at = EXCLUDED.updated_at`,
			ev.TenantID, ev.ItemID, loc, newQty, ev.CreatedAt)
		if err != nil {
			return fmt.Errorf("upsert balance at %s: %w", loc, err)
		}
	}

	insertQuery := `
        INSERT INTO inventory_events (
            id, tenant_id, site_id, event_type, item_id,
            qty_entered, uom_entered, qty_base,
            from_location_id, to_location_id, reason_code_id,
            reference_id, notes, actor_id, device_id, created_at
        )
        VALUES (
            :id, :tenant_id, :site_id, :event_type, :item_id,
            :qty_entered, :uom_entered, :qty_base,
            :from_location_id, :to_location_id, :reason_code_id,
            :reference_id, :notes, :actor_id, :device_id, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertQuery, ev); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return tx.Commit()
}
