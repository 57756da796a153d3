package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jackc/pgx"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

const uniqueViolationCode = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	query := `
        INSERT INTO inventory_items (
            id, product_id, variant_id, warehouse_id, batch_number,
            quantity_on_hand, quantity_reserved, quantity_available, quantity_committed,
            minimum_stock, maximum_stock, average_cost, is_active,
            created_at, updated_at
        )
        VALUES (
            :id, :product_id, :variant_id, :warehouse_id, :batch_number,
            :quantity_on_hand, :quantity_reserved, :quantity_available, :quantity_committed,
            :minimum_stock, :maximum_stock, :average_cost, :is_active,
            :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	var pgErr pgx.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return inventory.ErrDuplicateItem
	}
	return err
}

func (r *PGRepository) FindItemByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	query := `SELECT * FROM inventory_items WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindItemByKey(ctx context.Context, productID string, variantID *string, warehouseID string, batch *string) (*model.InventoryItem, error) {
	query := `SELECT * FROM inventory_items WHERE product_id = $1 AND warehouse_id = $2`
	args := []interface{}{productID, warehouseID}

	if variantID != nil && *variantID != "" {
		args = append(args, *variantID)
		query += fmt.Sprintf(` AND variant_id = $%d`, len(args))
	} else {
		query += ` AND variant_id IS NULL`
	}
	if batch != nil && *batch != "" {
		args = append(args, *batch)
		query += fmt.Sprintf(` AND batch_number = $%d`, len(args))
	} else {
		query += ` AND batch_number IS NULL`
	}

	var item model.InventoryItem
	err := r.DB.GetContext(ctx, &item, query+` LIMIT 1`, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindAllItems(ctx context.Context, f *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	var items []model.InventoryItem
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.LowStock {
		conditions = append(conditions, "quantity_available <= minimum_stock AND minimum_stock > 0")
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_items" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_items" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := f.Offset()
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = $1", id)
	return err
}

func (r *PGRepository) FindProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindVariant(ctx context.Context, id string) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.DB.GetContext(ctx, &v, `SELECT * FROM product_variants WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) WarehouseExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM warehouses WHERE id = $1`, id)
	return count > 0, err
}

// AppendMovement inserts the ledger row, then writes the item's new
// quantities guarded on quantity_before. If another append won the race the
// guard matches zero rows and the whole transaction rolls back, so a ledger
// row can never exist without its item update.
func (r *PGRepository) AppendMovement(ctx context.Context, m *model.StockMovement, item *model.InventoryItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertQuery := `
        INSERT INTO stock_movements (
            id, inventory_item_id, type,
            quantity_before, quantity_change, quantity_after,
            unit_cost, total_cost,
            source_warehouse_id, dest_warehouse_id, transfer_id,
            performed_by, reason, created_at
        )
        VALUES (
            :id, :inventory_item_id, :type,
            :quantity_before, :quantity_change, :quantity_after,
            :unit_cost, :total_cost,
            :source_warehouse_id, :dest_warehouse_id, :transfer_id,
            :performed_by, :reason, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertQuery, m); err != nil {
		return pkgerrors.Wrap(err, "insert stock movement")
	}

	updateQuery := `
        UPDATE inventory_items
        SET quantity_on_hand = $1,
            quantity_available = $2,
            average_cost = $3,
            updated_at = $4
        WHERE id = $5 AND quantity_on_hand = $6
    `
	res, err := tx.ExecContext(ctx, updateQuery,
		item.QuantityOnHand, item.QuantityAvailable, item.AverageCost, item.UpdatedAt,
		item.ID, m.QuantityBefore,
	)
	if err != nil {
		return pkgerrors.Wrap(err, "update inventory item")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return inventory.ErrStaleItem
	}

	return tx.Commit()
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var movements []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ItemID != "" {
		conditions = append(conditions, "inventory_item_id = :item_id")
		args["item_id"] = f.ItemID
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = string(f.Type)
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, `(
            source_warehouse_id = :warehouse_id
            OR dest_warehouse_id = :warehouse_id
            OR inventory_item_id IN (SELECT id FROM inventory_items WHERE warehouse_id = :warehouse_id)
        )`)
		args["warehouse_id"] = f.WarehouseID
	}
	if f.PerformedBy != "" {
		conditions = append(conditions, "performed_by = :performed_by")
		args["performed_by"] = f.PerformedBy
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := f.Offset()
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &movements, args)
	return movements, count, err
}
