package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/warehouse/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, w *model.Warehouse) error {
	query := `
        INSERT INTO warehouses (id, code, name, type, parent_id, merchant_id, is_active, created_at, updated_at)
        VALUES (:id, :code, :name, :type, :parent_id, :merchant_id, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, w)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Warehouse, error) {
	var w model.Warehouse
	query := `SELECT * FROM warehouses WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &w, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *PGRepository) FindByCode(ctx context.Context, code string) (*model.Warehouse, error) {
	var w model.Warehouse
	query := `SELECT * FROM warehouses WHERE code = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &w, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.WarehouseFilters) ([]model.Warehouse, int, error) {
	var warehouses []model.Warehouse
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.MerchantID != "" {
		conditions = append(conditions, "merchant_id = :merchant_id")
		args["merchant_id"] = f.MerchantID
	}
	if f.ParentID != nil {
		if *f.ParentID == "" {
			conditions = append(conditions, "parent_id IS NULL")
		} else {
			conditions = append(conditions, "parent_id = :parent_id")
			args["parent_id"] = *f.ParentID
		}
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM warehouses" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM warehouses" + whereClause + " ORDER BY code ASC"
	if f.PageSize > 0 {
		offset := f.Offset()
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &warehouses, args)
	return warehouses, count, err
}

func (r *PGRepository) FindChildren(ctx context.Context, parentID string) ([]model.Warehouse, error) {
	var children []model.Warehouse
	query := `SELECT * FROM warehouses WHERE parent_id = $1 ORDER BY code ASC`
	err := r.DB.SelectContext(ctx, &children, query, parentID)
	return children, err
}

func (r *PGRepository) Update(ctx context.Context, w *model.Warehouse) error {
	query := `
        UPDATE warehouses
        SET name = :name,
            type = :type,
            parent_id = :parent_id,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, w)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM warehouses WHERE id = $1", id)
	return err
}

func (r *PGRepository) CountItems(ctx context.Context, warehouseID string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM inventory_items WHERE warehouse_id = $1", warehouseID)
	return count, err
}
