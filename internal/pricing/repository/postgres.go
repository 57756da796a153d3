package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pricing/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, rule *model.PricingRule) error {
	query := `
        INSERT INTO pricing_rules (
            id, inventory_item_id, name, priority,
            minimum_quantity, maximum_quantity,
            adjustment_value, adjustment_type,
            minimum_stock_level, maximum_stock_level,
            valid_from, valid_to, is_active,
            created_at, updated_at
        )
        VALUES (
            :id, :inventory_item_id, :name, :priority,
            :minimum_quantity, :maximum_quantity,
            :adjustment_value, :adjustment_type,
            :minimum_stock_level, :maximum_stock_level,
            :valid_from, :valid_to, :is_active,
            :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, rule)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.PricingRule, error) {
	var rule model.PricingRule
	query := `SELECT * FROM pricing_rules WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &rule, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.RuleFilters) ([]model.PricingRule, int, error) {
	var rules []model.PricingRule
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.InventoryItemID != "" {
		conditions = append(conditions, "inventory_item_id = :inventory_item_id")
		args["inventory_item_id"] = f.InventoryItemID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM pricing_rules" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM pricing_rules" + whereClause + " ORDER BY priority DESC, created_at ASC"
	if f.PageSize > 0 {
		offset := f.Offset()
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &rules, args)
	return rules, count, err
}

func (r *PGRepository) FindByItem(ctx context.Context, itemID string) ([]model.PricingRule, error) {
	var rules []model.PricingRule
	query := `SELECT * FROM pricing_rules WHERE inventory_item_id = $1 ORDER BY priority DESC, created_at ASC`
	err := r.DB.SelectContext(ctx, &rules, query, itemID)
	return rules, err
}

func (r *PGRepository) Update(ctx context.Context, rule *model.PricingRule) error {
	query := `
        UPDATE pricing_rules
        SET name = :name,
            priority = :priority,
            minimum_quantity = :minimum_quantity,
            maximum_quantity = :maximum_quantity,
            adjustment_value = :adjustment_value,
            adjustment_type = :adjustment_type,
            minimum_stock_level = :minimum_stock_level,
            maximum_stock_level = :maximum_stock_level,
            valid_from = :valid_from,
            valid_to = :valid_to,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, rule)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM pricing_rules WHERE id = $1", id)
	return err
}

func (r *PGRepository) FindItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM inventory_items WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
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
