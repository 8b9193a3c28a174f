package store

import (
	"context"
	"fmt"

	"github.com/kcmvp/pos/entity"
	"github.com/kcmvp/pos/order"
	"github.com/kcmvp/pos/sqlx"
)

// LineRepo reads and writes the order_details table.
type LineRepo struct {
	ex sqlx.Execer
}

func NewLineRepo(ex sqlx.Execer) *LineRepo {
	return &LineRepo{ex: ex}
}

// ListByOrder returns the lines of orderID ordered by id.
func (r *LineRepo) ListByOrder(ctx context.Context, orderID int64) ([]order.LineItem, error) {
	cols := []entity.Column[entity.OrderDetail]{
		entity.DetailID, entity.DetailName, entity.DetailQuantity, entity.DetailCost, entity.DetailPrice,
	}
	q, args, err := sqlx.SelectSQL(cols, sqlx.Eq(entity.DetailParentID, orderID), sqlx.Asc(entity.DetailID))
	if err != nil {
		return nil, err
	}
	rows, err := r.ex.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query lines of order %d: %w", orderID, err)
	}
	defer rows.Close()

	var out []order.LineItem
	for rows.Next() {
		var item order.LineItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.UnitCost, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func lineAssignments(item order.LineItem) []sqlx.Assignment[entity.OrderDetail] {
	return []sqlx.Assignment[entity.OrderDetail]{
		sqlx.Set(entity.DetailName, item.Name),
		sqlx.Set(entity.DetailQuantity, item.Quantity),
		sqlx.Set(entity.DetailCost, item.UnitCost),
		sqlx.Set(entity.DetailPrice, item.UnitPrice),
		sqlx.Set(entity.DetailProfit, item.Profit()),
	}
}

// Insert writes a new line of orderID and returns its id.
func (r *LineRepo) Insert(ctx context.Context, orderID int64, item order.LineItem) (int64, error) {
	values := append([]sqlx.Assignment[entity.OrderDetail]{sqlx.Set(entity.DetailParentID, orderID)}, lineAssignments(item)...)
	q, args, err := sqlx.InsertSQL(values...)
	if err != nil {
		return 0, err
	}
	id, err := sqlx.InsertID(ctx, r.ex, q, args...)
	if err != nil {
		return 0, fmt.Errorf("insert line: %w", err)
	}
	return id, nil
}

// Update rewrites line item.ID, including its profit.
func (r *LineRepo) Update(ctx context.Context, item order.LineItem) error {
	q, args, err := sqlx.UpdateSQL(sqlx.Eq(entity.DetailID, item.ID), lineAssignments(item)...)
	if err != nil {
		return err
	}
	if _, err := r.ex.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update line %d: %w", item.ID, err)
	}
	return nil
}

// Delete removes line id.
func (r *LineRepo) Delete(ctx context.Context, id int64) error {
	q, args, err := sqlx.DeleteSQL[entity.OrderDetail](sqlx.Eq(entity.DetailID, id))
	if err != nil {
		return err
	}
	if _, err := r.ex.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete line %d: %w", id, err)
	}
	return nil
}
