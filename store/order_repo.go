package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kcmvp/pos/entity"
	"github.com/kcmvp/pos/order"
	"github.com/kcmvp/pos/sqlx"
	"github.com/samber/mo"
)

// OrderRepo reads and writes the orders table.
type OrderRepo struct {
	ex sqlx.Execer
}

func NewOrderRepo(ex sqlx.Execer) *OrderRepo {
	return &OrderRepo{ex: ex}
}

func statusWhere(filter order.StatusFilter) sqlx.Where[entity.Order] {
	st, ok := filter.Get()
	if !ok {
		return nil
	}
	return sqlx.Eq(entity.OrderState, int(st))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (order.Summary, error) {
	var s order.Summary
	var state int
	err := row.Scan(&s.ID, &state, &s.OpenDate, &s.GrandTotal, &s.CustomerName, &s.CustomerContact, &s.CustomerAddress)
	s.Status = order.Status(state)
	return s, err
}

// Summaries lists the orders matching filter ordered by id.
func (r *OrderRepo) Summaries(ctx context.Context, filter order.StatusFilter) ([]order.Summary, error) {
	q, args, err := sqlx.SelectSQL(entity.OrderSummaryColumns(), statusWhere(filter), sqlx.Asc(entity.OrderID))
	if err != nil {
		return nil, err
	}
	rows, err := r.ex.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []order.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Summary reads order id if it matches filter.
func (r *OrderRepo) Summary(ctx context.Context, id int64, filter order.StatusFilter) (mo.Option[order.Summary], error) {
	q, args, err := sqlx.SelectSQL(entity.OrderSummaryColumns(),
		sqlx.And[entity.Order](sqlx.Eq(entity.OrderID, id), statusWhere(filter)))
	if err != nil {
		return mo.None[order.Summary](), err
	}
	s, err := scanSummary(r.ex.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return mo.None[order.Summary](), nil
	}
	if err != nil {
		return mo.None[order.Summary](), fmt.Errorf("query order %d: %w", id, err)
	}
	return mo.Some(s), nil
}

// Get reads the header of order id.
func (r *OrderRepo) Get(ctx context.Context, id int64) (mo.Option[order.Order], error) {
	q, args, err := sqlx.SelectSQL(entity.OrderColumns(), sqlx.Eq(entity.OrderID, id))
	if err != nil {
		return mo.None[order.Order](), err
	}
	var o order.Order
	var state int
	err = r.ex.QueryRowContext(ctx, q, args...).Scan(
		&o.ID, &state, &o.OpenDateTime, &o.GrandTotal,
		&o.CustomerName, &o.CustomerContact, &o.CustomerAddress, &o.LastModified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return mo.None[order.Order](), nil
	}
	if err != nil {
		return mo.None[order.Order](), fmt.Errorf("query order %d: %w", id, err)
	}
	o.Status = order.Status(state)
	return mo.Some(o), nil
}

func assignments(o order.Order) []sqlx.Assignment[entity.Order] {
	return []sqlx.Assignment[entity.Order]{
		sqlx.Set(entity.OrderOpenDateTime, o.OpenDateTime),
		sqlx.Set(entity.OrderState, int(o.Status)),
		sqlx.Set(entity.OrderCustomerName, o.CustomerName),
		sqlx.Set(entity.OrderCustomerContact, o.CustomerContact),
		sqlx.Set(entity.OrderCustomerAddress, o.CustomerAddress),
		sqlx.Set(entity.OrderGrandTotal, o.GrandTotal),
		sqlx.Set(entity.OrderLastModified, o.LastModified),
	}
}

// Insert writes a new order header and returns its id.
func (r *OrderRepo) Insert(ctx context.Context, o order.Order) (int64, error) {
	q, args, err := sqlx.InsertSQL(assignments(o)...)
	if err != nil {
		return 0, err
	}
	id, err := sqlx.InsertID(ctx, r.ex, q, args...)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// Update rewrites the header of o.ID. It fails with order.ErrOrderNotFound when the order is gone.
func (r *OrderRepo) Update(ctx context.Context, o order.Order) error {
	q, args, err := sqlx.UpdateSQL(sqlx.Eq(entity.OrderID, o.ID), assignments(o)...)
	if err != nil {
		return err
	}
	res, err := r.ex.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// mysql reports 0 for rows written with identical values
		found, err := r.Get(ctx, o.ID)
		if err != nil {
			return err
		}
		if found.IsAbsent() {
			return fmt.Errorf("%w: %d", order.ErrOrderNotFound, o.ID)
		}
	}
	return nil
}

// Delete removes order id and its lines.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	q, args, err := sqlx.DeleteSQL[entity.OrderDetail](sqlx.Eq(entity.DetailParentID, id))
	if err != nil {
		return err
	}
	if _, err := r.ex.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete lines of order %d: %w", id, err)
	}
	q, args, err = sqlx.DeleteSQL[entity.Order](sqlx.Eq(entity.OrderID, id))
	if err != nil {
		return err
	}
	if _, err := r.ex.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return nil
}
