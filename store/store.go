// Package store persists orders, their lines and the product catalog through a sqlx datasource.
package store

import (
	"context"

	"github.com/kcmvp/pos/order"
	"github.com/kcmvp/pos/sqlx"
	"github.com/samber/mo"
)

// Store adapts the repositories to order.Storage.
type Store struct {
	db     sqlx.DB
	orders *OrderRepo
	lines  *LineRepo
}

var _ order.Storage = (*Store)(nil)

func New(db sqlx.DB) *Store {
	return &Store{db: db, orders: NewOrderRepo(db), lines: NewLineRepo(db)}
}

// DB is the underlying datasource.
func (s *Store) DB() sqlx.DB { return s.db }

func (s *Store) ListLines(ctx context.Context, orderID int64) ([]order.LineItem, error) {
	return s.lines.ListByOrder(ctx, orderID)
}

func (s *Store) Summaries(ctx context.Context, filter order.StatusFilter) ([]order.Summary, error) {
	return s.orders.Summaries(ctx, filter)
}

func (s *Store) Summary(ctx context.Context, id int64, filter order.StatusFilter) (mo.Option[order.Summary], error) {
	return s.orders.Summary(ctx, id, filter)
}

func (s *Store) GetOrder(ctx context.Context, id int64) (mo.Option[order.Order], error) {
	return s.orders.Get(ctx, id)
}

func (s *Store) Products() order.Catalog { return NewCatalog(s.db) }

// InTx runs fn in one transaction, committed only if fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(tx order.TxStorage) error) error {
	return sqlx.WithTx(ctx, s.db, func(tx sqlx.Tx) error {
		return fn(txStore{orders: NewOrderRepo(tx), lines: NewLineRepo(tx), catalog: NewCatalog(tx)})
	})
}

type txStore struct {
	orders  *OrderRepo
	lines   *LineRepo
	catalog *Catalog
}

func (t txStore) InsertOrder(ctx context.Context, o order.Order) (int64, error) {
	return t.orders.Insert(ctx, o)
}

func (t txStore) UpdateOrder(ctx context.Context, o order.Order) error {
	return t.orders.Update(ctx, o)
}

func (t txStore) DeleteOrder(ctx context.Context, id int64) error {
	return t.orders.Delete(ctx, id)
}

func (t txStore) Lines(orderID int64) order.LineWriter {
	return lineWriter{orderID: orderID, lines: t.lines, catalog: t.catalog}
}

type lineWriter struct {
	orderID int64
	lines   *LineRepo
	catalog *Catalog
}

func (w lineWriter) InsertLine(ctx context.Context, item order.LineItem) (int64, error) {
	return w.lines.Insert(ctx, w.orderID, item)
}

func (w lineWriter) UpdateLine(ctx context.Context, item order.LineItem) error {
	return w.lines.Update(ctx, item)
}

func (w lineWriter) DeleteLine(ctx context.Context, id int64) error {
	return w.lines.Delete(ctx, id)
}

func (w lineWriter) EnsureProduct(ctx context.Context, name string) error {
	return w.catalog.Ensure(ctx, name)
}
