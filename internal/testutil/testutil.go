// Package testutil opens throwaway databases and seeds them for tests.
package testutil

import (
	"context"
	_ "embed"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/kcmvp/pos/order"
	"github.com/kcmvp/pos/sqlx"
	"github.com/kcmvp/pos/store"
)

//go:embed testdata/orders.json
var ordersFixture []byte

// MemoryDSN returns a sqlite DSN of a private in-memory database.
func MemoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
}

// MustOpenDB opens a migrated in-memory sqlite database closed at the end of the test.
func MustOpenDB(t *testing.T) sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlx.Open(ctx, "sqlite3", MemoryDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(ctx, db))
	return db
}

// MustInsertOrder writes an order with its lines and returns the order id. The grand total is
// derived from the lines.
func MustInsertOrder(t *testing.T, db sqlx.DB, h order.Header, items ...order.LineItem) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	err := store.New(db).InTx(ctx, func(tx order.TxStorage) error {
		var err error
		id, err = tx.InsertOrder(ctx, order.Order{
			Header:       h,
			GrandTotal:   order.Total(items),
			LastModified: h.OpenDateTime,
		})
		if err != nil {
			return err
		}
		w := tx.Lines(id)
		for _, item := range items {
			if _, err := w.InsertLine(ctx, item); err != nil {
				return err
			}
			if err := w.EnsureProduct(ctx, item.Name); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

// MustSeed loads testdata/orders.json and returns the ids of the inserted orders in file order.
func MustSeed(t *testing.T, db sqlx.DB) []int64 {
	t.Helper()
	require.True(t, gjson.ValidBytes(ordersFixture))
	var ids []int64
	gjson.GetBytes(ordersFixture, "orders").ForEach(func(_, o gjson.Result) bool {
		opened, err := time.Parse(time.RFC3339, o.Get("open_datetime").String())
		require.NoError(t, err)
		h := order.Header{
			OpenDateTime:    opened,
			Status:          order.Status(o.Get("state").Int()),
			CustomerName:    o.Get("customer_name").String(),
			CustomerContact: o.Get("customer_contact").String(),
			CustomerAddress: o.Get("customer_address").String(),
		}
		var items []order.LineItem
		o.Get("lines").ForEach(func(_, l gjson.Result) bool {
			items = append(items, order.LineItem{
				Name:      l.Get("name").String(),
				Quantity:  int(l.Get("quantity").Int()),
				UnitCost:  decimal.RequireFromString(l.Get("cost").String()),
				UnitPrice: decimal.RequireFromString(l.Get("price").String()),
			})
			return true
		})
		ids = append(ids, MustInsertOrder(t, db, h, items...))
		return true
	})
	return ids
}
