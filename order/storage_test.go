package order

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

var errStorage = errors.New("storage down")

// memStorage is an in-memory Storage with copy-on-begin transactions.
type memStorage struct {
	orders    map[int64]Order
	lines     map[int64]storedLine
	products  map[string]struct{}
	nextOrder int64
	nextLine  int64

	failInsertLine bool
	failQueries    bool
}

type storedLine struct {
	orderID int64
	item    LineItem
}

var _ Storage = (*memStorage)(nil)

func newMemStorage() *memStorage {
	return &memStorage{
		orders:   map[int64]Order{},
		lines:    map[int64]storedLine{},
		products: map[string]struct{}{},
	}
}

func (m *memStorage) addOrder(o Order, items ...LineItem) int64 {
	m.nextOrder++
	o.ID = m.nextOrder
	m.orders[o.ID] = o
	for _, item := range items {
		m.nextLine++
		item.ID = m.nextLine
		m.lines[item.ID] = storedLine{orderID: o.ID, item: item}
	}
	return o.ID
}

func (m *memStorage) ListLines(_ context.Context, orderID int64) ([]LineItem, error) {
	if m.failQueries {
		return nil, errStorage
	}
	var items []LineItem
	for _, id := range slices.Sorted(maps.Keys(m.lines)) {
		if l := m.lines[id]; l.orderID == orderID {
			items = append(items, l.item)
		}
	}
	return items, nil
}

func (m *memStorage) summary(o Order) Summary {
	return Summary{
		ID: o.ID, Status: o.Status, OpenDate: o.OpenDateTime, GrandTotal: o.GrandTotal,
		CustomerName: o.CustomerName, CustomerContact: o.CustomerContact, CustomerAddress: o.CustomerAddress,
	}
}

func matchesFilter(o Order, filter StatusFilter) bool {
	st, ok := filter.Get()
	return !ok || o.Status == st
}

func (m *memStorage) Summaries(_ context.Context, filter StatusFilter) ([]Summary, error) {
	if m.failQueries {
		return nil, errStorage
	}
	var rows []Summary
	for _, id := range slices.Sorted(maps.Keys(m.orders)) {
		if o := m.orders[id]; matchesFilter(o, filter) {
			rows = append(rows, m.summary(o))
		}
	}
	return rows, nil
}

func (m *memStorage) Summary(_ context.Context, id int64, filter StatusFilter) (mo.Option[Summary], error) {
	if m.failQueries {
		return mo.None[Summary](), errStorage
	}
	o, ok := m.orders[id]
	if !ok || !matchesFilter(o, filter) {
		return mo.None[Summary](), nil
	}
	return mo.Some(m.summary(o)), nil
}

func (m *memStorage) GetOrder(_ context.Context, id int64) (mo.Option[Order], error) {
	if m.failQueries {
		return mo.None[Order](), errStorage
	}
	o, ok := m.orders[id]
	return lo.Ternary(ok, mo.Some(o), mo.None[Order]()), nil
}

func (m *memStorage) Products() Catalog { return memCatalog{m} }

func (m *memStorage) InTx(_ context.Context, fn func(tx TxStorage) error) error {
	orders, lines, products := maps.Clone(m.orders), maps.Clone(m.lines), maps.Clone(m.products)
	nextOrder, nextLine := m.nextOrder, m.nextLine
	if err := fn(memTx{m}); err != nil {
		m.orders, m.lines, m.products = orders, lines, products
		m.nextOrder, m.nextLine = nextOrder, nextLine
		return err
	}
	return nil
}

type memCatalog struct{ m *memStorage }

func (c memCatalog) Ensure(_ context.Context, name string) error {
	c.m.products[name] = struct{}{}
	return nil
}

func (c memCatalog) Names(_ context.Context) ([]string, error) {
	names := slices.Collect(maps.Keys(c.m.products))
	slices.SortFunc(names, func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) })
	return names, nil
}

type memTx struct{ m *memStorage }

func (t memTx) InsertOrder(_ context.Context, o Order) (int64, error) {
	t.m.nextOrder++
	o.ID = t.m.nextOrder
	t.m.orders[o.ID] = o
	return o.ID, nil
}

func (t memTx) UpdateOrder(_ context.Context, o Order) error {
	if _, ok := t.m.orders[o.ID]; !ok {
		return ErrOrderNotFound
	}
	t.m.orders[o.ID] = o
	return nil
}

func (t memTx) DeleteOrder(_ context.Context, id int64) error {
	maps.DeleteFunc(t.m.lines, func(_ int64, l storedLine) bool { return l.orderID == id })
	delete(t.m.orders, id)
	return nil
}

func (t memTx) Lines(orderID int64) LineWriter { return memLines{m: t.m, orderID: orderID} }

type memLines struct {
	m       *memStorage
	orderID int64
}

func (l memLines) InsertLine(_ context.Context, item LineItem) (int64, error) {
	if l.m.failInsertLine {
		return 0, errStorage
	}
	l.m.nextLine++
	item.ID = l.m.nextLine
	l.m.lines[item.ID] = storedLine{orderID: l.orderID, item: item}
	return item.ID, nil
}

func (l memLines) UpdateLine(_ context.Context, item LineItem) error {
	l.m.lines[item.ID] = storedLine{orderID: l.orderID, item: item}
	return nil
}

func (l memLines) DeleteLine(_ context.Context, id int64) error {
	delete(l.m.lines, id)
	return nil
}

func (l memLines) EnsureProduct(ctx context.Context, name string) error {
	return memCatalog{l.m}.Ensure(ctx, name)
}

// recordingWriter records the calls of a commit.
type recordingWriter struct {
	calls  []string
	nextID int64
	fail   string
}

func (w *recordingWriter) call(c string) error {
	w.calls = append(w.calls, c)
	if w.fail != "" && strings.HasPrefix(c, w.fail) {
		return errStorage
	}
	return nil
}

func (w *recordingWriter) InsertLine(_ context.Context, item LineItem) (int64, error) {
	if err := w.call("insert " + item.Name); err != nil {
		return 0, err
	}
	w.nextID++
	return 100 + w.nextID, nil
}

func (w *recordingWriter) UpdateLine(_ context.Context, item LineItem) error {
	return w.call("update " + item.Name)
}

func (w *recordingWriter) DeleteLine(_ context.Context, id int64) error {
	return w.call("delete " + strconv.FormatInt(id, 10))
}

func (w *recordingWriter) EnsureProduct(_ context.Context, name string) error {
	return w.call("ensure " + name)
}
