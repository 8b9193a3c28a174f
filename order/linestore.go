package order

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kcmvp/pos/constraint"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ChangeKind tells observers how much of the line table changed.
type ChangeKind int

const (
	CellChanged ChangeKind = iota
	RowInserted
	RowRemoved
	Reset
)

// LineChange describes one mutation of a LineStore. Total is the grand total after the change.
type LineChange struct {
	Kind  ChangeKind
	Row   int
	Key   uuid.UUID
	Field Field
	Total decimal.Decimal
}

// LineStore is the editable list of line items of one order. Row ItemCount() is a trailing
// placeholder: entering a name there appends a new item.
//
// A LineStore is owned by one editing session and is not safe for concurrent use.
type LineStore struct {
	orderID   int64
	reader    LineReader
	catalog   Catalog
	items     []LineItem
	pending   map[int64]struct{}
	changed   map[uuid.UUID]struct{}
	total     decimal.Decimal
	products  []string
	observers []func(LineChange)
}

// NewLineStore returns an empty store for a new order. reader hydrates existing orders on Load
// and catalog feeds Products; either may be nil when not needed.
func NewLineStore(reader LineReader, catalog Catalog) *LineStore {
	return &LineStore{
		orderID: NewOrderID,
		reader:  reader,
		catalog: catalog,
		pending: map[int64]struct{}{},
		changed: map[uuid.UUID]struct{}{},
		total:   decimal.Zero,
	}
}

// Load replaces the content of the store with the lines of orderID. NewOrderID yields an empty
// store. An order without lines is not an error. On failure the store is left unchanged.
func (s *LineStore) Load(ctx context.Context, orderID int64) error {
	var items []LineItem
	if orderID != NewOrderID {
		if s.reader == nil {
			return fmt.Errorf("load lines of order %d: no reader", orderID)
		}
		loaded, err := s.reader.ListLines(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load lines of order %d: %w", orderID, err)
		}
		items = lo.Map(loaded, func(item LineItem, _ int) LineItem {
			item.Key = uuid.New()
			return item
		})
	}
	s.orderID = orderID
	s.items = items
	clear(s.pending)
	clear(s.changed)
	s.recompute()
	s.notify(LineChange{Kind: Reset, Row: -1})
	return nil
}

// OrderID is the order the lines belong to.
func (s *LineStore) OrderID() int64 { return s.orderID }

// ItemCount is the number of real items.
func (s *LineStore) ItemCount() int { return len(s.items) }

// RowCount includes the placeholder row.
func (s *LineStore) RowCount() int { return len(s.items) + 1 }

// Items returns a copy of the items in display order.
func (s *LineStore) Items() []LineItem { return slices.Clone(s.items) }

// Item returns the item at row. The placeholder row has no item.
func (s *LineStore) Item(row int) (LineItem, bool) {
	if row < 0 || row >= len(s.items) {
		return LineItem{}, false
	}
	return s.items[row], true
}

// IndexOf returns the current row of the item identified by key, or -1.
func (s *LineStore) IndexOf(key uuid.UUID) int {
	return slices.IndexFunc(s.items, func(item LineItem) bool { return item.Key == key })
}

// Total is the grand total of the current items.
func (s *LineStore) Total() decimal.Decimal { return s.total }

// PendingDeletes lists the persisted ids removed since the last commit, ascending.
func (s *LineStore) PendingDeletes() []int64 {
	ids := lo.Keys(s.pending)
	slices.Sort(ids)
	return ids
}

// Dirty reports whether anything needs to be committed.
func (s *LineStore) Dirty() bool {
	return len(s.changed) > 0 || len(s.pending) > 0
}

// Subscribe registers fn to be called after every change.
func (s *LineStore) Subscribe(fn func(LineChange)) {
	s.observers = append(s.observers, fn)
}

// SetField applies a text edit to field of row. It reports whether the value was accepted.
// An unchanged value is accepted without notification. A price below the current cost is not
// applied: the returned error wraps ErrNeedsConfirmation and is a *ConfirmationError to be
// passed to Confirm.
func (s *LineStore) SetField(row int, field Field, value string) (bool, error) {
	if row < 0 || row > len(s.items) {
		return false, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	if !field.valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidField, int(field))
	}
	if row == len(s.items) {
		if field != FieldName {
			return false, fmt.Errorf("%w: enter a product name first", ErrPlaceholderRow)
		}
		name := strings.TrimSpace(value)
		if name == "" {
			return false, ErrEmptyName
		}
		item := LineItem{Key: uuid.New(), Name: name, UnitCost: decimal.Zero, UnitPrice: decimal.Zero}
		s.items = append(s.items, item)
		s.changed[item.Key] = struct{}{}
		s.recompute()
		s.notify(LineChange{Kind: RowInserted, Row: row, Key: item.Key, Field: FieldName})
		return true, nil
	}

	item := &s.items[row]
	switch field {
	case FieldName:
		name := strings.TrimSpace(value)
		if name == "" {
			return false, ErrEmptyName
		}
		if name == item.Name {
			return true, nil
		}
		item.Name = name
	case FieldQuantity:
		qty, err := parseQuantity(value)
		if err != nil {
			return false, err
		}
		if qty == item.Quantity {
			return true, nil
		}
		item.Quantity = qty
	case FieldCost:
		cost, err := parseAmount(value)
		if err != nil {
			return false, err
		}
		if cost.Equal(item.UnitCost) {
			return true, nil
		}
		item.UnitCost = cost
	case FieldPrice:
		price, err := parseAmount(value)
		if err != nil {
			return false, err
		}
		if price.Equal(item.UnitPrice) {
			return true, nil
		}
		if price.LessThan(item.UnitCost) {
			return false, &ConfirmationError{Key: item.Key, Name: item.Name, Cost: item.UnitCost, Price: price}
		}
		item.UnitPrice = price
	}
	s.changed[item.Key] = struct{}{}
	s.recompute()
	s.notify(LineChange{Kind: CellChanged, Row: row, Key: item.Key, Field: field})
	return true, nil
}

// SetFieldByKey is SetField addressed by item identity.
func (s *LineStore) SetFieldByKey(key uuid.UUID, field Field, value string) (bool, error) {
	row := s.IndexOf(key)
	if row < 0 {
		return false, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return s.SetField(row, field, value)
}

// Confirm applies a price held back by SetField.
func (s *LineStore) Confirm(pending *ConfirmationError) (bool, error) {
	if pending == nil {
		return false, fmt.Errorf("%w: nothing to confirm", ErrUnknownItem)
	}
	row := s.IndexOf(pending.Key)
	if row < 0 {
		return false, fmt.Errorf("%w: %s", ErrUnknownItem, pending.Key)
	}
	item := &s.items[row]
	if pending.Price.Equal(item.UnitPrice) {
		return true, nil
	}
	item.UnitPrice = pending.Price
	s.changed[item.Key] = struct{}{}
	s.recompute()
	s.notify(LineChange{Kind: CellChanged, Row: row, Key: item.Key, Field: FieldPrice})
	return true, nil
}

// RemoveItem removes the item at row. A persisted item is remembered for deletion on the next
// commit. The placeholder row can not be removed.
func (s *LineStore) RemoveItem(row int) (bool, error) {
	if row == len(s.items) {
		return false, ErrPlaceholderRow
	}
	if row < 0 || row > len(s.items) {
		return false, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	item := s.items[row]
	s.items = slices.Delete(s.items, row, row+1)
	if item.Persisted() {
		s.pending[item.ID] = struct{}{}
	}
	delete(s.changed, item.Key)
	s.recompute()
	s.notify(LineChange{Kind: RowRemoved, Row: row, Key: item.Key})
	return true, nil
}

// RemoveByKey is RemoveItem addressed by item identity.
func (s *LineStore) RemoveByKey(key uuid.UUID) (bool, error) {
	row := s.IndexOf(key)
	if row < 0 {
		return false, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return s.RemoveItem(row)
}

// Commit writes the pending deletions, then inserts new items and updates persisted ones, then
// ensures every item name is in the product catalog. It runs inside the caller's transaction and
// never opens one. Ids generated by inserts are only assigned once every write succeeded; on
// failure the in-memory state is otherwise left as is.
func (s *LineStore) Commit(ctx context.Context, w LineWriter) error {
	for _, id := range s.PendingDeletes() {
		if err := w.DeleteLine(ctx, id); err != nil {
			return fmt.Errorf("delete line %d: %w", id, err)
		}
	}
	inserted := map[uuid.UUID]int64{}
	for _, item := range s.items {
		if item.Persisted() {
			if err := w.UpdateLine(ctx, item); err != nil {
				return fmt.Errorf("update line %d: %w", item.ID, err)
			}
			continue
		}
		id, err := w.InsertLine(ctx, item)
		if err != nil {
			return fmt.Errorf("insert line %q: %w", item.Name, err)
		}
		inserted[item.Key] = id
	}
	names := lo.Uniq(lo.Map(s.items, func(item LineItem, _ int) string { return item.Name }))
	for _, name := range names {
		if err := w.EnsureProduct(ctx, name); err != nil {
			return fmt.Errorf("ensure product %q: %w", name, err)
		}
	}
	for i := range s.items {
		if id, ok := inserted[s.items[i].Key]; ok {
			s.items[i].ID = id
		}
	}
	clear(s.pending)
	clear(s.changed)
	s.notify(LineChange{Kind: Reset, Row: -1})
	return nil
}

// Products returns the product names last read from the catalog.
func (s *LineStore) Products() []string { return slices.Clone(s.products) }

// RefreshProducts re-reads the product names from the catalog.
func (s *LineStore) RefreshProducts(ctx context.Context) error {
	if s.catalog == nil {
		return nil
	}
	names, err := s.catalog.Names(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	s.products = names
	return nil
}

func (s *LineStore) recompute() {
	s.total = Total(s.items)
}

func (s *LineStore) notify(change LineChange) {
	change.Total = s.total
	for _, fn := range s.observers {
		fn(change)
	}
}

func parseQuantity(value string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q", ErrInvalidNumber, value)
	}
	if err = constraint.Validate("quantity", qty, constraint.Gte(0)); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}
	return qty, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", ErrInvalidNumber, value)
	}
	if err = constraint.Validate("amount", amount, constraint.Gte(decimal.Zero)); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}
	return amount, nil
}
