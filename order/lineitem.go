package order

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewOrderID is the id of an order that has not been saved yet.
const NewOrderID int64 = 0

// LineItem is one product entry of an order.
type LineItem struct {
	// Key identifies the item for the lifetime of an editing session, whatever its row.
	Key uuid.UUID `json:"key"`
	// ID is the persisted id, 0 until the item is first committed.
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal is quantity * unit price.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Profit is quantity * (unit price - unit cost), stored alongside the line on save.
func (i LineItem) Profit() decimal.Decimal {
	return i.UnitPrice.Sub(i.UnitCost).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Persisted reports whether the item already has a row in storage.
func (i LineItem) Persisted() bool {
	return i.ID != 0
}

// Field is an editable column of a line item.
type Field int

const (
	FieldName Field = iota
	FieldQuantity
	FieldCost
	FieldPrice
)

var fieldNames = []string{"name", "quantity", "cost", "price"}

func (f Field) String() string {
	if f.valid() {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

func (f Field) valid() bool {
	return f >= FieldName && f <= FieldPrice
}

// ParseField maps a column name to its Field.
func ParseField(s string) (Field, error) {
	for i, name := range fieldNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidField, s)
}
