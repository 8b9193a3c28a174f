package order

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrInvalidNumber     = errors.New("invalid number")
	ErrInvalidRow        = errors.New("invalid row")
	ErrInvalidField      = errors.New("invalid field")
	ErrPlaceholderRow    = errors.New("placeholder row")
	ErrUnknownItem       = errors.New("unknown line item")
	ErrNeedsConfirmation = errors.New("price is below cost")
	ErrCustomerRequired  = errors.New("customer name is required")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrOrderNotFound     = errors.New("order not found")
)

// ConfirmationError carries an edit that was held back because it sells below cost. Pass it to
// LineStore.Confirm to apply it anyway.
type ConfirmationError struct {
	Key   uuid.UUID
	Name  string
	Cost  decimal.Decimal
	Price decimal.Decimal
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("%s: %s price %s is below cost %s", ErrNeedsConfirmation, e.Name, e.Price, e.Cost)
}

func (e *ConfirmationError) Is(target error) bool {
	return target == ErrNeedsConfirmation
}
