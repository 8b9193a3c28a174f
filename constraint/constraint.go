package constraint

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Number interface {
	uint | uint8 | uint16 | uint32 | uint64 | int | int8 | int16 | int32 | int64 | float32 | float64
}

// Ordered is the set of types the comparison validators accept.
type Ordered interface {
	Number | time.Time | decimal.Decimal
}

// FieldType is the set of Go types a validator can be bound to.
type FieldType interface {
	Ordered | string | bool
}

type Validator[T FieldType] func(v T) error

// ValidateFunc returns the validator name together with the validator itself.
type ValidateFunc[T FieldType] func() (string, Validator[T])

var (
	ErrRequired = errors.New("is required")

	ErrLengthMax = errors.New("length must be at most")
	ErrNotOneOf  = errors.New("value must be one of")
	ErrMustGte   = errors.New("must be greater than or equal to")
)

// Validate runs every validator against value and returns the first failure, prefixed with the
// field name.
func Validate[T FieldType](field string, value T, fns ...ValidateFunc[T]) error {
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		_, v := fn()
		if err := v(value); err != nil {
			return fmt.Errorf("%s %w", field, err)
		}
	}
	return nil
}

// --- String Validators ---

// Required rejects strings that are empty once surrounding whitespace is removed.
func Required() ValidateFunc[string] {
	return func() (string, Validator[string]) {
		return "required", func(str string) error {
			return lo.Ternary(strings.TrimSpace(str) == "", ErrRequired, nil)
		}
	}
}

// MaxLength validates that a string's length is at most the specified maximum.
func MaxLength(max int) ValidateFunc[string] {
	return func() (string, Validator[string]) {
		return "max_length", func(str string) error {
			return lo.Ternary(len([]rune(str)) > max, fmt.Errorf("%w %d", ErrLengthMax, max), nil)
		}
	}
}

// OneOf validates that a value is one of the allowed values.
func OneOf[T Number | string | bool](allowed ...T) ValidateFunc[T] {
	return func() (string, Validator[T]) {
		return "one_of", func(val T) error {
			return lo.Ternary(!lo.Contains(allowed, val), fmt.Errorf("%w:%v", ErrNotOneOf, allowed), nil)
		}
	}
}

// --- Comparison Validators ---

// Gte validates that a value is greater than or equal to min.
func Gte[T Ordered](min T) ValidateFunc[T] {
	return func() (string, Validator[T]) {
		return "gte", func(val T) error {
			return lo.Ternary(compare(val, min) < 0, fmt.Errorf("%w %v", ErrMustGte, min), nil)
		}
	}
}

// compare orders two values of the same Ordered type.
func compare[T Ordered](a, b T) int {
	switch x := any(a).(type) {
	case time.Time:
		return x.Compare(any(b).(time.Time))
	case decimal.Decimal:
		return x.Cmp(any(b).(decimal.Decimal))
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(va.Uint(), vb.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(va.Float(), vb.Float())
	default:
		panic(fmt.Sprintf("constraint: unsupported type %T", a))
	}
}
