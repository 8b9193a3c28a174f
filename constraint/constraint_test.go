package constraint

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{"empty", "", true},
		{"blank", "   \t", true},
		{"value", "Soap", false},
		{"padded value", "  Soap ", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, v := Required()()
			if err := v(tt.str); (err != nil) != tt.wantErr {
				t.Errorf("Required() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaxLength(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		str     string
		wantErr bool
	}{
		{"too long", 5, "abcdef", true},
		{"exact length", 5, "abcde", false},
		{"shorter", 5, "abc", false},
		{"multibyte counted as runes", 3, "äöü", false},
		{"max is 0", 0, "a", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, v := MaxLength(tt.max)()
			if err := v(tt.str); (err != nil) != tt.wantErr {
				t.Errorf("MaxLength() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	_, v := OneOf("active", "completed", "cancelled")()
	require.NoError(t, v("active"))
	require.ErrorIs(t, v("draft"), ErrNotOneOf)
}

func TestGte(t *testing.T) {
	_, gte := Gte(0)()
	require.NoError(t, gte(0))
	require.NoError(t, gte(3))
	require.ErrorIs(t, gte(-1), ErrMustGte)

	now := time.Now()
	_, after := Gte(now)()
	require.NoError(t, after(now.Add(time.Hour)))
	require.ErrorIs(t, after(now.Add(-time.Hour)), ErrMustGte)
}

func TestDecimalComparison(t *testing.T) {
	_, v := Gte(decimal.Zero)()
	require.NoError(t, v(decimal.RequireFromString("0.00")))
	require.NoError(t, v(decimal.RequireFromString("12.5")))
	require.ErrorIs(t, v(decimal.RequireFromString("-0.01")), ErrMustGte)
}

func TestValidate(t *testing.T) {
	err := Validate("customer name", "", Required(), MaxLength(100))
	require.True(t, errors.Is(err, ErrRequired))
	require.Contains(t, err.Error(), "customer name")

	require.NoError(t, Validate("customer name", "Budi", Required(), MaxLength(100)))
	require.NoError(t, Validate[string]("contact", "", nil))
}
