package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"active", Active},
		{"Completed", Completed},
		{" CANCELLED ", Cancelled},
		{"1", Completed},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseStatus("closed")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseStatus("9")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("all")
	require.NoError(t, err)
	assert.True(t, f.IsAbsent())

	f, err = ParseStatusFilter("")
	require.NoError(t, err)
	assert.True(t, f.IsAbsent())

	f, err = ParseStatusFilter("completed")
	require.NoError(t, err)
	assert.Equal(t, Completed, f.MustGet())

	_, err = ParseStatusFilter("x")
	assert.Error(t, err)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Active", Active.String())
	assert.Equal(t, "Status(5)", Status(5).String())
	assert.False(t, Status(-1).Valid())
}
