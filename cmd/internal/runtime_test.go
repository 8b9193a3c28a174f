package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kcmvp/pos/order"
	"github.com/kcmvp/pos/store"
)

func TestLoad(t *testing.T) {
	rt, err := Load()
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	require.Equal(t, ":18080", rt.Settings.ServerAddr)
	filter, err := rt.DefaultFilter()
	require.NoError(t, err)
	require.True(t, filter.IsAbsent())

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx, rt.DB))
	rows, err := rt.Store.Summaries(ctx, order.NoFilter())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestContext(t *testing.T) {
	_, err := FromContext(context.Background())
	require.Error(t, err)

	rt := &Runtime{}
	got, err := FromContext(WithRuntime(context.Background(), rt))
	require.NoError(t, err)
	require.Same(t, rt, got)
}
