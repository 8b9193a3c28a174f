package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture(t *testing.T) (*memStorage, *ListCache, *ListFilter) {
	t.Helper()
	m := newMemStorage()
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := []struct {
		name, contact, address string
		status                 Status
		total                  int64
	}{
		{"Ani", "0811", "Jl. Merdeka 1", Active, 30000},
		{"budi", "0812", "Jl. Sudirman 5", Completed, 10000},
		{"Citra", "0813", "Bandung", Active, 20000},
		{"Dewi", "0814", "Jl. Merdeka 9", Cancelled, 10000},
		{"Eko", "0815", "Surabaya", Completed, 50000},
	}
	for i, r := range rows {
		m.addOrder(Order{
			Header: Header{
				OpenDateTime: day.AddDate(0, 0, -i), Status: r.status,
				CustomerName: r.name, CustomerContact: r.contact, CustomerAddress: r.address,
			},
			GrandTotal: decimal.NewFromInt(r.total),
		})
	}
	cache := NewListCache(m)
	require.NoError(t, cache.RefreshAll(context.Background(), NoFilter()))
	return m, cache, NewListFilter(cache)
}

func visibleIDs(f *ListFilter) []int64 {
	var ids []int64
	for _, r := range f.Rows() {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestListFilter_Defaults(t *testing.T) {
	_, _, f := filterFixture(t)
	col, desc := f.Sort()
	assert.Equal(t, ColumnID, col)
	assert.False(t, desc)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, visibleIDs(f))
	assert.Equal(t, "showing 5 records", f.Info())
}

func TestListFilter_NoMatch(t *testing.T) {
	_, cache, f := filterFixture(t)
	f.SetQuery("abc")
	assert.Equal(t, 0, f.Count())
	assert.Equal(t, 5, f.Total())
	assert.Equal(t, 5, cache.Len())
	assert.Equal(t, "showing 0 filtered from total 5 records", f.Info())
}

func TestListFilter_Query(t *testing.T) {
	_, _, f := filterFixture(t)
	tests := []struct {
		query string
		ids   []int64
	}{
		{"merdeka", []int64{1, 4}},
		{"BUDI", []int64{2}},
		{"completed", []int64{2, 5}},
		{"0813", []int64{3}},
		{"10000", []int64{2, 4}},
		{"28/02", []int64{3}},
		{"jl*5", []int64{2}},
		{"   ", []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f.SetQuery(tt.query)
			assert.Equal(t, tt.ids, visibleIDs(f))
		})
	}
	f.SetQuery("")
	assert.Empty(t, f.Query())
	assert.Equal(t, 5, f.Count())
}

func TestListFilter_QueryBackslash(t *testing.T) {
	m := newMemStorage()
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m.addOrder(Order{Header: Header{OpenDateTime: day, CustomerName: "Ani", CustomerAddress: `Blok A\2`}})
	m.addOrder(Order{Header: Header{OpenDateTime: day, CustomerName: "Budi", CustomerAddress: "Blok B"}})
	cache := NewListCache(m)
	require.NoError(t, cache.RefreshAll(context.Background(), NoFilter()))
	f := NewListFilter(cache)

	for _, q := range []string{`A\`, `a\2`, `\`, `bl?k a\`} {
		f.SetQuery(q)
		assert.Equal(t, []int64{1}, visibleIDs(f), q)
		assert.Equal(t, "showing 1 filtered from total 2 records", f.Info(), q)
	}
	f.SetQuery(`B\`)
	assert.Empty(t, visibleIDs(f))
}

func TestListFilter_Sort(t *testing.T) {
	_, _, f := filterFixture(t)

	f.SetSort(ColumnGrandTotal, false)
	assert.Equal(t, []int64{2, 4, 3, 1, 5}, visibleIDs(f), "stable for equal totals")

	f.SetSort(ColumnGrandTotal, true)
	assert.Equal(t, []int64{5, 1, 3, 2, 4}, visibleIDs(f))

	f.SetSort(ColumnCustomerName, false)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, visibleIDs(f), "case-insensitive")

	f.SetSort(ColumnOpenDate, false)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, visibleIDs(f))

	f.SetSort(ColumnStatus, false)
	assert.Equal(t, []int64{1, 3, 2, 5, 4}, visibleIDs(f))

	f.SetSort(ColumnID, true)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, visibleIDs(f))
}

func TestListFilter_FollowsCache(t *testing.T) {
	m, cache, f := filterFixture(t)
	ctx := context.Background()
	f.SetQuery("merdeka")
	require.Equal(t, 2, f.Count())

	o := m.orders[3]
	o.CustomerAddress = "Jl. Merdeka 3"
	m.orders[3] = o
	require.NoError(t, cache.Refresh(ctx, 3))
	assert.Equal(t, []int64{1, 3, 4}, visibleIDs(f))

	delete(m.orders, 1)
	require.NoError(t, cache.Refresh(ctx, 1))
	assert.Equal(t, []int64{3, 4}, visibleIDs(f))
	assert.Equal(t, "showing 2 filtered from total 4 records", f.Info())

	require.NoError(t, cache.RefreshAll(ctx, FilterBy(Cancelled)))
	assert.Equal(t, []int64{4}, visibleIDs(f))
	assert.Equal(t, "showing 1 records", f.Info())
}

func TestListFilter_Empty(t *testing.T) {
	f := NewListFilter(NewListCache(newMemStorage()))
	assert.Equal(t, "no records to display", f.Info())
}

func TestSummary_Text(t *testing.T) {
	s := Summary{
		ID: 12, Status: Cancelled, OpenDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		GrandTotal: decimal.RequireFromString("15000.50"), CustomerName: "Ani",
	}
	assert.Equal(t, "12", s.Text(ColumnID))
	assert.Equal(t, "Cancelled", s.Text(ColumnStatus))
	assert.Equal(t, "05/01/2024", s.Text(ColumnOpenDate))
	assert.Equal(t, "15000.5", s.Text(ColumnGrandTotal))
	assert.Equal(t, "Ani", s.Text(ColumnCustomerName))
	assert.Empty(t, s.Text(Column(99)))
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn("grand_total")
	assert.True(t, ok)
	assert.Equal(t, ColumnGrandTotal, c)
	_, ok = ParseColumn("profit")
	assert.False(t, ok)
}
