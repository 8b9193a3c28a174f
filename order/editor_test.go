package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kcmvp/pos/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
	return at
}

func TestEditor_NewOrder(t *testing.T) {
	at := fixedClock(t)
	m := newMemStorage()
	m.products["Soap"] = struct{}{}

	e, err := NewEditor(context.Background(), m, NewOrderID)
	require.NoError(t, err)
	assert.Equal(t, "New", e.Title())
	assert.Equal(t, Active, e.Header().Status)
	assert.Equal(t, at, e.Header().OpenDateTime)
	assert.Equal(t, []string{"Soap"}, e.Lines().Products())
}

func TestEditor_OpenMissing(t *testing.T) {
	_, err := NewEditor(context.Background(), newMemStorage(), 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestEditor_SaveNewOrder(t *testing.T) {
	at := fixedClock(t)
	ctx := context.Background()
	m := newMemStorage()
	e, err := NewEditor(ctx, m, NewOrderID)
	require.NoError(t, err)

	var events []Event
	e.Subscribe(func(_ context.Context, ev Event) { events = append(events, ev) })

	lines := e.Lines()
	mustSet(t, lines, 0, FieldName, "Soap")
	mustSet(t, lines, 0, FieldQuantity, "2")
	mustSet(t, lines, 0, FieldCost, "4000")
	mustSet(t, lines, 0, FieldPrice, "5000")

	require.ErrorIs(t, e.Save(ctx), ErrCustomerRequired)
	assert.Empty(t, m.orders)

	require.NoError(t, e.SetHeader(Header{CustomerName: "  Ani ", CustomerContact: "0811", Status: Active}))
	require.NoError(t, e.Save(ctx))

	assert.Equal(t, int64(1), e.ID())
	assert.Equal(t, "#1", e.Title())
	saved := m.orders[1]
	assert.Equal(t, "Ani", saved.CustomerName)
	assert.Equal(t, at, saved.OpenDateTime)
	assert.Equal(t, at, saved.LastModified)
	assert.True(t, dec("10000").Equal(saved.GrandTotal))

	stored, err := m.ListLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Soap", stored[0].Name)
	assert.Equal(t, []string{"Soap"}, lines.Products())
	assert.Equal(t, int64(1), lines.OrderID())

	require.Len(t, events, 2)
	assert.Equal(t, EventAdded, events[0].Kind)
	assert.Equal(t, EventSaved, events[1].Kind)
	assert.Equal(t, int64(1), events[1].ID)
}

func TestEditor_SaveExisting(t *testing.T) {
	ctx := context.Background()
	m := newMemStorage()
	id := m.addOrder(Order{Header: Header{CustomerName: "Budi", Status: Active}},
		LineItem{Name: "Soap", Quantity: 1, UnitPrice: dec("5000")},
		LineItem{Name: "Tea", Quantity: 1, UnitPrice: dec("2500")},
	)
	e, err := NewEditor(ctx, m, id)
	require.NoError(t, err)
	assert.Equal(t, "Budi", e.Header().CustomerName)
	require.Equal(t, 2, e.Lines().ItemCount())

	var kinds []EventKind
	e.Subscribe(func(_ context.Context, ev Event) { kinds = append(kinds, ev.Kind) })

	_, err = e.Lines().RemoveItem(0)
	require.NoError(t, err)
	mustSet(t, e.Lines(), 0, FieldQuantity, "4")
	h := e.Header()
	h.Status = Completed
	require.NoError(t, e.SetHeader(h))
	require.NoError(t, e.Save(ctx))

	assert.Equal(t, []EventKind{EventSaved}, kinds)
	assert.Equal(t, Completed, m.orders[id].Status)
	assert.True(t, dec("10000").Equal(m.orders[id].GrandTotal))
	stored, _ := m.ListLines(ctx, id)
	require.Len(t, stored, 1)
	assert.Equal(t, 4, stored[0].Quantity)
}

func TestEditor_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	m := newMemStorage()
	e, err := NewEditor(ctx, m, NewOrderID)
	require.NoError(t, err)
	require.NoError(t, e.SetHeader(Header{CustomerName: "Ani"}))
	mustSet(t, e.Lines(), 0, FieldName, "Soap")

	m.failInsertLine = true
	require.ErrorIs(t, e.Save(ctx), errStorage)
	assert.Equal(t, NewOrderID, e.ID())
	assert.Empty(t, m.orders)
	assert.True(t, e.Lines().Dirty())

	m.failInsertLine = false
	require.NoError(t, e.Save(ctx))
	assert.Equal(t, int64(1), e.ID())
}

func TestEditor_SetHeaderValidation(t *testing.T) {
	e, err := NewEditor(context.Background(), newMemStorage(), NewOrderID)
	require.NoError(t, err)

	err = e.SetHeader(Header{CustomerName: strings.Repeat("x", MaxCustomerFieldLength+1)})
	require.ErrorIs(t, err, constraint.ErrLengthMax)
	assert.ErrorContains(t, err, "customer_name")

	err = e.SetHeader(Header{CustomerName: "Ani", Status: Status(7)})
	require.ErrorIs(t, err, constraint.ErrNotOneOf)
	assert.Empty(t, e.Header().CustomerName)

	require.NoError(t, e.SetHeader(Header{CustomerName: strings.Repeat("é", MaxCustomerFieldLength)}))
}

func TestEditor_Remove(t *testing.T) {
	ctx := context.Background()
	m := newMemStorage()
	id := m.addOrder(Order{Header: Header{CustomerName: "Budi"}}, LineItem{Name: "Soap"})
	e, err := NewEditor(ctx, m, id)
	require.NoError(t, err)
	var events []Event
	e.Subscribe(func(_ context.Context, ev Event) { events = append(events, ev) })

	require.NoError(t, e.Remove(ctx))
	assert.Empty(t, m.orders)
	assert.Empty(t, m.lines)
	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: EventRemoved, ID: id, Editor: e}, events[0])
}
