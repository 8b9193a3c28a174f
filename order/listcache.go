package order

import (
	"context"
	"fmt"
	"slices"
)

// ListChangeKind tells observers how much of the order list changed.
type ListChangeKind int

const (
	ListReset ListChangeKind = iota
	ListRowInserted
	ListRowRemoved
	ListRowUpdated
)

// ListChange describes one mutation of a ListCache. Row is -1 for ListReset.
type ListChange struct {
	Kind ListChangeKind
	Row  int
	ID   int64
}

// ListCache holds the summaries of every order matching a status filter. It is filled by
// RefreshAll and kept in sync row by row with Refresh after an order is saved or removed.
//
// ListCache is not safe for concurrent use.
type ListCache struct {
	reader    OrderReader
	filter    StatusFilter
	rows      []Summary
	index     map[int64]int
	observers []func(ListChange)
}

// NewListCache returns an empty cache with no status filter.
func NewListCache(reader OrderReader) *ListCache {
	return &ListCache{reader: reader, filter: NoFilter(), index: map[int64]int{}}
}

// RefreshAll replaces the cached rows with the orders matching filter, ordered by id.
// On failure the cache keeps its previous rows and filter.
func (c *ListCache) RefreshAll(ctx context.Context, filter StatusFilter) error {
	rows, err := c.reader.Summaries(ctx, filter)
	if err != nil {
		return fmt.Errorf("refresh order list: %w", err)
	}
	c.filter = filter
	c.rows = rows
	c.reindex(0)
	c.notify(ListChange{Kind: ListReset, Row: -1})
	return nil
}

// Refresh re-reads order id under the active filter and removes, appends or replaces its row.
func (c *ListCache) Refresh(ctx context.Context, id int64) error {
	found, err := c.reader.Summary(ctx, id, c.filter)
	if err != nil {
		return fmt.Errorf("refresh order %d: %w", id, err)
	}
	row, cached := c.index[id]
	summary, ok := found.Get()
	switch {
	case !ok && cached:
		c.rows = slices.Delete(c.rows, row, row+1)
		delete(c.index, id)
		c.reindex(row)
		c.notify(ListChange{Kind: ListRowRemoved, Row: row, ID: id})
	case !ok:
	case !cached:
		c.rows = append(c.rows, summary)
		row = len(c.rows) - 1
		c.index[id] = row
		c.notify(ListChange{Kind: ListRowInserted, Row: row, ID: id})
	default:
		c.rows[row] = summary
		c.notify(ListChange{Kind: ListRowUpdated, Row: row, ID: id})
	}
	return nil
}

// Filter is the status filter of the last successful RefreshAll.
func (c *ListCache) Filter() StatusFilter { return c.filter }

// Len is the number of cached rows.
func (c *ListCache) Len() int { return len(c.rows) }

// Rows returns a copy of the cached rows.
func (c *ListCache) Rows() []Summary { return slices.Clone(c.rows) }

// Row returns the summary at row i.
func (c *ListCache) Row(i int) (Summary, bool) {
	if i < 0 || i >= len(c.rows) {
		return Summary{}, false
	}
	return c.rows[i], true
}

// IndexOf returns the row of order id, or -1.
func (c *ListCache) IndexOf(id int64) int {
	if row, ok := c.index[id]; ok {
		return row
	}
	return -1
}

// Subscribe registers fn to be called after every change.
func (c *ListCache) Subscribe(fn func(ListChange)) {
	c.observers = append(c.observers, fn)
}

func (c *ListCache) reindex(from int) {
	if from == 0 {
		c.index = make(map[int64]int, len(c.rows))
	}
	for i := from; i < len(c.rows); i++ {
		c.index[c.rows[i].ID] = i
	}
}

func (c *ListCache) notify(change ListChange) {
	for _, fn := range c.observers {
		fn(change)
	}
}
