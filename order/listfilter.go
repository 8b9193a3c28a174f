package order

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/match"
)

// ListFilter is the visible projection of a ListCache: rows containing a query text in any
// column, sorted by one column. It follows the cache through its change notifications.
type ListFilter struct {
	cache   *ListCache
	query   string
	pattern string
	column  Column
	desc    bool
	rows    []Summary
}

// NewListFilter returns a filter over cache with no query, sorted by id ascending.
func NewListFilter(cache *ListCache) *ListFilter {
	f := &ListFilter{cache: cache, column: ColumnID}
	cache.Subscribe(func(ListChange) { f.apply() })
	f.apply()
	return f
}

// wildcardEscaper keeps a backslash literal; only '*' and '?' act as wildcards.
var wildcardEscaper = strings.NewReplacer(`\`, `\\`)

// SetQuery filters rows to those containing text in any column, ignoring case. Blank text
// shows every cached row.
func (f *ListFilter) SetQuery(text string) {
	f.query = strings.TrimSpace(text)
	f.pattern = ""
	if f.query != "" {
		f.pattern = "*" + wildcardEscaper.Replace(strings.ToLower(f.query)) + "*"
	}
	f.apply()
}

// Query is the active query text.
func (f *ListFilter) Query() string { return f.query }

// SetSort orders rows by column. Rows with equal keys keep their cache order.
func (f *ListFilter) SetSort(column Column, desc bool) {
	f.column = column
	f.desc = desc
	f.apply()
}

// Sort returns the active sort column and direction.
func (f *ListFilter) Sort() (Column, bool) { return f.column, f.desc }

// Rows returns the visible rows.
func (f *ListFilter) Rows() []Summary { return slices.Clone(f.rows) }

// Count is the number of visible rows.
func (f *ListFilter) Count() int { return len(f.rows) }

// Total is the number of cached rows before filtering.
func (f *ListFilter) Total() int { return f.cache.Len() }

// Info describes the visible rows for a status line.
func (f *ListFilter) Info() string {
	count, total := f.Count(), f.Total()
	switch {
	case total == 0:
		return "no records to display"
	case count == total:
		return fmt.Sprintf("showing %d records", count)
	default:
		return fmt.Sprintf("showing %d filtered from total %d records", count, total)
	}
}

func (f *ListFilter) apply() {
	rows := f.cache.Rows()
	if f.pattern != "" {
		rows = slices.DeleteFunc(rows, func(s Summary) bool { return !f.matches(s) })
	}
	slices.SortStableFunc(rows, func(a, b Summary) int {
		if f.desc {
			return compareColumn(b, a, f.column)
		}
		return compareColumn(a, b, f.column)
	})
	f.rows = rows
}

func (f *ListFilter) matches(s Summary) bool {
	for _, c := range Columns() {
		if match.Match(strings.ToLower(s.Text(c)), f.pattern) {
			return true
		}
	}
	return false
}

func compareColumn(a, b Summary, c Column) int {
	switch c {
	case ColumnStatus:
		return cmp.Compare(a.Status, b.Status)
	case ColumnOpenDate:
		return a.OpenDate.Compare(b.OpenDate)
	case ColumnGrandTotal:
		return a.GrandTotal.Cmp(b.GrandTotal)
	case ColumnCustomerName:
		return cmp.Compare(strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName))
	case ColumnCustomerContact:
		return cmp.Compare(strings.ToLower(a.CustomerContact), strings.ToLower(b.CustomerContact))
	case ColumnCustomerAddress:
		return cmp.Compare(strings.ToLower(a.CustomerAddress), strings.ToLower(b.CustomerAddress))
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}
