package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Status is the lifecycle state of an order, stored as an integer in orders.state.
type Status int

const (
	Active Status = iota
	Completed
	Cancelled
)

var statusLabels = map[Status]string{
	Active:    "Active",
	Completed: "Completed",
	Cancelled: "Cancelled",
}

// String returns the display label of s.
func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Statuses lists every status in storage order.
func Statuses() []Status {
	return []Status{Active, Completed, Cancelled}
}

// ParseStatus accepts a label (case-insensitive) or the stored integer.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if st := Status(n); st.Valid() {
			return st, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	st, ok := lo.Find(Statuses(), func(st Status) bool { return strings.EqualFold(st.String(), s) })
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// StatusFilter selects the orders shown in the list. None means every status.
type StatusFilter = mo.Option[Status]

// NoFilter matches orders of any status.
func NoFilter() StatusFilter { return mo.None[Status]() }

// FilterBy matches orders in status s only.
func FilterBy(s Status) StatusFilter { return mo.Some(s) }

// ParseStatusFilter maps "all" or an empty string to NoFilter, anything else through ParseStatus.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s = strings.TrimSpace(s); s == "" || strings.EqualFold(s, "all") {
		return NoFilter(), nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return NoFilter(), err
	}
	return FilterBy(st), nil
}
