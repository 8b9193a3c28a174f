package order

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how dates are shown in the order list.
const DateLayout = "02/01/2006"

// Summary is one row of the order list.
type Summary struct {
	ID              int64           `json:"id"`
	Status          Status          `json:"status"`
	OpenDate        time.Time       `json:"open_date"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	CustomerName    string          `json:"customer_name"`
	CustomerContact string          `json:"customer_contact"`
	CustomerAddress string          `json:"customer_address"`
}

// Column is a visible column of the order list.
type Column int

const (
	ColumnID Column = iota
	ColumnStatus
	ColumnOpenDate
	ColumnGrandTotal
	ColumnCustomerName
	ColumnCustomerContact
	ColumnCustomerAddress
)

var columnNames = []string{"id", "status", "open_date", "grand_total", "customer_name", "customer_contact", "customer_address"}

// Columns lists the visible columns in display order.
func Columns() []Column {
	return []Column{ColumnID, ColumnStatus, ColumnOpenDate, ColumnGrandTotal, ColumnCustomerName, ColumnCustomerContact, ColumnCustomerAddress}
}

func (c Column) String() string {
	if c >= ColumnID && c <= ColumnCustomerAddress {
		return columnNames[c]
	}
	return "column(" + strconv.Itoa(int(c)) + ")"
}

// ParseColumn maps a column name to its Column.
func ParseColumn(s string) (Column, bool) {
	for i, name := range columnNames {
		if name == s {
			return Column(i), true
		}
	}
	return ColumnID, false
}

// Text is the display text of column c.
func (s Summary) Text(c Column) string {
	switch c {
	case ColumnID:
		return strconv.FormatInt(s.ID, 10)
	case ColumnStatus:
		return s.Status.String()
	case ColumnOpenDate:
		return s.OpenDate.Format(DateLayout)
	case ColumnGrandTotal:
		return s.GrandTotal.String()
	case ColumnCustomerName:
		return s.CustomerName
	case ColumnCustomerContact:
		return s.CustomerContact
	case ColumnCustomerAddress:
		return s.CustomerAddress
	}
	return ""
}
