package order

import "github.com/shopspring/decimal"

// Total sums the subtotals of items. It is zero for no items.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalProfit sums the profit of items.
func TotalProfit(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Profit())
	}
	return total
}
