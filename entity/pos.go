package entity

// Order is the sales order header table.
type Order struct{}

func (Order) Table() string { return "orders" }

// OrderDetail is the order line table, foreign-keyed to orders by parent_id.
type OrderDetail struct{}

func (OrderDetail) Table() string { return "order_details" }

// Product is the distinct product name catalog.
type Product struct{}

func (Product) Table() string { return "products" }

var (
	OrderID              = Col[Order]("id")
	OrderOpenDateTime    = Col[Order]("open_datetime")
	OrderState           = Col[Order]("state")
	OrderCustomerName    = Col[Order]("customer_name")
	OrderCustomerContact = Col[Order]("customer_contact")
	OrderCustomerAddress = Col[Order]("customer_address")
	OrderGrandTotal      = Col[Order]("grand_total")
	OrderLastModified    = Col[Order]("lastmod_datetime")
)

var (
	DetailID       = Col[OrderDetail]("id")
	DetailParentID = Col[OrderDetail]("parent_id")
	DetailName     = Col[OrderDetail]("name")
	DetailQuantity = Col[OrderDetail]("quantity")
	DetailCost     = Col[OrderDetail]("cost")
	DetailPrice    = Col[OrderDetail]("price")
	DetailProfit   = Col[OrderDetail]("profit")
)

var ProductName = Col[Product]("name")

// OrderSummaryColumns are the columns projected into the order list, in display order.
func OrderSummaryColumns() []Column[Order] {
	return []Column[Order]{
		OrderID, OrderState, OrderOpenDateTime, OrderGrandTotal,
		OrderCustomerName, OrderCustomerContact, OrderCustomerAddress,
	}
}

// OrderColumns are all columns of the orders table.
func OrderColumns() []Column[Order] {
	return append(OrderSummaryColumns(), OrderLastModified)
}
