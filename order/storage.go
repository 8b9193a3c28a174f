package order

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// Header holds the editable fields of an order.
type Header struct {
	OpenDateTime    time.Time `json:"open_datetime"`
	Status          Status    `json:"status"`
	CustomerName    string    `json:"customer_name"`
	CustomerContact string    `json:"customer_contact"`
	CustomerAddress string    `json:"customer_address"`
}

// Order is a persisted order header.
type Order struct {
	ID int64 `json:"id"`
	Header
	GrandTotal   decimal.Decimal `json:"grand_total"`
	LastModified time.Time       `json:"lastmod_datetime"`
}

// LineReader loads the persisted lines of an order ordered by id.
type LineReader interface {
	ListLines(ctx context.Context, orderID int64) ([]LineItem, error)
}

// Catalog is the distinct list of product names used for autocompletion.
type Catalog interface {
	// Ensure adds name to the catalog unless it already exists.
	Ensure(ctx context.Context, name string) error
	// Names lists all product names sorted.
	Names(ctx context.Context) ([]string, error)
}

// LineWriter persists the lines of one order inside the caller's transaction.
type LineWriter interface {
	InsertLine(ctx context.Context, item LineItem) (int64, error)
	UpdateLine(ctx context.Context, item LineItem) error
	DeleteLine(ctx context.Context, id int64) error
	EnsureProduct(ctx context.Context, name string) error
}

// OrderReader queries order summaries for the list.
type OrderReader interface {
	Summaries(ctx context.Context, filter StatusFilter) ([]Summary, error)
	Summary(ctx context.Context, id int64, filter StatusFilter) (mo.Option[Summary], error)
}

// TxStorage is the storage surface available inside one transaction.
type TxStorage interface {
	InsertOrder(ctx context.Context, o Order) (int64, error)
	UpdateOrder(ctx context.Context, o Order) error
	DeleteOrder(ctx context.Context, id int64) error
	Lines(orderID int64) LineWriter
}

// Storage is everything an editing session and the order list need from the store.
type Storage interface {
	LineReader
	OrderReader
	GetOrder(ctx context.Context, id int64) (mo.Option[Order], error)
	Products() Catalog
	InTx(ctx context.Context, fn func(tx TxStorage) error) error
}
