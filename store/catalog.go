package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/kcmvp/pos/entity"
	"github.com/kcmvp/pos/order"
	"github.com/kcmvp/pos/sqlx"
)

// Catalog is the product name list backed by the products table.
type Catalog struct {
	ex sqlx.Execer
}

var _ order.Catalog = (*Catalog)(nil)

func NewCatalog(ex sqlx.Execer) *Catalog {
	return &Catalog{ex: ex}
}

// Ensure inserts name unless it is already known. Blank names are ignored.
func (c *Catalog) Ensure(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	var p entity.Product
	q := c.ex.Dialect().InsertIgnore(p.Table(), entity.ProductName.Name())
	if _, err := c.ex.ExecContext(ctx, q, name); err != nil {
		return fmt.Errorf("ensure product %q: %w", name, err)
	}
	return nil
}

// Names lists all product names sorted.
func (c *Catalog) Names(ctx context.Context) ([]string, error) {
	q, args, err := sqlx.SelectSQL([]entity.Column[entity.Product]{entity.ProductName}, nil, sqlx.Asc(entity.ProductName))
	if err != nil {
		return nil, err
	}
	rows, err := c.ex.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
