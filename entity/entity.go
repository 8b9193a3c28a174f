package entity

import "fmt"

// Entity defines the contract for database-aware models.
type Entity interface {
	Table() string
}

// Column is a column of entity E. Binding the column to its entity type keeps columns of
// different tables from being mixed in one query condition at compile time.
type Column[E Entity] struct {
	name string
}

// Col declares a column of entity E.
func Col[E Entity](name string) Column[E] {
	return Column[E]{name: name}
}

// Name returns the bare column name.
func (c Column[E]) Name() string {
	return c.name
}

// QualifiedName returns "table.column".
func (c Column[E]) QualifiedName() string {
	var e E
	return fmt.Sprintf("%s.%s", e.Table(), c.name)
}
