package sqlx

import (
	"fmt"
	"strings"

	"github.com/kcmvp/pos/entity"
	"github.com/samber/lo"
)

// Where is a composable condition over the columns of entity E.
type Where[E entity.Entity] interface {
	Build() (string, []any)
}

type whereFunc[E entity.Entity] func() (string, []any)

func (f whereFunc[E]) Build() (string, []any) { return f() }

func join[E entity.Entity](sep string, wheres ...Where[E]) Where[E] {
	f := func() (string, []any) {
		clauses := make([]string, 0, len(wheres))
		var allArgs []any
		for _, w := range wheres {
			if w == nil {
				continue
			}
			clause, args := w.Build()
			if clause == "" {
				continue
			}
			clauses = append(clauses, clause)
			allArgs = append(allArgs, args...)
		}
		if len(clauses) == 0 {
			return "", nil
		}
		return fmt.Sprintf("(%s)", strings.Join(clauses, sep)), allArgs
	}
	return whereFunc[E](f)
}

// And joins the non-empty conditions with AND. Nil conditions are skipped.
func And[E entity.Entity](wheres ...Where[E]) Where[E] {
	return join(" AND ", wheres...)
}

// makePlaceholders returns a comma-separated list of '?' placeholders.
func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Join(lo.RepeatBy(n, func(_ int) string { return "?" }), ", ")
}

func op[E entity.Entity](col entity.Column[E], operator string, value any) Where[E] {
	return whereFunc[E](func() (string, []any) {
		return fmt.Sprintf("%s %s ?", col.QualifiedName(), operator), []any{value}
	})
}

// Eq matches col equal to value.
func Eq[E entity.Entity](col entity.Column[E], value any) Where[E] { return op(col, "=", value) }

// Assignment is one column/value pair of an INSERT or UPDATE.
type Assignment[E entity.Entity] struct {
	Column entity.Column[E]
	Value  any
}

// Set pairs a column with the value to write.
func Set[E entity.Entity](col entity.Column[E], value any) Assignment[E] {
	return Assignment[E]{Column: col, Value: value}
}

// OrderBy is one ascending ORDER BY term.
type OrderBy[E entity.Entity] struct {
	Column entity.Column[E]
}

// Asc orders by col ascending.
func Asc[E entity.Entity](col entity.Column[E]) OrderBy[E] { return OrderBy[E]{Column: col} }

// SelectSQL builds "SELECT cols FROM table [WHERE ...] [ORDER BY ...]".
func SelectSQL[E entity.Entity](cols []entity.Column[E], where Where[E], orderBy ...OrderBy[E]) (string, []any, error) {
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("select requires at least one column")
	}
	var ent E
	names := lo.Map(cols, func(c entity.Column[E], _ int) string { return c.QualifiedName() })
	sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), ent.Table())
	var args []any
	if where != nil {
		if clause, wargs := where.Build(); clause != "" {
			sql += " WHERE " + clause
			args = wargs
		}
	}
	if len(orderBy) > 0 {
		terms := lo.Map(orderBy, func(o OrderBy[E], _ int) string {
			return o.Column.QualifiedName() + " ASC"
		})
		sql += " ORDER BY " + strings.Join(terms, ", ")
	}
	return sql, args, nil
}

// InsertSQL builds "INSERT INTO table (cols) VALUES (?...)" from the assignments in order.
func InsertSQL[E entity.Entity](values ...Assignment[E]) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("no fields to insert")
	}
	var ent E
	cols := lo.Map(values, func(a Assignment[E], _ int) string { return a.Column.Name() })
	args := lo.Map(values, func(a Assignment[E], _ int) any { return a.Value })
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ent.Table(), strings.Join(cols, ", "), makePlaceholders(len(values)))
	return sql, args, nil
}

// UpdateSQL builds "UPDATE table SET col = ?... WHERE ...". A condition is mandatory so that a
// missing filter never rewrites the whole table.
func UpdateSQL[E entity.Entity](where Where[E], values ...Assignment[E]) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}
	if where == nil {
		return "", nil, fmt.Errorf("where is required")
	}
	clause, whereArgs := where.Build()
	if clause == "" {
		return "", nil, fmt.Errorf("where is required")
	}
	var ent E
	sets := lo.Map(values, func(a Assignment[E], _ int) string { return a.Column.Name() + " = ?" })
	args := lo.Map(values, func(a Assignment[E], _ int) any { return a.Value })
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", ent.Table(), strings.Join(sets, ", "), clause)
	return sql, append(args, whereArgs...), nil
}

// DeleteSQL builds "DELETE FROM table WHERE ...". A condition is mandatory.
func DeleteSQL[E entity.Entity](where Where[E]) (string, []any, error) {
	if where == nil {
		return "", nil, fmt.Errorf("where is required")
	}
	clause, args := where.Build()
	if clause == "" {
		return "", nil, fmt.Errorf("where is required")
	}
	var ent E
	return fmt.Sprintf("DELETE FROM %s WHERE %s", ent.Table(), clause), args, nil
}
