package sqlx

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour of a datasource. All statements in this module are written
// with '?' placeholders; the dialect rewrites them when the driver expects something else.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// DialectOf maps a database/sql driver name to its dialect.
func DialectOf(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return Postgres
	case "mysql":
		return MySQL
	default:
		return SQLite
	}
}

// Rebind converts '?' placeholders into the dialect's bind variables. Question marks inside
// single-quoted literals are left untouched.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			sb.WriteRune(r)
		case r == '?' && !quoted:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// InsertIgnore returns an insert statement that silently skips rows violating a unique key.
func (d Dialect) InsertIgnore(table string, cols ...string) string {
	ph := makePlaceholders(len(cols))
	list := strings.Join(cols, ", ")
	switch d {
	case Postgres:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING", table, list, ph)
	case MySQL:
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", table, list, ph)
	default:
		return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", table, list, ph)
	}
}

// ReturningID reports whether generated keys must be read with a RETURNING clause because the
// driver does not implement sql.Result.LastInsertId.
func (d Dialect) ReturningID() bool {
	return d == Postgres
}
