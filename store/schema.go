package store

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/kcmvp/pos/sqlx"
	"github.com/samber/lo"
)

//go:embed schema/*.sql
var schemas embed.FS

// Schema returns the DDL statements creating the pos tables for dialect d.
func Schema(d sqlx.Dialect) ([]string, error) {
	b, err := schemas.ReadFile(fmt.Sprintf("schema/%s.sql", d))
	if err != nil {
		return nil, fmt.Errorf("no schema for dialect %s: %w", d, err)
	}
	stmts := lo.FilterMap(strings.Split(string(b), ";"), func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
	return stmts, nil
}

// Migrate creates the pos tables when they do not exist yet.
func Migrate(ctx context.Context, db sqlx.DB) error {
	stmts, err := Schema(db.Dialect())
	if err != nil {
		return err
	}
	return sqlx.WithTx(ctx, db, func(tx sqlx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
