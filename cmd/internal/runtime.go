package internal

import (
	"context"
	"fmt"
	"log"
	"os"

	// drivers selectable through datasource.<name>.driver
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kcmvp/pos/app"
	"github.com/kcmvp/pos/order"
	"github.com/kcmvp/pos/sqlx"
	"github.com/kcmvp/pos/store"
)

type runtimeKey struct{}

// Runtime holds what every pos command needs: settings and the order store.
type Runtime struct {
	Settings app.Settings
	DB       sqlx.DB
	Store    *store.Store
	Logger   *log.Logger
}

// Load reads the configuration and opens the configured datasource.
func Load() (*Runtime, error) {
	res := app.Config()
	if res.IsError() {
		return nil, res.Error()
	}
	settings := app.LoadSettings(res.MustGet())
	logger := log.New(os.Stderr, "pos ", log.LstdFlags)
	if settings.SQLLog {
		sqlx.SetSQLLogger(logger)
	}
	db, err := sqlx.GetDS(settings.Datasource)
	if err != nil {
		return nil, fmt.Errorf("datasource %q: %w", settings.Datasource, err)
	}
	return &Runtime{Settings: settings, DB: db, Store: store.New(db), Logger: logger}, nil
}

// DefaultFilter is the status filter configured by pos.default_status.
func (r *Runtime) DefaultFilter() (order.StatusFilter, error) {
	return order.ParseStatusFilter(r.Settings.DefaultStatus)
}

// Close releases every datasource.
func (r *Runtime) Close() error {
	return sqlx.CloseAllDataSources()
}

// WithRuntime stores r in ctx.
func WithRuntime(ctx context.Context, r *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, r)
}

// FromContext returns the Runtime stored by WithRuntime.
func FromContext(ctx context.Context) (*Runtime, error) {
	if ctx == nil {
		return nil, fmt.Errorf("runtime not initialized")
	}
	r, ok := ctx.Value(runtimeKey{}).(*Runtime)
	if !ok {
		return nil, fmt.Errorf("runtime not initialized")
	}
	return r, nil
}
