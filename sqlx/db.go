package sqlx

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kcmvp/pos/app"
	"github.com/spf13/viper"
)

// Execer is the statement surface shared by DB and Tx. Queries are written with '?'
// placeholders and rebound to the dialect of the underlying driver.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Dialect() Dialect
}

// DB is the minimal database contract used by this module.
// It mirrors the methods we use from *sql.DB and can be backed by *sql.DB or a thin wrapper.
type DB interface {
	Execer
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Tx is a database transaction.
type Tx interface {
	Execer
	Commit() error
	Rollback() error
}

// stdDB adapts *sql.DB to the DB interface.
type stdDB struct {
	*sql.DB
	dialect Dialect
}

func (d stdDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, d.dialect.Rebind(query), args...)
}

func (d stdDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, d.dialect.Rebind(query), args...)
}

func (d stdDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.DB.QueryRowContext(ctx, d.dialect.Rebind(query), args...)
}

func (d stdDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return stdTx{Tx: tx, dialect: d.dialect}, nil
}

func (d stdDB) Dialect() Dialect { return d.dialect }

// stdTx adapts *sql.Tx to the Tx interface.
type stdTx struct {
	*sql.Tx
	dialect Dialect
}

func (t stdTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.Tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
}

func (t stdTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.Tx.QueryContext(ctx, t.dialect.Rebind(query), args...)
}

func (t stdTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.Tx.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
}

func (t stdTx) Dialect() Dialect { return t.dialect }

// loggingExecer logs every statement with its duration, error and arguments.
// It is intentionally minimal and does not attempt to pretty-print SQL.
type loggingExecer struct {
	inner  Execer
	logger *log.Logger
}

func (d loggingExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.inner.ExecContext(ctx, query, args...)
	d.logger.Printf("sqlx exec dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return res, err
}

func (d loggingExecer) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.inner.QueryContext(ctx, query, args...)
	d.logger.Printf("sqlx query dur=%s err=%v sql=%q args=%v", time.Since(start), err, query, args)
	return rows, err
}

func (d loggingExecer) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := d.inner.QueryRowContext(ctx, query, args...)
	d.logger.Printf("sqlx query_row dur=%s err=%v sql=%q args=%v", time.Since(start), row.Err(), query, args)
	return row
}

func (d loggingExecer) Dialect() Dialect { return d.inner.Dialect() }

type loggingDB struct {
	loggingExecer
	db DB
}

func (d loggingDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	d.logger.Printf("sqlx begin err=%v", err)
	if err != nil {
		return nil, err
	}
	return loggingTx{loggingExecer: loggingExecer{inner: tx, logger: d.logger}, tx: tx}, nil
}

func (d loggingDB) PingContext(ctx context.Context) error {
	start := time.Now()
	err := d.db.PingContext(ctx)
	d.logger.Printf("sqlx ping dur=%s err=%v", time.Since(start), err)
	return err
}

func (d loggingDB) Close() error {
	err := d.db.Close()
	d.logger.Printf("sqlx close err=%v", err)
	return err
}

type loggingTx struct {
	loggingExecer
	tx Tx
}

func (t loggingTx) Commit() error {
	err := t.tx.Commit()
	t.logger.Printf("sqlx commit err=%v", err)
	return err
}

func (t loggingTx) Rollback() error {
	err := t.tx.Rollback()
	t.logger.Printf("sqlx rollback err=%v", err)
	return err
}

// WithSQLLogger wraps db with a SQL logger if logger is not nil.
func WithSQLLogger(db DB, logger *log.Logger) DB {
	if logger == nil {
		return db
	}
	return loggingDB{loggingExecer: loggingExecer{inner: db, logger: logger}, db: db}
}

var (
	// dsRegistry holds named datasources.
	dsRegistry = map[string]DB{}
	dsMu       sync.RWMutex

	initOnce sync.Once
	initErr  error

	// sqlLogger, when set, enables SQL logging for all registered datasources.
	sqlLogger *log.Logger
)

// SetSQLLogger enables SQL logging for all datasources registered after this call.
// Call this early (e.g., in main) before any GetDS call.
func SetSQLLogger(l *log.Logger) {
	sqlLogger = l
}

const (
	UserKey     = "${user}"
	PasswordKey = "${password}"
	HostKey     = "${host}"
	defaultDs   = "default"
)

type dataSource struct {
	Driver   string   `mapstructure:"driver" yaml:"driver"`
	User     string   `mapstructure:"user" yaml:"user"`
	Password string   `mapstructure:"password" yaml:"password"`
	Host     string   `mapstructure:"host" yaml:"host"`
	URL      string   `mapstructure:"url" yaml:"url"`
	Scripts  []string `mapstructure:"scripts" yaml:"scripts"`
}

// DSNChecked returns the final connection string for sql.Open and validates placeholder usage.
//
// If ds.URL contains placeholders (${user}, ${password}, ${host}), the corresponding field must be
// non-empty, otherwise an error is returned.
func (ds dataSource) DSNChecked() (string, error) {
	if strings.TrimSpace(ds.URL) == "" {
		return "", fmt.Errorf("dsn requires url")
	}
	if strings.Contains(ds.URL, UserKey) && ds.User == "" {
		return "", fmt.Errorf("dsn requires user")
	}
	if strings.Contains(ds.URL, PasswordKey) && ds.Password == "" {
		return "", fmt.Errorf("dsn requires password")
	}
	if strings.Contains(ds.URL, HostKey) && ds.Host == "" {
		return "", fmt.Errorf("dsn requires host")
	}
	return ds.DSN(), nil
}

// DSN substitutes ${user}, ${password} and ${host} in ds.URL.
func (ds dataSource) DSN() string {
	dsn := strings.ReplaceAll(ds.URL, UserKey, ds.User)
	dsn = strings.ReplaceAll(dsn, PasswordKey, ds.Password)
	return strings.ReplaceAll(dsn, HostKey, ds.Host)
}

// Open opens and pings a database through database/sql. The driver must have been registered by
// a blank import of its package.
func Open(ctx context.Context, driver, dsn string) (DB, error) {
	raw, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := raw.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	var db DB = stdDB{DB: raw, dialect: DialectOf(driver)}
	if sqlLogger != nil {
		db = WithSQLLogger(db, sqlLogger)
	}
	return db, nil
}

// Register makes db available under name. An empty name registers the default datasource.
func Register(name string, db DB) {
	if name == "" {
		name = defaultDs
	}
	dsMu.Lock()
	defer dsMu.Unlock()
	dsRegistry[name] = db
}

// registerDataSource opens a database connection from cfg, runs its scripts and registers it
// under the provided name.
func registerDataSource(name string, cfg dataSource) error {
	if cfg.Driver == "" {
		return fmt.Errorf("driver is required to register datasource %q", name)
	}
	dsn, err := cfg.DSNChecked()
	if err != nil {
		return fmt.Errorf("invalid dsn for datasource %q: %w", name, err)
	}
	ctx := context.Background()
	db, err := Open(ctx, cfg.Driver, dsn)
	if err != nil {
		return fmt.Errorf("datasource %q: %w", name, err)
	}
	for _, script := range cfg.Scripts {
		b, err := os.ReadFile(script)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("read script %s: %w", script, err)
		}
		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			_ = db.Close()
			return fmt.Errorf("exec script %s: %w", script, err)
		}
	}
	Register(name, db)
	return nil
}

func initDataSources() error {
	initOnce.Do(func() {
		res := app.Config()
		if res.IsError() {
			initErr = res.Error()
			return
		}
		cfg := res.MustGet()

		raw := cfg.GetStringMap("datasource")
		for name, val := range raw {
			child := viper.New()
			m, ok := val.(map[string]any)
			if !ok {
				initErr = fmt.Errorf("datasource %s: expected a mapping", name)
				return
			}
			if err := child.MergeConfigMap(m); err != nil {
				initErr = fmt.Errorf("merge datasource %s: %w", name, err)
				return
			}
			var ds dataSource
			if err := child.Unmarshal(&ds); err != nil {
				initErr = fmt.Errorf("unmarshal datasource %s: %w", name, err)
				return
			}
			if err := registerDataSource(name, ds); err != nil {
				initErr = fmt.Errorf("register datasource %s: %w", name, err)
				return
			}
		}
	})
	return initErr
}

// GetDS returns a registered datasource by name, initialising the configured datasources on
// first use.
func GetDS(name string) (DB, error) {
	if err := initDataSources(); err != nil {
		return nil, err
	}
	if name == "" {
		name = defaultDs
	}
	dsMu.RLock()
	defer dsMu.RUnlock()
	db, ok := dsRegistry[name]
	if !ok {
		return nil, fmt.Errorf("datasource %q is not configured", name)
	}
	return db, nil
}

// CloseAllDataSources closes and removes all registered datasources from the registry.
// It returns the first error encountered while closing any datasource, or nil on success.
func CloseAllDataSources() error {
	dsMu.Lock()
	defer dsMu.Unlock()
	var firstErr error
	for name, db := range dsRegistry {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(dsRegistry, name)
	}
	return firstErr
}
