// Package storage opens the relational store and creates the sitebuilder
// schema.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"

	DefaultSQLiteDSN = "file:sitebuilder.db?cache=shared&_fk=1"
)

var (
	ErrProviderUnsupported = errors.New("storage: provider must be sqlite or postgres")
	ErrDSNRequired         = errors.New("storage: dsn is required for postgres")
)

// Config selects the database provider and connection string.
type Config struct {
	Provider string
	DSN      string
	// Debug logs every query at debug level.
	Debug bool
}

// Normalize fills defaults and lowercases the provider name.
func (c Config) Normalize() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.DSN = strings.TrimSpace(c.DSN)
	switch c.Provider {
	case "", "sqlite3":
		c.Provider = ProviderSQLite
	case "postgresql", "pg", "pgx":
		c.Provider = ProviderPostgres
	}
	if c.Provider == ProviderSQLite && c.DSN == "" {
		c.DSN = DefaultSQLiteDSN
	}
	return c
}

// Validate reports configuration errors after normalisation.
func (c Config) Validate() error {
	c = c.Normalize()
	switch c.Provider {
	case ProviderSQLite:
		return nil
	case ProviderPostgres:
		if c.DSN == "" {
			return ErrDSNRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrProviderUnsupported, c.Provider)
	}
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg Config, logger interfaces.Logger) (*bun.DB, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()

	var db *bun.DB
	switch cfg.Provider {
	case ProviderSQLite:
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		if isMemoryDSN(cfg.DSN) {
			sqlDB.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case ProviderPostgres:
		sqlDB, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", cfg.Provider, err)
	}
	if cfg.Debug {
		db.AddQueryHook(&queryLogger{logger: logger})
	}
	logger.Info("storage.opened", "provider", cfg.Provider)
	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

type queryLogger struct {
	logger interfaces.Logger
}

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	args := []any{
		"operation", event.Operation(),
		"query", event.Query,
		"duration", time.Since(event.StartTime),
	}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.logger.Warn("storage.query.failed", append(args, "error", event.Err)...)
		return
	}
	h.logger.Debug("storage.query", args...)
}
