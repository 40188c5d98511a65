// Package postgres provides the PostgreSQL engine adapter for TableGraph.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tablegraph/tablegraph/internal/engine"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Adapter implements engine.Engine for PostgreSQL.
type Adapter struct {
	engine.Base
}

func init() {
	engine.Register("postgres", func(logger *slog.Logger) engine.Engine {
		return New(logger)
	})
}

// New creates a new PostgreSQL adapter.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{Base: engine.Base{Logger: logger}}
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg engine.Config) error {
	dsn := buildDSN(cfg)
	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Register validates that the named table exists. PostgreSQL has no file
// locator concept, so a non-empty locator is rejected.
func (a *Adapter) Register(ctx context.Context, name, locator string) error {
	if locator != "" {
		return fmt.Errorf("postgres engine does not support storage locators (table %q)", name)
	}
	if _, err := a.FieldList(ctx, name); err != nil {
		return fmt.Errorf("failed to register table %q: %w", name, err)
	}
	return nil
}

// FieldList returns the column metadata for a table.
func (a *Adapter) FieldList(ctx context.Context, table string) ([]engine.Field, error) {
	return a.FieldListCommon(ctx, table, a.Placeholder)
}

// Placeholder returns PostgreSQL's numbered placeholder.
func (a *Adapter) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func buildDSN(cfg engine.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d sslmode=%s", host, port, sslmode)
	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if cfg.Database != "" {
		dsn += fmt.Sprintf(" dbname=%s", cfg.Database)
	}
	return dsn
}

var _ engine.Engine = (*Adapter)(nil)
