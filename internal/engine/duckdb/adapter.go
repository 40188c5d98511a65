// Package duckdb provides the DuckDB engine adapter for TableGraph.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tablegraph/tablegraph/internal/engine"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements engine.Engine for DuckDB.
type Adapter struct {
	engine.Base
}

func init() {
	engine.Register("duckdb", func(logger *slog.Logger) engine.Engine {
		return New(logger)
	})
}

// New creates a new DuckDB adapter.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{Base: engine.Base{Logger: logger}}
}

// Connect opens the DuckDB database at cfg.Path, or an in-memory database
// when the path is empty.
func (a *Adapter) Connect(ctx context.Context, cfg engine.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Register makes the dataset at locator queryable under name. CSV and
// Parquet locators are exposed as views with schema inference; an empty
// locator asserts the table already exists.
func (a *Adapter) Register(ctx context.Context, name, locator string) error {
	if a.DB == nil {
		return fmt.Errorf("database connection not established")
	}

	if locator == "" {
		// Table must already exist in the attached database.
		if _, err := a.FieldList(ctx, name); err != nil {
			return fmt.Errorf("failed to register table %q: %w", name, err)
		}
		return nil
	}

	abs, err := filepath.Abs(locator)
	if err != nil {
		return fmt.Errorf("failed to resolve locator path: %w", err)
	}

	var reader string
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".csv":
		reader = fmt.Sprintf("read_csv_auto('%s', header=true)", escapeLiteral(abs))
	case ".parquet":
		reader = fmt.Sprintf("read_parquet('%s')", escapeLiteral(abs))
	default:
		return fmt.Errorf("unsupported locator %q: expected a .csv or .parquet file", locator)
	}

	stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM %s",
		engine.QualifyTable(name), reader)
	a.Logger.Debug("registering dataset", "table", name, "locator", abs)

	if _, err := a.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to register %q from %q: %w", name, locator, err)
	}
	return nil
}

// FieldList returns the column metadata for a table.
func (a *Adapter) FieldList(ctx context.Context, table string) ([]engine.Field, error) {
	return a.FieldListCommon(ctx, table, a.Placeholder)
}

// Placeholder returns DuckDB's positional placeholder.
func (a *Adapter) Placeholder(_ int) string {
	return "?"
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

var _ engine.Engine = (*Adapter)(nil)
