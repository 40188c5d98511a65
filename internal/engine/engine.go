// Package engine defines the tabular data engine capability interface
// consumed by the schema compiler and resolvers, plus the semantic column
// types derived from engine metadata.
package engine

import (
	"context"
	"strings"
)

// Engine is the sole storage/query boundary. Implementations live in
// subpackages and register themselves with the adapter registry.
//
// The compiled GraphQL schema holds one Engine handle, read-only after
// init, shared across all entities and requests.
type Engine interface {
	// Connect establishes the underlying connection.
	Connect(ctx context.Context, cfg Config) error

	// Register makes a dataset at locator queryable under name.
	// Engines may ignore an empty locator (the table is expected to exist).
	Register(ctx context.Context, name, locator string) error

	// FieldList returns the column metadata for a table, in ordinal order.
	FieldList(ctx context.Context, table string) ([]Field, error)

	// Query executes a read query with bound parameters and returns all rows.
	Query(ctx context.Context, query string, args ...any) (*Result, error)

	// Placeholder returns the dialect's placeholder for the nth parameter
	// (1-based), e.g. "?" or "$1".
	Placeholder(n int) string

	Close() error
}

// Config holds engine connection settings.
type Config struct {
	// File-based engines (DuckDB). Empty means in-memory.
	Path string

	// Network engines
	Host     string
	Port     int
	User     string
	Password string
	Database string

	Options map[string]string
}

// Field describes one column: name, semantic type and nullability.
// Field lists are fetched once per entity during compilation and frozen
// into the runtime schema; they are never re-fetched per request.
type Field struct {
	Name     string
	Type     Type
	Nullable bool
}

// Result holds the full output of one query in scan order.
type Result struct {
	Columns []string
	Rows    [][]any
}

// QuoteIdent quotes an identifier for interpolation into generated SQL,
// doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifyTable quotes each dot-separated segment of a table reference.
func QualifyTable(table string) string {
	parts := strings.Split(table, ".")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = QuoteIdent(p)
	}
	return strings.Join(quoted, ".")
}
