package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// Base provides common database/sql functionality for engine adapters.
// Embed it in concrete implementations to get standard Close, Query and
// field-list behavior.
type Base struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *Base) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Query executes a read query and collects every row in scan order.
func (b *Base) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return res, nil
}

// FieldListCommon implements FieldList over information_schema.columns,
// shared by the DuckDB and PostgreSQL adapters. The placeholder function
// supplies dialect placeholders for the bound name segments.
func (b *Base) FieldListCommon(ctx context.Context, table string, placeholder func(int) string) ([]Field, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	var where string
	var args []any
	parts := strings.Split(table, ".")
	switch len(parts) {
	case 3:
		where = fmt.Sprintf("table_catalog = %s AND table_schema = %s AND table_name = %s",
			placeholder(1), placeholder(2), placeholder(3))
		args = []any{parts[0], parts[1], parts[2]}
	default:
		where = fmt.Sprintf("table_name = %s", placeholder(1))
		args = []any{table}
	}

	//nolint:gosec // where contains only dialect placeholders
	query := fmt.Sprintf(`
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE %s
		ORDER BY ordinal_position
	`, where)

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fields []Field
	for rows.Next() {
		var name, typeName, nullable string
		if err := rows.Scan(&name, &typeName, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		fields = append(fields, Field{
			Name:     name,
			Type:     ParseSQLType(typeName),
			Nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return fields, nil
}
