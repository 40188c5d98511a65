package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tablegraph/tablegraph/internal/config"
)

// Discover lists every table in catalog.schema and converts the Delta ones
// into entity descriptors. Non-Delta tables are skipped with a warning.
func Discover(ctx context.Context, client *Client, catalog, schema string, logger *slog.Logger) ([]config.Entity, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tables, err := client.ListTables(ctx, catalog, schema)
	if err != nil {
		return nil, err
	}

	var entities []config.Entity
	for _, table := range tables {
		if table.DataSourceFormat != "DELTA" {
			logger.Warn("skipping non-Delta table",
				"table", table.FullName(), "format", table.DataSourceFormat)
			continue
		}

		meta, err := client.GetTable(ctx, table.FullName())
		if err != nil {
			return nil, err
		}

		pk, err := inferPrimaryKey(&table, meta, logger)
		if err != nil {
			return nil, err
		}

		desc := table.Comment
		if desc == "" {
			desc = meta.Comment
		}
		loc := table.StorageLocation
		if loc == "" {
			loc = meta.StorageLocation
		}

		entities = append(entities, config.Entity{
			Table:           table.FullName(),
			Name:            ToPascalCase(table.Name),
			PrimaryKey:      pk,
			Description:     desc,
			StorageLocation: loc,
		})
	}
	return entities, nil
}

// inferPrimaryKey picks a key column: an explicit primary_key property wins,
// then a column named "id", then the first column ending in "_id", then the
// first column at all.
func inferPrimaryKey(table, meta *TableInfo, logger *slog.Logger) (string, error) {
	if pk := table.Properties["primary_key"]; pk != "" {
		return pk, nil
	}
	if pk := meta.Properties["primary_key"]; pk != "" {
		return pk, nil
	}
	for _, col := range meta.Columns {
		if col.Name == "id" {
			return col.Name, nil
		}
	}
	for _, col := range meta.Columns {
		if strings.HasSuffix(col.Name, "_id") {
			return col.Name, nil
		}
	}
	if len(meta.Columns) > 0 {
		first := meta.Columns[0].Name
		logger.Warn("no obvious primary key, using first column",
			"table", meta.FullName(), "column", first)
		return first, nil
	}
	return "", fmt.Errorf("table %s has no columns", meta.FullName())
}

// ToPascalCase converts a snake_case table name into a PascalCase entity
// name. Empty segments collapse.
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}
