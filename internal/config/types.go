// Package config provides shared configuration types for TableGraph.
// This package is decoupled from CLI concerns so the server and catalog
// discovery can consume entity descriptors directly.
package config

import (
	"fmt"
	"strings"
	"unicode"
)

// Config is the top-level configuration loaded from tablegraph.yaml,
// environment variables and CLI flags.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Catalog  *CatalogConfig `koanf:"catalog"`
	Entities []Entity       `koanf:"entities"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `koanf:"port"`
	Bind string `koanf:"bind"`
}

// DatabaseConfig holds data engine configuration.
type DatabaseConfig struct {
	Type string `koanf:"type"` // duckdb, postgres

	// File-based engines (DuckDB). Empty means in-memory.
	Path string `koanf:"path"`

	// Network engines
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// CatalogConfig holds the optional metadata catalog used for entity discovery.
type CatalogConfig struct {
	// Endpoint is the catalog base URL, e.g. "https://dbc-xxx.cloud.databricks.com".
	Endpoint string `koanf:"endpoint"`

	// TokenEnv names the environment variable holding the bearer token.
	TokenEnv string `koanf:"token_env"`

	Catalog string `koanf:"catalog"`
	Schema  string `koanf:"schema"`
}

// Entity describes one table exposed through the GraphQL API.
// Entities are immutable after construction; Validate is called once during
// schema compilation and any failure aborts startup.
type Entity struct {
	// Table is the engine table reference: either a simple name or a
	// three-part "catalog.schema.table" path.
	Table string `koanf:"table" yaml:"table"`

	// Name is the exposed GraphQL type name (PascalCase).
	Name string `koanf:"name" yaml:"name"`

	// PrimaryKey is the column used by the point-lookup operation.
	PrimaryKey string `koanf:"primary_key" yaml:"primary_key"`

	// Description is attached to the GraphQL type when present.
	Description string `koanf:"description" yaml:"description,omitempty"`

	// StorageLocation optionally points the engine at the backing data
	// (e.g. a CSV or Parquet file registered as a view).
	StorageLocation string `koanf:"storage_location" yaml:"storage_location,omitempty"`
}

// ConfigError reports a malformed entity descriptor or other invalid
// configuration. It is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// Validate checks the entity descriptor shape.
// Table must be a single segment or a three-segment dotted path; Name must
// be non-empty, alphanumeric and start with an uppercase letter.
func (e *Entity) Validate() error {
	parts := strings.Split(e.Table, ".")
	if len(parts) != 1 && len(parts) != 3 {
		return &ConfigError{
			Field:  fmt.Sprintf("entity %q table", e.Name),
			Reason: fmt.Sprintf("table %q must be a simple name or in 'catalog.schema.table' format", e.Table),
		}
	}
	for _, p := range parts {
		if p == "" {
			return &ConfigError{
				Field:  fmt.Sprintf("entity %q table", e.Name),
				Reason: fmt.Sprintf("table %q has an empty segment", e.Table),
			}
		}
	}

	if e.Name == "" {
		return &ConfigError{Field: "entity name", Reason: "name must not be empty"}
	}
	for _, r := range e.Name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return &ConfigError{
				Field:  fmt.Sprintf("entity %q name", e.Name),
				Reason: "name must be alphanumeric",
			}
		}
	}
	if first := []rune(e.Name)[0]; !unicode.IsUpper(first) {
		return &ConfigError{
			Field:  fmt.Sprintf("entity %q name", e.Name),
			Reason: "name must start with an uppercase letter (PascalCase)",
		}
	}

	if e.PrimaryKey == "" {
		return &ConfigError{
			Field:  fmt.Sprintf("entity %q primary_key", e.Name),
			Reason: "primary_key must not be empty",
		}
	}

	return nil
}

// Validate checks the full configuration.
func (c *Config) Validate() error {
	if c.Database.Type == "" {
		return &ConfigError{Field: "database.type", Reason: "type is required"}
	}
	seen := make(map[string]struct{}, len(c.Entities))
	for i := range c.Entities {
		ent := &c.Entities[i]
		if err := ent.Validate(); err != nil {
			return err
		}
		if _, dup := seen[ent.Name]; dup {
			return &ConfigError{
				Field:  fmt.Sprintf("entity %q name", ent.Name),
				Reason: "duplicate entity name",
			}
		}
		seen[ent.Name] = struct{}{}
	}
	return nil
}
