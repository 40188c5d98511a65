package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityValidate_Valid(t *testing.T) {
	ent := Entity{
		Table:      "main.sales.customers",
		Name:       "Customer",
		PrimaryKey: "customer_id",
	}
	assert.NoError(t, ent.Validate())
}

func TestEntityValidate_SimpleTableName(t *testing.T) {
	ent := Entity{Table: "customers", Name: "Customer", PrimaryKey: "id"}
	assert.NoError(t, ent.Validate())
}

func TestEntityValidate_TwoPartTableRejected(t *testing.T) {
	ent := Entity{Table: "schema.table", Name: "Customer", PrimaryKey: "id"}
	err := ent.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestEntityValidate_EmptySegment(t *testing.T) {
	ent := Entity{Table: "main..customers", Name: "Customer", PrimaryKey: "id"}
	assert.Error(t, ent.Validate())
}

func TestEntityValidate_LowercaseName(t *testing.T) {
	ent := Entity{Table: "customers", Name: "customer", PrimaryKey: "id"}
	assert.Error(t, ent.Validate())
}

func TestEntityValidate_NonAlphanumericName(t *testing.T) {
	ent := Entity{Table: "customers", Name: "Customer-Type", PrimaryKey: "id"}
	assert.Error(t, ent.Validate())
}

func TestEntityValidate_EmptyName(t *testing.T) {
	ent := Entity{Table: "customers", Name: "", PrimaryKey: "id"}
	assert.Error(t, ent.Validate())
}

func TestEntityValidate_EmptyPrimaryKey(t *testing.T) {
	ent := Entity{Table: "customers", Name: "Customer"}
	assert.Error(t, ent.Validate())
}

func TestConfigValidate_DuplicateNames(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Type: "duckdb"},
		Entities: []Entity{
			{Table: "a", Name: "Item", PrimaryKey: "id"},
			{Table: "b", Name: "Item", PrimaryKey: "id"},
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultBind, cfg.Server.Bind)
	assert.Equal(t, "duckdb", cfg.Database.Type)

	pg := &Config{Database: DatabaseConfig{Type: "postgres"}}
	ApplyDefaults(pg)
	assert.Equal(t, 5432, pg.Database.Port)
}
