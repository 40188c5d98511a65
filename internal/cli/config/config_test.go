package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intconfig "github.com/tablegraph/tablegraph/internal/config"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, intconfig.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

const sampleConfig = `
server:
  port: 8080
database:
  type: duckdb
  path: warehouse.db
entities:
  - table: orders
    name: Order
    primary_key: order_id
`

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, intconfig.DefaultPort, cfg.Server.Port)
	assert.Equal(t, intconfig.DefaultBind, cfg.Server.Bind)
	assert.Equal(t, "duckdb", cfg.Database.Type)
	assert.Empty(t, cfg.Entities)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_FromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "warehouse.db", cfg.Database.Path)
	require.Len(t, cfg.Entities, 1)
	assert.Equal(t, "Order", cfg.Entities[0].Name)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, sampleConfig)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, sampleConfig)
	chdir(t, dir)
	t.Setenv("TABLEGRAPH_SERVER__PORT", "9999")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())
	t.Setenv("TABLEGRAPH_SERVER__PORT", "9999")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("database", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--port", "7070", "--database", "other.db", "--verbose"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "other.db", cfg.Database.Path)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_UnchangedFlagsIgnored(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 1234, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, intconfig.DefaultPort, cfg.Server.Port)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	_, err := LoadConfig("nope.yaml", nil)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidEntityRejected(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, `
entities:
  - table: a.b
    name: Bad
    primary_key: id
`)
	chdir(t, dir)

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	var cfgErr *intconfig.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadConfig_SecretExpansion(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, `
database:
  type: postgres
  host: localhost
  password: ${TEST_PG_PASSWORD}
`)
	chdir(t, dir)
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 5432, cfg.Database.Port, "postgres default port applied")
}

func TestGetLogger(t *testing.T) {
	// Safe fallback when nothing is stored.
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
