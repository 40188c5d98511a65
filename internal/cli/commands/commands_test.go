package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablegraph/tablegraph/internal/cli/config"
	intconfig "github.com/tablegraph/tablegraph/internal/config"
)

// execute runs a command capturing stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// loadTestConfig loads a config from yaml content in a temp dir so commands
// relying on GetCurrentConfig see it.
func loadTestConfig(t *testing.T, content string) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, intconfig.ConfigFileName), []byte(content), 0o600))
	chdir(t, dir)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand("1.2.3"))
	require.NoError(t, err)
	assert.Contains(t, out, "TableGraph v1.2.3")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := execute(t, NewInitCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	data, err := os.ReadFile(filepath.Join(dir, intconfig.ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "entities:")

	// Refuses to overwrite without --force.
	_, err = execute(t, NewInitCommand())
	require.Error(t, err)

	_, err = execute(t, NewInitCommand(), "--force")
	require.NoError(t, err)
}

func TestInitCommand_NewDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := execute(t, NewInitCommand(), "my-api")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "my-api", intconfig.ConfigFileName))
	assert.NoError(t, statErr)
}

func TestEntitiesCommand_Table(t *testing.T) {
	loadTestConfig(t, `
entities:
  - table: orders
    name: OrderItem
    primary_key: order_id
`)

	out, err := execute(t, NewEntitiesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "OrderItem")
	assert.Contains(t, out, "order_item, list_order_item")
	assert.Contains(t, out, "(1 entities)")
}

func TestEntitiesCommand_Empty(t *testing.T) {
	loadTestConfig(t, "")

	out, err := execute(t, NewEntitiesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "(no entities)")
}

func TestEntitiesCommand_YAML(t *testing.T) {
	loadTestConfig(t, `
entities:
  - table: orders
    name: Order
    primary_key: order_id
`)

	out, err := execute(t, NewEntitiesCommand(), "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "entities:")
	assert.Contains(t, out, "Order")
}

func TestEntitiesCommand_DiscoverNeedsCatalog(t *testing.T) {
	loadTestConfig(t, "")

	_, err := execute(t, NewEntitiesCommand(), "--discover")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestEntityOperations(t *testing.T) {
	assert.Equal(t, "customer, list_customer", entityOperations("Customer"))
	assert.Equal(t, "order_item, list_order_item", entityOperations("OrderItem"))
}
