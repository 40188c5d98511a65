package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	intconfig "github.com/tablegraph/tablegraph/internal/config"
)

const starterConfig = `# TableGraph configuration
server:
  port: 4000
  bind: 0.0.0.0

database:
  type: duckdb
  # path: warehouse.db   # omit for in-memory

# Entities exposed through the GraphQL API. Each entity gets a point
# lookup (order(order_id: ID!)) and a paginated list (list_order).
entities:
  - table: orders
    name: Order
    primary_key: order_id
    # storage_location: ./data/orders.parquet

# Optional: discover Delta tables from a Unity-compatible catalog instead
# of listing entities by hand.
# catalog:
#   endpoint: https://dbc-xxx.cloud.databricks.com
#   token_env: DATABRICKS_TOKEN
#   catalog: main
#   schema: sales
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter tablegraph.yaml",
		Long: `Write a commented starter configuration file.

Edit the entities section (or configure a catalog) and run
'tablegraph serve' to bring the API up.`,
		Example: `  # Initialize in current directory
  tablegraph init

  # Initialize in a new directory
  tablegraph init my-api

  # Overwrite an existing config
  tablegraph init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	if err := os.WriteFile(configPath, []byte(starterConfig), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Created %s\n", configPath)
	_, _ = fmt.Fprintln(out, "")
	_, _ = fmt.Fprintln(out, "Next steps:")
	_, _ = fmt.Fprintln(out, "  1. Point database at your DuckDB file or Postgres instance")
	_, _ = fmt.Fprintln(out, "  2. Declare entities (or configure a catalog for discovery)")
	_, _ = fmt.Fprintln(out, "  3. Run 'tablegraph serve' and open http://localhost:4000/graphql")

	return nil
}
