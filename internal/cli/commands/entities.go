package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tablegraph/tablegraph/internal/cli/config"
	intconfig "github.com/tablegraph/tablegraph/internal/config"
	"github.com/tablegraph/tablegraph/internal/graph"
)

// NewEntitiesCommand creates the entities command.
func NewEntitiesCommand() *cobra.Command {
	var discover bool
	var format string

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List the entities the API will expose",
		Long: `List configured entities, or with --discover, the entities a catalog
discovery run would produce. The yaml output of --discover can be pasted
straight into the entities section of tablegraph.yaml.`,
		Example: `  # Show configured entities
  tablegraph entities

  # Preview catalog discovery
  tablegraph entities --discover

  # Emit discovered entities as config yaml
  tablegraph entities --discover --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEntities(cmd, discover, format)
		},
	}

	cmd.Flags().BoolVar(&discover, "discover", false, "Discover entities from the configured catalog")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json|yaml)")

	return cmd
}

func runEntities(cmd *cobra.Command, discover bool, format string) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	var entities []intconfig.Entity
	if discover {
		if cfg.Catalog == nil {
			return fmt.Errorf("--discover requires a catalog section in %s", intconfig.ConfigFileName)
		}
		var err error
		entities, err = discoverEntities(cmd.Context(), cfg.Catalog, logger)
		if err != nil {
			return err
		}
	} else {
		entities = cfg.Entities
	}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entities)
	case "yaml":
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{"entities": entities})
	default:
		renderEntitiesTable(cmd, entities)
		return nil
	}
}

func renderEntitiesTable(cmd *cobra.Command, entities []intconfig.Entity) {
	if len(entities) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no entities)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Table", "Primary Key", "Operations"})

	for _, ent := range entities {
		t.AppendRow(table.Row{
			ent.Name,
			ent.Table,
			ent.PrimaryKey,
			entityOperations(ent.Name),
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d entities)\n", len(entities))
}

func entityOperations(name string) string {
	op := graph.ToSnakeCase(name)
	return op + ", list_" + op
}
