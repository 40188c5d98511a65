package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/graphql-go/graphql"
	"github.com/spf13/cobra"

	"github.com/tablegraph/tablegraph/internal/cli/config"
	"github.com/tablegraph/tablegraph/internal/graph"
	"github.com/tablegraph/tablegraph/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Compile the schema and serve the GraphQL API",
		Long: `Compile a GraphQL schema from the configured entities and serve it.

The schema is built once at startup by fetching column metadata for every
entity; any entity that fails aborts startup. With --watch, config file
changes trigger a recompile, and a failed recompile keeps the previous
schema serving.`,
		Example: `  # Serve with entities from tablegraph.yaml
  tablegraph serve

  # Recompile on config changes
  tablegraph serve --watch

  # Serve on a different port
  tablegraph serve --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the schema when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command, watch bool) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := connectEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	flags := cmd.Root().PersistentFlags()
	compile := func(ctx context.Context) (*graphql.Schema, error) {
		// Re-read the config so a reload picks up entity edits; flags keep
		// their precedence.
		cfg, err := config.LoadConfig(config.GetConfigFileUsed(), flags)
		if err != nil {
			return nil, err
		}
		entities, err := resolveEntities(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		reg, err := graph.NewRegistry(entities)
		if err != nil {
			return nil, err
		}
		return graph.NewCompiler(eng, logger).Compile(ctx, reg)
	}

	schema, err := compile(ctx)
	if err != nil {
		return fmt.Errorf("schema compilation failed: %w", err)
	}

	holder := server.NewSchemaHolder(schema, compile)

	srvCfg := server.Config{
		Holder: holder,
		Bind:   cfg.Server.Bind,
		Port:   cfg.Server.Port,
		Logger: logger,
	}
	if watch {
		if config.GetConfigFileUsed() == "" {
			return fmt.Errorf("--watch requires a config file")
		}
		srvCfg.WatchPath = config.GetConfigFileUsed()
	}

	return server.New(srvCfg).Serve(ctx)
}
