// Package commands implements the tablegraph subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tablegraph/tablegraph/internal/catalog"
	"github.com/tablegraph/tablegraph/internal/cli/config"
	intconfig "github.com/tablegraph/tablegraph/internal/config"
	"github.com/tablegraph/tablegraph/internal/engine"

	// Registered engine adapters.
	_ "github.com/tablegraph/tablegraph/internal/engine/duckdb"
	_ "github.com/tablegraph/tablegraph/internal/engine/postgres"
)

func getConfig() *intconfig.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg := &intconfig.Config{}
	intconfig.ApplyDefaults(cfg)
	return cfg
}

// connectEngine creates and connects the configured data engine.
func connectEngine(ctx context.Context, cfg *intconfig.Config, logger *slog.Logger) (engine.Engine, error) {
	eng, err := engine.New(cfg.Database.Type, logger)
	if err != nil {
		return nil, err
	}
	engCfg := engine.Config{
		Path:     cfg.Database.Path,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		Options:  cfg.Database.Options,
	}
	if err := eng.Connect(ctx, engCfg); err != nil {
		return nil, fmt.Errorf("failed to connect %s engine: %w", cfg.Database.Type, err)
	}
	return eng, nil
}

// resolveEntities returns the entities to expose: the configured list,
// supplemented by catalog discovery when a catalog is configured.
func resolveEntities(ctx context.Context, cfg *intconfig.Config, logger *slog.Logger) ([]intconfig.Entity, error) {
	entities := cfg.Entities

	if cfg.Catalog != nil {
		discovered, err := discoverEntities(ctx, cfg.Catalog, logger)
		if err != nil {
			return nil, err
		}
		// Explicitly configured entities win over discovered ones.
		seen := make(map[string]struct{}, len(entities))
		for _, ent := range entities {
			seen[ent.Name] = struct{}{}
		}
		for _, ent := range discovered {
			if _, dup := seen[ent.Name]; !dup {
				entities = append(entities, ent)
			}
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no entities configured; add an entities section to %s or configure a catalog",
			intconfig.ConfigFileName)
	}
	return entities, nil
}

func discoverEntities(ctx context.Context, cat *intconfig.CatalogConfig, logger *slog.Logger) ([]intconfig.Entity, error) {
	client, err := catalog.NewClientFromEnv(cat.Endpoint, cat.TokenEnv, logger)
	if err != nil {
		return nil, err
	}
	return catalog.Discover(ctx, client, cat.Catalog, cat.Schema, logger)
}
