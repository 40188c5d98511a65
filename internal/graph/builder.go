// Package graph compiles entity descriptors into an executable GraphQL
// schema at runtime: semantic column types map to GraphQL types, and every
// entity gets a point-lookup and a paginated list operation backed by
// generated SQL.
package graph

import (
	"context"
	"log/slog"

	"github.com/graphql-go/graphql"
	"golang.org/x/sync/errgroup"

	"github.com/tablegraph/tablegraph/internal/config"
	"github.com/tablegraph/tablegraph/internal/engine"
)

// Compiler builds runtime schemas from an entity registry and a data
// engine. Compilation is all-or-nothing: any failing entity aborts the
// whole build.
type Compiler struct {
	eng    engine.Engine
	logger *slog.Logger
}

// NewCompiler creates a schema compiler.
// If logger is nil, a discard logger is used.
func NewCompiler(eng engine.Engine, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{eng: eng, logger: logger}
}

// Compile fetches field metadata for every entity, derives one object type
// per entity plus the two query operations, and composes the top-level
// query surface. Per-entity metadata fetches run concurrently; failures are
// reported for the first failing entity in registry order so error output
// is deterministic.
func (c *Compiler) Compile(ctx context.Context, reg *Registry) (*graphql.Schema, error) {
	entities := reg.Entities()
	if len(entities) == 0 {
		return nil, &CompileError{Reason: "no entities configured"}
	}

	fieldLists := make([][]engine.Field, len(entities))
	errs := make([]error, len(entities))

	// Every fetch runs to completion against the parent context: one
	// entity's failure must not cancel a healthy sibling's fetch, or the
	// reported entity would depend on scheduling.
	var g errgroup.Group
	for i := range entities {
		ent := entities[i]
		idx := i
		g.Go(func() error {
			if ent.StorageLocation != "" {
				if err := c.eng.Register(ctx, ent.Table, ent.StorageLocation); err != nil {
					errs[idx] = err
					return nil
				}
			}
			fields, err := c.eng.FieldList(ctx, ent.Table)
			if err != nil {
				errs[idx] = err
				return nil
			}
			fieldLists[idx] = fields
			return nil
		})
	}
	// Errors are collected per index; report the first in registry order.
	_ = g.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, &CompileError{
				Entity: entities[i].Name,
				Reason: "failed to fetch field metadata",
				Err:    err,
			}
		}
	}

	queryFields := graphql.Fields{}
	for i, ent := range entities {
		objType, mapped, err := c.buildEntityType(ent, fieldLists[i])
		if err != nil {
			return nil, err
		}

		er := &entityResolver{
			entity: ent,
			eng:    c.eng,
			fields: mapped,
			logger: c.logger,
		}

		opName := ToSnakeCase(ent.Name)
		c.logger.Info("compiled entity",
			"entity", ent.Name, "table", ent.Table, "fields", len(mapped))

		queryFields[opName] = &graphql.Field{
			Type:        objType,
			Description: ent.Description,
			Args: graphql.FieldConfigArgument{
				ent.PrimaryKey: &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.ID),
				},
			},
			Resolve: er.resolveLookup,
		}
		queryFields["list_"+opName] = &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(objType))),
			Description: ent.Description,
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{
					Type:         graphql.Int,
					DefaultValue: DefaultListLimit,
				},
				"offset": &graphql.ArgumentConfig{
					Type:         graphql.Int,
					DefaultValue: 0,
				},
			},
			Resolve: er.resolveList,
		}
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
		Types: []graphql.Type{DateScalar, DateTimeScalar},
	})
	if err != nil {
		return nil, &CompileError{Reason: "schema assembly failed", Err: err}
	}
	return &schema, nil
}

// buildEntityType derives the object type for one entity from its fetched
// field list. Unmappable fields are skipped with a log line; a primary key
// missing from the fetched list aborts compilation.
func (c *Compiler) buildEntityType(ent config.Entity, fetched []engine.Field) (*graphql.Object, []engine.Field, error) {
	pkPresent := false
	mapped := make([]engine.Field, 0, len(fetched))
	objFields := graphql.Fields{}

	for _, f := range fetched {
		if f.Name == ent.PrimaryKey {
			pkPresent = true
		}
		out, ok := MapField(f.Name, f.Type, f.Nullable)
		if !ok {
			c.logger.Warn("skipping unmappable field",
				"entity", ent.Name, "field", f.Name, "type", f.Type.Kind.String())
			continue
		}
		mapped = append(mapped, f)
		objFields[f.Name] = &graphql.Field{
			Type:    out,
			Resolve: fieldFromParent(f.Name),
		}
	}

	if !pkPresent {
		return nil, nil, &CompileError{
			Entity: ent.Name,
			Reason: "primary key " + ent.PrimaryKey + " not present in table fields",
		}
	}
	if len(objFields) == 0 {
		return nil, nil, &CompileError{
			Entity: ent.Name,
			Reason: "no mappable fields",
		}
	}

	obj := graphql.NewObject(graphql.ObjectConfig{
		Name:        ent.Name,
		Description: ent.Description,
		Fields:      objFields,
	})
	return obj, mapped, nil
}
