package graph

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/tablegraph/tablegraph/internal/config"
	"github.com/tablegraph/tablegraph/internal/engine"
)

// List pagination bounds.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// entityResolver carries the per-entity context for the two query
// operations: the descriptor, the shared engine handle and the frozen
// mapped field list. One generic resolver pair is dispatched through it
// instead of per-field closures.
type entityResolver struct {
	entity config.Entity
	eng    engine.Engine
	fields []engine.Field
	logger *slog.Logger
}

// selectClause lists every mapped column, quoted, in field order.
func (r *entityResolver) selectClause() string {
	cols := make([]string, len(r.fields))
	for i, f := range r.fields {
		cols[i] = engine.QuoteIdent(f.Name)
	}
	return strings.Join(cols, ", ")
}

// resolveLookup implements the point-lookup operation: select all mapped
// fields where the primary-key column equals the argument, returning the
// first row marshalled, or null when nothing matches.
func (r *entityResolver) resolveLookup(p graphql.ResolveParams) (interface{}, error) {
	raw, ok := p.Args[r.entity.PrimaryKey]
	if !ok || raw == nil {
		return nil, &ArgumentError{Name: r.entity.PrimaryKey, Reason: "argument is required"}
	}
	key, ok := raw.(string)
	if !ok {
		return nil, &ArgumentError{Name: r.entity.PrimaryKey, Reason: fmt.Sprintf("expected a string key, got %T", raw)}
	}

	// The key is bound, never interpolated into the query text.
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		r.selectClause(),
		engine.QualifyTable(r.entity.Table),
		engine.QuoteIdent(r.entity.PrimaryKey),
		r.eng.Placeholder(1))

	r.logger.Debug("executing lookup", "entity", r.entity.Name, "query", query)

	res, err := r.eng.Query(p.Context, query, key)
	if err != nil {
		return nil, &EngineError{Table: r.entity.Table, Err: err}
	}
	if len(res.Rows) == 0 {
		return nil, nil
	}
	return MarshalRow(r.fields, res.Rows[0], r.logger)
}

// resolveList implements the paginated list operation. Rows come back in
// scan order; an empty page is an empty list, never null.
func (r *entityResolver) resolveList(p graphql.ResolveParams) (interface{}, error) {
	limit := intArg(p.Args, "limit", DefaultListLimit)
	offset := intArg(p.Args, "offset", 0)

	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("SELECT %s FROM %s LIMIT %d OFFSET %d",
		r.selectClause(),
		engine.QualifyTable(r.entity.Table),
		limit, offset)

	r.logger.Debug("executing list", "entity", r.entity.Name, "query", query)

	res, err := r.eng.Query(p.Context, query)
	if err != nil {
		return nil, &EngineError{Table: r.entity.Table, Err: err}
	}

	out := make([]interface{}, 0, len(res.Rows))
	for _, row := range res.Rows {
		obj, err := MarshalRow(r.fields, row, r.logger)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// intArg reads an optional integer argument, tolerating the numeric types
// graphql-go hands over for literals and variables.
func intArg(args map[string]interface{}, name string, def int) int {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// fieldFromParent returns a shallow resolver reading one field from the
// already-marshalled parent object. No queries are issued here: resolution
// is exactly one query per top-level operation.
func fieldFromParent(name string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		parent, ok := p.Source.(map[string]any)
		if !ok {
			return nil, nil
		}
		return parent[name], nil
	}
}
