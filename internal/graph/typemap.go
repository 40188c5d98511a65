package graph

import (
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/tablegraph/tablegraph/internal/engine"
)

// isIdentifier reports whether a column name carries identifier semantics:
// "id" itself or any name ending in "_id".
func isIdentifier(name string) bool {
	return name == "id" || strings.HasSuffix(name, "_id")
}

// MapField maps a column's name, semantic type and nullability to a GraphQL
// output type. ok is false when the field has no GraphQL representation and
// must be omitted from the compiled type; that is a per-field skip, never a
// compile failure.
//
// Integer columns with identifier-like names become ID; other integers
// become Int. Non-null columns are wrapped in NonNull, custom scalars
// included.
func MapField(name string, t engine.Type, nullable bool) (graphql.Output, bool) {
	var base graphql.Output
	switch {
	case t.Kind.IsInteger():
		if isIdentifier(name) {
			base = graphql.ID
		} else {
			base = graphql.Int
		}
	case t.Kind.IsFloat():
		base = graphql.Float
	case t.Kind == engine.KindText:
		base = graphql.String
	case t.Kind == engine.KindBool:
		base = graphql.Boolean
	case t.Kind == engine.KindDate32 || t.Kind == engine.KindDate64:
		base = DateScalar
	case t.Kind == engine.KindTimestamp:
		base = DateTimeScalar
	default:
		return nil, false
	}

	if !nullable {
		return graphql.NewNonNull(base), true
	}
	return base, true
}

// ToSnakeCase converts a PascalCase display name to its query-field form.
func ToSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
