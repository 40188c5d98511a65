package graph

import (
	"github.com/tablegraph/tablegraph/internal/config"
)

// Registry is the validated, ordered, immutable entity list consumed by the
// compiler. Construction fails fast on any invalid descriptor or duplicate
// display name.
type Registry struct {
	entities []config.Entity
}

// NewRegistry validates the descriptors and freezes them into a registry.
func NewRegistry(entities []config.Entity) (*Registry, error) {
	seen := make(map[string]struct{}, len(entities))
	frozen := make([]config.Entity, len(entities))
	for i := range entities {
		ent := entities[i]
		if err := ent.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[ent.Name]; dup {
			return nil, &config.ConfigError{
				Field:  "entity " + ent.Name,
				Reason: "duplicate entity name",
			}
		}
		seen[ent.Name] = struct{}{}
		frozen[i] = ent
	}
	return &Registry{entities: frozen}, nil
}

// Entities returns the descriptors in registry order.
func (r *Registry) Entities() []config.Entity {
	return r.entities
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.entities)
}
