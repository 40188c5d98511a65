package server

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/graphql-go/graphql"
)

// SchemaHolder hands out the current schema to request handlers and swaps it
// atomically on reload. A failed rebuild keeps the last good schema serving.
type SchemaHolder struct {
	current atomic.Pointer[graphql.Schema]

	mu      sync.Mutex
	compile func(context.Context) (*graphql.Schema, error)
}

// NewSchemaHolder seeds the holder with an initial schema and the compile
// function used by Reload.
func NewSchemaHolder(initial *graphql.Schema, compile func(context.Context) (*graphql.Schema, error)) *SchemaHolder {
	h := &SchemaHolder{compile: compile}
	h.current.Store(initial)
	return h
}

// Schema returns the schema currently serving requests.
func (h *SchemaHolder) Schema() *graphql.Schema {
	return h.current.Load()
}

// Reload recompiles and swaps in the new schema. On error the previous
// schema stays active and the error is returned. Reloads are serialized.
func (h *SchemaHolder) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	schema, err := h.compile(ctx)
	if err != nil {
		return err
	}
	h.current.Store(schema)
	return nil
}
