package graph

import "fmt"

// CompileError reports a failed schema compilation. It is fatal at startup:
// no partial schema is ever published.
type CompileError struct {
	Entity string
	Reason string
	Err    error
}

func (e *CompileError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("schema compilation failed: %s", e.Reason)
	}
	return fmt.Sprintf("schema compilation failed for entity %q: %s", e.Entity, e.Reason)
}

func (e *CompileError) Unwrap() error { return e.Err }

// ArgumentError reports a missing or mistyped resolver argument. It is
// raised before any query is issued and scoped to the failing field.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Name, e.Reason)
}

// EngineError reports a query execution failure, scoped to the failing
// field.
type EngineError struct {
	Table string
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("query against %q failed: %v", e.Table, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// EncodingError reports a cell value that cannot be represented as a
// GraphQL value: NaN or infinite floats, out-of-range dates and timestamps.
type EncodingError struct {
	Field  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode field %q: %s", e.Field, e.Reason)
}
