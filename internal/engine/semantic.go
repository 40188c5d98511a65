package engine

import "strings"

// Kind is a column's logical type, abstracted from any engine-specific
// binary encoding.
type Kind int

const (
	KindUnsupported Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindText
	KindBool
	KindDate32 // days since 1970-01-01
	KindDate64 // milliseconds since 1970-01-01
	KindTimestamp
)

// Unit is the stored resolution of a timestamp column.
type Unit int

const (
	UnitSecond Unit = iota
	UnitMillisecond
	UnitMicrosecond
	UnitNanosecond
)

// Type is a semantic column type. Unit is meaningful only for KindTimestamp.
type Type struct {
	Kind Kind
	Unit Unit
}

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindInt8:        "int8",
	KindInt16:       "int16",
	KindInt32:       "int32",
	KindInt64:       "int64",
	KindUint8:       "uint8",
	KindUint16:      "uint16",
	KindUint32:      "uint32",
	KindUint64:      "uint64",
	KindFloat32:     "float32",
	KindFloat64:     "float64",
	KindText:        "text",
	KindBool:        "bool",
	KindDate32:      "date32",
	KindDate64:      "date64",
	KindTimestamp:   "timestamp",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unsupported"
}

// IsInteger reports whether the kind is a signed or unsigned integer.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUint64
}

// IsUnsigned reports whether the kind is an unsigned integer.
func (k Kind) IsUnsigned() bool {
	return k >= KindUint8 && k <= KindUint64
}

// IsFloat reports whether the kind is a floating-point type.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// NanosPerUnit returns the number of nanoseconds in one unit.
func (u Unit) NanosPerUnit() int64 {
	switch u {
	case UnitSecond:
		return 1_000_000_000
	case UnitMillisecond:
		return 1_000_000
	case UnitMicrosecond:
		return 1_000
	default:
		return 1
	}
}

// ParseSQLType maps an engine-reported SQL type name to a semantic type.
// It understands the DuckDB and PostgreSQL information_schema spellings.
// Unknown names map to KindUnsupported; that is a per-field skip downstream,
// never an error.
func ParseSQLType(sqlType string) Type {
	name := strings.ToUpper(strings.TrimSpace(sqlType))
	// Strip length/precision arguments: VARCHAR(255), DECIMAL(18,3).
	if i := strings.IndexByte(name, '('); i >= 0 {
		tail := ""
		if j := strings.IndexByte(name[i:], ')'); j >= 0 {
			tail = name[i+j+1:]
		}
		name = strings.TrimSpace(name[:i] + tail)
	}

	switch name {
	case "TINYINT", "INT1":
		return Type{Kind: KindInt8}
	case "SMALLINT", "INT2", "SHORT":
		return Type{Kind: KindInt16}
	case "INTEGER", "INT4", "INT", "SIGNED":
		return Type{Kind: KindInt32}
	case "BIGINT", "INT8", "LONG":
		return Type{Kind: KindInt64}
	case "UTINYINT":
		return Type{Kind: KindUint8}
	case "USMALLINT":
		return Type{Kind: KindUint16}
	case "UINTEGER":
		return Type{Kind: KindUint32}
	case "UBIGINT":
		return Type{Kind: KindUint64}
	case "FLOAT", "FLOAT4", "REAL":
		return Type{Kind: KindFloat32}
	case "DOUBLE", "FLOAT8", "DOUBLE PRECISION":
		return Type{Kind: KindFloat64}
	case "VARCHAR", "CHAR", "BPCHAR", "TEXT", "STRING", "CHARACTER VARYING", "CHARACTER", "NAME":
		return Type{Kind: KindText}
	case "BOOLEAN", "BOOL", "LOGICAL":
		return Type{Kind: KindBool}
	case "DATE":
		return Type{Kind: KindDate32}
	case "TIMESTAMP_S":
		return Type{Kind: KindTimestamp, Unit: UnitSecond}
	case "TIMESTAMP_MS":
		return Type{Kind: KindTimestamp, Unit: UnitMillisecond}
	case "TIMESTAMP", "DATETIME",
		"TIMESTAMPTZ",
		"TIMESTAMP WITH TIME ZONE",
		"TIMESTAMP WITHOUT TIME ZONE":
		// DuckDB and Postgres both store plain TIMESTAMP at microsecond
		// resolution.
		return Type{Kind: KindTimestamp, Unit: UnitMicrosecond}
	case "TIMESTAMP_NS":
		return Type{Kind: KindTimestamp, Unit: UnitNanosecond}
	default:
		return Type{Kind: KindUnsupported}
	}
}
