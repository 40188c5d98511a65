package graph

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablegraph/tablegraph/internal/engine"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func field(name string, kind engine.Kind) engine.Field {
	return engine.Field{Name: name, Type: engine.Type{Kind: kind}, Nullable: true}
}

func tsField(name string, unit engine.Unit) engine.Field {
	return engine.Field{Name: name, Type: engine.Type{Kind: engine.KindTimestamp, Unit: unit}, Nullable: true}
}

func marshalOne(t *testing.T, f engine.Field, cell any) any {
	t.Helper()
	obj, err := MarshalRow([]engine.Field{f}, []any{cell}, discardLogger())
	require.NoError(t, err)
	return obj[f.Name]
}

func TestMarshalRow_NullCell(t *testing.T) {
	// Null wins over any declared type.
	assert.Nil(t, marshalOne(t, field("id", engine.KindInt64), nil))
	assert.Nil(t, marshalOne(t, field("name", engine.KindText), nil))
}

func TestMarshalRow_IdentifierIntegersAsStrings(t *testing.T) {
	assert.Equal(t, "123", marshalOne(t, field("id", engine.KindInt64), int64(123)))
	assert.Equal(t, "456", marshalOne(t, field("user_id", engine.KindInt32), int32(456)))
	assert.Equal(t, "-7", marshalOne(t, field("ref_id", engine.KindInt8), int8(-7)))
	assert.Equal(t, "18446744073709551615",
		marshalOne(t, field("big_id", engine.KindUint64), uint64(math.MaxUint64)))
}

func TestMarshalRow_NonIdentifierIntegers(t *testing.T) {
	assert.Equal(t, int64(789), marshalOne(t, field("count", engine.KindInt64), int64(789)))
	assert.Equal(t, int64(255), marshalOne(t, field("level", engine.KindUint8), uint8(255)))
}

func TestMarshalRow_Uint64Boundary(t *testing.T) {
	// 2^63-1 is the last value representable as a signed integer.
	assert.Equal(t, int64(math.MaxInt64),
		marshalOne(t, field("counter", engine.KindUint64), uint64(math.MaxInt64)))

	// 2^63 must degrade to a decimal string to avoid precision loss.
	assert.Equal(t, "9223372036854775808",
		marshalOne(t, field("counter", engine.KindUint64), uint64(math.MaxInt64)+1))
}

func TestMarshalRow_Floats(t *testing.T) {
	assert.Equal(t, 2.718, marshalOne(t, field("ratio", engine.KindFloat64), 2.718))
	assert.InDelta(t, 3.14, marshalOne(t, field("ratio", engine.KindFloat32), float32(3.14)).(float64), 0.001)
}

func TestMarshalRow_NonFiniteFloatsFail(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalRow([]engine.Field{field("ratio", engine.KindFloat64)}, []any{v}, discardLogger())
		require.Error(t, err)
		var encErr *EncodingError
		assert.ErrorAs(t, err, &encErr)
	}
}

func TestMarshalRow_TextAndBool(t *testing.T) {
	assert.Equal(t, "Alice", marshalOne(t, field("name", engine.KindText), "Alice"))
	assert.Equal(t, "bytes", marshalOne(t, field("name", engine.KindText), []byte("bytes")))
	assert.Equal(t, true, marshalOne(t, field("active", engine.KindBool), true))
}

func TestMarshalRow_TimestampUnits(t *testing.T) {
	// 2021-01-02T03:04:05Z
	secs := int64(1609556645)
	tests := []struct {
		unit engine.Unit
		cell int64
	}{
		{engine.UnitSecond, secs},
		{engine.UnitMillisecond, secs * 1_000},
		{engine.UnitMicrosecond, secs * 1_000_000},
		{engine.UnitNanosecond, secs * 1_000_000_000},
	}
	for _, tt := range tests {
		got := marshalOne(t, tsField("created_at", tt.unit), tt.cell)
		assert.Equal(t, "2021-01-02T03:04:05Z", got, "unit %v", tt.unit)
	}
}

func TestMarshalRow_TimestampSubsecondRemainder(t *testing.T) {
	got := marshalOne(t, tsField("created_at", engine.UnitMicrosecond), int64(1609556645123456))
	assert.Equal(t, "2021-01-02T03:04:05.123456Z", got)
}

func TestMarshalRow_TimestampBeforeEpoch(t *testing.T) {
	// -1500ms floors to -2s + 500ms.
	got := marshalOne(t, tsField("created_at", engine.UnitMillisecond), int64(-1500))
	assert.Equal(t, "1969-12-31T23:59:58.5Z", got)
}

func TestMarshalRow_TimestampNative(t *testing.T) {
	tm := time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)
	got := marshalOne(t, tsField("created_at", engine.UnitMicrosecond), tm)
	assert.Equal(t, "2021-01-02T03:04:05Z", got)
}

func TestMarshalRow_TimestampOutOfRange(t *testing.T) {
	_, err := MarshalRow([]engine.Field{tsField("created_at", engine.UnitSecond)},
		[]any{int64(math.MaxInt64 / 2)}, discardLogger())
	require.Error(t, err)
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestMarshalRow_Date32(t *testing.T) {
	assert.Equal(t, "1970-01-01", marshalOne(t, field("day", engine.KindDate32), int64(0)))
	assert.Equal(t, "1970-02-01", marshalOne(t, field("day", engine.KindDate32), int64(31)))
	assert.Equal(t, "1969-12-31", marshalOne(t, field("day", engine.KindDate32), int64(-1)))
}

func TestMarshalRow_Date64(t *testing.T) {
	assert.Equal(t, "1970-01-02", marshalOne(t, field("day", engine.KindDate64), int64(86_400_000)))
}

func TestMarshalRow_DateNative(t *testing.T) {
	tm := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-15", marshalOne(t, field("day", engine.KindDate32), tm))
}

func TestMarshalRow_DateOverflow(t *testing.T) {
	_, err := MarshalRow([]engine.Field{field("day", engine.KindDate32)},
		[]any{int64(math.MaxInt64)}, discardLogger())
	require.Error(t, err)
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestMarshalRow_UnknownTypeIsNull(t *testing.T) {
	// Lossy but non-fatal: the row survives.
	obj, err := MarshalRow(
		[]engine.Field{field("blob", engine.KindUnsupported), field("name", engine.KindText)},
		[]any{"anything", "kept"}, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, obj["blob"])
	assert.Equal(t, "kept", obj["name"])
}

func TestMarshalRow_CellCountMismatch(t *testing.T) {
	_, err := MarshalRow([]engine.Field{field("a", engine.KindText)}, []any{"x", "y"}, discardLogger())
	assert.Error(t, err)
}

// Marshalling a date then validating it against the Date scalar's own
// parser always succeeds across a wide offset range.
func TestDateRoundTrip(t *testing.T) {
	f := field("day", engine.KindDate32)
	for days := int64(-100000); days <= 100000; days += 37 {
		obj, err := MarshalRow([]engine.Field{f}, []any{days}, discardLogger())
		require.NoError(t, err, "offset %d", days)
		s := obj["day"].(string)
		require.NotNil(t, coerceDate(s), "offset %d produced %q", days, s)
	}
	// Exact bounds.
	for _, days := range []int64{-100000, 100000} {
		obj, err := MarshalRow([]engine.Field{f}, []any{days}, discardLogger())
		require.NoError(t, err)
		require.NotNil(t, coerceDate(obj["day"].(string)))
	}
}
