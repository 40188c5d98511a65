package graph

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/tablegraph/tablegraph/internal/engine"
)

// MarshalRow converts one engine row into a GraphQL object value, field by
// field. fields is the frozen, mapped field list from compilation; row holds
// the cells in the same order. A failing cell fails the row with an
// EncodingError; cells of unknown semantic type degrade to null with a
// warning instead.
func MarshalRow(fields []engine.Field, row []any, logger *slog.Logger) (map[string]any, error) {
	if len(row) != len(fields) {
		return nil, fmt.Errorf("row has %d cells, expected %d", len(row), len(fields))
	}

	obj := make(map[string]any, len(fields))
	for i, f := range fields {
		v, err := marshalCell(f, row[i], logger)
		if err != nil {
			return nil, err
		}
		obj[f.Name] = v
	}
	return obj, nil
}

func marshalCell(f engine.Field, cell any, logger *slog.Logger) (any, error) {
	if cell == nil {
		return nil, nil
	}

	kind := f.Type.Kind
	switch {
	case kind == engine.KindUint64:
		return marshalUint64(f, cell)
	case kind.IsInteger():
		return marshalInt(f, cell)
	case kind.IsFloat():
		return marshalFloat(f, cell)
	case kind == engine.KindText:
		switch v := cell.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
		return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("unexpected text cell %T", cell)}
	case kind == engine.KindBool:
		if v, ok := cell.(bool); ok {
			return v, nil
		}
		return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("unexpected boolean cell %T", cell)}
	case kind == engine.KindTimestamp:
		return marshalTimestamp(f, cell)
	case kind == engine.KindDate32 || kind == engine.KindDate64:
		return marshalDate(f, cell)
	default:
		logger.Warn("unsupported cell type, encoding as null",
			"field", f.Name, "type", kind.String())
		return nil, nil
	}
}

func marshalInt(f engine.Field, cell any) (any, error) {
	v, ok := asInt64(cell)
	if !ok {
		return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("unexpected integer cell %T", cell)}
	}
	if isIdentifier(f.Name) {
		return strconv.FormatInt(v, 10), nil
	}
	return v, nil
}

// marshalUint64 handles the one integer width that cannot always be
// represented: values above 2^63-1 are rendered as decimal strings to avoid
// precision loss, identifier-like fields are strings regardless.
func marshalUint64(f engine.Field, cell any) (any, error) {
	var v uint64
	switch c := cell.(type) {
	case uint64:
		v = c
	case uint:
		v = uint64(c)
	default:
		if i, ok := asInt64(cell); ok && i >= 0 {
			v = uint64(i)
		} else {
			return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("unexpected uint64 cell %T", cell)}
		}
	}

	if isIdentifier(f.Name) {
		return strconv.FormatUint(v, 10), nil
	}
	if v > math.MaxInt64 {
		return strconv.FormatUint(v, 10), nil
	}
	return int64(v), nil
}

func marshalFloat(f engine.Field, cell any) (any, error) {
	var v float64
	switch c := cell.(type) {
	case float64:
		v = c
	case float32:
		v = float64(c)
	default:
		return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("unexpected float cell %T", cell)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &EncodingError{Field: f.Name, Reason: "NaN and infinite floats are not representable"}
	}
	return v, nil
}

func marshalTimestamp(f engine.Field, cell any) (any, error) {
	var tm time.Time
	switch c := cell.(type) {
	case time.Time:
		tm = c.UTC()
	default:
		v, ok := asInt64(cell)
		if !ok {
			return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("unexpected timestamp cell %T", cell)}
		}
		// Normalize the stored unit to whole seconds plus a nanosecond
		// remainder, flooring so the remainder stays non-negative.
		perSec := int64(time.Second) / f.Type.Unit.NanosPerUnit()
		secs := floorDiv(v, perSec)
		nanos := (v - secs*perSec) * f.Type.Unit.NanosPerUnit()
		tm = time.Unix(secs, nanos).UTC()
	}

	if y := tm.Year(); y < 0 || y > 9999 {
		return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("timestamp year %d outside RFC 3339 range", y)}
	}
	return tm.Format(time.RFC3339Nano), nil
}

func marshalDate(f engine.Field, cell any) (any, error) {
	var tm time.Time
	switch c := cell.(type) {
	case time.Time:
		tm = c.UTC()
	default:
		v, ok := asInt64(cell)
		if !ok {
			return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("unexpected date cell %T", cell)}
		}
		var secs int64
		if f.Type.Kind == engine.KindDate32 {
			// Day offset from epoch. Bound before multiplying.
			if v > math.MaxInt64/86400 || v < math.MinInt64/86400 {
				return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("date offset %d days overflows", v)}
			}
			secs = v * 86400
		} else {
			secs = floorDiv(v, 1000)
		}
		tm = time.Unix(secs, 0).UTC()
	}

	if y := tm.Year(); y < 0 || y > 9999 {
		return nil, &EncodingError{Field: f.Name, Reason: fmt.Sprintf("date year %d outside representable range", y)}
	}
	return tm.Format(dateLayout), nil
}

// asInt64 coerces the integer cell representations produced by
// database/sql drivers.
func asInt64(cell any) (int64, bool) {
	switch v := cell.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	default:
		return 0, false
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}
