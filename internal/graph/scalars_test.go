package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateScalar_Coerce(t *testing.T) {
	assert.Equal(t, "2024-01-15", coerceDate("2024-01-15"))
	assert.Nil(t, coerceDate("invalid-date"))
	assert.Nil(t, coerceDate("2024-13-01"))
	assert.Nil(t, coerceDate(20240115))
}

func TestDateTimeScalar_Coerce(t *testing.T) {
	assert.Equal(t, "2024-01-15T10:00:00Z", coerceDateTime("2024-01-15T10:00:00Z"))
	assert.Equal(t, "2024-01-15T10:00:00.123456+02:00", coerceDateTime("2024-01-15T10:00:00.123456+02:00"))
	assert.Nil(t, coerceDateTime("not-a-datetime"))
	assert.Nil(t, coerceDateTime("2024-01-15"))
	assert.Nil(t, coerceDateTime(nil))
}

func TestScalarNames(t *testing.T) {
	assert.Equal(t, "Date", DateScalar.Name())
	assert.Equal(t, "DateTime", DateTimeScalar.Name())
}
