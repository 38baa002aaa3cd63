package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidatorValidatesType(t *testing.T) {
	v := NewJSONSchemaValidator()

	schema := map[string]any{"type": "string"}
	issues, err := v.Validate(schema, 42)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
}

func TestJSONSchemaValidatorPassesValidValue(t *testing.T) {
	v := NewJSONSchemaValidator()

	schema := map[string]any{"type": "integer", "minimum": 1}
	issues, err := v.Validate(schema, 5)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

// P9: repeated validation against the same declared schema compiles it at
// most once.
func TestJSONSchemaValidatorCachesCompiledSchema(t *testing.T) {
	v := NewJSONSchemaValidator()
	schema := map[string]any{"type": "integer"}

	_, err := v.Validate(schema, 1)
	require.NoError(t, err)
	cachedBefore := countCacheEntries(v)

	_, err = v.Validate(schema, 2)
	require.NoError(t, err)
	cachedAfter := countCacheEntries(v)

	assert.Equal(t, cachedBefore, cachedAfter)
	assert.Equal(t, 1, cachedAfter)
}

func countCacheEntries(v *JSONSchemaValidator) int {
	n := 0
	v.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestJSONSchemaValidatorRegisterFormat(t *testing.T) {
	v := NewJSONSchemaValidator()
	v.RegisterFormat("even", func(value any) bool {
		n, ok := value.(float64)
		return ok && int(n)%2 == 0
	})
	assert.Len(t, v.formats, 1)
}
