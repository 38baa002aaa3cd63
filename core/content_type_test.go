package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiateContentType(t *testing.T) {
	declared := []string{"application/json", "application/xml"}

	t.Run("exact match ok", func(t *testing.T) {
		assert.NoError(t, negotiateContentType("application/json", declared))
	})

	t.Run("match ignores charset parameter", func(t *testing.T) {
		assert.NoError(t, negotiateContentType("application/json; charset=utf-8", declared))
	})

	// scenario 2: an unsupported content type yields a message enumerating
	// the supported ones.
	t.Run("unsupported type", func(t *testing.T) {
		err := negotiateContentType("application/x-yaml", declared)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "application/x-yaml")
		assert.Contains(t, err.Error(), "application/json, application/xml")
	})

	// scenario 3: absent Content-Type is treated as application/octet-stream.
	t.Run("absent content type treated as octet-stream", func(t *testing.T) {
		err := negotiateContentType("", declared)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "application/octet-stream")
	})

	t.Run("empty declared list always passes", func(t *testing.T) {
		assert.NoError(t, negotiateContentType("anything/at-all", nil))
	})
}

func TestSkipRequestContentTypeCheck(t *testing.T) {
	assert.True(t, skipRequestContentTypeCheck(nil, true))
	assert.True(t, skipRequestContentTypeCheck([]string{"application/json"}, false))
	assert.False(t, skipRequestContentTypeCheck([]string{"application/json"}, true))
}

func TestSkipResponseContentTypeCheck(t *testing.T) {
	assert.True(t, skipResponseContentTypeCheck(false, "200"))
	assert.True(t, skipResponseContentTypeCheck(true, "204"))
	assert.True(t, skipResponseContentTypeCheck(true, "304"))
	assert.False(t, skipResponseContentTypeCheck(true, "200"))
}
