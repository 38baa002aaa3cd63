package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleRequestHeaderLookupCaseInsensitive(t *testing.T) {
	req := &SimpleRequest{
		Headers: map[string]string{"content-type": "application/json"},
	}

	v, ok := req.Header("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)

	v, ok = req.Header("content-type")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)

	_, ok = req.Header("x-missing")
	assert.False(t, ok)
}
