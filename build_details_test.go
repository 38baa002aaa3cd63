package oas2validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	result := Version()

	assert.NotEmpty(t, result)
	assert.True(t,
		result == "dev" || strings.HasPrefix(result, "v"),
		"Version() should be 'dev' or start with 'v', got: %s", result)
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "oas2validate/dev", UserAgent())
}
