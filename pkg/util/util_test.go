package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDIsValidRequestID(t *testing.T) {
	id := GenerateUUID()
	assert.Len(t, id, 36)
	assert.True(t, ValidRequestID(id))
}

func TestValidRequestID(t *testing.T) {
	assert.False(t, ValidRequestID(""))
	assert.False(t, ValidRequestID("not-a-uuid"))
	assert.False(t, ValidRequestID("<script>"))
	assert.True(t, ValidRequestID("6f1c1a0e-3f44-4b55-9d1a-2a1f0c3b9e10"))
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://example.com/mcp", JoinURL("https://example.com/", "/mcp"))
	assert.Equal(t, "https://example.com", JoinURL("https://example.com/", ""))
	assert.Equal(t, "https://clerk.example.com/.well-known/jwks.json", JoinURL("https://clerk.example.com", ".well-known/jwks.json"))
}
