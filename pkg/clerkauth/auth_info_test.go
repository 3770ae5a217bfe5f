package clerkauth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthInfoContextRoundTrip(t *testing.T) {
	_, ok := AuthInfoFromContext(context.Background())
	assert.False(t, ok)

	info := newAuthInfo("tok", MethodOAuthToken, "user_123", map[string]any{"sid": "sess_1"})
	ctx := WithAuthInfo(context.Background(), info)

	got, ok := AuthInfoFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, info, got)
	assert.Equal(t, "user_123", got.Extra[ExtraUserIDKey])
	assert.Equal(t, "sess_1", got.Extra["sid"])
}

func TestAuthInfoFromContextNilValue(t *testing.T) {
	ctx := WithAuthInfo(context.Background(), nil)
	_, ok := AuthInfoFromContext(ctx)
	assert.False(t, ok)
}

func TestNewAuthInfoWithoutUser(t *testing.T) {
	info := newAuthInfo("tok", MethodOAuthToken, "", nil)
	assert.Empty(t, info.UserID)
	_, present := info.Extra[ExtraUserIDKey]
	assert.False(t, present)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER  abc ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := extractBearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestNewAuthRequest(t *testing.T) {
	r, _ := http.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Bearer xyz")
	token, ok := NewAuthRequest(r).BearerToken()
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	var nilReq *AuthRequest
	_, ok = nilReq.BearerToken()
	assert.False(t, ok)
}
