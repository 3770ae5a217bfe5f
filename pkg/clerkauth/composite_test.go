package clerkauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	name     string
	supports bool
	result   *AuthResult
	err      error
	calls    int
}

func (s *stubAuthenticator) Name() string { return s.name }

func (s *stubAuthenticator) Supports(context.Context, *AuthRequest) bool { return s.supports }

func (s *stubAuthenticator) Authenticate(context.Context, *AuthRequest) (*AuthResult, error) {
	s.calls++
	return s.result, s.err
}

func TestCompositeAuthenticatorMissingCredentials(t *testing.T) {
	inner := &stubAuthenticator{supports: true}
	c := NewCompositeAuthenticator(inner)

	result, err := c.Authenticate(context.Background(), bearerRequest(""))
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
	assert.ErrorIs(t, result.Error, ErrMissingCredentials)
	assert.Zero(t, inner.calls)
}

func TestCompositeAuthenticatorRoutesToSupporting(t *testing.T) {
	skipped := &stubAuthenticator{name: "jwt", supports: false}
	success := authSuccess(newAuthInfo("tok", MethodOAuthToken, "user_1", nil))
	used := &stubAuthenticator{name: "oauth", supports: true, result: success}

	c := NewCompositeAuthenticator(skipped, used)
	result, err := c.Authenticate(context.Background(), bearerRequest("tok"))
	require.NoError(t, err)
	assert.Same(t, success, result)
	assert.Zero(t, skipped.calls)
	assert.Equal(t, 1, used.calls)
}

func TestCompositeAuthenticatorReturnsLastFailure(t *testing.T) {
	failure := authFailure(ErrTokenExpired, "jwt")
	c := NewCompositeAuthenticator(&stubAuthenticator{supports: true, result: failure})

	result, err := c.Authenticate(context.Background(), bearerRequest("tok"))
	require.NoError(t, err)
	assert.Same(t, failure, result)
}

func TestCompositeAuthenticatorPropagatesErrors(t *testing.T) {
	boom := errors.New("backend down")
	c := NewCompositeAuthenticator(&stubAuthenticator{supports: true, err: boom})

	_, err := c.Authenticate(context.Background(), bearerRequest("tok"))
	assert.ErrorIs(t, err, boom)
}

func TestCompositeAuthenticatorNoSupport(t *testing.T) {
	c := NewCompositeAuthenticator(&stubAuthenticator{supports: false})
	assert.False(t, c.Supports(context.Background(), bearerRequest("tok")))

	result, err := c.Authenticate(context.Background(), bearerRequest("tok"))
	require.NoError(t, err)
	assert.ErrorIs(t, result.Error, ErrInvalidCredentials)
}
