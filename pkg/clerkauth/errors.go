package clerkauth

import "errors"

var (
	ErrMissingCredentials    = errors.New("clerkauth: missing credentials")
	ErrInvalidCredentials    = errors.New("clerkauth: invalid credentials")
	ErrTokenExpired          = errors.New("clerkauth: token expired")
	ErrTokenMalformed        = errors.New("clerkauth: token malformed")
	ErrTokenInactive         = errors.New("clerkauth: token inactive")
	ErrVerificationFailed    = errors.New("clerkauth: verification failed")
	ErrKeyNotFound           = errors.New("clerkauth: signing key not found")
	ErrInvalidPublishableKey = errors.New("clerkauth: invalid publishable key")
)
