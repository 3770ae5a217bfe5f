package clerkauth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontendAPIURL(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("clerk.example.com$"))

	url, err := FrontendAPIURL("pk_test_" + encoded)
	require.NoError(t, err)
	assert.Equal(t, "https://clerk.example.com", url)

	url, err = FrontendAPIURL("pk_live_" + base64.RawStdEncoding.EncodeToString([]byte("clerk.prod.example$")))
	require.NoError(t, err)
	assert.Equal(t, "https://clerk.prod.example", url)
}

func TestFrontendAPIURLRejectsBadKeys(t *testing.T) {
	for name, key := range map[string]string{
		"empty":          "",
		"secret key":     "sk_test_abc",
		"not base64":     "pk_test_%%%",
		"no terminator":  "pk_test_" + base64.StdEncoding.EncodeToString([]byte("clerk.example.com")),
		"empty host":     "pk_test_" + base64.StdEncoding.EncodeToString([]byte("$")),
		"host with path": "pk_test_" + base64.StdEncoding.EncodeToString([]byte("evil.com/x$")),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FrontendAPIURL(key)
			assert.ErrorIs(t, err, ErrInvalidPublishableKey)
		})
	}
}
