package clerkauth

import (
	"encoding/base64"
	"fmt"
	"strings"
)

var publishableKeyPrefixes = []string{"pk_test_", "pk_live_"}

// FrontendAPIURL 由 publishable key 推导实例的 Frontend API 地址。
// key 格式为前缀加 base64("<frontend-api-host>$")
func FrontendAPIURL(publishableKey string) (string, error) {
	publishableKey = strings.TrimSpace(publishableKey)

	var encoded string
	for _, prefix := range publishableKeyPrefixes {
		if strings.HasPrefix(publishableKey, prefix) {
			encoded = strings.TrimPrefix(publishableKey, prefix)
			break
		}
	}
	if encoded == "" {
		return "", fmt.Errorf("%w: unknown prefix", ErrInvalidPublishableKey)
	}

	decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPublishableKey, err)
	}

	host := string(decoded)
	if !strings.HasSuffix(host, "$") {
		return "", fmt.Errorf("%w: missing terminator", ErrInvalidPublishableKey)
	}
	host = strings.TrimSuffix(host, "$")
	if host == "" || strings.ContainsAny(host, "/ ") {
		return "", fmt.Errorf("%w: bad host %q", ErrInvalidPublishableKey, host)
	}

	return "https://" + host, nil
}
