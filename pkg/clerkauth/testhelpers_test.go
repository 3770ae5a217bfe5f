package clerkauth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer    = "https://clerk.example.com"
	testSecretKey = "sk_test_secret"
)

// jwksFixture 模拟 Backend API 的 GET /jwks；gate 非 nil 时请求阻塞到 gate 关闭
type jwksFixture struct {
	key    *rsa.PrivateKey
	kid    string
	server *httptest.Server
	hits   atomic.Int32
	gate   chan struct{}
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()
	return newGatedJWKSFixture(t, nil)
}

func newGatedJWKSFixture(t *testing.T, gate chan struct{}) *jwksFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &jwksFixture{key: key, kid: "ins_test_key", gate: gate}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if f.gate != nil {
			<-f.gate
		}
		if !strings.HasSuffix(r.URL.Path, "/jwks") || r.Header.Get("Authorization") != "Bearer "+testSecretKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"code":"authentication_invalid"}]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": f.kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *jwksFixture) provider(config JWKSConfig) *JWKSKeyProvider {
	config.SecretKey = testSecretKey
	config.APIURL = f.server.URL
	return NewJWKSKeyProvider(config)
}

func (f *jwksFixture) sign(t *testing.T, claims jwt.MapClaims, header map[string]any) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = f.kid
	for k, v := range header {
		token.Header[k] = v
	}
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func validClaims(sub string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss": testIssuer,
		"sub": sub,
		"sid": "sess_123",
		"iat": now.Unix(),
		"nbf": now.Add(-time.Minute).Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

func bearerRequest(token string) *AuthRequest {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return &AuthRequest{Headers: h}
}
