package clerkauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenConfig JWT 校验配置
type SessionTokenConfig struct {
	// Issuer 即 Frontend API 地址，其他实例签发的 token 被拒绝
	Issuer string

	// AuthorizedParties 非空时限制 azp
	AuthorizedParties []string

	// Leeway exp/nbf 的时钟偏差容忍，默认 5s
	Leeway time.Duration
}

// SessionTokenAuthenticator 校验 Clerk 签发的 JWT（会话 token 与 JWT 格式的 OAuth access token）
type SessionTokenAuthenticator struct {
	config SessionTokenConfig
	keys   KeyProvider
}

// NewSessionTokenAuthenticator 使用 keys 验签
func NewSessionTokenAuthenticator(config SessionTokenConfig, keys KeyProvider) *SessionTokenAuthenticator {
	if config.Leeway <= 0 {
		config.Leeway = 5 * time.Second
	}
	return &SessionTokenAuthenticator{config: config, keys: keys}
}

// Name 返回 "session_token"
func (a *SessionTokenAuthenticator) Name() string {
	return string(MethodSessionToken)
}

// Supports 只处理 JWT 形式的凭证
func (a *SessionTokenAuthenticator) Supports(_ context.Context, req *AuthRequest) bool {
	token, ok := req.BearerToken()
	return ok && looksLikeJWT(token)
}

// Authenticate 校验签名、iss 及时间类 claims
func (a *SessionTokenAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	tokenString, ok := req.BearerToken()
	if !ok {
		return authFailure(ErrMissingCredentials, a.Name()), nil
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithLeeway(a.config.Leeway),
		jwt.WithExpirationRequired(),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.config.Issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		return a.keys.GetKey(ctx, kid)
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, ErrVerificationFailed):
			return nil, err
		case errors.Is(err, jwt.ErrTokenExpired):
			return authFailure(ErrTokenExpired, a.Name()), nil
		case errors.Is(err, jwt.ErrTokenMalformed):
			return authFailure(ErrTokenMalformed, a.Name()), nil
		case errors.Is(err, ErrKeyNotFound):
			return authFailure(ErrKeyNotFound, a.Name()), nil
		default:
			return authFailure(fmt.Errorf("%w: %v", ErrInvalidCredentials, err), a.Name()), nil
		}
	}
	if !token.Valid {
		return authFailure(ErrInvalidCredentials, a.Name()), nil
	}

	if !a.authorizedParty(claims) {
		return authFailure(fmt.Errorf("%w: unauthorized party", ErrInvalidCredentials), a.Name()), nil
	}

	sub, _ := claims["sub"].(string)
	method := MethodSessionToken
	if typ, _ := token.Header["typ"].(string); strings.EqualFold(typ, "at+jwt") || claims["client_id"] != nil {
		method = MethodOAuthToken
	}

	info := newAuthInfo(tokenString, method, sub, claims)
	info.ClientID, _ = claims["client_id"].(string)
	info.Scopes = scopesFromClaims(claims)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	return authSuccess(info), nil
}

func (a *SessionTokenAuthenticator) authorizedParty(claims jwt.MapClaims) bool {
	if len(a.config.AuthorizedParties) == 0 {
		return true
	}
	azp, _ := claims["azp"].(string)
	if azp == "" {
		return true
	}
	for _, party := range a.config.AuthorizedParties {
		if party == azp {
			return true
		}
	}
	return false
}

// scopesFromClaims 支持空格分隔的 "scope" 或数组形式的 "scp"
func scopesFromClaims(claims jwt.MapClaims) []string {
	if scope, ok := claims["scope"].(string); ok && scope != "" {
		return strings.Fields(scope)
	}
	if scp, ok := claims["scp"].([]interface{}); ok {
		scopes := make([]string, 0, len(scp))
		for _, s := range scp {
			if str, ok := s.(string); ok {
				scopes = append(scopes, str)
			}
		}
		return scopes
	}
	return nil
}

var _ Authenticator = (*SessionTokenAuthenticator)(nil)
