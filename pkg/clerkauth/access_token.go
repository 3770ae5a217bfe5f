package clerkauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
)

const accessTokenVerifyPath = "/oauth_applications/access_tokens/verify"

// AccessTokenConfig 不透明 OAuth access token 校验配置
type AccessTokenConfig struct {
	// SecretKey 调用 Backend API 的 sk_ 密钥
	SecretKey string

	// APIURL 为空时使用 https://api.clerk.com/v1
	APIURL string

	HTTPClient *http.Client
}

// AccessTokenAuthenticator 通过 Backend API 校验 Clerk OAuth 签发的不透明 access token
type AccessTokenAuthenticator struct {
	backend clerk.Backend
	now     func() time.Time
}

// NewAccessTokenAuthenticator 创建基于 Backend API 的 Authenticator
func NewAccessTokenAuthenticator(config AccessTokenConfig) *AccessTokenAuthenticator {
	backendConfig := &clerk.BackendConfig{
		Key: clerk.String(config.SecretKey),
	}
	if config.APIURL != "" {
		backendConfig.URL = clerk.String(config.APIURL)
	}
	if config.HTTPClient != nil {
		backendConfig.HTTPClient = config.HTTPClient
	}
	return &AccessTokenAuthenticator{
		backend: clerk.NewBackend(backendConfig),
		now:     time.Now,
	}
}

// Name 返回 "oauth_token"
func (a *AccessTokenAuthenticator) Name() string {
	return string(MethodOAuthToken)
}

// Supports 只处理非 JWT 凭证
func (a *AccessTokenAuthenticator) Supports(_ context.Context, req *AuthRequest) bool {
	token, ok := req.BearerToken()
	return ok && !looksLikeJWT(token)
}

type verifyAccessTokenParams struct {
	clerk.APIParams
	AccessToken string `json:"access_token"`
}

type verifiedAccessToken struct {
	clerk.APIResource
	Object     string   `json:"object"`
	ID         string   `json:"id"`
	ClientID   string   `json:"client_id"`
	Subject    string   `json:"subject"`
	Scopes     []string `json:"scopes"`
	Revoked    bool     `json:"revoked"`
	Expired    bool     `json:"expired"`
	Expiration *int64   `json:"expiration"`
	CreatedAt  int64    `json:"created_at"`
}

// Authenticate Backend API 的 4xx 视为认证失败，其余错误原样返回
func (a *AccessTokenAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	token, ok := req.BearerToken()
	if !ok {
		return authFailure(ErrMissingCredentials, a.Name()), nil
	}

	apiReq := clerk.NewAPIRequest(http.MethodPost, accessTokenVerifyPath)
	apiReq.SetParams(&verifyAccessTokenParams{AccessToken: token})

	verified := &verifiedAccessToken{}
	if err := a.backend.Call(ctx, apiReq, verified); err != nil {
		var apiErr *clerk.APIErrorResponse
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 {
			return authFailure(ErrInvalidCredentials, a.Name()), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	if verified.Revoked {
		return authFailure(ErrTokenInactive, a.Name()), nil
	}
	var expiresAt time.Time
	if verified.Expiration != nil && *verified.Expiration > 0 {
		expiresAt = time.Unix(*verified.Expiration, 0)
	}
	if verified.Expired || (!expiresAt.IsZero() && a.now().After(expiresAt)) {
		return authFailure(ErrTokenExpired, a.Name()), nil
	}

	claims := map[string]any{
		"sub":       verified.Subject,
		"client_id": verified.ClientID,
		"jti":       verified.ID,
	}
	info := newAuthInfo(token, MethodOAuthToken, verified.Subject, claims)
	info.ClientID = verified.ClientID
	info.Scopes = verified.Scopes
	info.ExpiresAt = expiresAt

	return authSuccess(info), nil
}

var _ Authenticator = (*AccessTokenAuthenticator)(nil)
