package clerkauth

import (
	"context"
	"net/http"
	"strings"
)

// Authenticator 校验凭证。
//
// 成功与拒绝都返回 (result, nil)；返回 error 表示无法完成校验
type Authenticator interface {
	Name() string
	Supports(ctx context.Context, req *AuthRequest) bool
	Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error)
}

// AuthRequest 认证所需的请求头
type AuthRequest struct {
	Headers http.Header
}

// NewAuthRequest 从 r 构造 AuthRequest
func NewAuthRequest(r *http.Request) *AuthRequest {
	return &AuthRequest{Headers: r.Header}
}

// BearerToken 取 Authorization 头中的 Bearer 凭证
func (r *AuthRequest) BearerToken() (string, bool) {
	if r == nil || r.Headers == nil {
		return "", false
	}
	return extractBearerToken(r.Headers.Get("Authorization"))
}

// AuthResult 一次认证的结果
type AuthResult struct {
	Authenticated bool
	Info          *AuthInfo
	Error         error
	Method        string
}

func authSuccess(info *AuthInfo) *AuthResult {
	return &AuthResult{
		Authenticated: true,
		Info:          info,
		Method:        string(info.Method),
	}
}

func authFailure(err error, method string) *AuthResult {
	return &AuthResult{
		Authenticated: false,
		Error:         err,
		Method:        method,
	}
}

// extractBearerToken scheme 不区分大小写
func extractBearerToken(header string) (string, bool) {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	if token == "" {
		return "", false
	}
	return token, true
}

// looksLikeJWT 是否为三段式 JWS
func looksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2
}
