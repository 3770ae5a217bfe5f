package clerkauth

import (
	"context"
	"time"
)

// Method 产生 AuthInfo 的凭证类型
type Method string

const (
	MethodSessionToken Method = "session_token"
	MethodOAuthToken   Method = "oauth_token"
)

// ExtraUserIDKey Extra 中与 AuthInfo.UserID 相同的条目
const ExtraUserIDKey = "userId"

// AuthInfo 校验成功后的请求级认证信息，只由本包的 Authenticator 构造
type AuthInfo struct {
	// Token 原始 Bearer 凭证
	Token string

	// ClientID 签发 token 的 OAuth 客户端，可为空
	ClientID string

	// Scopes 授予的 scope
	Scopes []string

	// ExpiresAt 未知时为零值
	ExpiresAt time.Time

	Method Method

	// UserID Clerk 用户 id，未绑定用户的 token 为空
	UserID string

	// Extra 原始 claims 及 ExtraUserIDKey
	Extra map[string]any
}

func newAuthInfo(token string, method Method, userID string, claims map[string]any) *AuthInfo {
	extra := make(map[string]any, len(claims)+1)
	for k, v := range claims {
		extra[k] = v
	}
	if userID != "" {
		extra[ExtraUserIDKey] = userID
	}
	return &AuthInfo{
		Token:  token,
		Method: method,
		UserID: userID,
		Extra:  extra,
	}
}

type contextKey int

const authInfoKey contextKey = iota

// WithAuthInfo 返回携带 info 的 ctx
func WithAuthInfo(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authInfoKey, info)
}

// AuthInfoFromContext 取出 WithAuthInfo 存入的 AuthInfo
func AuthInfoFromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authInfoKey).(*AuthInfo)
	return info, ok && info != nil
}
