package auth

import (
	"errors"
	"fmt"
	"net/http"

	"ClerkMCP/pkg/back"
	"ClerkMCP/pkg/clerkauth"
	"ClerkMCP/pkg/xerr"
	"ClerkMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetadataURLFunc 返回当前请求对应的受保护资源元数据地址
type MetadataURLFunc func(r *http.Request) string

// Auth 校验 Bearer 凭据，通过后把 AuthInfo 写入请求 context；失败返回 401 并终止后续 handler
func Auth(authenticator clerkauth.Authenticator, metadataURL MetadataURLFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := clerkauth.NewAuthRequest(c.Request)
		resourceMetadataURL := metadataURL(c.Request)

		result, err := authenticator.Authenticate(c.Request.Context(), req)
		if err != nil {
			zlog.Error("token verification failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			reject(c, resourceMetadataURL, true, "token verification failed")
			return
		}
		if !result.Authenticated {
			missing := errors.Is(result.Error, clerkauth.ErrMissingCredentials)
			zlog.Debug("request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", result.Method),
				zap.Error(result.Error))
			reject(c, resourceMetadataURL, !missing, rejectMessage(result.Error))
			return
		}

		c.Request = c.Request.WithContext(clerkauth.WithAuthInfo(c.Request.Context(), result.Info))
		c.Set("userId", result.Info.UserID)
		c.Next()
	}
}

// WWWAuthenticate 构造 RFC 9728 的 WWW-Authenticate 头
func WWWAuthenticate(resourceMetadataURL string, invalidToken bool) string {
	value := fmt.Sprintf(`Bearer resource_metadata="%s"`, resourceMetadataURL)
	if invalidToken {
		value += `, error="invalid_token"`
	}
	return value
}

func reject(c *gin.Context, resourceMetadataURL string, invalidToken bool, message string) {
	c.Header("WWW-Authenticate", WWWAuthenticate(resourceMetadataURL, invalidToken))
	back.Abort(c, xerr.Unauthorized, message)
}

func rejectMessage(err error) string {
	switch {
	case errors.Is(err, clerkauth.ErrMissingCredentials):
		return "missing or invalid authorization header"
	case errors.Is(err, clerkauth.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, clerkauth.ErrTokenInactive):
		return "token revoked"
	default:
		return "invalid token"
	}
}
