package logger

import (
	"time"

	"ClerkMCP/pkg/util"
	"ClerkMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HeaderRequestID 请求 ID 头
const HeaderRequestID = "X-Request-ID"

// RequestID 沿用合法的客户端请求 ID，否则生成新的 UUID，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !util.ValidRequestID(id) {
			id = util.GenerateUUID()
		}
		c.Set("requestId", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog 每个请求记录一行访问日志，不记录请求头以免泄露凭据
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIP", c.ClientIP()),
			zap.String("requestId", c.GetString("requestId")),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			zlog.Error("request", fields...)
		case status >= 400:
			zlog.Warn("request", fields...)
		default:
			zlog.Info("request", fields...)
		}
	}
}
