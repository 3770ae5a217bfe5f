package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options 跨域配置，AllowOrigins 为空或包含 "*" 时允许所有来源
type Options struct {
	AllowOrigins []string
	MaxAge       time.Duration
}

var allowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}

var allowHeaders = []string{
	"Origin", "Content-Length", "Content-Type", "Accept", "Authorization",
	"Mcp-Session-Id", "Mcp-Protocol-Version", "Last-Event-ID",
}

var exposeHeaders = []string{"Mcp-Session-Id", "WWW-Authenticate"}

// New 返回 OAuth 发现接口与 /mcp 共用的 CORS 中间件
func New(opts Options) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if allowAll(opts.AllowOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowOrigins
	}
	corsConfig.AllowMethods = allowMethods
	corsConfig.AllowHeaders = allowHeaders
	corsConfig.ExposeHeaders = exposeHeaders
	if opts.MaxAge > 0 {
		corsConfig.MaxAge = opts.MaxAge
	}
	return cors.New(corsConfig)
}

// Preflight 应答未携带 Origin 的 OPTIONS 请求（带 Origin 的预检已由 New 返回的中间件应答）。
// 允许所有来源时同样下发 Access-Control-Allow-* 头
func Preflight(opts Options) gin.HandlerFunc {
	all := allowAll(opts.AllowOrigins)
	methods := strings.Join(allowMethods, ",")
	headers := strings.Join(allowHeaders, ",")
	return func(c *gin.Context) {
		if all {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if opts.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.FormatInt(int64(opts.MaxAge/time.Second), 10))
			}
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

func allowAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
