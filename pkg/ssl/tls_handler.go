package ssl

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// Options 安全中间件参数
type Options struct {
	// PublicURL 非空时重定向到它的 host
	PublicURL   string
	Host        string
	Port        int
	SSLRedirect bool
	// TLS 启用时才下发 HSTS
	TLSEnabled bool
}

// TlsHandler 下发安全响应头；SSLRedirect 开启时把明文请求重定向到 https
func TlsHandler(opts Options) gin.HandlerFunc {
	secureOpts := secure.Options{
		SSLRedirect:        opts.SSLRedirect,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if opts.SSLRedirect {
		secureOpts.SSLHost = redirectHost(opts)
	}
	if opts.TLSEnabled {
		secureOpts.STSSeconds = 31536000
		secureOpts.STSIncludeSubdomains = true
	}
	secureMiddleware := secure.New(secureOpts)

	return func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)

		// If there was an error, do not continue.
		if err != nil {
			// Process 已经写入了响应（重定向），这里只中止 Gin 的处理链
			c.Abort()
			return
		}

		c.Next()
	}
}

// redirectHost 为空时沿用请求的 Host；监听地址是通配地址时不能作为重定向目标
func redirectHost(opts Options) string {
	if opts.PublicURL != "" {
		if u, err := url.Parse(opts.PublicURL); err == nil && u.Host != "" {
			return u.Host
		}
	}
	switch opts.Host {
	case "", "0.0.0.0", "::", "[::]":
		return ""
	}
	return opts.Host + ":" + strconv.Itoa(opts.Port)
}
