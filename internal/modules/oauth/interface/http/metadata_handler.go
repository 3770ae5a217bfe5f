package handler

import (
	"net/http"
	"strings"

	"ClerkMCP/internal/modules/oauth/application/service"

	"github.com/gin-gonic/gin"
)

// MCPScopes /mcp 资源声明的 scope
var MCPScopes = []string{"profile", "email"}

type MetadataHandler struct {
	svc          service.MetadataService
	endpointPath string
}

// NewMetadataHandler endpointPath 为 MCP 端点路径，为空时取 "/mcp"
func NewMetadataHandler(svc service.MetadataService, endpointPath string) *MetadataHandler {
	if endpointPath == "" {
		endpointPath = "/mcp"
	}
	return &MetadataHandler{svc: svc, endpointPath: endpointPath}
}

// ProtectedResource GET /.well-known/oauth-protected-resource
func (h *MetadataHandler) ProtectedResource(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ProtectedResource(RequestOrigin(c.Request), "", nil))
}

// MCPProtectedResource GET /.well-known/oauth-protected-resource{endpointPath}
func (h *MetadataHandler) MCPProtectedResource(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ProtectedResource(RequestOrigin(c.Request), h.endpointPath, MCPScopes))
}

// AuthorizationServer GET /.well-known/oauth-authorization-server
func (h *MetadataHandler) AuthorizationServer(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.AuthorizationServer())
}

// RequestOrigin 还原客户端看到的 scheme://host，兼容反向代理
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(proto)
	}
	host := r.Host
	if fwd := firstValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}

func firstValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
