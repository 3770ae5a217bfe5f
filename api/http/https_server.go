package http

import (
	"fmt"
	"net/http"
	"time"

	"ClerkMCP/internal/config"
	"ClerkMCP/internal/middleware/auth"
	"ClerkMCP/internal/middleware/cors"
	"ClerkMCP/internal/middleware/logger"
	mcpHandlers "ClerkMCP/internal/modules/mcp/server/handlers"
	"ClerkMCP/internal/modules/mcp/registry"
	mcpServer "ClerkMCP/internal/modules/mcp/server"
	oauthService "ClerkMCP/internal/modules/oauth/application/service"
	"ClerkMCP/internal/modules/oauth/domain/metadata"
	oauthHandler "ClerkMCP/internal/modules/oauth/interface/http"
	"ClerkMCP/internal/modules/user/domain/repository"
	"ClerkMCP/internal/observe"
	"ClerkMCP/pkg/back"
	"ClerkMCP/pkg/clerkauth"
	"ClerkMCP/pkg/ssl"
	"ClerkMCP/pkg/xerr"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
)

// Dependencies 路由所需的外部依赖，Telemetry 可为 nil
type Dependencies struct {
	Authenticator clerkauth.Authenticator
	Users         repository.UserRepository
	Telemetry     *observe.Telemetry
}

// NewEngine 构造 gin 引擎并注册全部路由
func NewEngine(conf *config.Config, deps Dependencies) (*gin.Engine, error) {
	frontendAPI, err := conf.FrontendAPI()
	if err != nil {
		return nil, err
	}
	endpointPath := conf.MCPConfig.EndpointPath
	if endpointPath == "" {
		endpointPath = "/mcp"
	}

	GE := gin.New()
	GE.HandleMethodNotAllowed = true
	GE.NoRoute(func(c *gin.Context) { back.Result(c, nil, xerr.ErrNotFound) })
	GE.NoMethod(func(c *gin.Context) { back.Result(c, nil, xerr.ErrMethodNotAllowed) })
	GE.Use(gin.Recovery(), logger.RequestID(), logger.AccessLog())
	GE.Use(ssl.TlsHandler(ssl.Options{
		PublicURL:   conf.MainConfig.PublicURL,
		Host:        conf.MainConfig.Host,
		Port:        conf.MainConfig.Port,
		SSLRedirect: conf.TLSConfig.SSLRedirect,
		TLSEnabled:  conf.TLSConfig.Enabled,
	}))
	corsOptions := cors.Options{
		AllowOrigins: conf.CorsConfig.AllowOrigins,
		MaxAge:       time.Duration(conf.CorsConfig.MaxAgeSeconds) * time.Second,
	}
	corsMiddleware := cors.New(corsOptions)
	preflight := cors.Preflight(corsOptions)

	// OAuth 发现文档
	metadataSvc := oauthService.NewMetadataService(frontendAPI, conf.MainConfig.PublicURL, conf.MCPConfig.Name)
	metadataH := oauthHandler.NewMetadataHandler(metadataSvc, endpointPath)

	wellKnown := GE.Group("/", corsMiddleware)
	wellKnown.GET(metadata.ProtectedResourcePath, metadataH.ProtectedResource)
	wellKnown.OPTIONS(metadata.ProtectedResourcePath, preflight)
	wellKnown.GET(metadata.ProtectedResourcePath+endpointPath, metadataH.MCPProtectedResource)
	wellKnown.OPTIONS(metadata.ProtectedResourcePath+endpointPath, preflight)
	wellKnown.GET(metadata.AuthorizationServerPath, metadataH.AuthorizationServer)
	wellKnown.OPTIONS(metadata.AuthorizationServerPath, preflight)

	// MCP
	reg := registry.NewToolRegistry()
	if err := mcpHandlers.NewUserDataToolHandler(deps.Users).RegisterTools(reg); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	var middlewares []server.ToolHandlerMiddleware
	if deps.Telemetry != nil {
		middlewares = append(middlewares, deps.Telemetry.ToolMiddleware())
	}
	s := mcpServer.NewMCPServer(mcpServer.ServerConfig{
		Name:         conf.MCPConfig.Name,
		Version:      conf.MCPConfig.Version,
		EndpointPath: endpointPath,
	}, reg, middlewares...)

	resourceMetadataURL := func(r *http.Request) string {
		return metadataSvc.ResourceMetadataURL(oauthHandler.RequestOrigin(r), endpointPath)
	}
	mcpGroup := GE.Group(endpointPath, corsMiddleware)
	mcpGroup.OPTIONS("", preflight)
	mcpGroup.POST("",
		auth.Auth(deps.Authenticator, resourceMetadataURL),
		gin.WrapH(mcpServer.NewStreamableHandler(s, endpointPath)),
	)

	// 运维接口
	GE.GET("/healthz", func(c *gin.Context) {
		back.Success(c, gin.H{
			"status":  "ok",
			"name":    conf.MCPConfig.Name,
			"version": conf.MCPConfig.Version,
		})
	})
	if deps.Telemetry != nil && deps.Telemetry.MetricsHandler() != nil {
		metricsPath := conf.TelemetryConfig.MetricsPath
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		GE.GET(metricsPath, gin.WrapH(deps.Telemetry.MetricsHandler()))
	}

	return GE, nil
}
