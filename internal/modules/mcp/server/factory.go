package server

import (
	"context"
	"fmt"
	"net/http"

	"ClerkMCP/internal/modules/mcp/registry"
	"ClerkMCP/pkg/clerkauth"
	"ClerkMCP/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ServerConfig MCP Server 基本信息
type ServerConfig struct {
	Name         string
	Version      string
	EndpointPath string
}

// NewMCPServer 创建 MCP Server 并添加注册表中的全部工具
func NewMCPServer(conf ServerConfig, reg *registry.ToolRegistry, middlewares ...server.ToolHandlerMiddleware) *server.MCPServer {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	}
	for _, mw := range middlewares {
		if mw != nil {
			opts = append(opts, server.WithToolHandlerMiddleware(mw))
		}
	}

	s := server.NewMCPServer(conf.Name, conf.Version, opts...)
	dispatch := dispatcher(reg)
	for _, info := range reg.List() {
		s.AddTool(info.Tool, dispatch)
	}
	zlog.Info("MCP: server created",
		zap.String("name", conf.Name),
		zap.String("version", conf.Version),
		zap.Int("tools", reg.Len()))
	return s
}

// dispatcher 调用时按工具名从注册表取 handler
func dispatcher(reg *registry.ToolRegistry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info, ok := reg.Lookup(request.Params.Name)
		if !ok {
			return nil, fmt.Errorf("tool '%s' not found", request.Params.Name)
		}
		return info.Handler(ctx, request)
	}
}

// NewStreamableHandler 无状态 Streamable HTTP 传输，请求 context 中的 AuthInfo 透传给工具
func NewStreamableHandler(s *server.MCPServer, endpointPath string) http.Handler {
	if endpointPath == "" {
		endpointPath = "/mcp"
	}
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(endpointPath),
		server.WithStateLess(true),
		server.WithHTTPContextFunc(authContextFunc),
	)
}

func authContextFunc(ctx context.Context, r *http.Request) context.Context {
	if info, ok := clerkauth.AuthInfoFromContext(r.Context()); ok {
		return clerkauth.WithAuthInfo(ctx, info)
	}
	return ctx
}
