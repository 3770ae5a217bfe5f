package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"ClerkMCP/internal/modules/mcp/registry"
	"ClerkMCP/internal/modules/user/domain/repository"
	"ClerkMCP/pkg/clerkauth"
	"ClerkMCP/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

const (
	UserDataToolName        = "get_clerk_user_data"
	UserDataToolDescription = "Gets data about the Clerk user that authorized this request"
	NotAuthenticatedText    = "Error: user not authenticated"
)

// UserDataToolHandler 返回授权当前请求的 Clerk 用户资料
type UserDataToolHandler struct {
	users repository.UserRepository
}

func NewUserDataToolHandler(users repository.UserRepository) *UserDataToolHandler {
	return &UserDataToolHandler{users: users}
}

// RegisterTools 注册 get_clerk_user_data，不声明任何入参
func (h *UserDataToolHandler) RegisterTools(reg *registry.ToolRegistry) error {
	tool := mcp.NewTool(UserDataToolName,
		mcp.WithDescription(UserDataToolDescription),
	)
	return reg.Register(tool, h.Handle)
}

// Handle 未认证时返回错误文本而不是协议错误；Clerk 调用失败时错误交给协议层处理
func (h *UserDataToolHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		zlog.Warn("MCP: tool called without user id", zap.String("tool", request.Params.Name))
		return mcp.NewToolResultText(NotAuthenticatedText), nil
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		zlog.Error("MCP: fetch clerk user failed", zap.String("userId", userID), zap.Error(err))
		return nil, fmt.Errorf("get clerk user %s: %w", userID, err)
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode clerk user %s: %w", userID, err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func userIDFromContext(ctx context.Context) string {
	info, ok := clerkauth.AuthInfoFromContext(ctx)
	if !ok {
		return ""
	}
	if id, ok := info.Extra[clerkauth.ExtraUserIDKey].(string); ok && id != "" {
		return id
	}
	return info.UserID
}
