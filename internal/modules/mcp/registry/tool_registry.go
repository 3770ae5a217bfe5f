package registry

import (
	"fmt"
	"sort"
	"sync"

	"ClerkMCP/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ToolInfo 工具描述与处理函数
type ToolInfo struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// ToolRegistry 工具注册表，启动时写入，之后只读
type ToolRegistry struct {
	tools map[string]ToolInfo
	mu    sync.RWMutex
}

// NewToolRegistry 创建工具注册表
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]ToolInfo),
	}
}

// Register 注册工具，名称重复或 handler 为空时返回错误
func (r *ToolRegistry) Register(tool mcp.Tool, handler server.ToolHandlerFunc) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if handler == nil {
		return fmt.Errorf("tool '%s' has no handler", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool '%s' already registered", tool.Name)
	}
	r.tools[tool.Name] = ToolInfo{Tool: tool, Handler: handler}
	zlog.Info("MCP: registered tool", zap.String("tool", tool.Name))
	return nil
}

// Lookup 按名称查找工具
func (r *ToolRegistry) Lookup(name string) (ToolInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.tools[name]
	return info, ok
}

// List 按名称排序返回所有工具
func (r *ToolRegistry) List() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ToolInfo, 0, len(r.tools))
	for _, info := range r.tools {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Tool.Name < infos[j].Tool.Name })
	return infos
}

// Len 已注册工具数
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
