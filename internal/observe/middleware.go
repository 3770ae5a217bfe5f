package observe

import (
	"context"
	"time"

	"ClerkMCP/pkg/clerkauth"
	"ClerkMCP/pkg/zlog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ToolMiddleware 为每次工具调用记录 span、调用次数、错误数与耗时
func (t *Telemetry) ToolMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name := request.Params.Name
			ctx, span := t.tracer.Start(ctx, "mcp.tool."+name)
			defer span.End()

			var userID string
			if info, ok := clerkauth.AuthInfoFromContext(ctx); ok {
				userID = info.UserID
			}
			span.SetAttributes(
				attribute.String("tool.name", name),
				attribute.String("auth.user_id", userID),
			)

			start := time.Now()
			result, err := next(ctx, request)
			elapsed := time.Since(start)

			failed := err != nil || (result != nil && result.IsError)
			attrs := metric.WithAttributes(attribute.String("tool", name))
			t.calls.Add(ctx, 1, attrs)
			t.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

			fields := []zap.Field{
				zap.String("tool", name),
				zap.String("userId", userID),
				zap.Duration("duration", elapsed),
			}
			if failed {
				t.errors.Add(ctx, 1, attrs)
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
					fields = append(fields, zap.Error(err))
				} else {
					span.SetStatus(codes.Error, "tool returned error result")
				}
				zlog.Error("MCP: tool execution failed", fields...)
			} else {
				zlog.Info("MCP: tool execution completed", fields...)
			}
			return result, err
		}
	}
}
