package observe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ClerkMCP/pkg/clerkauth"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func toolRequest(name string) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	return req
}

func newTestTelemetry(t *testing.T) (*Telemetry, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	tel, err := newTelemetry(context.Background(),
		Config{ServiceName: "test", SamplePct: 100},
		[]sdktrace.TracerProviderOption{sdktrace.WithSpanProcessor(recorder)},
		[]sdkmetric.Option{sdkmetric.WithReader(reader)},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })
	return tel, recorder, reader
}

func sumOf(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestToolMiddlewareSuccess(t *testing.T) {
	tel, recorder, reader := newTestTelemetry(t)

	var seenUser string
	handler := tel.ToolMiddleware()(func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info, _ := clerkauth.AuthInfoFromContext(ctx)
		seenUser = info.UserID
		return mcp.NewToolResultText("ok"), nil
	})

	ctx := clerkauth.WithAuthInfo(context.Background(), &clerkauth.AuthInfo{UserID: "user_123"})
	result, err := handler(ctx, toolRequest("get_clerk_user_data"))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "user_123", seenUser)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "mcp.tool.get_clerk_user_data", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, int64(1), sumOf(t, reader, "mcp.tool.calls"))
	assert.Equal(t, int64(0), sumOf(t, reader, "mcp.tool.errors"))
}

func TestToolMiddlewareRecordsErrors(t *testing.T) {
	tel, recorder, reader := newTestTelemetry(t)
	boom := errors.New("boom")

	failing := tel.ToolMiddleware()(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, boom
	})
	soft := tel.ToolMiddleware()(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("bad input"), nil
	})

	_, err := failing(context.Background(), toolRequest("t"))
	assert.ErrorIs(t, err, boom)
	_, err = soft(context.Background(), toolRequest("t"))
	assert.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, int64(2), sumOf(t, reader, "mcp.tool.calls"))
	assert.Equal(t, int64(2), sumOf(t, reader, "mcp.tool.errors"))
}

func TestSetupPrometheusServesMetrics(t *testing.T) {
	tel, err := Setup(context.Background(), Config{
		ServiceName:     "clerk-mcp-test",
		TracingExporter: "none",
		MetricsExporter: "prometheus",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })
	require.NotNil(t, tel.MetricsHandler())

	handler := tel.ToolMiddleware()(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	_, err = handler(context.Background(), toolRequest("get_clerk_user_data"))
	require.NoError(t, err)

	srv := httptest.NewServer(tel.MetricsHandler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mcp_tool_calls")
	assert.Contains(t, string(body), `tool="get_clerk_user_data"`)
}

func TestSetupWithoutPrometheus(t *testing.T) {
	tel, err := Setup(context.Background(), Config{ServiceName: "svc", MetricsExporter: "none"})
	require.NoError(t, err)
	assert.Nil(t, tel.MetricsHandler())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{ServiceName: "s", TracingExporter: "jaeger"}.Validate())
	assert.Error(t, Config{ServiceName: "s", MetricsExporter: "statsd"}.Validate())
	assert.Error(t, Config{ServiceName: "s", SamplePct: 150}.Validate())
	assert.NoError(t, Config{ServiceName: "s", TracingExporter: "stdout", MetricsExporter: "prometheus", SamplePct: 10}.Validate())
}
