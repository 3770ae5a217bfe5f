package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ClerkMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), AccessLog())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
	return r
}

func TestRequestIDGeneratedAndReused(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	generated := w.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)

	const given = "3f1c7f0e-6a4b-4b43-9d1e-0c8f2f7f6a11"
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
}

func TestAccessLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := zlog.L()
	zlog.SetLogger(zap.New(core))
	t.Cleanup(func() { zlog.SetLogger(prev) })

	r := newEngine()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusUnauthorized), entries[1].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
}
