package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	https_server "ClerkMCP/api/http"
	"ClerkMCP/internal/config"
	"ClerkMCP/internal/observe"
	"ClerkMCP/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	if err := config.LoadConfig(); err != nil {
		zlog.Fatal("加载配置失败", zap.Error(err))
	}
	conf := config.GetConfig()
	if err := conf.Validate(); err != nil {
		zlog.Fatal("配置校验失败", zap.Error(err))
	}

	zlog.Setup(zlog.Options{
		LogPath:    conf.LogConfig.LogPath,
		Level:      conf.LogConfig.Level,
		MaxSizeMB:  conf.LogConfig.MaxSizeMB,
		MaxBackups: conf.LogConfig.MaxBackups,
		MaxAgeDays: conf.LogConfig.MaxAgeDays,
	})
	defer zlog.Sync()
	gin.SetMode(gin.ReleaseMode)

	// 2. 遥测
	ctx := context.Background()
	tel, err := observe.Setup(ctx, observe.Config{
		ServiceName:     conf.TelemetryConfig.ServiceName,
		Version:         conf.MCPConfig.Version,
		TracingExporter: conf.TelemetryConfig.TracingExporter,
		MetricsExporter: conf.TelemetryConfig.MetricsExporter,
		SamplePct:       conf.TelemetryConfig.SamplePct,
	})
	if err != nil {
		zlog.Fatal("初始化遥测失败", zap.Error(err))
	}

	// 3. 构造路由
	deps, err := https_server.NewDependencies(conf, tel)
	if err != nil {
		zlog.Fatal("初始化 Clerk 依赖失败", zap.Error(err))
	}
	engine, err := https_server.NewEngine(conf, deps)
	if err != nil {
		zlog.Fatal("初始化路由失败", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              conf.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 4. 启动 HTTP 服务
	go func() {
		zlog.Info("服务器正在启动", zap.String("addr", srv.Addr), zap.Bool("tls", conf.TLSConfig.Enabled))
		var err error
		if conf.TLSConfig.Enabled {
			err = srv.ListenAndServeTLS(conf.TLSConfig.CertFile, conf.TLSConfig.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 5. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在关闭服务器...")
	timeout := time.Duration(conf.MainConfig.ShutdownTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("服务器关闭超时", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		zlog.Error("关闭遥测失败", zap.Error(err))
	}
	zlog.Info("服务器已关闭")
}
