package zlog

import (
	"os"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志初始化参数
type Options struct {
	LogPath    string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu     sync.RWMutex
	logger *zap.Logger
)

func init() {
	logger = newLogger(Options{})
}

// Setup 按配置重建全局 logger，LogPath 为空时只输出到控制台
func Setup(opts Options) {
	l := newLogger(opts)
	mu.Lock()
	old := logger
	logger = l
	mu.Unlock()
	_ = old.Sync()
}

// SetLogger 替换全局 logger（测试中使用 zap.NewNop 等）
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L 返回当前全局 logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func newLogger(opts Options) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := parseLevel(opts.Level)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level),
	}

	if opts.LogPath != "" {
		rotate := &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    defaultInt(opts.MaxSizeMB, 100),
			MaxBackups: defaultInt(opts.MaxBackups, 5),
			MaxAge:     defaultInt(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotate), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	L().Fatal(msg, fields...)
}

// Sync 刷新缓冲区，进程退出前调用
func Sync() error {
	return L().Sync()
}
