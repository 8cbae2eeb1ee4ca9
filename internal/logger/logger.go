package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel 未知的级别按 info 处理
func ParseLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func NewLogger(logLevel string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level.SetLevel(ParseLevel(logLevel))

	lgr, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("构建日志器失败: %w", err)
	}

	return lgr, nil
}

// InitLogger 构建日志器并替换全局日志器，返回的函数用于恢复
func InitLogger(logLevel string) func() {
	lgr, err := NewLogger(logLevel)
	if err != nil {
		panic(err)
	}

	undo := zap.ReplaceGlobals(lgr)

	return func() {
		_ = lgr.Sync()
		undo()
	}
}
