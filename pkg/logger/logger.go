package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(levelFromEnv(os.Getenv("LOG_LEVEL")))
	var err error
	L, err = config.Build()
	if err != nil {
		panic(err)
	}
}

// levelFromEnv 解析 LOG_LEVEL，無法辨識時使用 info
func levelFromEnv(value string) zapcore.Level {
	level := zapcore.InfoLevel
	if value == "" {
		return level
	}
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// WithComponent 回傳帶有 component 欄位的 logger，供 handler、service、worker、client 等使用
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}

// Sync flushes buffered entries; call before the process exits.
func Sync() {
	_ = L.Sync()
}
