package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	helper *zap.Logger // 給套件層級函式用，略過一層 caller
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	once   sync.Once
)

// Init 初始化日誌器，輸出到 stderr 以免混入表格結果
func Init(lvl zapcore.Level) {
	level.SetLevel(lvl)
	once.Do(func() {
		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}

		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stderr),
			level,
		)
		logger = zap.New(core, zap.AddCaller())
		helper = logger.WithOptions(zap.AddCallerSkip(1))
	})
}

// GetLogger 取得日誌器實例，直接交給其他套件使用
func GetLogger() *zap.Logger {
	if logger == nil {
		Init(level.Level())
	}
	return logger
}

func helperLogger() *zap.Logger {
	GetLogger()
	return helper
}

func SetLevel(lvl zapcore.Level) { level.SetLevel(lvl) }

func Sync() { _ = GetLogger().Sync() }

func Debug(msg string, fields ...zap.Field) {
	helperLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	helperLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	helperLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	helperLogger().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	helperLogger().Fatal(msg, fields...)
}
