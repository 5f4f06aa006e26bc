package logging

import (
	"log/slog"
	"os"
)

type LoggingService struct {
	Logger *slog.Logger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger at Info level. An empty logDir
// configures console-only logging.
func InitLogger(logDir string) {
	InitLoggerWithLevel(logDir, slog.LevelInfo)
}

// InitLoggerWithLevel initializes the global logger with an explicit
// minimum level.
func InitLoggerWithLevel(logDir string, level slog.Level) {
	DefaultLoggingService = &LoggingService{
		Logger: SetupLogger(logDir, level),
	}
	slog.SetDefault(DefaultLoggingService.Logger)
}

// logger returns the configured logger, falling back to a stderr text
// logger when logging was never initialized (unit tests, early startup).
func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}
