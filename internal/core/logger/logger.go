// Package logger provides logging utilities for the application.
package logger

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// logger is the root logger. It is a no-op until InitLogger runs so that
// library code can log unconditionally.
var (
	loggerMu sync.RWMutex
	logger   = zap.NewNop()
)

// Environment represents the application environment type.
type Environment string

const (
	// EnvironmentDevelopment represents the development environment.
	EnvironmentDevelopment Environment = "development"
	// EnvironmentProduction represents the production environment.
	EnvironmentProduction Environment = "production"
)

// LogLevel represents the logging level type.
type LogLevel string

const (
	// LogLevelDebug represents the debug logging level.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo represents the info logging level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn represents the warn logging level.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError represents the error logging level.
	LogLevelError LogLevel = "error"
)

// InitLogger builds the root logger for environment. logLevel is the global
// level and levels holds per-name overrides (see GetLevelForName).
func InitLogger(environment Environment, logLevel LogLevel, levels map[string]string) {
	var cfg zap.Config

	if environment == EnvironmentDevelopment {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	InitLevelConfig(levels, getZapLevel(string(logLevel)))
	cfg.Level.SetLevel(minConfiguredLevel())

	l, err := cfg.Build()
	if err != nil {
		log.Printf("Failed to initialize zap logger: %v", err)
		os.Exit(1)
	}
	setRoot(l)

	// Redirect standard log to zap
	zap.RedirectStdLog(l)
}

// Named returns a child of the root logger that only emits entries at or
// above the level configured for name.
func Named(name string) *zap.Logger {
	level := GetLevelForName(name)
	return root().WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return &levelFilterCore{Core: c, level: level}
	})).Named(name)
}

// AttachFile tees every subsequent log entry, rclone's included, into the
// file at path. The returned function detaches the file and restores the
// previous root logger.
func AttachFile(path string) (func(), error) {
	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	prev := root()
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		sink,
		zap.NewAtomicLevelAt(minConfiguredLevel()),
	)
	setRoot(zap.New(zapcore.NewTee(prev.Core(), fileCore)))

	return func() {
		_ = sink.Sync()
		setRoot(prev)
		closeSink()
	}, nil
}

// Sync flushes the root logger.
func Sync() {
	_ = root().Sync()
}

func root() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// setRoot replaces the root logger and points slog (used by rclone) at it.
func setRoot(l *zap.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()

	slog.SetDefault(slog.New(zapslog.NewHandler(l.Core())))
}

func getZapLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
