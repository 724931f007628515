// Package logger provides logging utilities for the application.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// levelCache maps a logger name to its resolved zapcore.Level.
var levelCache sync.Map

var (
	levelConfigMu  sync.RWMutex
	levelConfigMap map[string]string
	globalLevel    = zapcore.InfoLevel
)

// InitLevelConfig sets the per-name level table and the fallback level.
// Cached lookups are dropped.
func InitLevelConfig(levels map[string]string, defaultLevel zapcore.Level) {
	levelConfigMu.Lock()
	defer levelConfigMu.Unlock()
	levelConfigMap = levels
	globalLevel = defaultLevel
	levelCache = sync.Map{}
}

// GetLevelForName returns the level configured for name, walking up the
// dotted hierarchy ("vfs.mount.fuse" -> "vfs.mount" -> "vfs") and falling back
// to the global level. Matching is case-sensitive.
func GetLevelForName(name string) zapcore.Level {
	if cached, ok := levelCache.Load(name); ok {
		return cached.(zapcore.Level)
	}

	level := computeLevelForName(name)
	levelCache.Store(name, level)
	return level
}

func computeLevelForName(name string) zapcore.Level {
	levelConfigMu.RLock()
	defer levelConfigMu.RUnlock()

	if len(levelConfigMap) == 0 || name == "" {
		return globalLevel
	}

	if levelStr, ok := levelConfigMap[name]; ok {
		if level, err := ParseLevel(levelStr); err == nil {
			return level
		}
		// An invalid level falls through to the parents.
	}

	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i > 0; i-- {
		prefix := strings.Join(parts[:i], ".")
		if levelStr, ok := levelConfigMap[prefix]; ok {
			if level, err := ParseLevel(levelStr); err == nil {
				return level
			}
		}
	}

	return globalLevel
}

// minConfiguredLevel returns the most verbose level among the global level and
// every valid per-name level, so the root core lets those entries through.
func minConfiguredLevel() zapcore.Level {
	levelConfigMu.RLock()
	defer levelConfigMu.RUnlock()

	lowest := globalLevel
	for _, levelStr := range levelConfigMap {
		if level, err := ParseLevel(levelStr); err == nil && level < lowest {
			lowest = level
		}
	}
	return lowest
}

// ParseLevel parses a level string case-insensitively.
func ParseLevel(levelStr string) (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(strings.ToLower(levelStr)))
	return level, err
}
