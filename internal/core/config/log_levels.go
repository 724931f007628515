package config

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// LogLevels maps logger names (e.g. "vfs.mount", "rclone") to log levels.
type LogLevels map[string]string

// LogLevelsDecodeHook makes viper.Unmarshal leave LogLevels empty.
// Dotted keys come back from AllSettings as nested maps that do not decode
// into a flat map, so Load fills LogLevels from viper.Get afterwards.
func LogLevelsDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(LogLevels{}) {
			return data, nil
		}
		return make(LogLevels), nil
	}
}
