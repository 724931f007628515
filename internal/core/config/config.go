package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Environment string `mapstructure:"environment"`
		Locale      string `mapstructure:"locale"`
	} `mapstructure:"app"`
	Log struct {
		Level  string    `mapstructure:"level"`
		Levels LogLevels `mapstructure:"levels"`
	} `mapstructure:"log"`
	Rclone struct {
		// ConfigPath is an explicit rclone.conf location. It outranks
		// RCLONE_CONFIG and ./rclone.conf.
		ConfigPath string `mapstructure:"config_path"`
	} `mapstructure:"rclone"`
	Mount MountConfig `mapstructure:"mount"`
	Copy  struct {
		Transfers int `mapstructure:"transfers"`
	} `mapstructure:"copy"`
}

// MountConfig holds the defaults used by `vfs mount`.
type MountConfig struct {
	AllowWrites          bool     `mapstructure:"allow_writes"`
	Transfers            int      `mapstructure:"transfers"`
	UseLinks             bool     `mapstructure:"use_links"`
	VFSCacheMode         string   `mapstructure:"vfs_cache_mode"`
	Verbose              bool     `mapstructure:"verbose"`
	CacheDir             string   `mapstructure:"cache_dir"`
	CacheDirDeleteOnExit bool     `mapstructure:"cache_dir_delete_on_exit"`
	LogFile              string   `mapstructure:"log_file"`
	Options              []string `mapstructure:"options"`
}

var Cfg Config

// Load reads the configuration from cfgFile, or from ./vfs.toml when cfgFile
// is empty. A missing default file is not an error; a missing explicit one is.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("vfs")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("VFS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		LogLevelsDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Log.Levels = loadLogLevels()

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.environment", "production")
	viper.SetDefault("app.locale", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("rclone.config_path", "")
	viper.SetDefault("mount.allow_writes", false)
	viper.SetDefault("mount.vfs_cache_mode", "")
	viper.SetDefault("copy.transfers", 0)
}

// loadLogLevels reads log.levels with viper.Get, which keeps dotted keys
// such as "vfs.mount" that TOML would otherwise turn into nested tables.
func loadLogLevels() LogLevels {
	levels := make(LogLevels)
	raw, ok := viper.Get("log.levels").(map[string]any)
	if !ok {
		return levels
	}
	flattenLevels("", raw, levels)
	return levels
}

func flattenLevels(prefix string, in map[string]any, out LogLevels) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flattenLevels(key, val, out)
		}
	}
}

// BindFlags registers the persistent flags shared by every command.
func BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("rclone-config", "", "rclone config file (overrides RCLONE_CONFIG and ./rclone.conf)")
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("rclone.config_path", cmd.PersistentFlags().Lookup("rclone-config"))
}
