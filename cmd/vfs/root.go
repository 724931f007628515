/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xzzpig/rclone-vfs/internal/core/config"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"github.com/xzzpig/rclone-vfs/internal/vfs"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vfs",
	Short: "Virtual File System (VFS) tool",
	Long: `Open, list, copy and mount local paths and rclone remotes.

Remote paths look like "remote:path". The rclone config is taken from
--rclone-config, then $RCLONE_CONFIG, then ./rclone.conf.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_ = cmd.Help()
		return i18n.NewI18nError(i18n.ErrNoCommand)
	},
}

func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", i18n.Message(cmd.Context(), err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vfs.toml)")
	config.BindFlags(rootCmd)
}

// initApp loads the configuration and sets up logging and translations
// before any command runs.
func initApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	config.Cfg = *cfg

	logger.InitLogger(logger.Environment(cfg.App.Environment), logger.LogLevel(cfg.Log.Level), cfg.Log.Levels)
	rclone.SetupLogLevel(cfg.Log.Level)

	if err := i18n.Init(); err != nil {
		return err
	}
	locale := cfg.App.Locale
	if locale == "" {
		locale = os.Getenv("LANG")
	}
	cmd.SetContext(i18n.WithLocalizer(cmd.Context(), i18n.NewLocalizer(i18n.ParseLocale(locale))))
	return nil
}

// rcloneConfig is the explicitly configured rclone config, if any.
func rcloneConfig() vfs.ConfigRef {
	return vfs.ConfigFile(config.Cfg.Rclone.ConfigPath)
}
