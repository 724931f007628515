/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xzzpig/rclone-vfs/internal/core/config"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/utils"
	"github.com/xzzpig/rclone-vfs/internal/vfs"
	"go.uber.org/zap"
)

// mounter is replaced in tests.
var mounter = vfs.DefaultMounter()

// mountCmd represents the mount command
var mountCmd = &cobra.Command{
	Use:   "mount <src> <mount_dst>",
	Short: "Mount a remote filesystem",
	Long: `Mount src at mount_dst and block until interrupted (Ctrl-C or SIGTERM).
The mount is read-only unless --allow-writes is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runMount,
}

func init() {
	rootCmd.AddCommand(mountCmd)

	flags := mountCmd.Flags()
	flags.Bool("allow-writes", false, "allow writes to the mount")
	flags.Int("transfers", 0, "number of file transfers to run in parallel")
	flags.Bool("use-links", false, "translate symlinks to/from .rclonelink files")
	flags.String("vfs-cache-mode", "", "VFS cache mode (off, minimal, writes, full)")
	flags.BoolP("verbose", "v", false, "enable rclone debug logging")
	flags.String("cache-dir", "", "directory for the VFS cache")
	flags.Bool("cache-dir-delete-on-exit", false, "remove the cache directory on unmount")
	flags.String("log-file", "", "also write logs to this file")
	flags.StringArrayP("option", "o", nil, "extra FUSE option, repeatable")

	for key, flag := range map[string]string{
		"mount.allow_writes":             "allow-writes",
		"mount.transfers":                "transfers",
		"mount.use_links":                "use-links",
		"mount.vfs_cache_mode":           "vfs-cache-mode",
		"mount.verbose":                  "verbose",
		"mount.cache_dir":                "cache-dir",
		"mount.cache_dir_delete_on_exit": "cache-dir-delete-on-exit",
		"mount.log_file":                 "log-file",
		"mount.options":                  "option",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// mountOptions translates the [mount] configuration into vfs.MountOptions.
// Unset values stay nil so rclone's defaults apply.
func mountOptions(mc config.MountConfig) vfs.MountOptions {
	opts := vfs.MountOptions{
		Config:      rcloneConfig(),
		AllowWrites: utils.Ptr(mc.AllowWrites),
		CacheDir:    mc.CacheDir,
		LogFile:     mc.LogFile,
		OtherArgs:   mc.Options,
	}
	if mc.Transfers > 0 {
		opts.Transfers = utils.Ptr(mc.Transfers)
	}
	if mc.UseLinks {
		opts.UseLinks = utils.Ptr(true)
	}
	if mc.VFSCacheMode != "" {
		opts.VFSCacheMode = utils.Ptr(mc.VFSCacheMode)
	}
	if mc.Verbose {
		opts.Verbose = utils.Ptr(true)
	}
	if mc.CacheDirDeleteOnExit {
		opts.CacheDirDeleteOnExit = utils.Ptr(true)
	}
	return opts
}

func runMount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	src, dst := args[0], args[1]

	fmt.Fprintln(out, i18n.CtxWithData(ctx, i18n.MsgMounting, map[string]any{"Source": src, "Destination": dst}))

	// Signals are caught from here on so an interrupt during start-up still
	// reaches handle.Close.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := vfs.MountWith(sigCtx, mounter, src, dst, mountOptions(config.Cfg.Mount))
	if err != nil {
		return err
	}
	defer handle.Close()

	waitUntilDone(sigCtx, time.Second)

	fmt.Fprintln(out, i18n.Ctx(ctx, i18n.MsgExiting))
	return handle.Close()
}

// waitUntilDone blocks until ctx is done, waking every interval.
func waitUntilDone(ctx context.Context, interval time.Duration) {
	log := logger.Named("vfs.cli")
	start := time.Now()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug("Mount active", zap.Duration("uptime", time.Since(start)))
		}
	}
}
