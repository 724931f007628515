/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rclone/rclone/fs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xzzpig/rclone-vfs/internal/core/config"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"github.com/xzzpig/rclone-vfs/internal/core/scheduler"
	"github.com/xzzpig/rclone-vfs/internal/core/watcher"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"github.com/xzzpig/rclone-vfs/internal/vfs"
	"go.uber.org/zap"
)

var (
	copySync     bool
	copyFilters  []string
	copyWatch    bool
	copySchedule string
	copyDebounce time.Duration
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy <src> <dst>",
	Short: "Copy a directory tree between local paths and remotes",
	Long: `Copy src into dst. Existing files in dst are kept unless --sync is
given, in which case dst is made identical to src.

With --watch (local src only) or --schedule the copy is repeated whenever
src changes or the schedule fires, until interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)

	flags := copyCmd.Flags()
	flags.BoolVar(&copySync, "sync", false, "delete files in dst that are not in src")
	flags.Int("transfers", 0, "number of file transfers to run in parallel")
	flags.StringArrayVar(&copyFilters, "filter", nil, `rclone filter rule, e.g. "- *.tmp" (repeatable)`)
	flags.BoolVar(&copyWatch, "watch", false, "copy again whenever the local src changes")
	flags.StringVar(&copySchedule, "schedule", "", `copy again on a cron schedule, e.g. "*/30 * * * *" or "@every 1h"`)
	flags.DurationVar(&copyDebounce, "debounce", watcher.DefaultDebounce, "quiet period before --watch copies again")
	_ = viper.BindPFlag("copy.transfers", flags.Lookup("transfers"))
}

func runCopy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	srcArg, dstArg := args[0], args[1]

	if err := rclone.ValidateFilterRules(copyFilters); err != nil {
		return err
	}
	if copySchedule != "" {
		if err := scheduler.Validate(copySchedule); err != nil {
			return i18n.NewI18nErrorWithData(i18n.ErrInvalidSchedule, map[string]any{"Schedule": copySchedule}).
				WithCause(errors.Join(errs.ErrInvalidInput, err))
		}
	}
	if copyWatch && vfs.LooksLikeRemote(srcArg) {
		return i18n.NewI18nErrorWithData(i18n.ErrWatchNeedsLocal, map[string]any{"Path": srcArg}).
			WithCause(errs.ErrInvalidInput)
	}

	fmt.Fprintln(out, i18n.CtxWithData(ctx, i18n.MsgCopying, map[string]any{"Source": srcArg, "Destination": dstArg}))

	src, err := vfs.Begin(ctx, srcArg, rcloneConfig())
	if err != nil {
		return err
	}
	if !vfs.LooksLikeRemote(dstArg) {
		if err := os.MkdirAll(dstArg, 0o755); err != nil {
			return i18n.NewI18nErrorWithData(i18n.ErrFailedToWrite, map[string]any{"Path": dstArg}).
				WithCause(errors.Join(errs.ErrSystem, err))
		}
	}
	dst, err := vfs.Begin(ctx, dstArg, rcloneConfig())
	if err != nil {
		return err
	}

	if err := copyOnce(ctx, out, src, dst); err != nil {
		return err
	}
	if !copyWatch && copySchedule == "" {
		return nil
	}
	return repeatCopy(cmd, src, dst)
}

func copyOnce(ctx context.Context, out io.Writer, src, dst vfs.Path) error {
	stats, err := vfs.Copy(ctx, src, dst, vfs.CopyOptions{
		Filters:          copyFilters,
		NoDelete:         !copySync,
		DefaultTransfers: config.Cfg.Copy.Transfers,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, i18n.CtxWithData(ctx, i18n.MsgCopyDone, map[string]any{
		"Files": stats.Files,
		"Bytes": fs.SizeSuffix(stats.Bytes).String() + "B",
	}))
	return nil
}

// repeatCopy copies src to dst each time the watcher or scheduler fires,
// one copy at a time, until interrupted. Failed runs are reported and the
// loop keeps going.
func repeatCopy(cmd *cobra.Command, src, dst vfs.Path) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logger.Named("vfs.cli")
	trigger := make(chan string, 1)
	fire := func(reason string) {
		select {
		case trigger <- reason:
		default:
		}
	}

	if copyWatch {
		local, ok := src.(*vfs.LocalPath)
		if !ok {
			return i18n.NewI18nErrorWithData(i18n.ErrWatchNeedsLocal, map[string]any{"Path": src.String()}).
				WithCause(errs.ErrInvalidInput)
		}
		w, err := watcher.New(copyDebounce, func(string) { fire("watch") })
		if err != nil {
			return i18n.NewI18nErrorWithData(i18n.ErrWatchFailed, map[string]any{"Path": local.OSPath()}).WithCause(err)
		}
		defer w.Stop()
		if err := w.Add(local.OSPath()); err != nil {
			return i18n.NewI18nErrorWithData(i18n.ErrWatchFailed, map[string]any{"Path": local.OSPath()}).WithCause(err)
		}
		w.Start()
	}

	if copySchedule != "" {
		s := scheduler.New()
		if err := s.Add("copy", copySchedule, func() { fire("schedule") }); err != nil {
			return i18n.NewI18nErrorWithData(i18n.ErrInvalidSchedule, map[string]any{"Schedule": copySchedule}).
				WithCause(errors.Join(errs.ErrInvalidInput, err))
		}
		s.Start()
		defer s.Stop()
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, i18n.Ctx(ctx, i18n.MsgWaiting))
	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(out, i18n.Ctx(ctx, i18n.MsgExiting))
			return nil
		case reason := <-trigger:
			log.Info("Copying again", zap.String("trigger", reason), zap.String("source", src.String()))
			if err := copyOnce(sigCtx, out, src, dst); err != nil {
				log.Error("Copy failed", zap.Error(err))
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", i18n.Message(ctx, err))
			}
		}
	}
}
