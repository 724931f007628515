package rclone

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/accounting"
	"github.com/rclone/rclone/fs/filter"
	rclonesync "github.com/rclone/rclone/fs/sync"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"go.uber.org/zap"
)

// DefaultTransfers is the built-in default for parallel transfers when not configured.
const DefaultTransfers = 4

// TransferOptions contains configuration options for a one-way transfer.
type TransferOptions struct {
	// Filters contains rclone filter rules (e.g., "- node_modules/**", "+ **").
	// Rules are applied in order; the first matching rule wins.
	Filters []string

	// NoDelete prevents deletion of files in the destination that don't exist in the source.
	// When true, uses CopyDir instead of Sync.
	NoDelete bool

	// Transfers is the number of parallel file transfers.
	// If 0, DefaultTransfers from these options is used, then the package default.
	Transfers int

	// DefaultTransfers is the configured default (from config).
	DefaultTransfers int
}

// TransferStats summarises a finished transfer.
type TransferStats struct {
	Files    int64
	Bytes    int64
	Deletes  int64
	Errors   int64
	Duration time.Duration
}

// DetermineTransfers returns the effective transfers count using three-level fallback:
// 1. Task-level value if > 0
// 2. Configured default if > 0
// 3. Built-in default (DefaultTransfers = 4)
func DetermineTransfers(taskTransfers, defaultTransfers int) int {
	if taskTransfers > 0 {
		return taskTransfers
	}
	if defaultTransfers > 0 {
		return defaultTransfers
	}
	return DefaultTransfers
}

// applyFilterRules creates a filter from rules and injects it into the context.
func applyFilterRules(ctx context.Context, rules []string) (context.Context, error) {
	if len(rules) == 0 {
		return ctx, nil
	}

	fi, err := NewFilterFromRules(rules)
	if err != nil {
		return ctx, err
	}

	return filter.ReplaceConfig(ctx, fi), nil
}

// Transfer copies fSrc into fDst. Without NoDelete the destination is made
// identical to the source, deletions included.
//
// Each call runs in its own accounting stats group so concurrent transfers
// report independent counters.
func Transfer(ctx context.Context, fSrc, fDst fs.Fs, opts TransferOptions) (*TransferStats, error) {
	log := logger.Named("vfs.transfer")
	start := time.Now()

	ctx = accounting.WithStatsGroup(ctx, uuid.NewString())

	ctx, err := applyFilterRules(ctx, opts.Filters)
	if err != nil {
		return nil, i18n.NewI18nError(i18n.ErrCopyFailed).WithCause(err)
	}

	transfers := DetermineTransfers(opts.Transfers, opts.DefaultTransfers)
	ctx, rcloneCfg := fs.AddConfig(ctx)
	rcloneCfg.Transfers = transfers

	log.Debug("Starting transfer",
		zap.String("src", fs.ConfigString(fSrc)),
		zap.String("dst", fs.ConfigString(fDst)),
		zap.Strings("filters", opts.Filters),
		zap.Bool("noDelete", opts.NoDelete),
		zap.Int("transfers", transfers),
	)

	if opts.NoDelete {
		err = rclonesync.CopyDir(ctx, fDst, fSrc, true)
	} else {
		err = rclonesync.Sync(ctx, fDst, fSrc, true)
	}

	stats := &TransferStats{Duration: time.Since(start)}
	if s := accounting.Stats(ctx); s != nil {
		stats.Files, stats.Bytes, stats.Deletes, stats.Errors = s.GetTransfers(), s.GetBytes(), s.GetDeletes(), s.GetErrors()
	}

	if err != nil {
		log.Error("Transfer failed", zap.Error(err))
		return stats, i18n.NewI18nError(i18n.ErrCopyFailed).WithCause(err)
	}

	log.Info("Transfer completed",
		zap.Int64("files", stats.Files),
		zap.Int64("bytes", stats.Bytes),
		zap.Int64("deletes", stats.Deletes),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}
