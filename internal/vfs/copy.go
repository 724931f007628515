package vfs

import (
	"context"

	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
)

// CopyOptions configures Copy.
type CopyOptions struct {
	// Filters are rclone filter rules, e.g. "- *.tmp".
	Filters []string
	// NoDelete keeps destination files missing from the source.
	NoDelete bool
	// Transfers is the parallel transfer count; 0 uses DefaultTransfers.
	Transfers int
	// DefaultTransfers is the configured default transfer count.
	DefaultTransfers int
}

// Copy copies the directory tree at src into dst. Without NoDelete, dst is
// made identical to src.
func Copy(ctx context.Context, src, dst Path, opts CopyOptions) (*rclone.TransferStats, error) {
	fSrc, err := src.dirFs(ctx)
	if err != nil {
		return nil, i18n.NewI18nError(i18n.ErrCopyFailed).WithCause(err)
	}
	fDst, err := dst.dirFs(ctx)
	if err != nil {
		return nil, i18n.NewI18nError(i18n.ErrCopyFailed).WithCause(err)
	}

	return rclone.Transfer(ctx, fSrc, fDst, rclone.TransferOptions{
		Filters:          opts.Filters,
		NoDelete:         opts.NoDelete,
		Transfers:        opts.Transfers,
		DefaultTransfers: opts.DefaultTransfers,
	})
}
