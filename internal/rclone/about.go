package rclone

import (
	"context"

	"github.com/rclone/rclone/fs"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
)

// AboutInfo represents quota information for a remote storage.
type AboutInfo = fs.Usage

// GetQuota gets the quota information for f.
// It corresponds to the `rclone about` command.
func GetQuota(ctx context.Context, f fs.Fs) (*AboutInfo, error) {
	abouter, ok := f.(fs.Abouter)
	if !ok {
		return nil, i18n.NewI18nErrorWithData(i18n.ErrQuotaUnsupported, map[string]any{"Remote": fs.ConfigString(f)})
	}

	usage, err := abouter.About(ctx)
	if err != nil {
		return nil, i18n.NewI18nErrorWithData(i18n.ErrFailedToGetQuota, map[string]any{"Remote": fs.ConfigString(f)}).WithCause(err)
	}
	return usage, nil
}
