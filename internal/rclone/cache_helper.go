// Package rclone provides rclone integration functionality.
// This file provides helper functions for working with rclone's internal cache.
package rclone

import (
	"context"
	"errors"
	"fmt"

	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/cache"
)

// GetFs returns the Fs for path on the given remote.
//
// With an empty remote, path is a local filesystem path and a fresh Fs is
// created each time. Otherwise "remote:path" goes through rclone's Fs cache
// so repeated sessions on the same remote reuse one backend instance.
// A remote starting with ":" is an on-the-fly remote and needs no config.
//
// As with fs.NewFs, when path points at a file the parent Fs is returned
// together with fs.ErrorIsFile.
func GetFs(ctx context.Context, remote, path string) (fs.Fs, error) {
	if remote == "" {
		f, err := fs.NewFs(ctx, path)
		if errors.Is(err, fs.ErrorIsFile) {
			return f, err
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create fs for %s: %w", path, err)
		}
		return f, nil
	}

	fsPath := remote + ":" + path
	f, err := cache.Get(ctx, fsPath)
	if errors.Is(err, fs.ErrorIsFile) {
		return f, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create fs for %s: %w", fsPath, err)
	}
	return f, nil
}

// ClearFsCache drops every cached Fs created from the named remote and
// returns how many entries were removed.
func ClearFsCache(remote string) int {
	if remote == "" {
		return 0
	}
	return cache.ClearConfig(remote)
}
