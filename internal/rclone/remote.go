package rclone

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/rclone/rclone/fs"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
)

// DirEntry represents a directory entry from rclone
type DirEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// ExtractEntryName extracts the last path segment from a path.
// This is used to get the display name for directory entries.
//
// Examples:
//   - "subdir/file.txt" → "file.txt"
//   - "file.txt" → "file.txt"
//   - "a/b/c" → "c"
//   - "" → ""
func ExtractEntryName(p string) string {
	if lastSlash := strings.LastIndex(p, "/"); lastSlash >= 0 {
		return p[lastSlash+1:]
	}
	return p
}

// ListDir lists the entries of dir (relative to the root of f), applying the
// given rclone filter rules to each entry's path relative to dir.
//
// rclone's fs.List() does not apply context filters, so they are matched here
// entry by entry. A missing directory is reported as ErrPathNotExist with
// errs.ErrNotFound in its cause chain.
func ListDir(ctx context.Context, f fs.Fs, dir string, filters []string) ([]DirEntry, error) {
	fi, err := NewFilterFromRules(filters)
	if err != nil {
		return nil, err
	}

	entries, err := f.List(ctx, dir)
	if err != nil {
		display := path.Join(fs.ConfigString(f), dir)
		if errors.Is(err, fs.ErrorDirNotFound) {
			return nil, i18n.NewI18nErrorWithData(i18n.ErrPathNotExist, map[string]any{"Path": display}).
				WithCause(errors.Join(errs.ErrNotFound, err))
		}
		return nil, i18n.NewI18nErrorWithData(i18n.ErrFailedToList, map[string]any{"Path": display}).WithCause(err)
	}

	var result []DirEntry
	for _, entry := range entries {
		entryRemote := entry.Remote()
		entryName := ExtractEntryName(entryRemote)

		if fi != nil {
			relative := strings.TrimPrefix(strings.TrimPrefix(entryRemote, dir), "/")
			if !fi.IncludeRemote(relative) {
				continue
			}
		}

		switch e := entry.(type) {
		case fs.Directory:
			result = append(result, DirEntry{Name: entryName, Path: entryRemote, IsDir: true, Size: -1})
		case fs.Object:
			result = append(result, DirEntry{Name: entryName, Path: entryRemote, Size: e.Size()})
		}
	}

	return result, nil
}
