package vfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rclone/rclone/cmd/mountlib"
	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/config"
	"github.com/rclone/rclone/vfs/vfscommon"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"github.com/xzzpig/rclone-vfs/internal/utils"
	"go.uber.org/zap"

	// FUSE mount methods register themselves with mountlib.
	_ "github.com/rclone/rclone/cmd/mount"
	_ "github.com/rclone/rclone/cmd/mount2"
)

// MountOptions configures Mount. Nil fields keep rclone's defaults, except
// AllowWrites: mounts are read-only unless it is set to true.
type MountOptions struct {
	Config               ConfigRef
	AllowWrites          *bool
	Transfers            *int
	UseLinks             *bool
	VFSCacheMode         *string
	Verbose              *bool
	CacheDir             string
	CacheDirDeleteOnExit *bool
	LogFile              string
	// OtherArgs are passed to the FUSE layer as -o options.
	OtherArgs []string
}

// MountRequest is what a Mounter receives: the filesystem to expose and the
// fully translated rclone options.
type MountRequest struct {
	Fs          fs.Fs
	Destination string
	MountOpt    mountlib.Options
	VFSOpt      vfscommon.Options
}

// Mounter performs the actual mount. The returned function unmounts.
type Mounter interface {
	Mount(ctx context.Context, req *MountRequest) (unmount func() error, err error)
}

// DefaultMounter mounts through rclone's mountlib with the first FUSE
// method compiled in.
func DefaultMounter() Mounter {
	return mountlibMounter{}
}

type mountlibMounter struct{}

func (mountlibMounter) Mount(_ context.Context, req *MountRequest) (func() error, error) {
	method, mountFn := mountlib.ResolveMountMethod("")
	if mountFn == nil {
		return nil, errs.ConstError("no FUSE mount method available on this platform")
	}

	mnt := mountlib.NewMountPoint(mountFn, req.Destination, req.Fs, &req.MountOpt, &req.VFSOpt)
	if _, err := mnt.Mount(); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return mnt.Unmount, nil
}

// MountHandle is an active mount. Close releases it.
type MountHandle struct {
	ID          uuid.UUID
	Source      string
	Destination string

	unmount     func() error
	cacheDir    string
	deleteCache bool
	detachLog   func()
	restore     []func()
	log         *zap.Logger

	once     sync.Once
	closeErr error
}

// Close unmounts. It runs once; later calls return the first result.
func (h *MountHandle) Close() error {
	h.once.Do(func() {
		h.log.Info("Unmounting", zap.String("destination", h.Destination))
		if err := h.unmount(); err != nil {
			h.closeErr = i18n.NewI18nErrorWithData(i18n.ErrUnmountFailed, map[string]any{"Destination": h.Destination}).WithCause(err)
		}
		h.cleanup()
	})
	return h.closeErr
}

func (h *MountHandle) cleanup() {
	if h.deleteCache && h.cacheDir != "" {
		if err := os.RemoveAll(h.cacheDir); err != nil {
			h.log.Warn("Failed to remove cache dir", zap.String("dir", h.cacheDir), zap.Error(err))
		}
	}
	for i := len(h.restore) - 1; i >= 0; i-- {
		h.restore[i]()
	}
	h.restore = nil
	if h.detachLog != nil {
		h.detachLog()
	}
}

// Mount exposes source at destination through rclone's FUSE mount.
//
// Transfers, Verbose and CacheDir change rclone's process-wide settings for
// the lifetime of the mount; Close puts the previous values back.
func Mount(ctx context.Context, source, destination string, opts MountOptions) (*MountHandle, error) {
	return MountWith(ctx, DefaultMounter(), source, destination, opts)
}

// MountWith is Mount with an explicit mount mechanism. A source that needs
// a configuration fails before the mounter is called when none resolves.
func MountWith(ctx context.Context, m Mounter, source, destination string, opts MountOptions) (*MountHandle, error) {
	h := &MountHandle{
		ID:          uuid.New(),
		Source:      source,
		Destination: destination,
	}
	h.log = logger.Named("vfs.mount").With(zap.Stringer("mount_id", h.ID))

	ref, err := resolveRemote(source)
	if err != nil {
		return nil, err
	}
	if err := installFor(source, opts.Config); err != nil {
		return nil, err
	}

	req := &MountRequest{
		Destination: destination,
		MountOpt:    mountlib.Opt,
		VFSOpt:      vfscommon.Opt,
	}
	if err := applyMountOptions(req, opts); err != nil {
		return nil, err
	}

	if err := h.prepare(ctx, opts); err != nil {
		h.cleanup()
		return nil, err
	}

	f, err := rclone.GetFs(ctx, ref.Remote, ref.Path)
	if err != nil {
		h.cleanup()
		return nil, i18n.NewI18nErrorWithData(i18n.ErrMountFailed, map[string]any{"Source": source, "Destination": destination}).WithCause(err)
	}
	req.Fs = f

	h.log.Info("Mounting",
		zap.String("source", source),
		zap.String("destination", destination),
		zap.Bool("read_only", req.VFSOpt.ReadOnly),
		zap.String("cache_mode", req.VFSOpt.CacheMode.String()),
	)
	unmount, err := m.Mount(ctx, req)
	if err != nil {
		h.cleanup()
		return nil, i18n.NewI18nErrorWithData(i18n.ErrMountFailed, map[string]any{"Source": source, "Destination": destination}).WithCause(err)
	}
	h.unmount = unmount
	return h, nil
}

// applyMountOptions translates opts onto the per-mount rclone options.
func applyMountOptions(req *MountRequest, opts MountOptions) error {
	req.VFSOpt.ReadOnly = !utils.Deref(opts.AllowWrites, false)
	if opts.UseLinks != nil {
		req.VFSOpt.Links = *opts.UseLinks
	}
	if opts.VFSCacheMode != nil && *opts.VFSCacheMode != "" {
		if err := req.VFSOpt.CacheMode.Set(*opts.VFSCacheMode); err != nil {
			return i18n.NewI18nErrorWithData(i18n.ErrInvalidCacheMode, map[string]any{"Mode": *opts.VFSCacheMode}).
				WithCause(errors.Join(errs.ErrInvalidInput, err))
		}
	}
	req.MountOpt.ExtraOptions = slices.Concat(req.MountOpt.ExtraOptions, opts.OtherArgs)
	return nil
}

// prepare applies the process-wide settings: rclone has a single transfers
// count, log level and cache directory. cleanup restores them.
func (h *MountHandle) prepare(ctx context.Context, opts MountOptions) error {
	ci := fs.GetConfig(ctx)
	if opts.Transfers != nil && *opts.Transfers > 0 {
		prev := ci.Transfers
		ci.Transfers = *opts.Transfers
		h.restore = append(h.restore, func() { ci.Transfers = prev })
	}
	if utils.Deref(opts.Verbose, false) {
		prev := ci.LogLevel
		rclone.SetupLogLevel(string(logger.LogLevelDebug))
		h.restore = append(h.restore, func() { ci.LogLevel = prev })
	}

	h.deleteCache = utils.Deref(opts.CacheDirDeleteOnExit, false)
	h.cacheDir = opts.CacheDir
	if h.cacheDir == "" && h.deleteCache {
		dir, err := os.MkdirTemp("", "vfs-cache-")
		if err != nil {
			return i18n.NewI18nError(i18n.ErrGeneric).WithCause(errors.Join(errs.ErrSystem, err))
		}
		h.cacheDir = dir
	}
	if h.cacheDir != "" {
		prev := config.GetCacheDir()
		if err := config.SetCacheDir(h.cacheDir); err != nil {
			return i18n.NewI18nError(i18n.ErrGeneric).WithCause(errors.Join(errs.ErrSystem, err))
		}
		h.restore = append(h.restore, func() { _ = config.SetCacheDir(prev) })
	}

	if opts.LogFile != "" {
		detach, err := logger.AttachFile(opts.LogFile)
		if err != nil {
			return i18n.NewI18nError(i18n.ErrGeneric).WithCause(errors.Join(errs.ErrSystem, err))
		}
		h.detachLog = detach
		h.log = logger.Named("vfs.mount").With(zap.Stringer("mount_id", h.ID))
	}
	return nil
}
