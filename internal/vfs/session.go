package vfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rclone/rclone/fs"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"go.uber.org/zap"
)

// Begin opens a session on source and returns the handle positioned at it.
// Remote sources resolve and install an rclone configuration first; local
// sources must exist.
func Begin(ctx context.Context, source string, conf ConfigRef) (Path, error) {
	if LooksLikeRemote(source) {
		remote, err := CreateRemote(ctx, source, conf)
		if err != nil {
			return nil, err
		}
		return remote.Cwd(), nil
	}
	local, err := CreateLocal().FromPath(ctx, source)
	if err != nil {
		return nil, err
	}
	return local, nil
}

// installFor installs the configuration resolved for source. Sources that
// need no configuration run against an empty one when none resolves.
func installFor(source string, conf ConfigRef) error {
	resolved, err := ResolveConfig(conf)
	if err != nil {
		if RequiresConfig(source) {
			return err
		}
		resolved = NoConfig
	}
	return resolved.Install()
}

// resolveRemote parses source and checks that the backend of an on-the-fly
// remote is compiled in.
func resolveRemote(source string) (RemoteRef, error) {
	ref, err := ParseRemote(source)
	if err != nil {
		return RemoteRef{}, i18n.NewI18nErrorWithData(i18n.ErrRemoteNotFound, map[string]any{"Remote": source}).
			WithCause(errors.Join(errs.ErrInvalidInput, err))
	}
	if ref.OnTheFly() && !rclone.HasProvider(ref.Backend()) {
		return RemoteRef{}, i18n.NewI18nErrorWithData(i18n.ErrRemoteNotFound, map[string]any{"Remote": ref.Name}).
			WithCause(errs.ErrNotFound)
	}
	return ref, nil
}

// RemoteFS is a session on an rclone remote.
type RemoteFS struct {
	remote string
	root   string
	file   string
	f      fs.Fs
}

// CreateRemote opens source ("remote:path") on its rclone backend.
func CreateRemote(ctx context.Context, source string, conf ConfigRef) (*RemoteFS, error) {
	source = filepath.ToSlash(source)
	if !LooksLikeRemote(source) {
		return nil, i18n.NewI18nErrorWithData(i18n.ErrRemoteNotFound, map[string]any{"Remote": source}).
			WithCause(errs.ErrInvalidInput)
	}

	ref, err := resolveRemote(source)
	if err != nil {
		return nil, err
	}
	if err := installFor(source, conf); err != nil {
		return nil, err
	}

	remote, root := ref.Remote, ref.Path
	f, err := rclone.GetFs(ctx, remote, root)
	r := &RemoteFS{remote: remote, root: root, f: f}
	switch {
	case errors.Is(err, fs.ErrorIsFile):
		// f is rooted at the parent directory.
		r.root = f.Root()
		r.file = filepath.ToSlash(filepath.Base(root))
	case err != nil:
		return nil, err
	}

	logger.Named("vfs.session").Debug("Opened remote",
		zap.String("remote", remote),
		zap.String("root", r.root),
		zap.String("backend", f.Features().Name),
	)
	return r, nil
}

// Cwd returns the handle for the path the session was opened on.
func (r *RemoteFS) Cwd() *RemotePath {
	return &RemotePath{handle: handle{f: r.f, rel: r.file}, remote: r.remote, root: r.root}
}

// Remote returns the remote name.
func (r *RemoteFS) Remote() string { return r.remote }

// Fs returns the backing rclone filesystem.
func (r *RemoteFS) Fs() fs.Fs { return r.f }

// LocalFS creates handles on the local filesystem.
type LocalFS struct{}

// CreateLocal returns a factory for local handles.
func CreateLocal() *LocalFS {
	return &LocalFS{}
}

// FromPath returns the handle for an existing local path.
func (l *LocalFS) FromPath(ctx context.Context, p string) (*LocalPath, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, i18n.NewI18nErrorWithData(i18n.ErrPathNotExist, map[string]any{"Path": p}).
			WithCause(errors.Join(errs.ErrInvalidInput, err))
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errors.Join(errs.ErrNotFound, err)
		}
		return nil, i18n.NewI18nErrorWithData(i18n.ErrPathNotExist, map[string]any{"Path": p}).WithCause(err)
	}

	root, rel := abs, ""
	if !info.IsDir() {
		root, rel = filepath.Dir(abs), filepath.Base(abs)
	}

	f, err := rclone.GetFs(ctx, "", root)
	if err != nil {
		return nil, err
	}
	return &LocalPath{handle: handle{f: f, rel: rel}, root: root}, nil
}
