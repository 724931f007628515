package vfs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/operations"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
)

// Kind tells local and remote path handles apart.
type Kind int

const (
	KindLocal Kind = iota
	KindRemote
)

func (k Kind) String() string {
	if k == KindRemote {
		return "remote"
	}
	return "local"
}

// Path is a cursor on a file or directory of a local or remote filesystem.
// The kind of a handle is fixed when it is created; Join keeps it.
type Path interface {
	// String returns the path as a user would type it.
	String() string
	Kind() Kind
	// Join returns the handle for a path below this one.
	Join(elem ...string) Path
	// Ls lists the directory, optionally through rclone filter rules.
	Ls(ctx context.Context, filters ...string) (*Listing, error)
	Read(ctx context.Context) ([]byte, error)
	ReadText(ctx context.Context) (string, error)
	Write(ctx context.Context, data []byte) error
	WriteText(ctx context.Context, text string) error
	Exists(ctx context.Context) (bool, error)
	Mkdir(ctx context.Context) error
	// Remove deletes a file, or a directory with everything under it.
	Remove(ctx context.Context) error
	// Fs returns the rclone filesystem the session was opened on.
	Fs() fs.Fs

	dirFs(ctx context.Context) (fs.Fs, error)
}

// Listing holds the names of the entries of a directory, sorted.
type Listing struct {
	Dirs  []string
	Files []string
}

// Len returns the total number of entries.
func (l *Listing) Len() int {
	return len(l.Dirs) + len(l.Files)
}

// handle is the state shared by both kinds: an Fs and a slash-separated
// path relative to its root.
type handle struct {
	f   fs.Fs
	rel string
}

func (h handle) join(elem ...string) handle {
	p := strings.TrimPrefix(path.Join(append([]string{h.rel}, elem...)...), "/")
	if p == "." {
		p = ""
	}
	return handle{f: h.f, rel: p}
}

func (h handle) display() string {
	return path.Join(fs.ConfigString(h.f), h.rel)
}

func (h handle) notFound(err error) error {
	return i18n.NewI18nErrorWithData(i18n.ErrPathNotExist, map[string]any{"Path": h.display()}).
		WithCause(errors.Join(errs.ErrNotFound, err))
}

func (h handle) ls(ctx context.Context, filters []string) (*Listing, error) {
	// A file lists as itself.
	if h.rel != "" {
		if _, err := h.f.NewObject(ctx, h.rel); err == nil {
			return &Listing{Files: []string{path.Base(h.rel)}}, nil
		}
	}

	entries, err := rclone.ListDir(ctx, h.f, h.rel, filters)
	if err != nil {
		return nil, err
	}

	listing := &Listing{}
	for _, e := range entries {
		if e.IsDir {
			listing.Dirs = append(listing.Dirs, e.Name)
		} else {
			listing.Files = append(listing.Files, e.Name)
		}
	}
	slices.Sort(listing.Dirs)
	slices.Sort(listing.Files)
	return listing, nil
}

func (h handle) object(ctx context.Context) (fs.Object, error) {
	obj, err := h.f.NewObject(ctx, h.rel)
	if errors.Is(err, fs.ErrorObjectNotFound) || errors.Is(err, fs.ErrorIsDir) || errors.Is(err, fs.ErrorNotAFile) {
		return nil, h.notFound(err)
	}
	if err != nil {
		return nil, i18n.NewI18nErrorWithData(i18n.ErrFailedToRead, map[string]any{"Path": h.display()}).WithCause(err)
	}
	return obj, nil
}

func (h handle) read(ctx context.Context) ([]byte, error) {
	obj, err := h.object(ctx)
	if err != nil {
		return nil, err
	}

	rc, err := obj.Open(ctx)
	if err != nil {
		return nil, i18n.NewI18nErrorWithData(i18n.ErrFailedToRead, map[string]any{"Path": h.display()}).WithCause(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, i18n.NewI18nErrorWithData(i18n.ErrFailedToRead, map[string]any{"Path": h.display()}).WithCause(err)
	}
	return data, nil
}

func (h handle) write(ctx context.Context, data []byte) error {
	if h.rel == "" {
		return i18n.NewI18nErrorWithData(i18n.ErrFailedToWrite, map[string]any{"Path": h.display()}).
			WithCause(fs.ErrorIsDir)
	}
	_, err := operations.Rcat(ctx, h.f, h.rel, io.NopCloser(bytes.NewReader(data)), time.Now(), nil)
	if err != nil {
		return i18n.NewI18nErrorWithData(i18n.ErrFailedToWrite, map[string]any{"Path": h.display()}).WithCause(err)
	}
	return nil
}

func (h handle) exists(ctx context.Context) (bool, error) {
	if h.rel != "" {
		_, err := h.f.NewObject(ctx, h.rel)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, fs.ErrorIsDir):
			return true, nil
		case !errors.Is(err, fs.ErrorObjectNotFound) && !errors.Is(err, fs.ErrorNotAFile):
			return false, err
		}
	}

	entries, err := h.f.List(ctx, h.rel)
	switch {
	case err == nil:
		// Bucket based backends have no empty directories below the bucket.
		if len(entries) == 0 && h.rel != "" && h.f.Features().BucketBased {
			return false, nil
		}
		return true, nil
	case errors.Is(err, fs.ErrorDirNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (h handle) mkdir(ctx context.Context) error {
	if err := h.f.Mkdir(ctx, h.rel); err != nil {
		return i18n.NewI18nErrorWithData(i18n.ErrFailedToWrite, map[string]any{"Path": h.display()}).WithCause(err)
	}
	return nil
}

func (h handle) remove(ctx context.Context) error {
	if h.rel != "" {
		obj, err := h.f.NewObject(ctx, h.rel)
		if err == nil {
			if err := obj.Remove(ctx); err != nil {
				return i18n.NewI18nErrorWithData(i18n.ErrFailedToWrite, map[string]any{"Path": h.display()}).WithCause(err)
			}
			return nil
		}
	}

	ok, err := h.exists(ctx)
	if err == nil && !ok {
		return h.notFound(fs.ErrorDirNotFound)
	}
	if err == nil {
		err = operations.Purge(ctx, h.f, h.rel)
	}
	if err != nil {
		return i18n.NewI18nErrorWithData(i18n.ErrFailedToWrite, map[string]any{"Path": h.display()}).WithCause(err)
	}
	return nil
}

// LocalPath is a path on the local filesystem.
type LocalPath struct {
	handle
	root string
}

var _ Path = (*LocalPath)(nil)

func (p *LocalPath) String() string {
	return p.OSPath()
}

func (p *LocalPath) Kind() Kind {
	return KindLocal
}

func (p *LocalPath) Fs() fs.Fs {
	return p.f
}

func (p *LocalPath) Join(elem ...string) Path {
	return &LocalPath{handle: p.join(elem...), root: p.root}
}

func (p *LocalPath) Read(ctx context.Context) ([]byte, error) {
	return p.read(ctx)
}

func (p *LocalPath) Write(ctx context.Context, data []byte) error {
	return p.write(ctx, data)
}

func (p *LocalPath) Exists(ctx context.Context) (bool, error) {
	return p.exists(ctx)
}

func (p *LocalPath) Mkdir(ctx context.Context) error {
	return p.mkdir(ctx)
}

func (p *LocalPath) Remove(ctx context.Context) error {
	return p.remove(ctx)
}

// OSPath returns the path in the operating system's form.
func (p *LocalPath) OSPath() string {
	return filepath.Join(p.root, filepath.FromSlash(p.rel))
}

func (p *LocalPath) Ls(ctx context.Context, filters ...string) (*Listing, error) {
	return p.ls(ctx, filters)
}

func (p *LocalPath) ReadText(ctx context.Context) (string, error) {
	data, err := p.read(ctx)
	return string(data), err
}

func (p *LocalPath) WriteText(ctx context.Context, text string) error {
	return p.write(ctx, []byte(text))
}

func (p *LocalPath) dirFs(ctx context.Context) (fs.Fs, error) {
	return rclone.GetFs(ctx, "", p.OSPath())
}

// RemotePath is a path on an rclone remote.
type RemotePath struct {
	handle
	remote string
	root   string
}

var _ Path = (*RemotePath)(nil)

func (p *RemotePath) Kind() Kind {
	return KindRemote
}

func (p *RemotePath) Fs() fs.Fs {
	return p.f
}

func (p *RemotePath) Join(elem ...string) Path {
	return &RemotePath{handle: p.join(elem...), remote: p.remote, root: p.root}
}

func (p *RemotePath) Read(ctx context.Context) ([]byte, error) {
	return p.read(ctx)
}

func (p *RemotePath) Write(ctx context.Context, data []byte) error {
	return p.write(ctx, data)
}

func (p *RemotePath) Exists(ctx context.Context) (bool, error) {
	return p.exists(ctx)
}

func (p *RemotePath) Mkdir(ctx context.Context) error {
	return p.mkdir(ctx)
}

func (p *RemotePath) Remove(ctx context.Context) error {
	return p.remove(ctx)
}

// Remote returns the name of the remote, e.g. "dst" for "dst:books".
func (p *RemotePath) Remote() string {
	return p.remote
}

// String returns "remote:path".
func (p *RemotePath) String() string {
	return p.remote + ":" + p.pathInRemote()
}

func (p *RemotePath) pathInRemote() string {
	if p.rel == "" {
		return p.root
	}
	return path.Join(p.root, p.rel)
}

func (p *RemotePath) Ls(ctx context.Context, filters ...string) (*Listing, error) {
	return p.ls(ctx, filters)
}

func (p *RemotePath) ReadText(ctx context.Context) (string, error) {
	data, err := p.read(ctx)
	return string(data), err
}

func (p *RemotePath) WriteText(ctx context.Context, text string) error {
	return p.write(ctx, []byte(text))
}

func (p *RemotePath) dirFs(ctx context.Context) (fs.Fs, error) {
	return rclone.GetFs(ctx, p.remote, p.pathInRemote())
}
