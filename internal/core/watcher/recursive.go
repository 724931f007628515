// Package watcher triggers work when files under a local directory change.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"go.uber.org/zap"
)

// ErrNotADirectory is returned when a watch root is not a directory.
const ErrNotADirectory = errs.ConstError("path is not a directory")

// RecursiveWatcher wraps fsnotify.Watcher so that adding a directory also
// watches everything below it, including directories created later.
type RecursiveWatcher struct {
	fsWatcher *fsnotify.Watcher
	log       *zap.Logger

	mu      sync.Mutex
	watched map[string]struct{}

	events chan fsnotify.Event
	errors chan error
	done   chan struct{}
	once   sync.Once
}

// NewRecursiveWatcher creates a watcher with nothing watched yet.
func NewRecursiveWatcher() (*RecursiveWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	rw := &RecursiveWatcher{
		fsWatcher: fsWatcher,
		log:       logger.Named("vfs.watcher"),
		watched:   make(map[string]struct{}),
		events:    make(chan fsnotify.Event),
		errors:    make(chan error),
		done:      make(chan struct{}),
	}
	go rw.loop()
	return rw, nil
}

func (rw *RecursiveWatcher) Events() chan fsnotify.Event {
	return rw.events
}

func (rw *RecursiveWatcher) Errors() chan error {
	return rw.errors
}

// Close stops the watcher. It is safe to call more than once.
func (rw *RecursiveWatcher) Close() error {
	var err error
	rw.once.Do(func() {
		close(rw.done)
		err = rw.fsWatcher.Close()
	})
	return err
}

// Add watches root and every directory below it.
func (rw *RecursiveWatcher) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrNotADirectory
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.addTreeLocked(filepath.Clean(root))
}

// Watched returns the number of directories currently watched.
func (rw *RecursiveWatcher) Watched() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return len(rw.watched)
}

func (rw *RecursiveWatcher) addTreeLocked(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rw.log.Warn("Error walking path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		if _, ok := rw.watched[path]; ok {
			return nil
		}
		if err := rw.fsWatcher.Add(path); err != nil {
			return err
		}
		rw.watched[path] = struct{}{}
		rw.log.Debug("Added watch", zap.String("path", path))
		return nil
	})
}

func (rw *RecursiveWatcher) forget(path string) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	for dir := range rw.watched {
		if within(path, dir) {
			delete(rw.watched, dir)
		}
	}
}

func (rw *RecursiveWatcher) loop() {
	defer close(rw.events)
	defer close(rw.errors)

	for {
		select {
		case <-rw.done:
			return
		case event, ok := <-rw.fsWatcher.Events:
			if !ok {
				return
			}
			if hidden(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					rw.mu.Lock()
					_ = rw.addTreeLocked(event.Name)
					rw.mu.Unlock()
				}
			}
			// fsnotify drops watches of removed directories on its own.
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				rw.forget(event.Name)
			}

			select {
			case rw.events <- event:
			case <-rw.done:
				return
			}
		case err, ok := <-rw.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case rw.errors <- err:
			case <-rw.done:
				return
			}
		}
	}
}

// hidden reports whether the last element of path starts with a dot.
func hidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
