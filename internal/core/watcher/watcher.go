package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a root must stay quiet before its callback runs.
const DefaultDebounce = 2 * time.Second

// FileWatcher is the event source a Watcher consumes.
type FileWatcher interface {
	Add(string) error
	Close() error
	Events() chan fsnotify.Event
	Errors() chan error
}

// Watcher calls onChange for a root once changes below it have settled.
type Watcher struct {
	fw       FileWatcher
	onChange func(root string)
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	roots   map[string]struct{}
	timers  map[string]*time.Timer
	running bool
	stopped bool
}

// New creates a Watcher backed by a RecursiveWatcher. A non-positive debounce
// uses DefaultDebounce.
func New(debounce time.Duration, onChange func(root string)) (*Watcher, error) {
	fw, err := NewRecursiveWatcher()
	if err != nil {
		return nil, err
	}
	return newWatcher(fw, debounce, onChange), nil
}

func newWatcher(fw FileWatcher, debounce time.Duration, onChange func(root string)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		onChange: onChange,
		debounce: debounce,
		log:      logger.Named("vfs.watcher"),
		roots:    make(map[string]struct{}),
		timers:   make(map[string]*time.Timer),
	}
}

// Start begins delivering events. It does nothing if the watcher is already
// running or was stopped.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return
	}
	w.log.Info("Starting file watcher", zap.Int("roots", len(w.roots)))
	w.running = true
	go w.loop()
}

// Stop closes the underlying watcher and cancels pending callbacks. A stopped
// watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	w.running = false
	for root, t := range w.timers {
		t.Stop()
		delete(w.timers, root)
	}
	w.log.Info("Stopping file watcher")
	_ = w.fw.Close()
}

// Add starts watching root.
func (w *Watcher) Add(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fw.Add(root); err != nil {
		return err
	}
	w.roots[root] = struct{}{}
	w.log.Info("Watching path", zap.String("path", root))
	return nil
}

func (w *Watcher) loop() {
	events, errs := w.fw.Events(), w.fw.Errors()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.handle(event)
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.log.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	for root := range w.roots {
		if within(root, event.Name) {
			w.schedule(root)
		}
	}
}

// schedule (re)arms the debounce timer for root. Caller holds w.mu.
func (w *Watcher) schedule(root string) {
	if t, ok := w.timers[root]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.timers[root] == t {
			delete(w.timers, root)
		}
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		w.log.Debug("Change settled", zap.String("path", root))
		w.onChange(root)
	})
	w.timers[root] = t
}
