package sources

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"preview-editor/internal/logger"
)

// Watcher re-delivers a file-backed handle whenever the file is rewritten.
// Rapid successive writes are debounced into one callback.
type Watcher struct {
	fs       *fsnotify.Watcher
	clock    clockwork.Clock
	debounce time.Duration
	onChange func(Handle)
	logger   logger.Logger

	mu      sync.Mutex
	target  Handle
	path    string
	dir     string
	pending clockwork.Timer

	done chan struct{}
	once sync.Once
}

func NewWatcher(clock clockwork.Clock, debounce time.Duration, onChange func(Handle), log logger.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		fs:       fs,
		clock:    clock,
		debounce: debounce,
		onChange: onChange,
		logger:   log,
		done:     make(chan struct{}),
	}, nil
}

// Watch switches the watched source to h. Handles without a local path stop
// any current watch and are otherwise ignored.
func (w *Watcher) Watch(h Handle) error {
	path := ""
	if h != nil {
		path = pathOf(h)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" {
		if err := w.fs.Remove(w.dir); err != nil {
			w.logger.Debug("SourceWatcher", "remove watch failed", map[string]interface{}{"dir": w.dir})
		}
	}
	w.target, w.path, w.dir = nil, "", ""

	if path == "" {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	// Editors often replace files by rename, so watch the directory.
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.target, w.path, w.dir = h, abs, dir
	w.logger.Debug("SourceWatcher", "watching source", map[string]interface{}{"path": abs})
	return nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("SourceWatcher", err, nil)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.target == nil || filepath.Clean(event.Name) != w.path {
		return
	}

	if w.pending != nil {
		w.pending.Reset(w.debounce)
		return
	}

	target := w.target
	w.pending = w.clock.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.pending = nil
		current := w.target
		w.mu.Unlock()

		if current != target {
			return
		}
		w.logger.Info("SourceWatcher", "source changed on disk", map[string]interface{}{
			"source": target.Name(),
		})
		w.onChange(target)
	})
}

func (w *Watcher) Shutdown() {
	if err := w.Close(); err != nil {
		w.logger.Error("SourceWatcher", err, nil)
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.pending != nil {
			w.pending.Stop()
			w.pending = nil
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}
