package explorer

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher follows a single directory, the explorer's Cwd, and reports changes
// in it.
type Watcher struct {
	fs *fsnotify.Watcher

	mu  sync.Mutex
	dir string
}

func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{fs: fw}, nil
}

// Follow moves the watch to dir. Watching the same directory again is a no-op.
func (w *Watcher) Follow(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.fs.Remove(w.dir)
	}
	if err := w.fs.Add(dir); err != nil {
		w.dir = ""
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	return nil
}

func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Wait blocks for the next event in the watched directory. It returns false
// once the watcher has been closed. Watch errors are skipped.
func (w *Watcher) Wait() (fsnotify.Event, bool) {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return fsnotify.Event{}, false
			}
			return ev, true
		case _, ok := <-w.fs.Errors:
			if !ok {
				return fsnotify.Event{}, false
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
