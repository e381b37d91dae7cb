package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event represents a qualifying filesystem change.
type Event struct {
	// Path is the absolute path to the file that changed.
	Path string
	// Op is the fsnotify operation that occurred.
	Op fsnotify.Op
}

// Watcher watches a directory tree recursively for changes.
// It uses fsnotify for cross-platform file system event monitoring;
// since inotify-style backends are not recursive, every directory in
// the tree is added individually and newly created directories are
// added on the fly.
type Watcher struct {
	watcher *fsnotify.Watcher
	filter  *Filter
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	root    string
}

// NewWatcher creates a new Watcher instance that skips paths matched
// by filter. The watcher must be started with Start() before it will
// emit events.
func NewWatcher(filter *Filter) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if filter == nil {
		filter = NewFilter(DefaultMetaDirs(), nil)
	}

	return &Watcher{
		watcher: fsw,
		filter:  filter,
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the directory tree rooted at root.
// Returns an error if the tree cannot be walked or watched.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve watch root: %w", err)
	}
	w.root = absRoot

	if err := w.addTree(absRoot); err != nil {
		return err
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// addTree walks the tree and adds every non-filtered directory.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to walk %s: %w", root, err)
			}
			// Directories can vanish mid-walk; skip rather than fail.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.filter.Skip(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Stop stops watching for file system events and cleans up resources.
// It blocks until the event processing goroutine has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	// Signal shutdown
	close(w.done)

	// Close the underlying watcher (this will unblock the event loop)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	// Wait for event processing to finish
	w.wg.Wait()

	// Close channels
	close(w.events)
	close(w.errors)

	return nil
}

// Events returns the channel that emits qualifying change notifications.
// This channel is closed when the watcher is stopped.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel that emits error notifications.
// This channel is closed when the watcher is stopped.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// processEvents is the main event loop that filters fsnotify events
// and forwards qualifying ones.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if ev, ok := w.convertEvent(event); ok {
				select {
				case w.events <- ev:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// convertEvent filters an fsnotify event and converts it to an Event.
// Returns (Event{}, false) if the event should be ignored.
func (w *Watcher) convertEvent(event fsnotify.Event) (Event, bool) {
	// Ignore chmod noise
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return Event{}, false
	}

	absPath, err := filepath.Abs(event.Name)
	if err != nil {
		return Event{}, false
	}

	if w.filter.Skip(absPath) {
		return Event{}, false
	}

	// New directories must be watched to keep recursion complete. The
	// whole subtree is walked: a single create event may stand for a
	// deep tree (MkdirAll, clone, untar) whose inner directories never
	// get their own events.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(absPath); err == nil && info.IsDir() {
			// Best effort: the directory may already be gone.
			_ = w.addTree(absPath)
		}
	}

	return Event{Path: absPath, Op: event.Op}, true
}
