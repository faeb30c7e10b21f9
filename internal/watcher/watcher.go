// Package watcher provides fsnotify-backed file watching with glob-aware
// registration and add/change event delivery.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

// Op is the kind of file event delivered to subscribers.
type Op int

// Event kinds. Removals and renames are not delivered; reload decisions
// only care about files appearing or changing.
const (
	OpAdd Op = iota
	OpChange
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpChange:
		return "change"
	default:
		return "unknown"
	}
}

// Event carries one add/change notification with an absolute file path.
type Event struct {
	Op   Op
	Path string
}

// Options configures watch registration.
type Options struct {
	// DisableGlobbing treats registered paths literally instead of
	// watching the directory tree under each pattern's glob base.
	DisableGlobbing bool
}

// Watcher wraps fsnotify with recursive directory registration. fsnotify
// itself is not recursive, so directory trees are walked at registration
// time and newly created subdirectories are added from the event loop.
type Watcher struct {
	fs   *fsnotify.Watcher
	opts Options

	mu       sync.RWMutex
	handlers []func(Event)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher. Call Start to begin delivering events and Close
// to release the underlying fsnotify resources.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fs:     fsw,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Add registers extra watch targets. Glob patterns are registered by their
// base directory so matching files are covered even when the pattern falls
// outside the default project scope.
func (w *Watcher) Add(patterns []string) error {
	for _, pattern := range patterns {
		target := filepath.FromSlash(pattern)
		if !w.opts.DisableGlobbing {
			target = globBase(target)
		}
		if err := w.addRecursive(target); err != nil {
			return fmt.Errorf("failed to watch %s: %w", target, err)
		}
	}
	return nil
}

// addRecursive watches path and, for directories, the whole tree beneath
// it. A target that does not exist yet is covered by watching its nearest
// existing ancestor so creation is still observed.
func (w *Watcher) addRecursive(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		parent := filepath.Dir(path)
		if parent == path {
			return fmt.Errorf("watch target %s does not exist", path)
		}
		return w.addRecursive(parent)
	}
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return w.fs.Add(path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if shouldIgnoreDir(p) {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

// Subscribe registers fn for every add and change event. All subscribers
// receive every event; there is no filtering at this layer.
func (w *Watcher) Subscribe(fn func(Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, fn)
}

// Start launches the event loop.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop()
	}()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Error("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !shouldProcessEvent(event) {
		return
	}

	op := OpChange
	if event.Op&fsnotify.Create != 0 {
		// New directories extend the watched tree instead of emitting.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !shouldIgnoreDir(event.Name) {
				if err := w.addRecursive(event.Name); err != nil {
					log.Error("Failed to watch new directory %s: %v", event.Name, err)
				}
			}
			return
		}
		op = OpAdd
	}

	log.Debug("File %s detected: %s", op, event.Name)
	w.dispatch(Event{Op: op, Path: absPath(event.Name)})
}

func (w *Watcher) dispatch(e Event) {
	w.mu.RLock()
	handlers := make([]func(Event), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}

// Close stops the event loop and releases fsnotify resources.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

// globBase returns the path prefix of a pattern up to its first wildcard
// segment. A pattern without wildcards is returned unchanged.
func globBase(pattern string) string {
	sep := string(filepath.Separator)
	segments := strings.Split(pattern, sep)

	base := make([]string, 0, len(segments))
	for _, seg := range segments {
		if strings.ContainsAny(seg, "*?[{") {
			break
		}
		base = append(base, seg)
	}

	if len(base) == len(segments) {
		return pattern
	}
	joined := strings.Join(base, sep)
	if joined == "" {
		return sep
	}
	return joined
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
