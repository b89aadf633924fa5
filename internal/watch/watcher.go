// Package watch invalidates rendered feeds when content files change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

// DefaultDebounce collapses bursts of editor saves into one trigger.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrRootRequired is returned when no directory is configured.
	ErrRootRequired = errors.New("watch: root directory required")
	// ErrTriggerRequired is returned when no trigger is configured.
	ErrTriggerRequired = errors.New("watch: trigger required")
)

// Trigger receives the sorted set of paths that changed during one debounce window.
type Trigger func(ctx context.Context, paths []string) error

// Config controls a Watcher.
type Config struct {
	Root       string
	Debounce   time.Duration
	Extensions []string
}

// Watcher follows every directory below Root and fires Trigger after changes settle.
type Watcher struct {
	cfg     Config
	trigger Trigger
	logger  interfaces.Logger
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a watcher and registers Root and its subdirectories.
func New(cfg Config, trigger Trigger, logger interfaces.Logger) (*Watcher, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, ErrRootRequired
	}
	if trigger == nil {
		return nil, ErrTriggerRequired
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".md", ".png", ".jpg", ".jpeg"}
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		cfg:     cfg,
		trigger: trigger,
		logger:  logger,
		fsw:     fsw,
		pending: make(map[string]struct{}),
	}
	if err := w.addTree(cfg.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run consumes filesystem events until ctx is cancelled. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	w.logger.Info("watch.started", "root", w.cfg.Root, "debounce", w.cfg.Debounce.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped", "root", w.cfg.Root)
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch.error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := w.addTree(event.Name); err != nil {
			w.logger.Warn("watch.add_failed", "path", event.Name, "error", err)
		}
		w.schedule(ctx, event.Name)
		return
	}
	if !w.relevant(event.Name) {
		return
	}
	w.logger.Debug("watch.change", "path", event.Name, "op", event.Op.String())
	w.schedule(ctx, event.Name)
}

func (w *Watcher) schedule(ctx context.Context, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[w.relative(name)] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	w.timer = nil
	w.mu.Unlock()

	if len(paths) == 0 || ctx.Err() != nil {
		return
	}
	sort.Strings(paths)
	if err := w.trigger(ctx, paths); err != nil {
		w.logger.Error("watch.trigger_failed", "paths", paths, "error", err)
		return
	}
	w.logger.Info("watch.triggered", "path_count", len(paths))
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	w.fsw.Close()
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return slices.Contains(w.cfg.Extensions, strings.ToLower(filepath.Ext(base)))
}

func (w *Watcher) relative(name string) string {
	rel, err := filepath.Rel(w.cfg.Root, name)
	if err != nil {
		return filepath.ToSlash(name)
	}
	return filepath.ToSlash(rel)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
