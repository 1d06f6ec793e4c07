// Package watch reports batches of changed C++ headers below a set of
// directory trees.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/ardnew/pxx/log"
	"github.com/ardnew/pxx/pkg"
)

// ErrPattern is returned by [New] when an exclude glob does not compile.
var ErrPattern = pkg.MakeErrorf("invalid exclude pattern")

// DefaultDebounce is the quiet period after the last event of a batch.
const DefaultDebounce = 250 * time.Millisecond

// Extensions are the file extensions treated as headers by default.
var Extensions = []string{".h", ".hh", ".hpp", ".hxx"}

// Watcher collects file events and calls its handler with every header
// changed since the previous call, once events have stopped for the
// debounce period. Handler calls never overlap.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	exclude   []glob.Glob
	exts      []string
	log       log.Logger
	onChange  func([]string)
	errs      []error

	callbackMu sync.Mutex

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
}

// Option configures a [Watcher].
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event of a batch.
// Non-positive durations keep [DefaultDebounce].
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExclude skips files and directories whose base name matches one of
// the glob patterns.
func WithExclude(patterns ...string) Option {
	return func(w *Watcher) {
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				w.errs = append(w.errs, ErrPattern.Wrapf("%q: %w", p, err))

				continue
			}

			w.exclude = append(w.exclude, g)
		}
	}
}

// WithExtensions replaces the file extensions treated as headers.
// Matching ignores case.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make([]string, len(exts))
		for i, e := range exts {
			w.exts[i] = strings.ToLower(e)
		}
	}
}

// WithLogger sets the logger receiving event and error records.
func WithLogger(l log.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New returns a watcher calling onChange with batches of changed headers.
func New(onChange func([]string), opts ...Option) (*Watcher, error) {
	w := &Watcher{
		debounce: DefaultDebounce,
		exts:     Extensions,
		log:      log.Default(),
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	if err := errors.Join(w.errs...); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w.fsWatcher = fsw

	return w, nil
}

// Add watches every directory below the given roots.
func (w *Watcher) Add(roots ...string) error {
	for _, root := range roots {
		if err := w.watchRecursive(root); err != nil {
			return err
		}
	}

	return nil
}

// Headers returns the headers below root that are not excluded.
func (w *Watcher) Headers(root string) []string {
	var out []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return nil
		case d.IsDir():
			if path != root && w.excluded(path) {
				return filepath.SkipDir
			}
		case w.isHeader(path):
			out = append(out, path)
		}

		return nil
	})

	return out
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}

			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}

			w.log.ErrorContext(ctx, "watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.excluded(event.Name) {
				return
			}

			if err := w.watchRecursive(event.Name); err != nil {
				w.log.Warn("failed to watch new directory",
					slog.String("path", event.Name),
					slog.String("error", err.Error()),
				)

				return
			}

			for _, path := range w.Headers(event.Name) {
				w.scheduleChange(path)
			}

			return
		}
	}

	if !w.isHeader(event.Name) {
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.log.Trace("header changed",
			slog.String("path", event.Name),
			slog.String("op", event.Op.String()),
		)
		w.scheduleChange(event.Name)
	}
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && w.excluded(path) {
			return filepath.SkipDir
		}

		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}

	slices.Sort(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()

	w.onChange(paths)
}

func (w *Watcher) excluded(path string) bool {
	base := filepath.Base(path)

	for _, g := range w.exclude {
		if g.Match(base) {
			return true
		}
	}

	return false
}

func (w *Watcher) isHeader(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return slices.Contains(w.exts, ext) && !w.excluded(path)
}

// Close stops the watcher. Pending changes are dropped.
func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()

	return w.fsWatcher.Close()
}
