// Package watch regenerates the site configuration when the documentation
// tree changes, either from file system events or on a fixed interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Options configures a Watcher.
type Options struct {
	Root       string
	Extensions []string
	Exclude    []string
	// Ignore lists files whose changes never trigger, such as the generated output.
	Ignore   []string
	Debounce time.Duration
	MaxDelay time.Duration
}

// Watcher watches a documentation tree recursively.
type Watcher struct {
	opts      Options
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	ignore    map[string]struct{}
}

// New creates a watcher calling onChange once per burst of relevant changes.
func New(opts Options, onChange func(context.Context, Batch)) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".md"}
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve docs root: %w", err)
	}
	opts.Root = root

	d, err := NewDebouncer(opts.Debounce, opts.MaxDelay, onChange)
	if err != nil {
		return nil, err
	}

	ignore := make(map[string]struct{}, len(opts.Ignore))
	for _, p := range opts.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignore[abs] = struct{}{}
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{opts: opts, fsw: fsw, debouncer: d, ignore: ignore}, nil
}

// Run watches until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addTree(w.opts.Root); err != nil {
		return err
	}
	slog.Info("Watching documentation tree", logfields.Dir(w.opts.Root))

	go w.debouncer.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if _, skip := w.ignore[event.Name]; skip {
		return
	}
	if w.excluded(event.Name) {
		return
	}

	name := filepath.Base(event.Name)
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Dir(event.Name), logfields.Error(err))
			}
			w.trigger(event)
			return
		}
		if w.isMarkdown(name) {
			w.trigger(event)
		}
	case event.Has(fsnotify.Write):
		if w.isMarkdown(name) {
			w.trigger(event)
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// Removed directories cannot be told apart from files any more.
		if w.isMarkdown(name) || path.Ext(name) == "" {
			w.trigger(event)
		}
	}
}

func (w *Watcher) trigger(event fsnotify.Event) {
	slog.Debug("Documentation change detected", logfields.Path(event.Name), logfields.Event(event.Op.String()))
	w.debouncer.Trigger(event.Op.String() + " " + event.Name)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			slog.Warn("Skipping unreadable directory", logfields.Dir(p), logfields.Error(err))
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.opts.Root && w.excludedName(d.Name()) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// excluded reports whether any path element below the root matches an exclusion glob.
func (w *Watcher) excluded(p string) bool {
	rel, err := filepath.Rel(w.opts.Root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.excludedName(part) {
			return true
		}
	}
	return false
}

func (w *Watcher) excludedName(name string) bool {
	for _, pattern := range w.opts.Exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) isMarkdown(name string) bool {
	ext := path.Ext(name)
	for _, want := range w.opts.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
