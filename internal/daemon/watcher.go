package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/astralkit/regbuilder/internal/logfields"
)

// Watcher regenerates the registry when metadata under the plugin root
// changes. Events are debounced: editors and git checkouts produce bursts,
// and one rebuild per burst is enough.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	rebuild  func()
}

// NewWatcher watches root and its immediate subdirectories (the candidate
// extension directories).
func NewWatcher(root string, debounce time.Duration, rebuild func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("resolve plugin root: %w", err)
	}

	w := &Watcher{
		root:     absRoot,
		watcher:  fsWatcher,
		debounce: debounce,
		rebuild:  rebuild,
	}

	if err := w.addWatches(); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addWatches() error {
	if err := w.watcher.Add(w.root); err != nil {
		return fmt.Errorf("watch plugin root %s: %w", w.root, err)
	}

	dirEntries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("enumerate plugin root %s: %w", w.root, err)
	}
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		dir := filepath.Join(w.root, de.Name())
		if err := w.watcher.Add(dir); err != nil {
			slog.Warn("Cannot watch extension directory", logfields.Path(dir), logfields.Error(err))
		}
	}
	return nil
}

// Run processes events until ctx is done. Each burst of events triggers one
// rebuild after the debounce window closes.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("Watching plugin root", logfields.Path(w.root))

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			slog.Debug("Filesystem event", logfields.Path(event.Name), slog.String("op", event.Op.String()))

			// New extension directories need their own watch to see
			// metadata edits inside them.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						slog.Warn("Cannot watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))

		case <-fire:
			w.rebuild()
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
