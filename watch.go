package civrules

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchPatterns are the files of a ruleset directory that trigger a
// reload when they change.
var DefaultWatchPatterns = []string{"*.toml"}

// DefaultDebounce is how long a Watcher waits after the last change before it
// reloads.
const DefaultDebounce = 250 * time.Millisecond

// WatchConfig configures a Watcher.
type WatchConfig struct {
	// Dir is the ruleset directory to watch.
	Dir string

	// Patterns are doublestar patterns matched against the paths of changed
	// files relative to Dir. If empty, DefaultWatchPatterns is used.
	Patterns []string

	// Debounce is how long to wait for more changes before reloading. If not
	// positive, DefaultDebounce is used.
	Debounce time.Duration

	Logger *slog.Logger
}

// Watcher calls a reload function whenever files of a ruleset directory
// change. Bursts of changes, such as an editor saving several files, cause a
// single reload.
//
// Watcher should not be created directly; use NewWatcher.
type Watcher struct {
	dir      string
	patterns []string
	debounce time.Duration
	log      *slog.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a Watcher and starts watching cfg.Dir. The returned
// Watcher must have Close called on it when it is no longer needed.
func NewWatcher(cfg WatchConfig) (*Watcher, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultWatchPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}

	return &Watcher{
		dir:      cfg.Dir,
		patterns: patterns,
		debounce: debounce,
		log:      log,
		fsw:      fsw,
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Matches returns whether a change to the file at path should cause a
// reload. path may be absolute or relative to the watched directory.
func (w *Watcher) Matches(path string) bool {
	rel := path
	if filepath.IsAbs(path) || filepath.Dir(path) != "." {
		var err error
		rel, err = filepath.Rel(w.dir, path)
		if err != nil {
			return false
		}
	}
	rel = filepath.ToSlash(rel)

	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Run calls reload each time matching files change, until ctx is done or the
// Watcher is closed. Calls to reload never overlap.
func (w *Watcher) Run(ctx context.Context, reload func()) error {
	var pending <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.Matches(event.Name) {
				continue
			}
			w.log.Debug("ruleset file changed", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("file watcher error", "error", err)

		case <-pending:
			pending = nil
			reload()
		}
	}
}
