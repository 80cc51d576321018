package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanshika/rxnpath/internal/domain"
)

// ReloadFunc receives every reload attempt. On failure ref is nil and the
// previous data should stay in use.
type ReloadFunc func(ref *domain.ReferenceData, err error)

// Watcher reloads a bundle directory after its JSON files change. Bursts of
// events within the debounce window trigger a single reload.
type Watcher struct {
	dir      string
	debounce time.Duration
	onReload ReloadFunc
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching dir. Call Run to process events; Run closes the
// underlying watcher when it returns.
func NewWatcher(dir string, debounce time.Duration, onReload ReloadFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onReload: onReload,
		logger:   logger,
		watcher:  fw,
	}, nil
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("bundle changed", "file", filepath.Base(event.Name), "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("bundle watcher error", "error", err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	ref, err := Load(w.dir)
	if err != nil {
		w.logger.Error("bundle reload failed", "dir", w.dir, "error", err)
		w.onReload(nil, err)
		return
	}
	w.onReload(ref, nil)
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".json") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
