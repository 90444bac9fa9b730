package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// SiteWatchExtensions are the file types that trigger a browser reload.
var SiteWatchExtensions = []string{".html", ".css", ".js", ".svg", ".png", ".jpg", ".jpeg", ".webp", ".ico", ".txt"}

// Watcher calls onChange once per burst of edits under the site directory.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration
	logger   zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

func NewWatcher(onChange func(), debounce time.Duration, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		onChange: onChange,
		debounce: debounce,
		logger:   logger.With().Str("component", "watcher").Logger(),
	}, nil
}

// AddDirectory watches dir and every directory below it.
func (w *Watcher) AddDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.AddDirectory(event.Name); err != nil {
						w.logger.Warn().Err(err).Msg("watch new directory")
					}
					continue
				}
			}

			if event.Op == fsnotify.Chmod || !shouldReload(event.Name) {
				continue
			}

			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func shouldReload(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, allowed := range SiteWatchExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
