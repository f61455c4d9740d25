package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

// PromptWatcher reloads a PromptStore whenever a prompt file changes on disk,
// so edits apply to the next analysis or chat message without a restart.
type PromptWatcher struct {
	dir      string
	store    driven.PromptStore
	watcher  *fsnotify.Watcher
	onReload func(name string)
}

// NewPromptWatcher starts watching dir. The directory is created if missing.
func NewPromptWatcher(dir string, store driven.PromptStore) (*PromptWatcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &PromptWatcher{
		dir:     dir,
		store:   store,
		watcher: watcher,
	}, nil
}

// OnReload registers a callback invoked with the prompt name after each reload.
func (w *PromptWatcher) OnReload(fn func(name string)) {
	w.onReload = fn
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *PromptWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			name, changed := w.handleFsEvent(event)
			if !changed {
				continue
			}
			w.store.Reload()
			logger.Info("prompt %q changed, reloaded prompts", name)
			if w.onReload != nil {
				w.onReload(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// Close stops watching without waiting for Run.
func (w *PromptWatcher) Close() error {
	return w.watcher.Close()
}

// handleFsEvent reports whether event touched a prompt file and which one.
func (w *PromptWatcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if filepath.Dir(event.Name) != filepath.Clean(w.dir) {
		return "", false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".txt" {
		return "", false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	return strings.TrimSuffix(base, ".txt"), true
}
