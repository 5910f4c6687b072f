package file

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads the config file and the prompt cache when they change on
// disk, so a long-running server follows edits without a restart.
type Watcher struct {
	config  *ConfigStore
	prompts *PromptStore
	onLoad  func()

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher watches config and prompts. Either may be nil. onLoad, if set,
// runs after each config reload.
func NewWatcher(config *ConfigStore, prompts *PromptStore, onLoad func()) *Watcher {
	return &Watcher{
		config:  config,
		prompts: prompts,
		onLoad:  onLoad,
		timers:  make(map[string]*time.Timer),
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Editors replace files by rename, so watch directories, not files.
	if w.config != nil {
		if err := fw.Add(filepath.Dir(w.config.Path())); err != nil {
			return fmt.Errorf("watch config dir: %w", err)
		}
	}
	if w.prompts != nil {
		if err := fw.Add(w.prompts.Dir()); err != nil {
			return fmt.Errorf("watch prompt dir: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	switch {
	case w.config != nil && filepath.Clean(event.Name) == filepath.Clean(w.config.Path()):
		w.debounce("config", w.reloadConfig)
	case w.prompts != nil && filepath.Dir(event.Name) == filepath.Clean(w.prompts.Dir()) &&
		filepath.Ext(event.Name) == ".txt":
		w.debounce("prompts", w.reloadPrompts)
	}
}

func (w *Watcher) debounce(key string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[key]; ok {
		t.Stop()
	}
	w.timers[key] = time.AfterFunc(reloadDelay, fn)
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
}

func (w *Watcher) reloadConfig() {
	if err := w.config.Load(); err != nil {
		logger.Warn("Config reload failed, keeping previous values: %v", err)
		return
	}
	logger.Info("Reloaded %s", w.config.Path())
	if w.onLoad != nil {
		w.onLoad()
	}
}

func (w *Watcher) reloadPrompts() {
	w.prompts.Reload()
	logger.Info("Reloaded prompts from %s", w.prompts.Dir())
}
