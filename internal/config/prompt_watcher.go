package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"talentscout/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// PromptWatcher reloads prompt override files when they change on disk
type PromptWatcher struct {
	cfg           PromptsConfig
	debounceDelay time.Duration
	onReload      func(PromptOverrides)
	logger        *errors.Logger

	mu            sync.Mutex
	debounceTimer *time.Timer
	reloadChan    chan struct{}
}

// NewPromptWatcher creates a watcher for the files named in cfg.
// onReload receives the freshly loaded overrides after each debounced change.
func NewPromptWatcher(cfg PromptsConfig, onReload func(PromptOverrides), logger *errors.Logger) *PromptWatcher {
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &PromptWatcher{
		cfg:           cfg,
		debounceDelay: delay,
		onReload:      onReload,
		logger:        logger,
		reloadChan:    make(chan struct{}, 1),
	}
}

// Run watches until ctx is cancelled. It returns nil immediately when no prompt files are configured.
func (pw *PromptWatcher) Run(ctx context.Context) error {
	files := pw.cfg.Files()
	if len(files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create prompt file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			pw.logger.LogError(closeErr, "Failed to close prompt file watcher")
		}
	}()

	// Watch directories so editors that replace files atomically still trigger events
	var dirs []string
	for _, file := range files {
		dir := filepath.Dir(file)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}
	pw.logger.Info("Prompt file watcher started", "files", files, "debounce_delay", pw.debounceDelay)

	defer pw.stopTimer()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if pw.shouldProcessEvent(event, files) {
				pw.scheduleReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			pw.logger.LogError(err, "Prompt file watcher error")

		case <-pw.reloadChan:
			pw.reload()

		case <-ctx.Done():
			pw.logger.Info("Prompt file watcher stopped")
			return nil
		}
	}
}

func (pw *PromptWatcher) shouldProcessEvent(event fsnotify.Event, files []string) bool {
	matched := slices.ContainsFunc(files, func(file string) bool {
		return event.Name == file || filepath.Clean(event.Name) == filepath.Clean(file) ||
			filepath.Base(event.Name) == filepath.Base(file)
	})
	if !matched {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (pw *PromptWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- struct{}{}:
		default:
			// reload already pending
		}
	})
}

func (pw *PromptWatcher) stopTimer() {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
}

func (pw *PromptWatcher) reload() {
	overrides, err := pw.cfg.LoadOverrides()
	if err != nil {
		// Keep serving the previous templates; a half-written file is retried on the next event
		pw.logger.LogError(err, "Failed to reload prompt files")
		return
	}
	pw.logger.Info("Prompt files reloaded", "overrides", overrides.Count())
	pw.onReload(overrides)
}
