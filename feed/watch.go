package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long Watch waits for writes to settle.
const DebounceInterval = 500 * time.Millisecond

// Watch calls onChange after the file at path is written, created or
// replaced. Bursts of events within DebounceInterval collapse into one call.
// It blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	slog.Info("watching feed file", "path", path)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			// Atomic writers replace the file; the old watch is gone.
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				go func() {
					time.Sleep(100 * time.Millisecond)
					if err := watcher.Add(path); err != nil {
						slog.Warn("re-add feed watch", "path", path, "error", err)
					}
				}()
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(DebounceInterval, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("feed watcher", "path", path, "error", err)
		}
	}
}
